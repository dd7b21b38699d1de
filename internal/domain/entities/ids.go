package entities

import (
	"github.com/google/uuid"

	apperrors "github.com/clinicboard/scheduling-service/pkg/errors"
)

// AppointmentID uniquely identifies an appointment. Generated once at
// creation and never reused.
type AppointmentID string

// NewAppointmentID generates a fresh appointment identifier
func NewAppointmentID() AppointmentID {
	return AppointmentID(uuid.New().String())
}

// ParseAppointmentID validates raw as a UUID-backed appointment identifier
func ParseAppointmentID(raw string) (AppointmentID, error) {
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewInvalidAppointmentError("appointment id must be a valid UUID: " + raw)
	}
	return AppointmentID(raw), nil
}

func (id AppointmentID) String() string {
	return string(id)
}

// IsZero reports whether the identifier has not been assigned yet
func (id AppointmentID) IsZero() bool {
	return id == ""
}

// PatientID identifies the patient an appointment belongs to
type PatientID string

// NewPatientID generates a fresh patient identifier
func NewPatientID() PatientID {
	return PatientID(uuid.New().String())
}

// ParsePatientID validates raw as a UUID-backed patient identifier
func ParsePatientID(raw string) (PatientID, error) {
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewInvalidAppointmentError("patient id must be a valid UUID: " + raw)
	}
	return PatientID(raw), nil
}

func (id PatientID) String() string {
	return string(id)
}

// ProfessionalID identifies the professional an appointment is booked with
type ProfessionalID string

// NewProfessionalID generates a fresh professional identifier
func NewProfessionalID() ProfessionalID {
	return ProfessionalID(uuid.New().String())
}

// ParseProfessionalID validates raw as a UUID-backed professional identifier
func ParseProfessionalID(raw string) (ProfessionalID, error) {
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewInvalidAppointmentError("professional id must be a valid UUID: " + raw)
	}
	return ProfessionalID(raw), nil
}

func (id ProfessionalID) String() string {
	return string(id)
}
