package entities

import (
	"strings"
	"time"

	apperrors "github.com/clinicboard/scheduling-service/pkg/errors"
)

// AppointmentType categorizes an appointment and drives its per-type
// booking policy
type AppointmentType string

const (
	AppointmentTypeFirstConsultation AppointmentType = "FIRST_CONSULTATION"
	AppointmentTypeFollowUp          AppointmentType = "FOLLOW_UP"
	AppointmentTypeEmergency         AppointmentType = "EMERGENCY"
	AppointmentTypeProcedure         AppointmentType = "PROCEDURE"
	AppointmentTypeExam              AppointmentType = "EXAM"
	AppointmentTypeVaccination       AppointmentType = "VACCINATION"
	AppointmentTypeTelemedicine      AppointmentType = "TELEMEDICINE"
)

type typePolicy struct {
	displayName        string
	defaultDuration    time.Duration
	minimumAdvance     time.Duration
	telemedicine       bool
	sameDayBooking     bool
	specialPreparation bool
	reschedulable      bool
}

// typePolicies is a read-only lookup; per-type rules live here and nowhere
// else.
var typePolicies = map[AppointmentType]typePolicy{
	AppointmentTypeFirstConsultation: {
		displayName:     "First consultation",
		defaultDuration: 60 * time.Minute,
		minimumAdvance:  24 * time.Hour,
		telemedicine:    true,
		reschedulable:   true,
	},
	AppointmentTypeFollowUp: {
		displayName:     "Follow-up",
		defaultDuration: 30 * time.Minute,
		minimumAdvance:  4 * time.Hour,
		telemedicine:    true,
		sameDayBooking:  true,
		reschedulable:   true,
	},
	AppointmentTypeEmergency: {
		displayName:     "Emergency",
		defaultDuration: 45 * time.Minute,
		minimumAdvance:  0,
		sameDayBooking:  true,
	},
	AppointmentTypeProcedure: {
		displayName:        "Procedure",
		defaultDuration:    90 * time.Minute,
		minimumAdvance:     48 * time.Hour,
		specialPreparation: true,
		reschedulable:      true,
	},
	AppointmentTypeExam: {
		displayName:        "Exam",
		defaultDuration:    30 * time.Minute,
		minimumAdvance:     48 * time.Hour,
		specialPreparation: true,
		reschedulable:      true,
	},
	AppointmentTypeVaccination: {
		displayName:     "Vaccination",
		defaultDuration: 15 * time.Minute,
		minimumAdvance:  2 * time.Hour,
		sameDayBooking:  true,
	},
	AppointmentTypeTelemedicine: {
		displayName:     "Telemedicine",
		defaultDuration: 30 * time.Minute,
		minimumAdvance:  12 * time.Hour,
		reschedulable:   true,
	},
}

// IsValid reports whether t belongs to the closed type set
func (t AppointmentType) IsValid() bool {
	_, ok := typePolicies[t]
	return ok
}

// DisplayName returns the human-readable type name
func (t AppointmentType) DisplayName() string {
	return typePolicies[t].displayName
}

// DefaultDuration returns the expected consultation length for the type
func (t AppointmentType) DefaultDuration() time.Duration {
	return typePolicies[t].defaultDuration
}

// MinimumAdvanceNotice returns how far ahead this type must be booked
func (t AppointmentType) MinimumAdvanceNotice() time.Duration {
	return typePolicies[t].minimumAdvance
}

// CanBeTelemedicine reports whether the type may be delivered remotely
func (t AppointmentType) CanBeTelemedicine() bool {
	return typePolicies[t].telemedicine
}

// CanBeSameDayBooking reports whether the type may be booked on the day of
// the visit
func (t AppointmentType) CanBeSameDayBooking() bool {
	return typePolicies[t].sameDayBooking
}

// RequiresSpecialPreparation reports whether the patient must prepare
// ahead of the visit
func (t AppointmentType) RequiresSpecialPreparation() bool {
	return typePolicies[t].specialPreparation
}

// AllowsRescheduling reports whether bookings of this type may be moved
func (t AppointmentType) AllowsRescheduling() bool {
	return typePolicies[t].reschedulable
}

// IsUrgent reports whether the type bypasses advance-notice requirements
func (t AppointmentType) IsUrgent() bool {
	return t == AppointmentTypeEmergency
}

// ParseAppointmentType resolves raw into a member of the closed type set.
// An empty value defaults to FOLLOW_UP.
func ParseAppointmentType(raw string) (AppointmentType, error) {
	if strings.TrimSpace(raw) == "" {
		return AppointmentTypeFollowUp, nil
	}

	appointmentType := AppointmentType(strings.ToUpper(strings.TrimSpace(raw)))
	if !appointmentType.IsValid() {
		return "", apperrors.NewInvalidAppointmentError("unknown appointment type: " + raw)
	}
	return appointmentType, nil
}
