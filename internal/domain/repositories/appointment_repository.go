package repositories

import (
	"context"
	"time"

	"github.com/clinicboard/scheduling-service/internal/domain/entities"
)

// AppointmentRepository defines the persistence contract for appointments.
// Implementations must enforce atomic conflict prevention (a uniqueness
// constraint on professional and time window); the domain only supplies
// the conflict predicate consulted before that write.
type AppointmentRepository interface {
	// Create persists a new appointment
	Create(ctx context.Context, appointment *entities.Appointment) error

	// Update replaces the stored state of an appointment
	Update(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment by ID
	GetByID(ctx context.Context, id entities.AppointmentID) (*entities.Appointment, error)

	// ListByPatient retrieves a patient's appointments
	ListByPatient(ctx context.Context, patientID entities.PatientID, filter AppointmentFilter) ([]*entities.Appointment, error)

	// ListByProfessional retrieves a professional's appointments
	ListByProfessional(ctx context.Context, professionalID entities.ProfessionalID, filter AppointmentFilter) ([]*entities.Appointment, error)

	// ListByDateRange retrieves all appointments scheduled within [from, to]
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*entities.Appointment, error)

	// HasConflict reports whether an active appointment of the
	// professional overlaps the 30-minute window starting at scheduledAt
	HasConflict(ctx context.Context, professionalID entities.ProfessionalID, scheduledAt time.Time) (bool, error)
}

// AppointmentFilter defines filters for listing appointments
type AppointmentFilter struct {
	Status entities.AppointmentStatus
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// PatientRepository exposes the patient read model consulted by the
// scheduling rules
type PatientRepository interface {
	// GetByID retrieves a patient by ID
	GetByID(ctx context.Context, id entities.PatientID) (*entities.Patient, error)
}
