package services

import (
	"context"
	"time"

	"github.com/clinicboard/scheduling-service/internal/domain/entities"
	"github.com/clinicboard/scheduling-service/internal/domain/providers"
	"github.com/clinicboard/scheduling-service/internal/domain/repositories"
	domainservices "github.com/clinicboard/scheduling-service/internal/domain/services"
	"github.com/clinicboard/scheduling-service/internal/infrastructure/observability"
	apperrors "github.com/clinicboard/scheduling-service/pkg/errors"
)

// SchedulingService orchestrates appointment commands: it loads
// collaborator data, lets the aggregate and the availability service
// validate, persists the outcome, and drains the resulting domain events
// to the publisher.
type SchedulingService struct {
	appointments repositories.AppointmentRepository
	patients     repositories.PatientRepository
	availability *domainservices.AvailabilityService
	publisher    providers.EventPublisher
}

// NewSchedulingService creates a new scheduling service
func NewSchedulingService(
	appointments repositories.AppointmentRepository,
	patients repositories.PatientRepository,
	availability *domainservices.AvailabilityService,
	publisher providers.EventPublisher,
) *SchedulingService {
	return &SchedulingService{
		appointments: appointments,
		patients:     patients,
		availability: availability,
		publisher:    publisher,
	}
}

// ScheduleCommand carries the inbound booking request
type ScheduleCommand struct {
	PatientID      string
	ProfessionalID string
	ScheduledAt    time.Time
	Type           string
}

// Schedule books a new appointment after running the full validation
// pipeline
func (s *SchedulingService) Schedule(ctx context.Context, cmd ScheduleCommand) (*entities.Appointment, error) {
	patientID, err := entities.ParsePatientID(cmd.PatientID)
	if err != nil {
		return nil, err
	}
	professionalID, err := entities.ParseProfessionalID(cmd.ProfessionalID)
	if err != nil {
		return nil, err
	}
	appointmentType, err := entities.ParseAppointmentType(cmd.Type)
	if err != nil {
		return nil, err
	}
	scheduledTime, err := entities.NewAppointmentTime(cmd.ScheduledAt)
	if err != nil {
		return nil, err
	}

	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	existing, err := s.loadSurroundingAppointments(ctx, patientID, professionalID, scheduledTime.Value())
	if err != nil {
		return nil, err
	}

	if err := s.availability.ValidateAppointmentCreation(
		patientID, professionalID, scheduledTime, appointmentType, existing, patient); err != nil {
		return nil, err
	}

	appointment, err := entities.NewAppointment(patientID, professionalID, scheduledTime, appointmentType)
	if err != nil {
		return nil, err
	}

	// Re-check against the store right before persisting: the in-memory
	// validation above only saw the lists loaded at the start of the
	// command.
	conflict, err := s.appointments.HasConflict(ctx, professionalID, scheduledTime.Value())
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperrors.NewAppointmentConflictError(professionalID.String(), scheduledTime.String())
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, appointment)
	return appointment, nil
}

// Confirm moves an appointment to CONFIRMED
func (s *SchedulingService) Confirm(ctx context.Context, id entities.AppointmentID) (*entities.Appointment, error) {
	return s.transition(ctx, id, func(a *entities.Appointment) (*entities.Appointment, error) {
		return a.Confirm()
	})
}

// MarkScheduled places a confirmed appointment on the agenda
func (s *SchedulingService) MarkScheduled(ctx context.Context, id entities.AppointmentID) (*entities.Appointment, error) {
	return s.transition(ctx, id, func(a *entities.Appointment) (*entities.Appointment, error) {
		return a.MarkScheduled()
	})
}

// Start marks a consultation as underway
func (s *SchedulingService) Start(ctx context.Context, id entities.AppointmentID) (*entities.Appointment, error) {
	return s.transition(ctx, id, func(a *entities.Appointment) (*entities.Appointment, error) {
		return a.Start()
	})
}

// Complete finishes a consultation with optional closing observations
func (s *SchedulingService) Complete(ctx context.Context, id entities.AppointmentID, observations string) (*entities.Appointment, error) {
	return s.transition(ctx, id, func(a *entities.Appointment) (*entities.Appointment, error) {
		return a.Complete(observations)
	})
}

// Cancel cancels an appointment for the given reason
func (s *SchedulingService) Cancel(ctx context.Context, id entities.AppointmentID, reason string) (*entities.Appointment, error) {
	return s.transition(ctx, id, func(a *entities.Appointment) (*entities.Appointment, error) {
		return a.Cancel(reason)
	})
}

// MarkNoShow flags a missed appointment
func (s *SchedulingService) MarkNoShow(ctx context.Context, id entities.AppointmentID) (*entities.Appointment, error) {
	return s.transition(ctx, id, func(a *entities.Appointment) (*entities.Appointment, error) {
		return a.MarkNoShow()
	})
}

// SweepNoShows marks SCHEDULED appointments whose grace period has
// elapsed as NO_SHOW. It returns the number of appointments marked and
// is intended to run periodically.
func (s *SchedulingService) SweepNoShows(ctx context.Context) (int, error) {
	logger := observability.LoggerFromContext(ctx)

	now := time.Now()
	overdue, err := s.appointments.ListByDateRange(ctx, now.Add(-24*time.Hour), now.Add(-entities.NoShowGracePeriod))
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, appointment := range overdue {
		if appointment.Status() != entities.AppointmentStatusScheduled {
			continue
		}
		noShow, err := appointment.MarkNoShow()
		if err != nil {
			continue
		}
		if err := s.appointments.Update(ctx, noShow); err != nil {
			logger.Error().
				Err(err).
				Str("appointment_id", appointment.ID().String()).
				Msg("failed to persist no-show")
			continue
		}
		s.publishEvents(ctx, noShow)
		marked++
	}
	return marked, nil
}

// Reschedule moves an appointment to newTime: the current aggregate is
// marked RESCHEDULED and a successor PENDING appointment is booked at the
// new moment.
func (s *SchedulingService) Reschedule(ctx context.Context, id entities.AppointmentID, newTime time.Time, reason string) (*entities.Appointment, error) {
	current, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	scheduledTime, err := entities.NewAppointmentTime(newTime)
	if err != nil {
		return nil, err
	}

	patient, err := s.patients.GetByID(ctx, current.PatientID())
	if err != nil {
		return nil, err
	}

	existing, err := s.loadSurroundingAppointments(ctx, current.PatientID(), current.ProfessionalID(), scheduledTime.Value())
	if err != nil {
		return nil, err
	}

	if err := s.availability.ValidateAppointmentCreation(
		current.PatientID(), current.ProfessionalID(), scheduledTime, current.Type(), existing, patient); err != nil {
		return nil, err
	}

	rescheduled, err := current.Reschedule(scheduledTime, reason)
	if err != nil {
		return nil, err
	}

	successor, err := entities.NewAppointment(
		current.PatientID(), current.ProfessionalID(), scheduledTime, current.Type())
	if err != nil {
		return nil, err
	}

	conflict, err := s.appointments.HasConflict(ctx, current.ProfessionalID(), scheduledTime.Value())
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperrors.NewAppointmentConflictError(current.ProfessionalID().String(), scheduledTime.String())
	}

	if err := s.appointments.Update(ctx, rescheduled); err != nil {
		return nil, err
	}
	if err := s.appointments.Create(ctx, successor); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, rescheduled)
	s.publishEvents(ctx, successor)
	return successor, nil
}

// GetAvailableSlots lists the professional's free slots on a date
func (s *SchedulingService) GetAvailableSlots(ctx context.Context, professionalID entities.ProfessionalID, date time.Time) ([]entities.AppointmentTime, error) {
	existing, err := s.appointments.ListByProfessional(ctx, professionalID, dayFilter(date))
	if err != nil {
		return nil, err
	}
	return s.availability.GenerateAvailableSlots(professionalID, date, existing), nil
}

// GetAvailabilityStats computes occupancy for a professional over a range
func (s *SchedulingService) GetAvailabilityStats(ctx context.Context, professionalID entities.ProfessionalID, from, to time.Time) (domainservices.AvailabilityStats, error) {
	filter := repositories.AppointmentFilter{From: &from, To: &to}
	existing, err := s.appointments.ListByProfessional(ctx, professionalID, filter)
	if err != nil {
		return domainservices.AvailabilityStats{}, err
	}
	return s.availability.CalculateAvailabilityStats(professionalID, from, to, existing), nil
}

// GetByID retrieves one appointment
func (s *SchedulingService) GetByID(ctx context.Context, id entities.AppointmentID) (*entities.Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *SchedulingService) transition(ctx context.Context, id entities.AppointmentID,
	apply func(*entities.Appointment) (*entities.Appointment, error)) (*entities.Appointment, error) {

	current, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := apply(current)
	if err != nil {
		return nil, err
	}

	if err := s.appointments.Update(ctx, next); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, next)
	return next, nil
}

// loadSurroundingAppointments gathers the collections the availability
// policies need: the professional's bookings around the requested moment
// and the patient's bookings on the requested date.
func (s *SchedulingService) loadSurroundingAppointments(ctx context.Context,
	patientID entities.PatientID, professionalID entities.ProfessionalID,
	scheduledAt time.Time) ([]*entities.Appointment, error) {

	professionalAppointments, err := s.appointments.ListByProfessional(ctx, professionalID, dayFilter(scheduledAt))
	if err != nil {
		return nil, err
	}
	patientAppointments, err := s.appointments.ListByPatient(ctx, patientID, dayFilter(scheduledAt))
	if err != nil {
		return nil, err
	}

	return append(professionalAppointments, patientAppointments...), nil
}

// publishEvents drains the aggregate's pending events to the publisher.
// Delivery failures are logged but never fail the command: the state
// change already committed.
func (s *SchedulingService) publishEvents(ctx context.Context, appointment *entities.Appointment) {
	logger := observability.LoggerFromContext(ctx)

	for _, event := range appointment.DomainEvents() {
		if err := s.publisher.Publish(ctx, event); err != nil {
			logger.Error().
				Err(err).
				Str("event_type", event.EventType()).
				Str("appointment_id", event.AggregateID()).
				Msg("failed to publish domain event")
			continue
		}
		logger.Info().
			Str("event_type", event.EventType()).
			Str("appointment_id", event.AggregateID()).
			Msg("published domain event")
	}

	appointment.ClearDomainEvents()
}

func dayFilter(moment time.Time) repositories.AppointmentFilter {
	year, month, day := moment.Date()
	from := time.Date(year, month, day, 0, 0, 0, 0, moment.Location())
	to := from.Add(24 * time.Hour)
	return repositories.AppointmentFilter{From: &from, To: &to}
}
