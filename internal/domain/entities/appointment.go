package entities

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/clinicboard/scheduling-service/pkg/errors"
)

// Appointment is the aggregate root of the scheduling domain. Every
// business operation validates the current lifecycle state and returns a
// new value; the receiver is never mutated. Emitted domain events travel
// on the returned value until the caller drains them.
type Appointment struct {
	id              AppointmentID
	patientID       PatientID
	professionalID  ProfessionalID
	scheduledTime   AppointmentTime
	status          AppointmentStatus
	appointmentType AppointmentType
	observation     string
	createdAt       time.Time
	updatedAt       time.Time

	// pendingEvents belongs to exactly one logical request and is never
	// shared across goroutines
	pendingEvents []DomainEvent
}

// NewAppointment books a fresh appointment in PENDING status and records
// an AppointmentScheduled event. The time and type invariants are
// re-checked here even though AppointmentTime validates them itself.
func NewAppointment(patientID PatientID, professionalID ProfessionalID, scheduledTime AppointmentTime, appointmentType AppointmentType) (*Appointment, error) {
	if patientID == "" {
		return nil, apperrors.NewInvalidAppointmentError("patient id is required")
	}
	if professionalID == "" {
		return nil, apperrors.NewInvalidAppointmentError("professional id is required")
	}
	if scheduledTime.IsZero() {
		return nil, apperrors.NewInvalidAppointmentError("scheduled time is required")
	}
	if !appointmentType.IsValid() {
		return nil, apperrors.NewInvalidAppointmentError("appointment type is required")
	}

	if !scheduledTime.Value().After(time.Now().Add(MinimumLeadTime)) {
		return nil, apperrors.NewInvalidAppointmentError("appointments must be booked at least 2 hours in advance")
	}
	if !withinBusinessHours(scheduledTime.Value()) {
		return nil, apperrors.NewInvalidAppointmentError("appointments must be within business hours")
	}

	now := time.Now()
	appointment := &Appointment{
		id:              NewAppointmentID(),
		patientID:       patientID,
		professionalID:  professionalID,
		scheduledTime:   scheduledTime,
		status:          AppointmentStatusPending,
		appointmentType: appointmentType,
		createdAt:       now,
		updatedAt:       now,
	}

	appointment.record(AppointmentScheduledEvent{
		AppointmentID:  appointment.id,
		PatientID:      patientID,
		ProfessionalID: professionalID,
		ScheduledTime:  scheduledTime.Value(),
		OccurredOn:     now,
	})

	return appointment, nil
}

// RestoreAppointment reconstructs an already-persisted appointment. No
// event is recorded and no booking-time validation applies.
func RestoreAppointment(id AppointmentID, patientID PatientID, professionalID ProfessionalID,
	scheduledTime AppointmentTime, status AppointmentStatus, appointmentType AppointmentType,
	observation string, createdAt, updatedAt time.Time) (*Appointment, error) {

	if id.IsZero() {
		return nil, apperrors.NewInvalidAppointmentError("appointment id is required for a persisted appointment")
	}
	if patientID == "" || professionalID == "" {
		return nil, apperrors.NewInvalidAppointmentError("patient and professional ids are required")
	}
	if !status.IsValid() {
		return nil, apperrors.NewInvalidAppointmentError(fmt.Sprintf("unknown appointment status: %s", status))
	}
	if !appointmentType.IsValid() {
		return nil, apperrors.NewInvalidAppointmentError(fmt.Sprintf("unknown appointment type: %s", appointmentType))
	}

	return &Appointment{
		id:              id,
		patientID:       patientID,
		professionalID:  professionalID,
		scheduledTime:   scheduledTime,
		status:          status,
		appointmentType: appointmentType,
		observation:     observation,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

// next copies the appointment with a replaced status and observation. The
// successor starts with an empty event buffer.
func (a *Appointment) next(status AppointmentStatus, observation string) *Appointment {
	return &Appointment{
		id:              a.id,
		patientID:       a.patientID,
		professionalID:  a.professionalID,
		scheduledTime:   a.scheduledTime,
		status:          status,
		appointmentType: a.appointmentType,
		observation:     observation,
		createdAt:       a.createdAt,
		updatedAt:       time.Now(),
	}
}

func (a *Appointment) statusChanged(to AppointmentStatus, observation string) *Appointment {
	successor := a.next(to, observation)
	successor.record(AppointmentStatusChangedEvent{
		AppointmentID:  a.id,
		PreviousStatus: a.status,
		NewStatus:      to,
		OccurredOn:     successor.updatedAt,
	})
	return successor
}

// Confirm moves the appointment to CONFIRMED
func (a *Appointment) Confirm() (*Appointment, error) {
	if !a.status.CanTransitionTo(AppointmentStatusConfirmed) {
		return nil, apperrors.NewInvalidStatusTransitionError(string(a.status), string(AppointmentStatusConfirmed))
	}
	return a.statusChanged(AppointmentStatusConfirmed, a.observation), nil
}

// MarkScheduled moves a confirmed appointment onto the professional's
// working agenda
func (a *Appointment) MarkScheduled() (*Appointment, error) {
	if !a.status.CanTransitionTo(AppointmentStatusScheduled) {
		return nil, apperrors.NewInvalidStatusTransitionError(string(a.status), string(AppointmentStatusScheduled))
	}
	return a.statusChanged(AppointmentStatusScheduled, a.observation), nil
}

// Start marks the consultation as underway
func (a *Appointment) Start() (*Appointment, error) {
	if !a.status.CanTransitionTo(AppointmentStatusInProgress) {
		return nil, apperrors.NewInvalidStatusTransitionError(string(a.status), string(AppointmentStatusInProgress))
	}
	return a.statusChanged(AppointmentStatusInProgress, a.observation), nil
}

// Complete finishes the consultation, keeping the existing observation
// when none is supplied
func (a *Appointment) Complete(observations string) (*Appointment, error) {
	if !a.status.CanTransitionTo(AppointmentStatusCompleted) {
		return nil, apperrors.NewInvalidStatusTransitionError(string(a.status), string(AppointmentStatusCompleted))
	}

	finalObservations := a.observation
	if strings.TrimSpace(observations) != "" {
		finalObservations = observations
	}

	return a.statusChanged(AppointmentStatusCompleted, finalObservations), nil
}

// Cancel cancels the appointment. A non-blank reason is mandatory and
// becomes the appointment's observation.
func (a *Appointment) Cancel(reason string) (*Appointment, error) {
	if !a.status.IsCancellable() {
		return nil, apperrors.NewInvalidStatusTransitionError(string(a.status), string(AppointmentStatusCancelled))
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewInvalidAppointmentError("cancellation reason is required")
	}

	successor := a.next(AppointmentStatusCancelled, reason)
	successor.record(AppointmentCancelledEvent{
		AppointmentID:  a.id,
		PatientID:      a.patientID,
		ProfessionalID: a.professionalID,
		Reason:         reason,
		OccurredOn:     successor.updatedAt,
	})
	return successor, nil
}

// MarkNoShow flags that the patient did not attend. Only allowed once the
// 15-minute grace period after the scheduled time has elapsed.
func (a *Appointment) MarkNoShow() (*Appointment, error) {
	if !a.status.CanTransitionTo(AppointmentStatusNoShow) {
		return nil, apperrors.NewInvalidStatusTransitionError(string(a.status), string(AppointmentStatusNoShow))
	}
	if time.Now().Before(a.scheduledTime.Value().Add(NoShowGracePeriod)) {
		return nil, apperrors.NewInvalidAppointmentError("appointments may only be marked as no-show 15 minutes after the scheduled time")
	}
	return a.statusChanged(AppointmentStatusNoShow, "patient did not attend"), nil
}

// Reschedule marks the appointment as RESCHEDULED and records where it
// moved. Booking the successor appointment at newTime is the caller's
// responsibility.
func (a *Appointment) Reschedule(newTime AppointmentTime, reason string) (*Appointment, error) {
	if !a.status.CanTransitionTo(AppointmentStatusRescheduled) {
		return nil, apperrors.NewInvalidStatusTransitionError(string(a.status), string(AppointmentStatusRescheduled))
	}
	if !a.appointmentType.AllowsRescheduling() {
		return nil, apperrors.NewInvalidAppointmentError(fmt.Sprintf("%s appointments cannot be rescheduled", a.appointmentType.DisplayName()))
	}
	if newTime.IsZero() {
		return nil, apperrors.NewInvalidAppointmentError("a new scheduling moment is required")
	}
	if newTime.Equal(a.scheduledTime) {
		return nil, apperrors.NewInvalidAppointmentError("the new time must differ from the current one")
	}

	successor := a.next(AppointmentStatusRescheduled, a.observation)
	successor.record(AppointmentRescheduledEvent{
		AppointmentID:  a.id,
		PatientID:      a.patientID,
		ProfessionalID: a.professionalID,
		PreviousTime:   a.scheduledTime.Value(),
		NewTime:        newTime.Value(),
		Reason:         reason,
		OccurredOn:     successor.updatedAt,
	})
	return successor, nil
}

// ConflictsWith reports whether both appointments occupy overlapping
// windows of the same professional
func (a *Appointment) ConflictsWith(other *Appointment) bool {
	if other == nil || a.professionalID != other.professionalID {
		return false
	}
	return a.scheduledTime.ConflictsWith(other.scheduledTime)
}

// UpdateObservation replaces the free-text observation. No event is
// recorded.
func (a *Appointment) UpdateObservation(observation string) *Appointment {
	return a.next(a.status, observation)
}

// WithID replaces the identity, preserving updatedAt. No event is recorded.
func (a *Appointment) WithID(id AppointmentID) (*Appointment, error) {
	if id.IsZero() {
		return nil, apperrors.NewInvalidAppointmentError("appointment id is required")
	}
	successor := a.next(a.status, a.observation)
	successor.id = id
	successor.updatedAt = a.updatedAt
	return successor, nil
}

func (a *Appointment) ID() AppointmentID              { return a.id }
func (a *Appointment) PatientID() PatientID           { return a.patientID }
func (a *Appointment) ProfessionalID() ProfessionalID { return a.professionalID }
func (a *Appointment) ScheduledTime() AppointmentTime { return a.scheduledTime }
func (a *Appointment) Status() AppointmentStatus      { return a.status }
func (a *Appointment) Type() AppointmentType          { return a.appointmentType }
func (a *Appointment) Observation() string            { return a.observation }
func (a *Appointment) CreatedAt() time.Time           { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time           { return a.updatedAt }

// IsActive reports whether the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.status.IsActive()
}

// IsCancellable reports whether the appointment may still be cancelled
func (a *Appointment) IsCancellable() bool {
	return a.status.IsCancellable()
}

// IsReschedulable reports whether the appointment may be moved
func (a *Appointment) IsReschedulable() bool {
	return a.status.IsReschedulable()
}

// BelongsToPatient reports whether the appointment is the patient's
func (a *Appointment) BelongsToPatient(patientID PatientID) bool {
	return a.patientID == patientID
}

// BelongsToProfessional reports whether the appointment is the
// professional's
func (a *Appointment) BelongsToProfessional(professionalID ProfessionalID) bool {
	return a.professionalID == professionalID
}

func (a *Appointment) record(event DomainEvent) {
	a.pendingEvents = append(a.pendingEvents, event)
}

// DomainEvents returns a stable copy of the pending events. Repeated calls
// without clearing return identical sequences.
func (a *Appointment) DomainEvents() []DomainEvent {
	events := make([]DomainEvent, len(a.pendingEvents))
	copy(events, a.pendingEvents)
	return events
}

// ClearDomainEvents empties the pending buffer. Draining is an explicit
// caller responsibility, typically right after successful publishing.
func (a *Appointment) ClearDomainEvents() {
	a.pendingEvents = nil
}

func (a *Appointment) String() string {
	return fmt.Sprintf("Appointment{id=%s, patient=%s, professional=%s, time=%s, status=%s}",
		a.id, a.patientID, a.professionalID, a.scheduledTime, a.status)
}
