package entities

import "time"

// DomainEvent is an immutable fact about an appointment state change,
// produced by the aggregate and handed to an external publisher.
type DomainEvent interface {
	// EventType names the fact, e.g. "AppointmentScheduled"
	EventType() string
	// AggregateID identifies the appointment the fact belongs to
	AggregateID() string
	// OccurredAt is the moment the state change happened
	OccurredAt() time.Time
}

// AppointmentScheduledEvent records the creation of a new booking
type AppointmentScheduledEvent struct {
	AppointmentID  AppointmentID  `json:"appointment_id"`
	PatientID      PatientID      `json:"patient_id"`
	ProfessionalID ProfessionalID `json:"professional_id"`
	ScheduledTime  time.Time      `json:"scheduled_time"`
	OccurredOn     time.Time      `json:"occurred_at"`
}

func (e AppointmentScheduledEvent) EventType() string     { return "AppointmentScheduled" }
func (e AppointmentScheduledEvent) AggregateID() string   { return e.AppointmentID.String() }
func (e AppointmentScheduledEvent) OccurredAt() time.Time { return e.OccurredOn }

// AppointmentCancelledEvent records a cancellation and its mandatory reason
type AppointmentCancelledEvent struct {
	AppointmentID  AppointmentID  `json:"appointment_id"`
	PatientID      PatientID      `json:"patient_id"`
	ProfessionalID ProfessionalID `json:"professional_id"`
	Reason         string         `json:"reason"`
	OccurredOn     time.Time      `json:"occurred_at"`
}

func (e AppointmentCancelledEvent) EventType() string     { return "AppointmentCancelled" }
func (e AppointmentCancelledEvent) AggregateID() string   { return e.AppointmentID.String() }
func (e AppointmentCancelledEvent) OccurredAt() time.Time { return e.OccurredOn }

// AppointmentStatusChangedEvent records a lifecycle move that is not a
// scheduling, cancellation, or reschedule fact of its own
type AppointmentStatusChangedEvent struct {
	AppointmentID  AppointmentID     `json:"appointment_id"`
	PreviousStatus AppointmentStatus `json:"previous_status"`
	NewStatus      AppointmentStatus `json:"new_status"`
	OccurredOn     time.Time         `json:"occurred_at"`
}

func (e AppointmentStatusChangedEvent) EventType() string     { return "AppointmentStatusChanged" }
func (e AppointmentStatusChangedEvent) AggregateID() string   { return e.AppointmentID.String() }
func (e AppointmentStatusChangedEvent) OccurredAt() time.Time { return e.OccurredOn }

// AppointmentRescheduledEvent records a move to a new time, preserving the
// original moment for audit
type AppointmentRescheduledEvent struct {
	AppointmentID  AppointmentID  `json:"appointment_id"`
	PatientID      PatientID      `json:"patient_id"`
	ProfessionalID ProfessionalID `json:"professional_id"`
	PreviousTime   time.Time      `json:"previous_time"`
	NewTime        time.Time      `json:"new_time"`
	Reason         string         `json:"reason,omitempty"`
	OccurredOn     time.Time      `json:"occurred_at"`
}

func (e AppointmentRescheduledEvent) EventType() string     { return "AppointmentRescheduled" }
func (e AppointmentRescheduledEvent) AggregateID() string   { return e.AppointmentID.String() }
func (e AppointmentRescheduledEvent) OccurredAt() time.Time { return e.OccurredOn }
