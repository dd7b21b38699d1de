package entities

import (
	"strings"

	apperrors "github.com/clinicboard/scheduling-service/pkg/errors"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed   AppointmentStatus = "CONFIRMED"
	AppointmentStatusScheduled   AppointmentStatus = "SCHEDULED"
	AppointmentStatusInProgress  AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted   AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled   AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow      AppointmentStatus = "NO_SHOW"
	AppointmentStatusRescheduled AppointmentStatus = "RESCHEDULED"
)

// statusTransitions is the single source of truth for legal lifecycle
// moves. Terminal statuses have no outgoing edges.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:     {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed:   {AppointmentStatusScheduled, AppointmentStatusCancelled, AppointmentStatusRescheduled},
	AppointmentStatusScheduled:   {AppointmentStatusInProgress, AppointmentStatusCancelled, AppointmentStatusNoShow, AppointmentStatusRescheduled},
	AppointmentStatusInProgress:  {AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusRescheduled: {AppointmentStatusPending},
	AppointmentStatusCompleted:   {},
	AppointmentStatusCancelled:   {},
	AppointmentStatusNoShow:      {},
}

// CanTransitionTo reports whether the lifecycle permits moving from this
// status to target
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsValid reports whether s belongs to the closed status set
func (s AppointmentStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsActive reports whether the appointment still occupies its time slot
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentStatusConfirmed || s == AppointmentStatusScheduled || s == AppointmentStatusInProgress
}

// IsFinal reports whether the status has no outgoing transitions
func (s AppointmentStatus) IsFinal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled || s == AppointmentStatusNoShow
}

// IsCancellable reports whether the appointment may still be cancelled
func (s AppointmentStatus) IsCancellable() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed || s == AppointmentStatusScheduled
}

// IsReschedulable reports whether the appointment may be moved to a new time
func (s AppointmentStatus) IsReschedulable() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed || s == AppointmentStatusScheduled
}

// ParseAppointmentStatus resolves raw into a member of the closed status
// set. An empty value defaults to PENDING.
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return AppointmentStatusPending, nil
	}

	status := AppointmentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", apperrors.NewInvalidAppointmentError("unknown appointment status: " + raw)
	}
	return status, nil
}
