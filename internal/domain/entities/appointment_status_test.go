package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicboard/scheduling-service/internal/domain/entities"
)

func allStatuses() []entities.AppointmentStatus {
	return []entities.AppointmentStatus{
		entities.AppointmentStatusPending,
		entities.AppointmentStatusConfirmed,
		entities.AppointmentStatusScheduled,
		entities.AppointmentStatusInProgress,
		entities.AppointmentStatusCompleted,
		entities.AppointmentStatusCancelled,
		entities.AppointmentStatusNoShow,
		entities.AppointmentStatusRescheduled,
	}
}

func TestAppointmentStatus_TransitionTable(t *testing.T) {
	allowed := map[entities.AppointmentStatus][]entities.AppointmentStatus{
		entities.AppointmentStatusPending:     {entities.AppointmentStatusConfirmed, entities.AppointmentStatusCancelled},
		entities.AppointmentStatusConfirmed:   {entities.AppointmentStatusScheduled, entities.AppointmentStatusCancelled, entities.AppointmentStatusRescheduled},
		entities.AppointmentStatusScheduled:   {entities.AppointmentStatusInProgress, entities.AppointmentStatusCancelled, entities.AppointmentStatusNoShow, entities.AppointmentStatusRescheduled},
		entities.AppointmentStatusInProgress:  {entities.AppointmentStatusCompleted, entities.AppointmentStatusCancelled},
		entities.AppointmentStatusRescheduled: {entities.AppointmentStatusPending},
		entities.AppointmentStatusCompleted:   {},
		entities.AppointmentStatusCancelled:   {},
		entities.AppointmentStatusNoShow:      {},
	}

	for _, from := range allStatuses() {
		for _, to := range allStatuses() {
			expected := false
			for _, target := range allowed[from] {
				if target == to {
					expected = true
				}
			}
			assert.Equal(t, expected, from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestAppointmentStatus_TerminalStatusesHaveNoExits(t *testing.T) {
	terminal := []entities.AppointmentStatus{
		entities.AppointmentStatusCompleted,
		entities.AppointmentStatusCancelled,
		entities.AppointmentStatusNoShow,
	}

	for _, from := range terminal {
		assert.True(t, from.IsFinal())
		for _, to := range allStatuses() {
			assert.False(t, from.CanTransitionTo(to), "terminal %s must not reach %s", from, to)
		}
	}
}

func TestAppointmentStatus_Predicates(t *testing.T) {
	cancellable := map[entities.AppointmentStatus]bool{
		entities.AppointmentStatusPending:   true,
		entities.AppointmentStatusConfirmed: true,
		entities.AppointmentStatusScheduled: true,
	}
	active := map[entities.AppointmentStatus]bool{
		entities.AppointmentStatusConfirmed:  true,
		entities.AppointmentStatusScheduled:  true,
		entities.AppointmentStatusInProgress: true,
	}

	for _, status := range allStatuses() {
		assert.Equal(t, cancellable[status], status.IsCancellable(), "cancellable %s", status)
		assert.Equal(t, cancellable[status], status.IsReschedulable(), "reschedulable %s", status)
		assert.Equal(t, active[status], status.IsActive(), "active %s", status)
	}
}

func TestParseAppointmentStatus(t *testing.T) {
	t.Run("empty defaults to pending", func(t *testing.T) {
		status, err := entities.ParseAppointmentStatus("")

		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusPending, status)
	})

	t.Run("parsing is case-insensitive", func(t *testing.T) {
		status, err := entities.ParseAppointmentStatus("no_show")

		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusNoShow, status)
	})

	t.Run("rejects values outside the closed set", func(t *testing.T) {
		_, err := entities.ParseAppointmentStatus("ARCHIVED")

		assert.Error(t, err)
	})
}
