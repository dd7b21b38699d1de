package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicboard/scheduling-service/internal/domain/entities"
	apperrors "github.com/clinicboard/scheduling-service/pkg/errors"
)

func newTestAppointment(t *testing.T) *entities.Appointment {
	t.Helper()

	scheduledTime, err := entities.NewAppointmentTime(nextBookableMoment(3 * time.Hour))
	require.NoError(t, err)

	appointment, err := entities.NewAppointment(
		entities.NewPatientID(),
		entities.NewProfessionalID(),
		scheduledTime,
		entities.AppointmentTypeFollowUp,
	)
	require.NoError(t, err)
	return appointment
}

// restoredWith rebuilds an appointment in an arbitrary status, the way the
// persistence layer would
func restoredWith(t *testing.T, status entities.AppointmentStatus, scheduledAt time.Time) *entities.Appointment {
	t.Helper()

	now := time.Now()
	appointment, err := entities.RestoreAppointment(
		entities.NewAppointmentID(),
		entities.NewPatientID(),
		entities.NewProfessionalID(),
		entities.RestoreAppointmentTime(scheduledAt),
		status,
		entities.AppointmentTypeFollowUp,
		"",
		now.Add(-48*time.Hour),
		now.Add(-48*time.Hour),
	)
	require.NoError(t, err)
	return appointment
}

func TestNewAppointment(t *testing.T) {
	t.Run("books pending with one scheduled event", func(t *testing.T) {
		patientID := entities.NewPatientID()
		professionalID := entities.NewProfessionalID()
		scheduledTime, err := entities.NewAppointmentTime(nextBookableMoment(3 * time.Hour))
		require.NoError(t, err)

		appointment, err := entities.NewAppointment(patientID, professionalID, scheduledTime, entities.AppointmentTypeFollowUp)

		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusPending, appointment.Status())
		assert.False(t, appointment.ID().IsZero())

		events := appointment.DomainEvents()
		require.Len(t, events, 1)

		scheduled, ok := events[0].(entities.AppointmentScheduledEvent)
		require.True(t, ok)
		assert.Equal(t, appointment.ID(), scheduled.AppointmentID)
		assert.Equal(t, patientID, scheduled.PatientID)
		assert.Equal(t, professionalID, scheduled.ProfessionalID)
		assert.True(t, scheduled.ScheduledTime.Equal(scheduledTime.Value()))
	})

	t.Run("rejects a moment one hour ahead with no events produced", func(t *testing.T) {
		_, err := entities.NewAppointmentTime(time.Now().Add(1 * time.Hour))

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidTimeSlot))
	})

	t.Run("requires a patient id", func(t *testing.T) {
		scheduledTime, err := entities.NewAppointmentTime(nextBookableMoment(3 * time.Hour))
		require.NoError(t, err)

		_, err = entities.NewAppointment("", entities.NewProfessionalID(), scheduledTime, entities.AppointmentTypeFollowUp)

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidAppointment))
	})
}

func TestAppointment_Confirm(t *testing.T) {
	t.Run("pending confirms and emits a status change", func(t *testing.T) {
		appointment := newTestAppointment(t)

		confirmed, err := appointment.Confirm()

		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusConfirmed, confirmed.Status())
		assert.Equal(t, entities.AppointmentStatusPending, appointment.Status(), "receiver must stay unchanged")

		events := confirmed.DomainEvents()
		require.Len(t, events, 1)
		change, ok := events[0].(entities.AppointmentStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, entities.AppointmentStatusPending, change.PreviousStatus)
		assert.Equal(t, entities.AppointmentStatusConfirmed, change.NewStatus)
	})

	t.Run("cancelled cannot confirm", func(t *testing.T) {
		cancelled := restoredWith(t, entities.AppointmentStatusCancelled, nextBookableMoment(3*time.Hour))

		_, err := cancelled.Confirm()

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidStatusTransition))
		assert.Equal(t, entities.AppointmentStatusCancelled, cancelled.Status())
	})
}

func TestAppointment_Cancel(t *testing.T) {
	t.Run("requires a non-blank reason", func(t *testing.T) {
		appointment := newTestAppointment(t)

		_, err := appointment.Cancel("   ")

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidAppointment))
	})

	t.Run("cancels with a reason and emits a cancelled event", func(t *testing.T) {
		appointment := newTestAppointment(t)

		cancelled, err := appointment.Cancel("patient request")

		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusCancelled, cancelled.Status())
		assert.Equal(t, "patient request", cancelled.Observation())

		events := cancelled.DomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(entities.AppointmentCancelledEvent)
		require.True(t, ok)
		assert.Equal(t, "patient request", event.Reason)
	})

	t.Run("completed appointments cannot be cancelled", func(t *testing.T) {
		completed := restoredWith(t, entities.AppointmentStatusCompleted, nextBookableMoment(3*time.Hour))

		_, err := completed.Cancel("too late")

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidStatusTransition))
	})
}

func TestAppointment_MarkNoShow(t *testing.T) {
	t.Run("fails before the grace period even in a legal status", func(t *testing.T) {
		scheduled := restoredWith(t, entities.AppointmentStatusScheduled, nextBookableMoment(3*time.Hour))

		_, err := scheduled.MarkNoShow()

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidAppointment))
	})

	t.Run("succeeds after the grace period", func(t *testing.T) {
		scheduled := restoredWith(t, entities.AppointmentStatusScheduled, time.Now().Add(-1*time.Hour))

		noShow, err := scheduled.MarkNoShow()

		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusNoShow, noShow.Status())
	})

	t.Run("fails in an illegal status regardless of timing", func(t *testing.T) {
		pending := restoredWith(t, entities.AppointmentStatusPending, time.Now().Add(-1*time.Hour))

		_, err := pending.MarkNoShow()

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidStatusTransition))
	})
}

func TestAppointment_Complete(t *testing.T) {
	t.Run("in progress completes with observations", func(t *testing.T) {
		inProgress := restoredWith(t, entities.AppointmentStatusInProgress, time.Now().Add(-30*time.Minute))

		completed, err := inProgress.Complete("routine check, all clear")

		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusCompleted, completed.Status())
		assert.Equal(t, "routine check, all clear", completed.Observation())
	})

	t.Run("keeps the previous observation when none is supplied", func(t *testing.T) {
		inProgress := restoredWith(t, entities.AppointmentStatusInProgress, time.Now().Add(-30*time.Minute)).
			UpdateObservation("pre-existing note")

		completed, err := inProgress.Complete("")

		require.NoError(t, err)
		assert.Equal(t, "pre-existing note", completed.Observation())
	})

	t.Run("pending cannot complete", func(t *testing.T) {
		appointment := newTestAppointment(t)

		_, err := appointment.Complete("n/a")

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidStatusTransition))
	})
}

func TestAppointment_Reschedule(t *testing.T) {
	t.Run("confirmed reschedules and records both moments", func(t *testing.T) {
		confirmed := restoredWith(t, entities.AppointmentStatusConfirmed, nextBookableMoment(3*time.Hour))
		newTime, err := entities.NewAppointmentTime(nextBookableMoment(24 * time.Hour))
		require.NoError(t, err)

		rescheduled, err := confirmed.Reschedule(newTime, "professional unavailable")

		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusRescheduled, rescheduled.Status())

		events := rescheduled.DomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(entities.AppointmentRescheduledEvent)
		require.True(t, ok)
		assert.True(t, event.PreviousTime.Equal(confirmed.ScheduledTime().Value()))
		assert.True(t, event.NewTime.Equal(newTime.Value()))
	})

	t.Run("the new time must differ", func(t *testing.T) {
		moment := nextBookableMoment(3 * time.Hour)
		confirmed := restoredWith(t, entities.AppointmentStatusConfirmed, moment)

		_, err := confirmed.Reschedule(entities.RestoreAppointmentTime(moment), "same slot")

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidAppointment))
	})

	t.Run("pending cannot reschedule", func(t *testing.T) {
		// PENDING must be confirmed first; the lifecycle table has no
		// direct edge to RESCHEDULED.
		pending := restoredWith(t, entities.AppointmentStatusPending, nextBookableMoment(3*time.Hour))
		newTime, err := entities.NewAppointmentTime(nextBookableMoment(24 * time.Hour))
		require.NoError(t, err)

		_, err = pending.Reschedule(newTime, "moving")

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidStatusTransition))
	})

	t.Run("in progress cannot reschedule", func(t *testing.T) {
		inProgress := restoredWith(t, entities.AppointmentStatusInProgress, nextBookableMoment(3*time.Hour))
		newTime, err := entities.NewAppointmentTime(nextBookableMoment(24 * time.Hour))
		require.NoError(t, err)

		_, err = inProgress.Reschedule(newTime, "moved")

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidStatusTransition))
	})
}

func TestAppointment_ConflictsWith(t *testing.T) {
	professionalID := entities.NewProfessionalID()
	moment := nextBookableMoment(3 * time.Hour)

	build := func(professional entities.ProfessionalID, at time.Time) *entities.Appointment {
		appointment, err := entities.RestoreAppointment(
			entities.NewAppointmentID(), entities.NewPatientID(), professional,
			entities.RestoreAppointmentTime(at), entities.AppointmentStatusConfirmed,
			entities.AppointmentTypeFollowUp, "", time.Now(), time.Now())
		require.NoError(t, err)
		return appointment
	}

	t.Run("same professional overlapping windows conflict", func(t *testing.T) {
		first := build(professionalID, moment)
		second := build(professionalID, moment.Add(15*time.Minute))

		assert.True(t, first.ConflictsWith(second))
	})

	t.Run("different professionals never conflict", func(t *testing.T) {
		first := build(professionalID, moment)
		second := build(entities.NewProfessionalID(), moment)

		assert.False(t, first.ConflictsWith(second))
	})

	t.Run("nil never conflicts", func(t *testing.T) {
		assert.False(t, build(professionalID, moment).ConflictsWith(nil))
	})
}

func TestAppointment_FieldReplacement(t *testing.T) {
	t.Run("update observation emits no event", func(t *testing.T) {
		appointment := newTestAppointment(t)
		appointment.ClearDomainEvents()

		updated := appointment.UpdateObservation("bring previous exams")

		assert.Equal(t, "bring previous exams", updated.Observation())
		assert.Empty(t, updated.DomainEvents())
	})

	t.Run("with id replaces identity only", func(t *testing.T) {
		appointment := newTestAppointment(t)
		newID := entities.NewAppointmentID()

		reidentified, err := appointment.WithID(newID)

		require.NoError(t, err)
		assert.Equal(t, newID, reidentified.ID())
		assert.Equal(t, appointment.Status(), reidentified.Status())
		assert.Equal(t, appointment.UpdatedAt(), reidentified.UpdatedAt())
		assert.Empty(t, reidentified.DomainEvents())
	})
}

func TestAppointment_DomainEventBuffer(t *testing.T) {
	appointment := newTestAppointment(t)

	first := appointment.DomainEvents()
	second := appointment.DomainEvents()
	assert.Equal(t, first, second, "repeated reads must be identical")

	appointment.ClearDomainEvents()
	assert.Empty(t, appointment.DomainEvents())
}
