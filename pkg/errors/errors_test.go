package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/clinicboard/scheduling-service/pkg/errors"
)

func TestAppError(t *testing.T) {
	t.Run("message carries the stable code", func(t *testing.T) {
		err := apperrors.NewInvalidTimeSlotError("25/12/2026 10:00", "outside business hours")

		assert.Contains(t, err.Error(), "INVALID_TIME_SLOT")
		assert.Contains(t, err.Error(), "outside business hours")
	})

	t.Run("wrapped cause survives Unwrap", func(t *testing.T) {
		cause := stderrors.New("connection refused")
		err := apperrors.NewInternalError("database unavailable", cause)

		assert.ErrorIs(t, err, cause)
	})
}

func TestTypeOf(t *testing.T) {
	t.Run("reads the type through wrapping", func(t *testing.T) {
		inner := apperrors.NewAppointmentConflictError("prof-1", "10:00")
		wrapped := fmt.Errorf("scheduling failed: %w", inner)

		assert.Equal(t, apperrors.ErrorTypeAppointmentConflict, apperrors.TypeOf(wrapped))
	})

	t.Run("unknown errors fall back to internal", func(t *testing.T) {
		assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(stderrors.New("boom")))
	})
}

func TestIsType(t *testing.T) {
	err := apperrors.NewPatientBusinessRuleError("pat-1", "patient already has an appointment on this date")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePatientBusinessRule))
	assert.False(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.False(t, apperrors.IsType(nil, apperrors.ErrorTypeNotFound))
}
