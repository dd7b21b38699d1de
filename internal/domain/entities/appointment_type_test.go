package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicboard/scheduling-service/internal/domain/entities"
)

func TestAppointmentType_Policies(t *testing.T) {
	cases := []struct {
		appointmentType entities.AppointmentType
		duration        time.Duration
		advance         time.Duration
		sameDay         bool
		preparation     bool
	}{
		{entities.AppointmentTypeFirstConsultation, 60 * time.Minute, 24 * time.Hour, false, false},
		{entities.AppointmentTypeFollowUp, 30 * time.Minute, 4 * time.Hour, true, false},
		{entities.AppointmentTypeEmergency, 45 * time.Minute, 0, true, false},
		{entities.AppointmentTypeProcedure, 90 * time.Minute, 48 * time.Hour, false, true},
		{entities.AppointmentTypeExam, 30 * time.Minute, 48 * time.Hour, false, true},
		{entities.AppointmentTypeVaccination, 15 * time.Minute, 2 * time.Hour, true, false},
		{entities.AppointmentTypeTelemedicine, 30 * time.Minute, 12 * time.Hour, false, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.appointmentType), func(t *testing.T) {
			assert.Equal(t, tc.duration, tc.appointmentType.DefaultDuration())
			assert.Equal(t, tc.advance, tc.appointmentType.MinimumAdvanceNotice())
			assert.Equal(t, tc.sameDay, tc.appointmentType.CanBeSameDayBooking())
			assert.Equal(t, tc.preparation, tc.appointmentType.RequiresSpecialPreparation())
		})
	}
}

func TestAppointmentType_Flags(t *testing.T) {
	assert.True(t, entities.AppointmentTypeEmergency.IsUrgent())
	assert.False(t, entities.AppointmentTypeExam.IsUrgent())

	assert.True(t, entities.AppointmentTypeFollowUp.CanBeTelemedicine())
	assert.True(t, entities.AppointmentTypeFirstConsultation.CanBeTelemedicine())
	assert.False(t, entities.AppointmentTypeProcedure.CanBeTelemedicine())

	assert.False(t, entities.AppointmentTypeEmergency.AllowsRescheduling())
	assert.False(t, entities.AppointmentTypeVaccination.AllowsRescheduling())
	assert.True(t, entities.AppointmentTypeFollowUp.AllowsRescheduling())
}

func TestParseAppointmentType(t *testing.T) {
	t.Run("empty defaults to follow-up", func(t *testing.T) {
		appointmentType, err := entities.ParseAppointmentType("")

		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentTypeFollowUp, appointmentType)
	})

	t.Run("parsing is case-insensitive", func(t *testing.T) {
		appointmentType, err := entities.ParseAppointmentType("exam")

		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentTypeExam, appointmentType)
	})

	t.Run("rejects values outside the closed set", func(t *testing.T) {
		_, err := entities.ParseAppointmentType("SURGERY")

		assert.Error(t, err)
	})
}
