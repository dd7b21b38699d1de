package services

import (
	"fmt"
	"time"

	"github.com/clinicboard/scheduling-service/internal/domain/entities"
	apperrors "github.com/clinicboard/scheduling-service/pkg/errors"
)

// AvailabilityService evaluates scheduling policies that span multiple
// appointments. It holds no storage of its own: every method is a pure
// function over collections loaded by the caller.
type AvailabilityService struct{}

// NewAvailabilityService creates the stateless policy evaluator
func NewAvailabilityService() *AvailabilityService {
	return &AvailabilityService{}
}

// AvailabilityStats summarizes slot occupancy for a professional over a
// date range
type AvailabilityStats struct {
	TotalSlots     int     `json:"total_slots"`
	BookedSlots    int     `json:"booked_slots"`
	AvailableSlots int     `json:"available_slots"`
	OccupancyRate  float64 `json:"occupancy_rate"`
}

// IsTimeSlotAvailable reports whether requestedTime is bookable for the
// professional: it must satisfy the lead-time and business-hours
// preconditions and collide with no active appointment of theirs.
func (s *AvailabilityService) IsTimeSlotAvailable(professionalID entities.ProfessionalID,
	requestedTime entities.AppointmentTime, existing []*entities.Appointment) bool {

	if requestedTime.IsZero() {
		return false
	}
	if !requestedTime.Value().After(time.Now().Add(entities.MinimumLeadTime)) {
		return false
	}
	if !requestedTime.WithinBusinessHours() {
		return false
	}

	for _, appointment := range existing {
		if !appointment.BelongsToProfessional(professionalID) || !appointment.IsActive() {
			continue
		}
		if appointment.ScheduledTime().ConflictsWith(requestedTime) {
			return false
		}
	}
	return true
}

// ValidatePatientCanScheduleOnDate enforces the one-active-appointment-
// per-patient-per-day policy
func (s *AvailabilityService) ValidatePatientCanScheduleOnDate(patientID entities.PatientID,
	date time.Time, appointments []*entities.Appointment) error {

	for _, appointment := range appointments {
		if !appointment.BelongsToPatient(patientID) || !appointment.IsActive() {
			continue
		}
		if appointment.ScheduledTime().SameDate(date) {
			return apperrors.NewPatientBusinessRuleError(patientID.String(),
				"patient already has an active appointment on this date")
		}
	}
	return nil
}

// ValidateAdvanceNotice enforces the per-type minimum lead time
func (s *AvailabilityService) ValidateAdvanceNotice(requestedTime entities.AppointmentTime,
	appointmentType entities.AppointmentType) error {

	minimumTime := time.Now().Add(appointmentType.MinimumAdvanceNotice())
	if requestedTime.Value().Before(minimumTime) {
		return apperrors.NewInvalidTimeSlotError(requestedTime.String(), fmt.Sprintf(
			"%s appointments require at least %d hours of advance notice",
			appointmentType.DisplayName(),
			int(appointmentType.MinimumAdvanceNotice().Hours())))
	}
	return nil
}

// GenerateAvailableSlots produces the ordered free 30-minute boundaries of
// the professional's working day: every boundary from 08:00 through 18:30,
// excluding boundaries coincident with or immediately following an active
// booking and anything violating the 2-hour lead rule.
func (s *AvailabilityService) GenerateAvailableSlots(professionalID entities.ProfessionalID,
	date time.Time, existing []*entities.Appointment) []entities.AppointmentTime {

	busy := make(map[string]struct{})
	for _, appointment := range existing {
		if !appointment.BelongsToProfessional(professionalID) || !appointment.IsActive() {
			continue
		}
		if !appointment.ScheduledTime().SameDate(date) {
			continue
		}
		start := appointment.ScheduledTime().Value()
		busy[start.Format("15:04")] = struct{}{}
		busy[start.Add(entities.SlotDuration).Format("15:04")] = struct{}{}
	}

	var slots []entities.AppointmentTime

	year, month, day := date.Date()
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, date.Location())

	for offset := entities.BusinessDayStart; offset+entities.SlotDuration <= entities.BusinessDayEnd; offset += entities.SlotDuration {
		candidate := dayStart.Add(offset)
		if _, taken := busy[candidate.Format("15:04")]; taken {
			continue
		}

		slot, err := entities.NewAppointmentTime(candidate)
		if err != nil {
			// candidate violates the lead-time rule (or another booking
			// constraint); skip it
			continue
		}
		slots = append(slots, slot)
	}

	return slots
}

// CalculateAvailabilityStats computes occupancy for the professional over
// [startDate, endDate]. Working days approximate 71% of calendar days, at
// 22 slots per working day.
func (s *AvailabilityService) CalculateAvailabilityStats(professionalID entities.ProfessionalID,
	startDate, endDate time.Time, appointments []*entities.Appointment) AvailabilityStats {

	totalSlots := workingDays(startDate, endDate) * slotsPerDay()

	booked := 0
	for _, appointment := range appointments {
		if !appointment.BelongsToProfessional(professionalID) || !appointment.IsActive() {
			continue
		}
		scheduled := appointment.ScheduledTime().Value()
		if dateOf(scheduled).Before(dateOf(startDate)) || dateOf(scheduled).After(dateOf(endDate)) {
			continue
		}
		booked++
	}

	occupancy := 0.0
	if totalSlots > 0 {
		occupancy = float64(booked) / float64(totalSlots) * 100
	}

	return AvailabilityStats{
		TotalSlots:     totalSlots,
		BookedSlots:    booked,
		AvailableSlots: totalSlots - booked,
		OccupancyRate:  occupancy,
	}
}

// ValidateAppointmentCreation runs the full booking policy pipeline in
// strict order; the first failing check short-circuits with its specific
// error.
func (s *AvailabilityService) ValidateAppointmentCreation(patientID entities.PatientID,
	professionalID entities.ProfessionalID, requestedTime entities.AppointmentTime,
	appointmentType entities.AppointmentType, existing []*entities.Appointment,
	patient *entities.Patient) error {

	if patient == nil || !patient.IsActive() {
		return apperrors.NewPatientBusinessRuleError(patientID.String(),
			"inactive patients cannot book appointments")
	}

	if !patient.CanSchedule(requestedTime) {
		return apperrors.NewPatientBusinessRuleError(patientID.String(),
			"patient does not meet the booking eligibility criteria")
	}

	if err := s.ValidateAdvanceNotice(requestedTime, appointmentType); err != nil {
		return err
	}

	if !s.IsTimeSlotAvailable(professionalID, requestedTime, existing) {
		return apperrors.NewAppointmentConflictError(professionalID.String(), requestedTime.String())
	}

	return s.ValidatePatientCanScheduleOnDate(patientID, requestedTime.Value(), existing)
}

// workingDays approximates the number of business days between start and
// end inclusive (5 of every 7 calendar days)
func workingDays(start, end time.Time) int {
	days := int(dateOf(end).Sub(dateOf(start))/(24*time.Hour)) + 1
	if days < 0 {
		return 0
	}
	return int(float64(days) * 0.71)
}

// slotsPerDay is 08:00 through 18:30 in 30-minute steps
func slotsPerDay() int {
	return int((entities.BusinessDayEnd - entities.BusinessDayStart) / entities.SlotDuration)
}

func dateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
