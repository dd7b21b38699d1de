package entities

import (
	"time"

	apperrors "github.com/clinicboard/scheduling-service/pkg/errors"
)

// Canonical scheduling constants for the clinic
const (
	// BusinessDayStart is the first bookable moment of a working day
	BusinessDayStart = 8 * time.Hour
	// BusinessDayEnd is the close of the working day. The bound is
	// exclusive for slot starts: the last start is 18:30 so every
	// 30-minute window ends by 19:00.
	BusinessDayEnd = 19 * time.Hour
	// SlotDuration is the fixed occupancy window of one appointment
	SlotDuration = 30 * time.Minute
	// MinimumLeadTime is how far in the future any booking must be
	MinimumLeadTime = 2 * time.Hour
	// NoShowGracePeriod is how long after the scheduled time an
	// appointment may be marked as a no-show
	NoShowGracePeriod = 15 * time.Minute

	timeSlotLayout = "02/01/2006 15:04"
)

// AppointmentTime is a validated scheduling moment. A value only exists if
// it satisfies every booking constraint at validation time: at least two
// hours in the future, at most one year out, within business hours, and
// aligned to the 30-minute grid.
type AppointmentTime struct {
	value time.Time
}

// NewAppointmentTime validates t and wraps it as a bookable moment
func NewAppointmentTime(t time.Time) (AppointmentTime, error) {
	if t.IsZero() {
		return AppointmentTime{}, apperrors.NewInvalidTimeSlotError("(none)", "scheduling moment is required")
	}

	now := time.Now()
	if !t.After(now.Add(MinimumLeadTime)) {
		return AppointmentTime{}, apperrors.NewInvalidTimeSlotError(
			t.Format(timeSlotLayout), "appointments must be booked at least 2 hours in advance")
	}
	if t.After(now.AddDate(1, 0, 0)) {
		return AppointmentTime{}, apperrors.NewInvalidTimeSlotError(
			t.Format(timeSlotLayout), "appointments cannot be booked more than one year ahead")
	}
	if !withinBusinessHours(t) {
		return AppointmentTime{}, apperrors.NewInvalidTimeSlotError(
			t.Format(timeSlotLayout), "appointments must start between 08:00 and 18:30")
	}
	if t.Minute()%30 != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return AppointmentTime{}, apperrors.NewInvalidTimeSlotError(
			t.Format(timeSlotLayout), "appointments must align to the 30-minute grid")
	}

	return AppointmentTime{value: t}, nil
}

func withinBusinessHours(t time.Time) bool {
	sinceMidnight := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	return sinceMidnight >= BusinessDayStart && sinceMidnight+SlotDuration <= BusinessDayEnd
}

// RestoreAppointmentTime rewraps a moment loaded from persistence. The
// booking-time constraints applied at creation are intentionally skipped:
// a stored appointment legitimately lies in the past.
func RestoreAppointmentTime(t time.Time) AppointmentTime {
	return AppointmentTime{value: t}
}

// Value returns the wrapped moment
func (at AppointmentTime) Value() time.Time {
	return at.value
}

// WithinBusinessHours reports whether the moment starts inside the
// working day. Restored values skip construction validation, so callers
// evaluating availability must re-check this.
func (at AppointmentTime) WithinBusinessHours() bool {
	return withinBusinessHours(at.value)
}

// IsZero reports whether the value was never constructed
func (at AppointmentTime) IsZero() bool {
	return at.value.IsZero()
}

// ConflictsWith reports whether the two fixed 30-minute occupancy windows
// strictly overlap
func (at AppointmentTime) ConflictsWith(other AppointmentTime) bool {
	if other.IsZero() {
		return false
	}

	thisStart := at.value
	thisEnd := thisStart.Add(SlotDuration)
	otherStart := other.value
	otherEnd := otherStart.Add(SlotDuration)

	return thisStart.Before(otherEnd) && thisEnd.After(otherStart)
}

// MinutesUntil returns the signed minute delta from this moment to other
func (at AppointmentTime) MinutesUntil(other AppointmentTime) int64 {
	return int64(other.value.Sub(at.value) / time.Minute)
}

// NextSlot returns the following 30-minute boundary, revalidated through
// the same constructor rules
func (at AppointmentTime) NextSlot() (AppointmentTime, error) {
	return NewAppointmentTime(at.value.Add(SlotDuration))
}

// PreviousSlot returns the preceding 30-minute boundary, revalidated
// through the same constructor rules
func (at AppointmentTime) PreviousSlot() (AppointmentTime, error) {
	return NewAppointmentTime(at.value.Add(-SlotDuration))
}

// SameDate reports whether both moments fall on the same calendar date
func (at AppointmentTime) SameDate(date time.Time) bool {
	y1, m1, d1 := at.value.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Before reports whether this moment precedes other
func (at AppointmentTime) Before(other AppointmentTime) bool {
	return at.value.Before(other.value)
}

// After reports whether this moment follows other
func (at AppointmentTime) After(other AppointmentTime) bool {
	return at.value.After(other.value)
}

// Equal reports whether both values denote the same moment
func (at AppointmentTime) Equal(other AppointmentTime) bool {
	return at.value.Equal(other.value)
}

func (at AppointmentTime) String() string {
	return at.value.Format(timeSlotLayout)
}

// TimeOfDay returns the clock portion, e.g. "14:30"
func (at AppointmentTime) TimeOfDay() string {
	return at.value.Format("15:04")
}
