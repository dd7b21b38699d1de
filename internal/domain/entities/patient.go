package entities

import "time"

// PatientStatus represents whether a patient may currently book visits
type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "ACTIVE"
	PatientStatusInactive PatientStatus = "INACTIVE"
)

// Patient is the minimal read model the scheduling rules consult. Profile
// management lives in another service.
type Patient struct {
	ID     PatientID
	Name   string
	Status PatientStatus
}

// IsActive reports whether the patient may book appointments
func (p *Patient) IsActive() bool {
	return p.Status == PatientStatusActive
}

// CanSchedule reports whether the patient is eligible to book the given
// moment
func (p *Patient) CanSchedule(t AppointmentTime) bool {
	if !p.IsActive() {
		return false
	}
	if !t.Value().After(time.Now()) {
		return false
	}
	return withinBusinessHours(t.Value())
}
