package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeInvalidTimeSlot indicates a scheduling moment that fails
	// temporal validity constraints (past, outside business hours,
	// off-grid, insufficient advance notice)
	ErrorTypeInvalidTimeSlot ErrorType = "INVALID_TIME_SLOT"

	// ErrorTypeInvalidStatusTransition indicates a status change absent
	// from the appointment transition table
	ErrorTypeInvalidStatusTransition ErrorType = "INVALID_STATUS_TRANSITION"

	// ErrorTypeInvalidAppointment indicates a domain-rule violation on the
	// appointment itself (missing cancellation reason, premature no-show)
	ErrorTypeInvalidAppointment ErrorType = "INVALID_APPOINTMENT"

	// ErrorTypeAppointmentConflict indicates a time-window collision with
	// another active appointment for the same professional
	ErrorTypeAppointmentConflict ErrorType = "APPOINTMENT_CONFLICT"

	// ErrorTypePatientBusinessRule indicates a patient eligibility or
	// one-per-day violation
	ErrorTypePatientBusinessRule ErrorType = "PATIENT_BUSINESS_RULE_VIOLATION"

	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error with a stable code
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// TypeOf returns the error type of err, or ErrorTypeInternal when err does
// not carry an AppError anywhere in its chain.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err carries an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// NewInvalidTimeSlotError creates an invalid time slot error
func NewInvalidTimeSlotError(timeSlot, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidTimeSlot,
		Message: fmt.Sprintf("time slot %s is not bookable: %s", timeSlot, reason),
	}
}

// NewInvalidStatusTransitionError creates an invalid status transition error
// naming the current and requested status
func NewInvalidStatusTransitionError(from, to string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidStatusTransition,
		Message: fmt.Sprintf("cannot transition appointment from %s to %s", from, to),
	}
}

// NewInvalidAppointmentError creates an invalid appointment error
func NewInvalidAppointmentError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidAppointment,
		Message: message,
	}
}

// NewAppointmentConflictError creates an appointment conflict error
func NewAppointmentConflictError(professionalID, timeSlot string) *AppError {
	return &AppError{
		Type:    ErrorTypeAppointmentConflict,
		Message: fmt.Sprintf("professional %s already has a conflicting appointment at %s", professionalID, timeSlot),
	}
}

// NewPatientBusinessRuleError creates a patient business rule error
func NewPatientBusinessRuleError(patientID, rule string) *AppError {
	return &AppError{
		Type:    ErrorTypePatientBusinessRule,
		Message: fmt.Sprintf("patient %s violated business rule: %s", patientID, rule),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}
