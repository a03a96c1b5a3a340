// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is normally wrapped by a *ValidationError carrying the field details.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidPriority is returned when a priority is not one of the known values.
	ErrInvalidPriority = errors.New("invalid task priority")

	// ErrInvalidStatus is returned when a status is not one of the known values.
	ErrInvalidStatus = errors.New("invalid task status")
)

// FieldViolation describes a single field that failed validation.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field-level violation found while validating
// a payload. It unwraps to Err (ErrValidation unless stated otherwise) so
// callers can use errors.Is.
type ValidationError struct {
	Violations []FieldViolation
	Err        error
}

// NewValidationError creates a ValidationError holding a single violation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Violations: []FieldViolation{{Field: field, Message: message}},
		Err:        err,
	}
}

// Add appends a violation for the given field.
func (e *ValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
}

// HasViolations reports whether any violation has been recorded.
func (e *ValidationError) HasViolations() bool {
	return len(e.Violations) > 0
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	base := ErrValidation.Error()
	if e.Err != nil {
		base = e.Err.Error()
	}
	if len(e.Violations) == 0 {
		return base
	}

	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+" "+v.Message)
	}
	return base + ": " + strings.Join(parts, "; ")
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}
