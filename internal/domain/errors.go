// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Field-level failures are reported as *ValidationError values which
	// match ErrValidation via errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrConflict is returned when an operation would violate a uniqueness rule
	// that the domain detects before reaching storage.
	ErrConflict = errors.New("conflict")

	// ErrForbidden is returned when the acting identity may not perform an operation.
	ErrForbidden = errors.New("operation not permitted")

	// ErrReviewerNotApproved is returned when an unapproved reviewer tries to use
	// capabilities reserved for approved reviewers.
	ErrReviewerNotApproved = errors.New("reviewer account awaiting approval")

	// ErrStudentProfileRequired is returned when an operation needs a student identity.
	ErrStudentProfileRequired = errors.New("student profile required")

	// ErrReviewerProfileRequired is returned when an operation needs a reviewer identity.
	ErrReviewerProfileRequired = errors.New("reviewer profile required")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a field-scoped validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
