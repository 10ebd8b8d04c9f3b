package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or when the database rejects it through a check constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrReferenceNotFound is returned when an entity points at a related
	// entity that does not exist.
	ErrReferenceNotFound = errors.New("referenced entity not found")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	ErrAccountNotFound      = fmt.Errorf("%w: account", ErrNotFound)
	ErrStudentNotFound      = fmt.Errorf("%w: student", ErrNotFound)
	ErrReviewerNotFound     = fmt.Errorf("%w: reviewer", ErrNotFound)
	ErrCourseNotFound       = fmt.Errorf("%w: course", ErrNotFound)
	ErrModuleNotFound       = fmt.Errorf("%w: module", ErrNotFound)
	ErrLessonNotFound       = fmt.Errorf("%w: lesson", ErrNotFound)
	ErrTagNotFound          = fmt.Errorf("%w: tag", ErrNotFound)
	ErrEnrollmentNotFound   = fmt.Errorf("%w: enrollment", ErrNotFound)
	ErrCompletionNotFound   = fmt.Errorf("%w: lesson completion", ErrNotFound)
	ErrPrerequisiteNotFound = fmt.Errorf("%w: prerequisite", ErrNotFound)
	ErrHomeworkNotFound     = fmt.Errorf("%w: homework", ErrNotFound)
	ErrSubmissionNotFound   = fmt.Errorf("%w: homework submission", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that an account with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrProfileExists indicates that the account already has a profile of that kind.
	ErrProfileExists = fmt.Errorf("%w: profile", ErrDuplicate)

	// ErrSlugExists indicates that a tag with the given slug already exists.
	// Tag creation retries with a suffixed slug when it sees this error.
	ErrSlugExists = fmt.Errorf("%w: tag slug", ErrDuplicate)

	// ErrTagNameExists indicates that a tag with the given name already exists.
	ErrTagNameExists = fmt.Errorf("%w: tag name", ErrDuplicate)

	// ErrTagColorExists indicates that a tag with the given color already exists.
	ErrTagColorExists = fmt.Errorf("%w: tag color", ErrDuplicate)

	// ErrModuleOrderExists indicates a module order collision within a course.
	ErrModuleOrderExists = fmt.Errorf("%w: module order", ErrDuplicate)

	// ErrLessonOrderExists indicates a lesson order collision within a module.
	ErrLessonOrderExists = fmt.Errorf("%w: lesson order", ErrDuplicate)

	// ErrAlreadyEnrolled indicates that the student is already enrolled in the course.
	ErrAlreadyEnrolled = fmt.Errorf("%w: enrollment", ErrDuplicate)

	// ErrAlreadyCompleted indicates that the lesson was already completed within the enrollment.
	ErrAlreadyCompleted = fmt.Errorf("%w: lesson completion", ErrDuplicate)

	// ErrPrerequisiteExists indicates that the course already requires that course.
	ErrPrerequisiteExists = fmt.Errorf("%w: prerequisite", ErrDuplicate)

	// ErrAlreadyAssigned indicates that the reviewer already teaches the course.
	ErrAlreadyAssigned = fmt.Errorf("%w: teacher assignment", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// Entity-specific errors wrap ErrNotFound, so one check covers them all.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "course", "tag")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
