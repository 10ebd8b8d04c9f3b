package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/lms-api/internal/domain"
)

// Service-level errors. The API layer maps these with errors.Is.
var (
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotEnrolled is returned when a student acts on a course they are not enrolled in.
	ErrNotEnrolled = fmt.Errorf("%w: not enrolled in this course", domain.ErrForbidden)

	// ErrNotCourseTeacher is returned when a reviewer manages a course they do not teach.
	ErrNotCourseTeacher = fmt.Errorf("%w: not a teacher of this course", domain.ErrForbidden)

	// ErrAdminRequired is returned for admin-only operations.
	ErrAdminRequired = fmt.Errorf("%w: admin only", domain.ErrForbidden)

	// ErrNotSubmissionOwner is returned when a student acts on another student's submission.
	ErrNotSubmissionOwner = fmt.Errorf("%w: submission belongs to another student", domain.ErrForbidden)

	// ErrNotAssignedReviewer is returned when a reviewer reviews a submission claimed by someone else.
	ErrNotAssignedReviewer = fmt.Errorf("%w: submission is claimed by another reviewer", domain.ErrForbidden)

	// ErrCourseNotOpen is returned when enrolling in an inactive course.
	ErrCourseNotOpen = domain.NewValidationError("course_id", "course is not open for enrollment")

	// ErrLessonNotActive is returned when completing an inactive lesson.
	ErrLessonNotActive = domain.NewValidationError("lesson_id", "lesson is not active")

	// ErrRoleNotRegistrable is returned when registration asks for the admin role.
	ErrRoleNotRegistrable = domain.NewValidationError("role", "role must be student or reviewer")

	// ErrSlugsExhausted is returned when no free slug was found for a tag name.
	ErrSlugsExhausted = fmt.Errorf("%w: no free slug for tag name", domain.ErrConflict)
)

// ServiceError records which service operation failed while keeping the
// cause reachable through errors.Is and errors.As.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service %s failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the wrapped error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err with the failing service operation. A nil err yields nil.
func NewServiceError(service, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Service: service, Operation: operation, Err: err}
}

// PrerequisitesNotMetError is returned by Enroll when mandatory prerequisites
// are missing. It matches domain.ErrForbidden.
type PrerequisitesNotMetError struct {
	Check domain.PrerequisiteCheck
}

// Error implements the error interface.
func (e *PrerequisitesNotMetError) Error() string {
	return fmt.Sprintf("%d mandatory prerequisite(s) not met", len(e.Check.Mandatory))
}

// Unwrap returns domain.ErrForbidden.
func (e *PrerequisitesNotMetError) Unwrap() error {
	return domain.ErrForbidden
}
