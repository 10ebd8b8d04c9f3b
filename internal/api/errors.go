package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/service"
	"github.com/phrazzld/lms-api/internal/service/auth"
	"github.com/phrazzld/lms-api/internal/store"
)

// errorMapping pairs a sentinel with its status and client message.
type errorMapping struct {
	err     error
	status  int
	message string
}

// errorMappings is checked in order with errors.Is, so specific sentinels
// come before the generic ones they wrap.
var errorMappings = []errorMapping{
	// Authentication
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
	{auth.ErrExpiredToken, http.StatusUnauthorized, "Token expired"},
	{auth.ErrInvalidRefreshToken, http.StatusUnauthorized, "Invalid refresh token"},
	{auth.ErrExpiredRefreshToken, http.StatusUnauthorized, "Invalid refresh token"},
	{auth.ErrWrongTokenType, http.StatusUnauthorized, "Invalid token"},

	// Not found
	{store.ErrAccountNotFound, http.StatusNotFound, "Account not found"},
	{store.ErrStudentNotFound, http.StatusNotFound, "Student not found"},
	{store.ErrReviewerNotFound, http.StatusNotFound, "Reviewer not found"},
	{store.ErrCourseNotFound, http.StatusNotFound, "Course not found"},
	{store.ErrModuleNotFound, http.StatusNotFound, "Module not found"},
	{store.ErrLessonNotFound, http.StatusNotFound, "Lesson not found"},
	{store.ErrTagNotFound, http.StatusNotFound, "Tag not found"},
	{store.ErrEnrollmentNotFound, http.StatusNotFound, "Enrollment not found"},
	{store.ErrCompletionNotFound, http.StatusNotFound, "Lesson completion not found"},
	{store.ErrPrerequisiteNotFound, http.StatusNotFound, "Prerequisite not found"},
	{store.ErrHomeworkNotFound, http.StatusNotFound, "Homework not found"},
	{store.ErrSubmissionNotFound, http.StatusNotFound, "Submission not found"},
	{store.ErrNotFound, http.StatusNotFound, "Resource not found"},

	// Conflicts
	{store.ErrEmailExists, http.StatusConflict, "Email already registered"},
	{store.ErrProfileExists, http.StatusConflict, "Profile already exists"},
	{store.ErrSlugExists, http.StatusConflict, "Tag slug already exists"},
	{store.ErrTagNameExists, http.StatusConflict, "Tag name already exists"},
	{store.ErrTagColorExists, http.StatusConflict, "Tag color already in use"},
	{store.ErrModuleOrderExists, http.StatusConflict, "Module order already taken in this course"},
	{store.ErrLessonOrderExists, http.StatusConflict, "Lesson order already taken in this module"},
	{store.ErrAlreadyEnrolled, http.StatusConflict, "Already enrolled in this course"},
	{store.ErrPrerequisiteExists, http.StatusConflict, "Prerequisite already exists"},
	{store.ErrAlreadyAssigned, http.StatusConflict, "Reviewer already teaches this course"},
	{service.ErrSlugsExhausted, http.StatusConflict, "No free slug for this tag name"},
	{store.ErrDuplicate, http.StatusConflict, "Resource already exists"},
	{domain.ErrConflict, http.StatusConflict, "Conflicting request"},

	// Authorization
	{service.ErrNotEnrolled, http.StatusForbidden, "You are not enrolled in this course"},
	{service.ErrNotCourseTeacher, http.StatusForbidden, "You do not teach this course"},
	{service.ErrAdminRequired, http.StatusForbidden, "Admin access required"},
	{service.ErrNotSubmissionOwner, http.StatusForbidden, "This submission belongs to another student"},
	{service.ErrNotAssignedReviewer, http.StatusForbidden, "This submission is claimed by another reviewer"},
	{domain.ErrReviewerNotApproved, http.StatusForbidden, "Reviewer account awaiting approval"},
	{domain.ErrStudentProfileRequired, http.StatusForbidden, "Student profile required"},
	{domain.ErrReviewerProfileRequired, http.StatusForbidden, "Reviewer profile required"},
	{domain.ErrForbidden, http.StatusForbidden, "Operation not permitted"},

	// Bad references
	{store.ErrReferenceNotFound, http.StatusBadRequest, "Referenced entity does not exist"},
	{store.ErrInvalidEntity, http.StatusBadRequest, "Invalid entity data"},
	{domain.ErrInvalidID, http.StatusBadRequest, "Invalid ID"},
}

// MapErrorToStatusCode maps a service error to an HTTP status code.
func MapErrorToStatusCode(err error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	var prereqErr *service.PrerequisitesNotMetError
	if errors.As(err, &prereqErr) {
		return http.StatusForbidden
	}
	if errors.Is(err, domain.ErrValidation) {
		return http.StatusBadRequest
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// GetSafeErrorMessage returns a client-facing message for err. Validation
// messages are authored by the domain and returned as is; everything else
// comes from a fixed table.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}
	var prereqErr *service.PrerequisitesNotMetError
	if errors.As(err, &prereqErr) {
		return "Mandatory prerequisites not met"
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	if errors.Is(err, domain.ErrValidation) {
		return "Validation error"
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return "An unexpected error occurred"
}

// HandleAPIError writes the error response for err. Validation errors carry
// the offending field and unmet prerequisites carry the full check.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	var opts []shared.ResponseOption
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		opts = append(opts, shared.WithField(verr.Field))
	}
	var prereqErr *service.PrerequisitesNotMetError
	if errors.As(err, &prereqErr) {
		opts = append(opts, shared.WithDetails(prereqErr.Check))
	}
	if status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
