package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/service"
)

// EnrollmentHandler serves enrollment, lesson completion and prerequisites.
type EnrollmentHandler struct {
	enrollments service.EnrollmentService
	logger      *slog.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollments service.EnrollmentService, logger *slog.Logger) *EnrollmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrollmentHandler{
		enrollments: enrollments,
		logger:      logger.With(slog.String("component", "enrollment_handler")),
	}
}

// UncompleteResponse reports whether a completion was removed.
type UncompleteResponse struct {
	Deleted bool `json:"deleted"`
}

// Enroll handles POST /courses/{id}/enroll.
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	actor, courseID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollments.Enroll(r.Context(), actor, courseID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, enrollment)
}

// Progress handles GET /courses/{id}/progress.
func (h *EnrollmentHandler) Progress(w http.ResponseWriter, r *http.Request) {
	actor, courseID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	report, err := h.enrollments.CourseProgress(r.Context(), actor, courseID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// Prerequisites handles GET /courses/{id}/prerequisites. A student caller
// also gets the evaluation against their own history.
func (h *EnrollmentHandler) Prerequisites(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	prereqs, err := h.enrollments.ListPrerequisites(r.Context(), courseID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if prereqs == nil {
		prereqs = []domain.CoursePrerequisite{}
	}
	resp := PrerequisitesResponse{Prerequisites: prereqs}

	if actor, ok := shared.IdentityFromContext(r.Context()); ok && actor.IsStudent() {
		check, err := h.enrollments.CheckPrerequisites(r.Context(), actor, courseID)
		if err != nil {
			HandleAPIError(w, r, err)
			return
		}
		resp.Check = &check
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// AddPrerequisite handles POST /courses/{id}/prerequisites.
func (h *EnrollmentHandler) AddPrerequisite(w http.ResponseWriter, r *http.Request) {
	actor, courseID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req PrerequisiteRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	prereq, err := h.enrollments.AddPrerequisite(r.Context(), actor, courseID, req.params())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, prereq)
}

// RemovePrerequisite handles DELETE /courses/{id}/prerequisites/{reqID}.
func (h *EnrollmentHandler) RemovePrerequisite(w http.ResponseWriter, r *http.Request) {
	actor, courseID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	prereqID, ok := pathUUID(w, r, "reqID")
	if !ok {
		return
	}

	if err := h.enrollments.RemovePrerequisite(r.Context(), actor, courseID, prereqID); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompleteLesson handles POST /lessons/{id}/complete. The body is optional.
// A first completion answers 201, a repeated one 200 with the existing record.
func (h *EnrollmentHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	actor, lessonID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req CompleteLessonRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		HandleAPIError(w, r, err)
		return
	}

	outcome, err := h.enrollments.CompleteLesson(r.Context(), actor, lessonID, req.rawScore())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	status := http.StatusCreated
	if outcome.AlreadyCompleted {
		status = http.StatusOK
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("lesson already completed",
			slog.String("lesson_id", lessonID.String()))
	}
	shared.RespondWithJSON(w, r, status, outcome)
}

// UncompleteLesson handles DELETE /lessons/{id}/complete.
func (h *EnrollmentHandler) UncompleteLesson(w http.ResponseWriter, r *http.Request) {
	actor, lessonID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	deleted, err := h.enrollments.UncompleteLesson(r.Context(), actor, lessonID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, UncompleteResponse{Deleted: deleted})
}

// UpdateEnrollment handles PATCH /enrollments/{id}.
func (h *EnrollmentHandler) UpdateEnrollment(w http.ResponseWriter, r *http.Request) {
	actor, enrollmentID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateEnrollmentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	enrollment, err := h.enrollments.UpdateEnrollment(
		r.Context(),
		actor,
		enrollmentID,
		domain.EnrollmentStatus(req.Status),
		req.OverallScore,
	)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, enrollment)
}
