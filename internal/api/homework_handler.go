package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/service"
)

// HomeworkHandler serves homework and the submission review workflow.
type HomeworkHandler struct {
	homework service.HomeworkService
	logger   *slog.Logger
}

// NewHomeworkHandler creates a new HomeworkHandler.
func NewHomeworkHandler(homework service.HomeworkService, logger *slog.Logger) *HomeworkHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HomeworkHandler{
		homework: homework,
		logger:   logger.With(slog.String("component", "homework_handler")),
	}
}

// CreateHomework handles POST /lessons/{id}/homework.
func (h *HomeworkHandler) CreateHomework(w http.ResponseWriter, r *http.Request) {
	actor, lessonID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req HomeworkRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	homework, err := h.homework.CreateHomework(r.Context(), actor, lessonID, req.params())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, homework)
}

// ListHomework handles GET /lessons/{id}/homework.
func (h *HomeworkHandler) ListHomework(w http.ResponseWriter, r *http.Request) {
	_, lessonID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	list, err := h.homework.ListHomework(r.Context(), lessonID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Homework{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, list)
}

// Submit handles POST /homework/{id}/submissions.
func (h *HomeworkHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, homeworkID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req SubmissionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	sub, err := h.homework.Submit(r.Context(), actor, homeworkID, req.params())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("homework submitted",
		slog.String("submission_id", sub.ID.String()),
		slog.String("urgency", string(sub.Urgency)))
	shared.RespondWithJSON(w, r, http.StatusCreated, sub)
}

// Claim handles POST /submissions/{id}/claim.
func (h *HomeworkHandler) Claim(w http.ResponseWriter, r *http.Request) {
	actor, submissionID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	sub, err := h.homework.Claim(r.Context(), actor, submissionID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sub)
}

// Review handles POST /submissions/{id}/review.
func (h *HomeworkHandler) Review(w http.ResponseWriter, r *http.Request) {
	actor, submissionID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	sub, err := h.homework.Review(r.Context(), actor, submissionID, req.params())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sub)
}

// Resubmit handles POST /submissions/{id}/resubmit.
func (h *HomeworkHandler) Resubmit(w http.ResponseWriter, r *http.Request) {
	actor, submissionID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req SubmissionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	sub, err := h.homework.Resubmit(r.Context(), actor, submissionID, req.params())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sub)
}
