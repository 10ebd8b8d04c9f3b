package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/service"
	"github.com/phrazzld/lms-api/internal/store"
)

// CourseHandler serves the catalog: courses, modules and lessons.
type CourseHandler struct {
	catalog     service.CatalogService
	enrollments service.EnrollmentService
	logger      *slog.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(
	catalog service.CatalogService,
	enrollments service.EnrollmentService,
	logger *slog.Logger,
) *CourseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseHandler{
		catalog:     catalog,
		enrollments: enrollments,
		logger:      logger.With(slog.String("component", "course_handler")),
	}
}

// ListCourses handles GET /courses. Supported filters are q, tag (repeated
// or comma-separated slugs), difficulty and active. Only staff may list
// inactive courses with active=false.
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	active, err := queryBool(r, "active")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	filter := store.CourseFilter{
		ActiveOnly: true,
		Query:      strings.TrimSpace(r.URL.Query().Get("q")),
		TagSlugs:   queryList(r, "tag"),
		Difficulty: domain.Difficulty(strings.TrimSpace(r.URL.Query().Get("difficulty"))),
	}
	if filter.Difficulty != "" && !domain.IsValidDifficulty(filter.Difficulty) {
		HandleAPIError(w, r, domain.ErrInvalidDifficulty)
		return
	}
	if actor, ok := shared.IdentityFromContext(r.Context()); ok && (actor.IsAdmin() || actor.IsReviewer()) {
		filter.ActiveOnly = boolOr(active, true)
	}

	courses, err := h.catalog.ListCourses(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, courses)
}

// GetCourse handles GET /courses/{id}. Authenticated callers also get what
// they may do with the course: manage it, enroll, or see their progress.
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	actor, authenticated := shared.IdentityFromContext(r.Context())
	detail, err := h.catalog.GetCourseDetail(r.Context(), actor, courseID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := CourseResponse{CourseDetail: detail}
	if authenticated {
		access, err := h.enrollments.CourseAccess(r.Context(), actor, courseID)
		if err != nil {
			HandleAPIError(w, r, err)
			return
		}
		resp.Access = access
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// CreateCourse handles POST /courses.
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req CourseRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	course, err := h.catalog.CreateCourse(r.Context(), actor, req.params(), req.TagIDs)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("course created",
		slog.String("course_id", course.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, course)
}

// UpdateCourse handles PUT /courses/{id}.
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	actor, courseID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req CourseRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	course, err := h.catalog.UpdateCourse(r.Context(), actor, courseID, req.params(), req.TagIDs)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, course)
}

// DeleteCourse handles DELETE /courses/{id}.
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	actor, courseID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCourse(r.Context(), actor, courseID); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateModule handles POST /courses/{id}/modules.
func (h *CourseHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	actor, courseID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req ModuleRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	module, err := h.catalog.CreateModule(r.Context(), actor, courseID, req.params())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, module)
}

// UpdateModule handles PUT /modules/{id}.
func (h *CourseHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	actor, moduleID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req ModuleRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	module, err := h.catalog.UpdateModule(r.Context(), actor, moduleID, req.params())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, module)
}

// DeleteModule handles DELETE /modules/{id}.
func (h *CourseHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	actor, moduleID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteModule(r.Context(), actor, moduleID); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateLesson handles POST /modules/{id}/lessons.
func (h *CourseHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	actor, moduleID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req LessonRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	lesson, err := h.catalog.CreateLesson(r.Context(), actor, moduleID, req.params())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, lesson)
}

// GetLesson handles GET /lessons/{id}.
func (h *CourseHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	actor, lessonID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.catalog.GetLesson(r.Context(), actor, lessonID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// UpdateLesson handles PUT /lessons/{id}.
func (h *CourseHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	actor, lessonID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req LessonRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	lesson, err := h.catalog.UpdateLesson(r.Context(), actor, lessonID, req.params())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, lesson)
}

// DeleteLesson handles DELETE /lessons/{id}.
func (h *CourseHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	actor, lessonID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteLesson(r.Context(), actor, lessonID); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
