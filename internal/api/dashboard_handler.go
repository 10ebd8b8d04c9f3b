package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/service"
)

// DashboardHandler serves the student and reviewer dashboards.
type DashboardHandler struct {
	dashboards service.DashboardService
	logger     *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboards service.DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		dashboards: dashboards,
		logger:     logger.With(slog.String("component", "dashboard_handler")),
	}
}

// Student handles GET /dashboard/student.
func (h *DashboardHandler) Student(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	dash, err := h.dashboards.StudentDashboard(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, dash)
}

// StudentStats handles GET /dashboard/student/stats.
func (h *DashboardHandler) StudentStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	stats, err := h.dashboards.StudentStats(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// Reviewer handles GET /dashboard/reviewer.
func (h *DashboardHandler) Reviewer(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	dash, err := h.dashboards.ReviewerDashboard(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, dash)
}
