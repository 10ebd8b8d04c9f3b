package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/service"
)

// TagHandler serves tag discovery and tag administration.
type TagHandler struct {
	tags   service.TagService
	logger *slog.Logger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tags service.TagService, logger *slog.Logger) *TagHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagHandler{
		tags:   tags,
		logger: logger.With(slog.String("component", "tag_handler")),
	}
}

// ListTags handles GET /tags. With popular=true only the most used tags are
// returned.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	popular, err := queryBool(r, "popular")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var tags []domain.Tag
	if boolOr(popular, false) {
		tags, err = h.tags.PopularTags(r.Context())
	} else {
		tags, err = h.tags.ListTags(r.Context())
	}
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tags)
}

// TagCloud handles GET /tags/cloud.
func (h *TagHandler) TagCloud(w http.ResponseWriter, r *http.Request) {
	cloud, err := h.tags.TagCloud(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if cloud == nil {
		cloud = []domain.TagCloudEntry{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cloud)
}

// CoursesByTag handles GET /tags/{slug}/courses.
func (h *TagHandler) CoursesByTag(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		HandleAPIError(w, r, domain.NewValidationError("slug", "is required"))
		return
	}

	page, err := h.tags.CoursesByTag(r.Context(), slug)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, page)
}

// CreateTag handles POST /tags.
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req TagRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	tag, err := h.tags.CreateTag(r.Context(), actor, req.params())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, tag)
}

// UpdateTag handles PUT /tags/{id}.
func (h *TagHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	actor, tagID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req TagRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	tag, err := h.tags.UpdateTag(r.Context(), actor, tagID, req.params())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tag)
}

// DeleteTag handles DELETE /tags/{id}.
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	actor, tagID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.tags.DeleteTag(r.Context(), actor, tagID); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
