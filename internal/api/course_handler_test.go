package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/mocks"
	"github.com/phrazzld/lms-api/internal/service"
	"github.com/phrazzld/lms-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseHandler_ListCourses(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		actor      *domain.Identity
		wantStatus int
		wantFilter store.CourseFilter
	}{
		{
			name:       "anonymous defaults to active courses",
			query:      "",
			wantStatus: http.StatusOK,
			wantFilter: store.CourseFilter{ActiveOnly: true},
		},
		{
			name:       "filters are passed through",
			query:      "?q=+golang+&tag=backend,go&tag=web&difficulty=advanced",
			wantStatus: http.StatusOK,
			wantFilter: store.CourseFilter{
				ActiveOnly: true,
				Query:      "golang",
				TagSlugs:   []string{"backend", "go", "web"},
				Difficulty: domain.DifficultyAdvanced,
			},
		},
		{
			name:       "students cannot list inactive courses",
			query:      "?active=false",
			actor:      ptr(studentActor()),
			wantStatus: http.StatusOK,
			wantFilter: store.CourseFilter{ActiveOnly: true},
		},
		{
			name:       "admins can list inactive courses",
			query:      "?active=false",
			actor:      ptr(adminActor()),
			wantStatus: http.StatusOK,
			wantFilter: store.CourseFilter{ActiveOnly: false},
		},
		{
			name:       "unknown difficulty",
			query:      "?difficulty=expert",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed active flag",
			query:      "?active=maybe",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got store.CourseFilter
			catalog := &mocks.MockCatalogService{
				ListCoursesFn: func(ctx context.Context, filter store.CourseFilter) ([]domain.Course, error) {
					got = filter
					return nil, nil
				},
			}
			h := NewCourseHandler(catalog, &mocks.MockEnrollmentService{}, nil)

			r := newRequest(t, http.MethodGet, "/courses"+tc.query, nil)
			if tc.actor != nil {
				r = asActor(r, *tc.actor)
			}
			w := serve(h.ListCourses, r)

			require.Equal(t, tc.wantStatus, w.Code, w.Body.String())
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, tc.wantFilter, got)
				assert.JSONEq(t, "[]", w.Body.String())
			}
		})
	}
}

func TestCourseHandler_GetCourse(t *testing.T) {
	courseID := uuid.New()
	detail := &service.CourseDetail{Course: &domain.Course{ID: courseID, Title: "Go"}, Modules: []domain.Module{}}
	catalog := &mocks.MockCatalogService{
		GetCourseDetailFn: func(ctx context.Context, actor domain.Identity, id uuid.UUID) (*service.CourseDetail, error) {
			if id != courseID {
				return nil, store.ErrCourseNotFound
			}
			return detail, nil
		},
	}
	accessCalls := 0
	enrollments := &mocks.MockEnrollmentService{
		CourseAccessFn: func(ctx context.Context, actor domain.Identity, id uuid.UUID) (*service.CourseAccess, error) {
			accessCalls++
			return &service.CourseAccess{Prerequisites: &domain.PrerequisiteCheck{CanEnroll: true}}, nil
		},
	}
	h := NewCourseHandler(catalog, enrollments, nil)
	req := func(id string) *http.Request {
		return withURLParams(newRequest(t, http.MethodGet, "/courses/"+id, nil), map[string]string{"id": id})
	}

	t.Run("anonymous", func(t *testing.T) {
		w := serve(h.GetCourse, req(courseID.String()))
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeResponse[map[string]any](t, w)
		assert.Contains(t, body, "course")
		assert.NotContains(t, body, "access")
		assert.Zero(t, accessCalls)
	})

	t.Run("authenticated student sees access", func(t *testing.T) {
		r := withURLParams(asActor(newRequest(t, http.MethodGet, "/", nil), studentActor()), map[string]string{"id": courseID.String()})
		w := serve(h.GetCourse, r)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse[CourseResponse](t, w)
		require.NotNil(t, resp.Access)
		assert.True(t, resp.Access.Prerequisites.CanEnroll)
		assert.Equal(t, "Go", resp.Course.Title)
	})

	t.Run("not found", func(t *testing.T) {
		w := serve(h.GetCourse, req(uuid.NewString()))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := serve(h.GetCourse, req("not-a-uuid"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "id", errorBody(t, w).Field)
	})
}

func TestCourseHandler_CreateCourse(t *testing.T) {
	tagID := uuid.New()
	var gotParams domain.CourseParams
	var gotTags []uuid.UUID
	catalog := &mocks.MockCatalogService{
		CreateCourseFn: func(ctx context.Context, actor domain.Identity, p domain.CourseParams, tagIDs []uuid.UUID) (*domain.Course, error) {
			if _, err := actor.ActingReviewer(); err != nil && !actor.IsAdmin() {
				return nil, err
			}
			gotParams, gotTags = p, tagIDs
			return &domain.Course{ID: uuid.New(), Title: p.Title, IsActive: p.IsActive}, nil
		},
	}
	h := NewCourseHandler(catalog, &mocks.MockEnrollmentService{}, nil)
	body := map[string]any{
		"title":          "Concurrency in Go",
		"price":          49.5,
		"duration_weeks": 6,
		"difficulty":     "intermediate",
		"tag_ids":        []uuid.UUID{tagID},
	}

	t.Run("approved reviewer", func(t *testing.T) {
		w := serve(h.CreateCourse, asActor(newRequest(t, http.MethodPost, "/courses", body), reviewerActor(true)))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Concurrency in Go", decodeResponse[domain.Course](t, w).Title)
		assert.Equal(t, domain.DifficultyIntermediate, gotParams.Difficulty)
		assert.True(t, gotParams.IsActive)
		assert.Equal(t, []uuid.UUID{tagID}, gotTags)
	})

	t.Run("pending reviewer", func(t *testing.T) {
		w := serve(h.CreateCourse, asActor(newRequest(t, http.MethodPost, "/courses", body), reviewerActor(false)))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Reviewer account awaiting approval", errorBody(t, w).Error)
	})

	t.Run("anonymous", func(t *testing.T) {
		w := serve(h.CreateCourse, newRequest(t, http.MethodPost, "/courses", body))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid duration", func(t *testing.T) {
		bad := map[string]any{"title": "X", "duration_weeks": 0}
		w := serve(h.CreateCourse, asActor(newRequest(t, http.MethodPost, "/courses", bad), adminActor()))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "duration_weeks", errorBody(t, w).Field)
	})
}

func TestCourseHandler_ContentManagement(t *testing.T) {
	id := uuid.New()
	teacher := reviewerActor(true)
	var deleted []string

	catalog := &mocks.MockCatalogService{
		DeleteCourseFn: func(ctx context.Context, actor domain.Identity, courseID uuid.UUID) error {
			if actor.AccountID() != teacher.AccountID() {
				return service.ErrNotCourseTeacher
			}
			deleted = append(deleted, "course")
			return nil
		},
		CreateModuleFn: func(ctx context.Context, actor domain.Identity, courseID uuid.UUID, p service.ModuleParams) (*domain.Module, error) {
			if p.ModuleOrder == 1 {
				return nil, store.ErrModuleOrderExists
			}
			return &domain.Module{ID: uuid.New(), CourseID: courseID, Title: p.Title, ModuleOrder: p.ModuleOrder}, nil
		},
		CreateLessonFn: func(ctx context.Context, actor domain.Identity, moduleID uuid.UUID, p domain.LessonParams) (*domain.Lesson, error) {
			return &domain.Lesson{ID: uuid.New(), ModuleID: moduleID, Title: p.Title, LessonType: p.LessonType}, nil
		},
		GetLessonFn: func(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) (*service.LessonView, error) {
			return nil, service.ErrNotEnrolled
		},
		DeleteLessonFn: func(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) error {
			deleted = append(deleted, "lesson")
			return nil
		},
	}
	h := NewCourseHandler(catalog, &mocks.MockEnrollmentService{}, nil)
	req := func(method string, actor domain.Identity, body any) *http.Request {
		return withURLParams(asActor(newRequest(t, method, "/", body), actor), map[string]string{"id": id.String()})
	}

	w := serve(h.DeleteCourse, req(http.MethodDelete, reviewerActor(true), nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = serve(h.DeleteCourse, req(http.MethodDelete, teacher, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(h.CreateModule, req(http.MethodPost, teacher, map[string]any{"title": "Basics", "module_order": 1}))
	assert.Equal(t, http.StatusConflict, w.Code)
	w = serve(h.CreateModule, req(http.MethodPost, teacher, map[string]any{"title": "Basics", "module_order": 2}))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, id, decodeResponse[domain.Module](t, w).CourseID)

	w = serve(h.CreateLesson, req(http.MethodPost, teacher, map[string]any{
		"title": "Goroutines", "lesson_order": 1, "lesson_type": "practice",
	}))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, domain.LessonPractice, decodeResponse[domain.Lesson](t, w).LessonType)

	w = serve(h.CreateLesson, req(http.MethodPost, teacher, map[string]any{
		"title": "Goroutines", "lesson_order": 1, "lesson_type": "workshop",
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "lesson_type", errorBody(t, w).Field)

	w = serve(h.GetLesson, req(http.MethodGet, studentActor(), nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are not enrolled in this course", errorBody(t, w).Error)

	w = serve(h.DeleteLesson, req(http.MethodDelete, teacher, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"course", "lesson"}, deleted)
}

func ptr[T any](v T) *T {
	return &v
}
