package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/service"
	"github.com/phrazzld/lms-api/internal/store"
)

// MockCatalogService implements service.CatalogService for testing.
type MockCatalogService struct {
	ListCoursesFn     func(ctx context.Context, filter store.CourseFilter) ([]domain.Course, error)
	GetCourseDetailFn func(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*service.CourseDetail, error)
	CreateCourseFn    func(ctx context.Context, actor domain.Identity, p domain.CourseParams, tagIDs []uuid.UUID) (*domain.Course, error)
	UpdateCourseFn    func(ctx context.Context, actor domain.Identity, courseID uuid.UUID, p domain.CourseParams, tagIDs []uuid.UUID) (*domain.Course, error)
	DeleteCourseFn    func(ctx context.Context, actor domain.Identity, courseID uuid.UUID) error
	CreateModuleFn    func(ctx context.Context, actor domain.Identity, courseID uuid.UUID, p service.ModuleParams) (*domain.Module, error)
	UpdateModuleFn    func(ctx context.Context, actor domain.Identity, moduleID uuid.UUID, p service.ModuleParams) (*domain.Module, error)
	DeleteModuleFn    func(ctx context.Context, actor domain.Identity, moduleID uuid.UUID) error
	CreateLessonFn    func(ctx context.Context, actor domain.Identity, moduleID uuid.UUID, p domain.LessonParams) (*domain.Lesson, error)
	UpdateLessonFn    func(ctx context.Context, actor domain.Identity, lessonID uuid.UUID, p domain.LessonParams) (*domain.Lesson, error)
	DeleteLessonFn    func(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) error
	GetLessonFn       func(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) (*service.LessonView, error)
}

var _ service.CatalogService = (*MockCatalogService)(nil)

func (m *MockCatalogService) ListCourses(ctx context.Context, filter store.CourseFilter) ([]domain.Course, error) {
	if m.ListCoursesFn != nil {
		return m.ListCoursesFn(ctx, filter)
	}
	return nil, nil
}

func (m *MockCatalogService) GetCourseDetail(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*service.CourseDetail, error) {
	if m.GetCourseDetailFn != nil {
		return m.GetCourseDetailFn(ctx, actor, courseID)
	}
	return nil, nil
}

func (m *MockCatalogService) CreateCourse(
	ctx context.Context,
	actor domain.Identity,
	p domain.CourseParams,
	tagIDs []uuid.UUID,
) (*domain.Course, error) {
	if m.CreateCourseFn != nil {
		return m.CreateCourseFn(ctx, actor, p, tagIDs)
	}
	return nil, nil
}

func (m *MockCatalogService) UpdateCourse(
	ctx context.Context,
	actor domain.Identity,
	courseID uuid.UUID,
	p domain.CourseParams,
	tagIDs []uuid.UUID,
) (*domain.Course, error) {
	if m.UpdateCourseFn != nil {
		return m.UpdateCourseFn(ctx, actor, courseID, p, tagIDs)
	}
	return nil, nil
}

func (m *MockCatalogService) DeleteCourse(ctx context.Context, actor domain.Identity, courseID uuid.UUID) error {
	if m.DeleteCourseFn != nil {
		return m.DeleteCourseFn(ctx, actor, courseID)
	}
	return nil
}

func (m *MockCatalogService) CreateModule(
	ctx context.Context,
	actor domain.Identity,
	courseID uuid.UUID,
	p service.ModuleParams,
) (*domain.Module, error) {
	if m.CreateModuleFn != nil {
		return m.CreateModuleFn(ctx, actor, courseID, p)
	}
	return nil, nil
}

func (m *MockCatalogService) UpdateModule(
	ctx context.Context,
	actor domain.Identity,
	moduleID uuid.UUID,
	p service.ModuleParams,
) (*domain.Module, error) {
	if m.UpdateModuleFn != nil {
		return m.UpdateModuleFn(ctx, actor, moduleID, p)
	}
	return nil, nil
}

func (m *MockCatalogService) DeleteModule(ctx context.Context, actor domain.Identity, moduleID uuid.UUID) error {
	if m.DeleteModuleFn != nil {
		return m.DeleteModuleFn(ctx, actor, moduleID)
	}
	return nil
}

func (m *MockCatalogService) CreateLesson(
	ctx context.Context,
	actor domain.Identity,
	moduleID uuid.UUID,
	p domain.LessonParams,
) (*domain.Lesson, error) {
	if m.CreateLessonFn != nil {
		return m.CreateLessonFn(ctx, actor, moduleID, p)
	}
	return nil, nil
}

func (m *MockCatalogService) UpdateLesson(
	ctx context.Context,
	actor domain.Identity,
	lessonID uuid.UUID,
	p domain.LessonParams,
) (*domain.Lesson, error) {
	if m.UpdateLessonFn != nil {
		return m.UpdateLessonFn(ctx, actor, lessonID, p)
	}
	return nil, nil
}

func (m *MockCatalogService) DeleteLesson(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) error {
	if m.DeleteLessonFn != nil {
		return m.DeleteLessonFn(ctx, actor, lessonID)
	}
	return nil
}

func (m *MockCatalogService) GetLesson(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) (*service.LessonView, error) {
	if m.GetLessonFn != nil {
		return m.GetLessonFn(ctx, actor, lessonID)
	}
	return nil, nil
}
