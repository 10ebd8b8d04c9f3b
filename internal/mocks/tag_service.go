package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/service"
)

// MockTagService implements service.TagService for testing.
type MockTagService struct {
	ListTagsFn        func(ctx context.Context) ([]domain.Tag, error)
	PopularTagsFn     func(ctx context.Context) ([]domain.Tag, error)
	TagCloudFn        func(ctx context.Context) ([]domain.TagCloudEntry, error)
	CoursesByTagFn    func(ctx context.Context, slug string) (*service.TagCourses, error)
	CreateTagFn       func(ctx context.Context, actor domain.Identity, p domain.TagParams) (*domain.Tag, error)
	UpdateTagFn       func(ctx context.Context, actor domain.Identity, tagID uuid.UUID, p domain.TagParams) (*domain.Tag, error)
	DeleteTagFn       func(ctx context.Context, actor domain.Identity, tagID uuid.UUID) error
	SeedDefaultsFn    func(ctx context.Context) (int, error)
	RecomputeCountsFn func(ctx context.Context) error
}

var _ service.TagService = (*MockTagService)(nil)

func (m *MockTagService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	if m.ListTagsFn != nil {
		return m.ListTagsFn(ctx)
	}
	return nil, nil
}

func (m *MockTagService) PopularTags(ctx context.Context) ([]domain.Tag, error) {
	if m.PopularTagsFn != nil {
		return m.PopularTagsFn(ctx)
	}
	return nil, nil
}

func (m *MockTagService) TagCloud(ctx context.Context) ([]domain.TagCloudEntry, error) {
	if m.TagCloudFn != nil {
		return m.TagCloudFn(ctx)
	}
	return nil, nil
}

func (m *MockTagService) CoursesByTag(ctx context.Context, slug string) (*service.TagCourses, error) {
	if m.CoursesByTagFn != nil {
		return m.CoursesByTagFn(ctx, slug)
	}
	return nil, nil
}

func (m *MockTagService) CreateTag(ctx context.Context, actor domain.Identity, p domain.TagParams) (*domain.Tag, error) {
	if m.CreateTagFn != nil {
		return m.CreateTagFn(ctx, actor, p)
	}
	return nil, nil
}

func (m *MockTagService) UpdateTag(ctx context.Context, actor domain.Identity, tagID uuid.UUID, p domain.TagParams) (*domain.Tag, error) {
	if m.UpdateTagFn != nil {
		return m.UpdateTagFn(ctx, actor, tagID, p)
	}
	return nil, nil
}

func (m *MockTagService) DeleteTag(ctx context.Context, actor domain.Identity, tagID uuid.UUID) error {
	if m.DeleteTagFn != nil {
		return m.DeleteTagFn(ctx, actor, tagID)
	}
	return nil
}

func (m *MockTagService) SeedDefaults(ctx context.Context) (int, error) {
	if m.SeedDefaultsFn != nil {
		return m.SeedDefaultsFn(ctx)
	}
	return 0, nil
}

func (m *MockTagService) RecomputeCounts(ctx context.Context) error {
	if m.RecomputeCountsFn != nil {
		return m.RecomputeCountsFn(ctx)
	}
	return nil
}
