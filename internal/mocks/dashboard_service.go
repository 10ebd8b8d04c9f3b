package mocks

import (
	"context"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/service"
)

// MockDashboardService implements service.DashboardService for testing.
type MockDashboardService struct {
	StudentDashboardFn  func(ctx context.Context, actor domain.Identity) (*service.StudentDashboard, error)
	StudentStatsFn      func(ctx context.Context, actor domain.Identity) (*service.StudentStats, error)
	ReviewerDashboardFn func(ctx context.Context, actor domain.Identity) (*service.ReviewerDashboard, error)
}

var _ service.DashboardService = (*MockDashboardService)(nil)

func (m *MockDashboardService) StudentDashboard(ctx context.Context, actor domain.Identity) (*service.StudentDashboard, error) {
	if m.StudentDashboardFn != nil {
		return m.StudentDashboardFn(ctx, actor)
	}
	return nil, nil
}

func (m *MockDashboardService) StudentStats(ctx context.Context, actor domain.Identity) (*service.StudentStats, error) {
	if m.StudentStatsFn != nil {
		return m.StudentStatsFn(ctx, actor)
	}
	return nil, nil
}

func (m *MockDashboardService) ReviewerDashboard(ctx context.Context, actor domain.Identity) (*service.ReviewerDashboard, error) {
	if m.ReviewerDashboardFn != nil {
		return m.ReviewerDashboardFn(ctx, actor)
	}
	return nil, nil
}
