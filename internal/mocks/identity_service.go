package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/service"
)

// MockIdentityService implements service.IdentityService for testing.
type MockIdentityService struct {
	ResolveFn         func(ctx context.Context, accountID uuid.UUID) (domain.Identity, error)
	RegisterFn        func(ctx context.Context, p service.RegisterParams) (domain.Identity, error)
	LoginFn           func(ctx context.Context, email, password string) (domain.Identity, error)
	ApproveReviewerFn func(ctx context.Context, actor domain.Identity, reviewerID uuid.UUID) (*domain.Reviewer, error)
}

var _ service.IdentityService = (*MockIdentityService)(nil)

func (m *MockIdentityService) Resolve(ctx context.Context, accountID uuid.UUID) (domain.Identity, error) {
	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, accountID)
	}
	return domain.Identity{}, nil
}

func (m *MockIdentityService) Register(ctx context.Context, p service.RegisterParams) (domain.Identity, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, p)
	}
	return domain.Identity{}, nil
}

func (m *MockIdentityService) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return domain.Identity{}, nil
}

func (m *MockIdentityService) ApproveReviewer(
	ctx context.Context,
	actor domain.Identity,
	reviewerID uuid.UUID,
) (*domain.Reviewer, error) {
	if m.ApproveReviewerFn != nil {
		return m.ApproveReviewerFn(ctx, actor, reviewerID)
	}
	return nil, nil
}
