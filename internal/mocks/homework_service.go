package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/service"
)

// MockHomeworkService implements service.HomeworkService for testing.
type MockHomeworkService struct {
	CreateHomeworkFn func(ctx context.Context, actor domain.Identity, lessonID uuid.UUID, p domain.HomeworkParams) (*domain.Homework, error)
	ListHomeworkFn   func(ctx context.Context, lessonID uuid.UUID) ([]domain.Homework, error)
	SubmitFn         func(ctx context.Context, actor domain.Identity, homeworkID uuid.UUID, p service.SubmissionParams) (*domain.HomeworkSubmission, error)
	ClaimFn          func(ctx context.Context, actor domain.Identity, submissionID uuid.UUID) (*domain.HomeworkSubmission, error)
	ReviewFn         func(ctx context.Context, actor domain.Identity, submissionID uuid.UUID, p service.ReviewParams) (*domain.HomeworkSubmission, error)
	ResubmitFn       func(ctx context.Context, actor domain.Identity, submissionID uuid.UUID, p service.SubmissionParams) (*domain.HomeworkSubmission, error)
}

var _ service.HomeworkService = (*MockHomeworkService)(nil)

func (m *MockHomeworkService) CreateHomework(
	ctx context.Context,
	actor domain.Identity,
	lessonID uuid.UUID,
	p domain.HomeworkParams,
) (*domain.Homework, error) {
	if m.CreateHomeworkFn != nil {
		return m.CreateHomeworkFn(ctx, actor, lessonID, p)
	}
	return nil, nil
}

func (m *MockHomeworkService) ListHomework(ctx context.Context, lessonID uuid.UUID) ([]domain.Homework, error) {
	if m.ListHomeworkFn != nil {
		return m.ListHomeworkFn(ctx, lessonID)
	}
	return nil, nil
}

func (m *MockHomeworkService) Submit(
	ctx context.Context,
	actor domain.Identity,
	homeworkID uuid.UUID,
	p service.SubmissionParams,
) (*domain.HomeworkSubmission, error) {
	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, actor, homeworkID, p)
	}
	return nil, nil
}

func (m *MockHomeworkService) Claim(ctx context.Context, actor domain.Identity, submissionID uuid.UUID) (*domain.HomeworkSubmission, error) {
	if m.ClaimFn != nil {
		return m.ClaimFn(ctx, actor, submissionID)
	}
	return nil, nil
}

func (m *MockHomeworkService) Review(
	ctx context.Context,
	actor domain.Identity,
	submissionID uuid.UUID,
	p service.ReviewParams,
) (*domain.HomeworkSubmission, error) {
	if m.ReviewFn != nil {
		return m.ReviewFn(ctx, actor, submissionID, p)
	}
	return nil, nil
}

func (m *MockHomeworkService) Resubmit(
	ctx context.Context,
	actor domain.Identity,
	submissionID uuid.UUID,
	p service.SubmissionParams,
) (*domain.HomeworkSubmission, error) {
	if m.ResubmitFn != nil {
		return m.ResubmitFn(ctx, actor, submissionID, p)
	}
	return nil, nil
}
