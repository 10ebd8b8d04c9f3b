package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/service"
)

// MockEnrollmentService implements service.EnrollmentService for testing.
type MockEnrollmentService struct {
	EnrollFn             func(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*domain.Enrollment, error)
	CheckPrerequisitesFn func(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (domain.PrerequisiteCheck, error)
	CourseAccessFn       func(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*service.CourseAccess, error)
	CourseProgressFn     func(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*service.ProgressReport, error)
	CompleteLessonFn     func(ctx context.Context, actor domain.Identity, lessonID uuid.UUID, rawScore string) (*service.CompletionOutcome, error)
	UncompleteLessonFn   func(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) (bool, error)
	UpdateEnrollmentFn   func(
		ctx context.Context,
		actor domain.Identity,
		enrollmentID uuid.UUID,
		status domain.EnrollmentStatus,
		overallScore *int,
	) (*domain.Enrollment, error)
	AddPrerequisiteFn    func(ctx context.Context, actor domain.Identity, courseID uuid.UUID, p service.PrerequisiteParams) (*domain.CoursePrerequisite, error)
	RemovePrerequisiteFn func(ctx context.Context, actor domain.Identity, courseID, prereqID uuid.UUID) error
	ListPrerequisitesFn  func(ctx context.Context, courseID uuid.UUID) ([]domain.CoursePrerequisite, error)
}

var _ service.EnrollmentService = (*MockEnrollmentService)(nil)

func (m *MockEnrollmentService) Enroll(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*domain.Enrollment, error) {
	if m.EnrollFn != nil {
		return m.EnrollFn(ctx, actor, courseID)
	}
	return nil, nil
}

func (m *MockEnrollmentService) CheckPrerequisites(
	ctx context.Context,
	actor domain.Identity,
	courseID uuid.UUID,
) (domain.PrerequisiteCheck, error) {
	if m.CheckPrerequisitesFn != nil {
		return m.CheckPrerequisitesFn(ctx, actor, courseID)
	}
	return domain.PrerequisiteCheck{}, nil
}

func (m *MockEnrollmentService) CourseAccess(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*service.CourseAccess, error) {
	if m.CourseAccessFn != nil {
		return m.CourseAccessFn(ctx, actor, courseID)
	}
	return nil, nil
}

func (m *MockEnrollmentService) CourseProgress(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*service.ProgressReport, error) {
	if m.CourseProgressFn != nil {
		return m.CourseProgressFn(ctx, actor, courseID)
	}
	return nil, nil
}

func (m *MockEnrollmentService) CompleteLesson(
	ctx context.Context,
	actor domain.Identity,
	lessonID uuid.UUID,
	rawScore string,
) (*service.CompletionOutcome, error) {
	if m.CompleteLessonFn != nil {
		return m.CompleteLessonFn(ctx, actor, lessonID, rawScore)
	}
	return nil, nil
}

func (m *MockEnrollmentService) UncompleteLesson(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) (bool, error) {
	if m.UncompleteLessonFn != nil {
		return m.UncompleteLessonFn(ctx, actor, lessonID)
	}
	return false, nil
}

func (m *MockEnrollmentService) UpdateEnrollment(
	ctx context.Context,
	actor domain.Identity,
	enrollmentID uuid.UUID,
	status domain.EnrollmentStatus,
	overallScore *int,
) (*domain.Enrollment, error) {
	if m.UpdateEnrollmentFn != nil {
		return m.UpdateEnrollmentFn(ctx, actor, enrollmentID, status, overallScore)
	}
	return nil, nil
}

func (m *MockEnrollmentService) AddPrerequisite(
	ctx context.Context,
	actor domain.Identity,
	courseID uuid.UUID,
	p service.PrerequisiteParams,
) (*domain.CoursePrerequisite, error) {
	if m.AddPrerequisiteFn != nil {
		return m.AddPrerequisiteFn(ctx, actor, courseID, p)
	}
	return nil, nil
}

func (m *MockEnrollmentService) RemovePrerequisite(ctx context.Context, actor domain.Identity, courseID, prereqID uuid.UUID) error {
	if m.RemovePrerequisiteFn != nil {
		return m.RemovePrerequisiteFn(ctx, actor, courseID, prereqID)
	}
	return nil
}

func (m *MockEnrollmentService) ListPrerequisites(ctx context.Context, courseID uuid.UUID) ([]domain.CoursePrerequisite, error) {
	if m.ListPrerequisitesFn != nil {
		return m.ListPrerequisitesFn(ctx, courseID)
	}
	return nil, nil
}
