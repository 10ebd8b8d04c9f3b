package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

// SubmissionParams holds a student's answer to a homework.
type SubmissionParams struct {
	Text          string
	AttachmentURL string
	Urgency       domain.Urgency
}

// ReviewParams holds a reviewer's verdict on a submission.
type ReviewParams struct {
	Status   domain.SubmissionStatus
	Score    *int
	Feedback string
}

// HomeworkService runs the homework submission and review workflow.
type HomeworkService interface {
	CreateHomework(ctx context.Context, actor domain.Identity, lessonID uuid.UUID, p domain.HomeworkParams) (*domain.Homework, error)
	ListHomework(ctx context.Context, lessonID uuid.UUID) ([]domain.Homework, error)

	// Submit records a new submission from a student enrolled in the course.
	Submit(ctx context.Context, actor domain.Identity, homeworkID uuid.UUID, p SubmissionParams) (*domain.HomeworkSubmission, error)
	// Claim moves a submission under review by the acting reviewer.
	Claim(ctx context.Context, actor domain.Identity, submissionID uuid.UUID) (*domain.HomeworkSubmission, error)
	// Review records the verdict. Only the claiming reviewer or an admin may review.
	Review(ctx context.Context, actor domain.Identity, submissionID uuid.UUID, p ReviewParams) (*domain.HomeworkSubmission, error)
	// Resubmit replaces the answer of a rejected or revision-requested submission.
	Resubmit(ctx context.Context, actor domain.Identity, submissionID uuid.UUID, p SubmissionParams) (*domain.HomeworkSubmission, error)
}

// HomeworkStores groups the stores the homework service uses.
type HomeworkStores struct {
	Modules     store.ModuleStore
	Lessons     store.LessonStore
	Teaching    store.TeachingStore
	Enrollments store.EnrollmentStore
	Homework    store.HomeworkStore
}

type homeworkService struct {
	s      HomeworkStores
	guard  courseGuard
	now    func() time.Time
	logger *slog.Logger
}

// NewHomeworkService creates a HomeworkService.
func NewHomeworkService(stores HomeworkStores, logger *slog.Logger) HomeworkService {
	if logger == nil {
		logger = slog.Default()
	}
	return &homeworkService{
		s:      stores,
		guard:  courseGuard{teaching: stores.Teaching},
		now:    time.Now,
		logger: logger.With(slog.String("component", "homework_service")),
	}
}

func (h *homeworkService) CreateHomework(
	ctx context.Context,
	actor domain.Identity,
	lessonID uuid.UUID,
	p domain.HomeworkParams,
) (*domain.Homework, error) {
	lesson, courseID, err := h.lessonCourse(ctx, lessonID)
	if err != nil {
		return nil, NewServiceError("homework", "create", err)
	}
	if err := h.guard.authorize(ctx, actor, courseID); err != nil {
		return nil, err
	}

	homework, err := domain.NewHomework(lesson, p)
	if err != nil {
		return nil, err
	}
	if err := h.s.Homework.Create(ctx, homework); err != nil {
		return nil, NewServiceError("homework", "create", err)
	}
	return homework, nil
}

func (h *homeworkService) ListHomework(ctx context.Context, lessonID uuid.UUID) ([]domain.Homework, error) {
	homework, err := h.s.Homework.ListByLesson(ctx, lessonID)
	return homework, NewServiceError("homework", "list", err)
}

func (h *homeworkService) Submit(
	ctx context.Context,
	actor domain.Identity,
	homeworkID uuid.UUID,
	p SubmissionParams,
) (*domain.HomeworkSubmission, error) {
	student, err := actor.ActingStudent()
	if err != nil {
		return nil, err
	}

	homework, err := h.s.Homework.GetByID(ctx, homeworkID)
	if err != nil {
		return nil, NewServiceError("homework", "submit", err)
	}
	lesson, courseID, err := h.lessonCourse(ctx, homework.LessonID)
	if err != nil {
		return nil, NewServiceError("homework", "submit", err)
	}
	if !lesson.IsActive {
		return nil, ErrLessonNotActive
	}

	enrollment, err := h.s.Enrollments.Get(ctx, student.ID, courseID)
	if errors.Is(err, store.ErrEnrollmentNotFound) {
		return nil, ErrNotEnrolled
	}
	if err != nil {
		return nil, NewServiceError("homework", "submit", err)
	}

	submission, err := domain.NewHomeworkSubmission(homework.ID, enrollment.ID, p.Text, p.AttachmentURL, p.Urgency)
	if err != nil {
		return nil, err
	}
	if err := h.s.Homework.CreateSubmission(ctx, submission); err != nil {
		return nil, NewServiceError("homework", "submit", err)
	}

	logger.FromContextOrDefault(ctx, h.logger).Info("homework submitted",
		slog.String("submission_id", submission.ID.String()),
		slog.String("homework_id", homework.ID.String()))
	return submission, nil
}

func (h *homeworkService) Claim(ctx context.Context, actor domain.Identity, submissionID uuid.UUID) (*domain.HomeworkSubmission, error) {
	reviewer, err := actor.ActingReviewer()
	if err != nil {
		return nil, err
	}

	submission, courseID, err := h.submissionCourse(ctx, submissionID)
	if err != nil {
		return nil, NewServiceError("homework", "claim", err)
	}
	if err := h.guard.authorize(ctx, actor, courseID); err != nil {
		return nil, err
	}

	if err := submission.Claim(reviewer.ID); err != nil {
		return nil, err
	}
	if err := h.s.Homework.UpdateSubmission(ctx, submission); err != nil {
		return nil, NewServiceError("homework", "claim", err)
	}

	logger.FromContextOrDefault(ctx, h.logger).Info("submission claimed",
		slog.String("submission_id", submission.ID.String()),
		slog.String("reviewer_id", reviewer.ID.String()))
	return submission, nil
}

func (h *homeworkService) Review(
	ctx context.Context,
	actor domain.Identity,
	submissionID uuid.UUID,
	p ReviewParams,
) (*domain.HomeworkSubmission, error) {
	submission, err := h.s.Homework.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, NewServiceError("homework", "review", err)
	}

	if !actor.IsAdmin() {
		reviewer, err := actor.ActingReviewer()
		if err != nil {
			return nil, err
		}
		if submission.ReviewerID == nil || *submission.ReviewerID != reviewer.ID {
			return nil, ErrNotAssignedReviewer
		}
	}

	homework, err := h.s.Homework.GetByID(ctx, submission.HomeworkID)
	if err != nil {
		return nil, NewServiceError("homework", "review", err)
	}

	if err := submission.Review(p.Status, p.Score, p.Feedback, homework.MaxScore, h.now()); err != nil {
		return nil, err
	}
	if err := h.s.Homework.UpdateSubmission(ctx, submission); err != nil {
		return nil, NewServiceError("homework", "review", err)
	}

	logger.FromContextOrDefault(ctx, h.logger).Info("submission reviewed",
		slog.String("submission_id", submission.ID.String()),
		slog.String("status", string(submission.Status)))
	return submission, nil
}

func (h *homeworkService) Resubmit(
	ctx context.Context,
	actor domain.Identity,
	submissionID uuid.UUID,
	p SubmissionParams,
) (*domain.HomeworkSubmission, error) {
	student, err := actor.ActingStudent()
	if err != nil {
		return nil, err
	}

	submission, err := h.s.Homework.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, NewServiceError("homework", "resubmit", err)
	}
	enrollment, err := h.s.Enrollments.GetByID(ctx, submission.EnrollmentID)
	if err != nil {
		return nil, NewServiceError("homework", "resubmit", err)
	}
	if enrollment.StudentID != student.ID {
		return nil, ErrNotSubmissionOwner
	}

	if err := submission.Resubmit(p.Text, p.AttachmentURL, h.now()); err != nil {
		return nil, err
	}
	if err := h.s.Homework.UpdateSubmission(ctx, submission); err != nil {
		return nil, NewServiceError("homework", "resubmit", err)
	}
	return submission, nil
}

// lessonCourse loads a lesson and the ID of the course it belongs to.
func (h *homeworkService) lessonCourse(ctx context.Context, lessonID uuid.UUID) (*domain.Lesson, uuid.UUID, error) {
	lesson, err := h.s.Lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	module, err := h.s.Modules.GetByID(ctx, lesson.ModuleID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return lesson, module.CourseID, nil
}

// submissionCourse loads a submission and the ID of its course.
func (h *homeworkService) submissionCourse(ctx context.Context, submissionID uuid.UUID) (*domain.HomeworkSubmission, uuid.UUID, error) {
	submission, err := h.s.Homework.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	enrollment, err := h.s.Enrollments.GetByID(ctx, submission.EnrollmentID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return submission, enrollment.CourseID, nil
}
