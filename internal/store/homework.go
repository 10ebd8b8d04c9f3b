package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
)

// SubmissionSummary is a submission joined with the context a reviewer needs.
type SubmissionSummary struct {
	ID            uuid.UUID               `json:"id"`
	HomeworkTitle string                  `json:"homework_title"`
	CourseID      uuid.UUID               `json:"course_id"`
	CourseTitle   string                  `json:"course_title"`
	StudentName   string                  `json:"student_name"`
	Status        domain.SubmissionStatus `json:"status"`
	Urgency       domain.Urgency          `json:"urgency"`
	SubmittedAt   time.Time               `json:"submitted_at"`
}

// CourseReviewStats are the submission and audience counts of one course.
type CourseReviewStats struct {
	CourseID       uuid.UUID `json:"course_id"`
	CourseTitle    string    `json:"course_title"`
	Pending        int       `json:"pending"`
	Total          int       `json:"total"`
	ActiveStudents int       `json:"active_students"`
}

// HomeworkStore defines the interface for homework and submission persistence.
type HomeworkStore interface {
	// Create saves a new homework.
	Create(ctx context.Context, homework *domain.Homework) error

	// GetByID retrieves a homework.
	// Returns ErrHomeworkNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Homework, error)

	// ListByLesson returns the homework of a lesson.
	ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]domain.Homework, error)

	// CreateSubmission saves a new submission.
	CreateSubmission(ctx context.Context, submission *domain.HomeworkSubmission) error

	// GetSubmission retrieves a submission.
	// Returns ErrSubmissionNotFound if it does not exist.
	GetSubmission(ctx context.Context, id uuid.UUID) (*domain.HomeworkSubmission, error)

	// UpdateSubmission saves the review state of a submission.
	// Returns ErrSubmissionNotFound if it does not exist.
	UpdateSubmission(ctx context.Context, submission *domain.HomeworkSubmission) error

	// CountUnderReview returns a reviewer's workload.
	CountUnderReview(ctx context.Context, reviewerID uuid.UUID) (int, error)

	// CountByReviewer returns how many submissions a reviewer has handled in any state.
	CountByReviewer(ctx context.Context, reviewerID uuid.UUID) (int, error)

	// ListRecentUnderReview returns a reviewer's latest submissions under review.
	ListRecentUnderReview(ctx context.Context, reviewerID uuid.UUID, limit int) ([]SubmissionSummary, error)

	// CourseStats returns, for each of the given courses, the reviewer's
	// submissions under review and in total, and the course's active students.
	CourseStats(ctx context.Context, reviewerID uuid.UUID, courseIDs []uuid.UUID) ([]CourseReviewStats, error)

	// WithTx returns a new HomeworkStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) HomeworkStore
}
