package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
)

// EnrollmentStore defines the interface for enrollment persistence.
type EnrollmentStore interface {
	// Create saves a new enrollment.
	// Returns ErrAlreadyEnrolled if the student is already enrolled in the course.
	Create(ctx context.Context, enrollment *domain.Enrollment) error

	// GetByID retrieves an enrollment.
	// Returns ErrEnrollmentNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error)

	// Get retrieves the enrollment of a student in a course.
	// Returns ErrEnrollmentNotFound if it does not exist.
	Get(ctx context.Context, studentID, courseID uuid.UUID) (*domain.Enrollment, error)

	// Update saves status, overall score and completion date.
	// Returns ErrEnrollmentNotFound if it does not exist.
	Update(ctx context.Context, enrollment *domain.Enrollment) error

	// ListByStudent returns a student's enrollments, newest first.
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Enrollment, error)

	// WithTx returns a new EnrollmentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) EnrollmentStore
}

// CompletionRecord is a lesson completion joined with the titles needed to display it.
type CompletionRecord struct {
	LessonID    uuid.UUID `json:"lesson_id"`
	LessonTitle string    `json:"lesson_title"`
	CourseID    uuid.UUID `json:"course_id"`
	CourseTitle string    `json:"course_title"`
	Score       *int      `json:"score,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// CompletionStore defines the interface for lesson completion persistence.
type CompletionStore interface {
	// Create saves a new completion.
	// Returns ErrAlreadyCompleted if the lesson is already completed within the enrollment.
	Create(ctx context.Context, completion *domain.LessonCompletion) error

	// Delete removes the completion of a lesson within an enrollment and
	// reports whether a row was removed.
	Delete(ctx context.Context, enrollmentID, lessonID uuid.UUID) (bool, error)

	// ListByEnrollment returns all completions of an enrollment.
	ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]domain.LessonCompletion, error)

	// ListRecentByStudent returns a student's latest completions across courses.
	ListRecentByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]CompletionRecord, error)

	// WithTx returns a new CompletionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CompletionStore
}

// PrerequisiteStore defines the interface for course prerequisite persistence.
type PrerequisiteStore interface {
	// Create saves a new prerequisite.
	// Returns ErrPrerequisiteExists for a duplicate pair and ErrInvalidEntity
	// for a self reference rejected by the database.
	Create(ctx context.Context, prereq *domain.CoursePrerequisite) error

	// Delete removes a prerequisite of a course.
	// Returns ErrPrerequisiteNotFound if it does not exist.
	Delete(ctx context.Context, courseID, id uuid.UUID) error

	// ListByCourse returns a course's prerequisites with the required course titles.
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.CoursePrerequisite, error)

	// WithTx returns a new PrerequisiteStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PrerequisiteStore
}
