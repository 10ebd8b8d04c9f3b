package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

var completionConstraints = map[string]error{
	"lesson_completions_enrollment_lesson_key": store.ErrAlreadyCompleted,
}

// PostgresCompletionStore implements store.CompletionStore.
type PostgresCompletionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCompletionStore creates a PostgresCompletionStore.
func NewPostgresCompletionStore(db store.DBTX, logger *slog.Logger) *PostgresCompletionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCompletionStore{
		db:     db,
		logger: logger.With(slog.String("component", "completion_store")),
	}
}

var _ store.CompletionStore = (*PostgresCompletionStore)(nil)

// WithTx implements store.CompletionStore.WithTx
func (s *PostgresCompletionStore) WithTx(tx *sql.Tx) store.CompletionStore {
	return &PostgresCompletionStore{db: tx, logger: s.logger}
}

// Create implements store.CompletionStore.Create
func (s *PostgresCompletionStore) Create(ctx context.Context, c *domain.LessonCompletion) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lesson_completions (id, enrollment_id, lesson_id, score, completed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.EnrollmentID, c.LessonID, c.Score, c.CompletedAt,
	)
	if err != nil {
		if !IsUniqueViolation(err) {
			log.Error("failed to record lesson completion",
				slog.String("error", err.Error()),
				slog.String("lesson_id", c.LessonID.String()))
		}
		return MapConstraintError(err, completionConstraints)
	}

	log.Debug("lesson completion recorded",
		slog.String("enrollment_id", c.EnrollmentID.String()),
		slog.String("lesson_id", c.LessonID.String()))
	return nil
}

// Delete implements store.CompletionStore.Delete
func (s *PostgresCompletionStore) Delete(ctx context.Context, enrollmentID, lessonID uuid.UUID) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM lesson_completions WHERE enrollment_id = $1 AND lesson_id = $2`,
		enrollmentID, lessonID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete lesson completion",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lessonID.String()))
		return false, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByEnrollment implements store.CompletionStore.ListByEnrollment
func (s *PostgresCompletionStore) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]domain.LessonCompletion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, enrollment_id, lesson_id, score, completed_at
		FROM lesson_completions WHERE enrollment_id = $1
		ORDER BY completed_at`, enrollmentID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list lesson completions",
			slog.String("error", err.Error()),
			slog.String("enrollment_id", enrollmentID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	completions := []domain.LessonCompletion{}
	for rows.Next() {
		var c domain.LessonCompletion
		var score sql.NullInt32
		if err := rows.Scan(&c.ID, &c.EnrollmentID, &c.LessonID, &score, &c.CompletedAt); err != nil {
			return nil, MapError(err)
		}
		c.Score = intPtrFromNull(score)
		completions = append(completions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return completions, nil
}

// ListRecentByStudent implements store.CompletionStore.ListRecentByStudent
func (s *PostgresCompletionStore) ListRecentByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]store.CompletionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.title, c.id, c.title, lc.score, lc.completed_at
		FROM lesson_completions lc
		JOIN enrollments e ON e.id = lc.enrollment_id
		JOIN lessons l ON l.id = lc.lesson_id
		JOIN courses c ON c.id = e.course_id
		WHERE e.student_id = $1
		ORDER BY lc.completed_at DESC
		LIMIT $2`, studentID, limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list recent completions",
			slog.String("error", err.Error()),
			slog.String("student_id", studentID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	records := []store.CompletionRecord{}
	for rows.Next() {
		var r store.CompletionRecord
		var score sql.NullInt32
		if err := rows.Scan(&r.LessonID, &r.LessonTitle, &r.CourseID, &r.CourseTitle, &score, &r.CompletedAt); err != nil {
			return nil, MapError(err)
		}
		r.Score = intPtrFromNull(score)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return records, nil
}

func intPtrFromNull(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int32)
	return &i
}
