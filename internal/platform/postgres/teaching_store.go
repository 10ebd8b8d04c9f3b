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

var teachingConstraints = map[string]error{
	"teacher_courses_reviewer_course_key": store.ErrAlreadyAssigned,
}

// PostgresTeachingStore implements store.TeachingStore.
type PostgresTeachingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTeachingStore creates a PostgresTeachingStore.
func NewPostgresTeachingStore(db store.DBTX, logger *slog.Logger) *PostgresTeachingStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTeachingStore{
		db:     db,
		logger: logger.With(slog.String("component", "teaching_store")),
	}
}

var _ store.TeachingStore = (*PostgresTeachingStore)(nil)

// WithTx implements store.TeachingStore.WithTx
func (s *PostgresTeachingStore) WithTx(tx *sql.Tx) store.TeachingStore {
	return &PostgresTeachingStore{db: tx, logger: s.logger}
}

// Assign implements store.TeachingStore.Assign
func (s *PostgresTeachingStore) Assign(ctx context.Context, a *domain.TeacherCourse) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teacher_courses (id, reviewer_id, course_id, is_main_teacher, assigned_at)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.ReviewerID, a.CourseID, a.IsMainTeacher, a.AssignedAt,
	)
	if err != nil {
		log.Error("failed to assign reviewer to course",
			slog.String("error", err.Error()),
			slog.String("reviewer_id", a.ReviewerID.String()),
			slog.String("course_id", a.CourseID.String()))
		return MapConstraintError(err, teachingConstraints)
	}

	log.Info("reviewer assigned to course",
		slog.String("reviewer_id", a.ReviewerID.String()),
		slog.String("course_id", a.CourseID.String()),
		slog.Bool("main_teacher", a.IsMainTeacher))
	return nil
}

// IsAssigned implements store.TeachingStore.IsAssigned
func (s *PostgresTeachingStore) IsAssigned(ctx context.Context, reviewerID, courseID uuid.UUID) (bool, error) {
	var assigned bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM teacher_courses WHERE reviewer_id = $1 AND course_id = $2)`,
		reviewerID, courseID,
	).Scan(&assigned)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check course assignment",
			slog.String("error", err.Error()))
		return false, MapError(err)
	}
	return assigned, nil
}

// ListCourseIDs implements store.TeachingStore.ListCourseIDs
func (s *PostgresTeachingStore) ListCourseIDs(ctx context.Context, reviewerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT course_id FROM teacher_courses WHERE reviewer_id = $1 ORDER BY assigned_at`, reviewerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list taught courses",
			slog.String("error", err.Error()),
			slog.String("reviewer_id", reviewerID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return ids, nil
}
