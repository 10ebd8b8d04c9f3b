package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

var lessonConstraints = map[string]error{
	"lessons_module_order_key": store.ErrLessonOrderExists,
}

// PostgresLessonStore implements store.LessonStore.
type PostgresLessonStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLessonStore creates a PostgresLessonStore.
func NewPostgresLessonStore(db store.DBTX, logger *slog.Logger) *PostgresLessonStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLessonStore{
		db:     db,
		logger: logger.With(slog.String("component", "lesson_store")),
	}
}

var _ store.LessonStore = (*PostgresLessonStore)(nil)

// WithTx implements store.LessonStore.WithTx
func (s *PostgresLessonStore) WithTx(tx *sql.Tx) store.LessonStore {
	return &PostgresLessonStore{db: tx, logger: s.logger}
}

const lessonColumns = `l.id, l.module_id, l.title, l.content, l.video_url, l.duration_minutes,
	l.lesson_order, l.lesson_type, l.is_active, l.has_homework, l.max_score, l.is_required`

func scanLesson(row interface{ Scan(...any) error }) (domain.Lesson, error) {
	var l domain.Lesson
	var lessonType string
	err := row.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Content, &l.VideoURL, &l.DurationMinutes,
		&l.LessonOrder, &lessonType, &l.IsActive, &l.HasHomework, &l.MaxScore, &l.IsRequired)
	l.LessonType = domain.LessonType(lessonType)
	return l, err
}

// Create implements store.LessonStore.Create. The type-derived attributes
// are normalized before the row is written.
func (s *PostgresLessonStore) Create(ctx context.Context, lesson *domain.Lesson) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := lesson.Normalize(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lessons (id, module_id, title, content, video_url, duration_minutes,
			lesson_order, lesson_type, is_active, has_homework, max_score, is_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		lesson.ID, lesson.ModuleID, lesson.Title, lesson.Content, lesson.VideoURL, lesson.DurationMinutes,
		lesson.LessonOrder, lesson.LessonType, lesson.IsActive, lesson.HasHomework, lesson.MaxScore, lesson.IsRequired,
	)
	if err != nil {
		log.Error("failed to create lesson",
			slog.String("error", err.Error()),
			slog.String("module_id", lesson.ModuleID.String()))
		return MapConstraintError(err, lessonConstraints)
	}

	log.Info("lesson created",
		slog.String("lesson_id", lesson.ID.String()),
		slog.String("lesson_type", string(lesson.LessonType)))
	return nil
}

// GetByID implements store.LessonStore.GetByID
func (s *PostgresLessonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	l, err := scanLesson(s.db.QueryRowContext(ctx, `SELECT `+lessonColumns+` FROM lessons l WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLessonNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get lesson",
			slog.String("error", err.Error()),
			slog.String("lesson_id", id.String()))
		return nil, MapError(err)
	}
	return &l, nil
}

// Update implements store.LessonStore.Update
func (s *PostgresLessonStore) Update(ctx context.Context, lesson *domain.Lesson) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := lesson.Normalize(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE lessons
		SET title = $1, content = $2, video_url = $3, duration_minutes = $4, lesson_order = $5,
			lesson_type = $6, is_active = $7, has_homework = $8, max_score = $9, is_required = $10
		WHERE id = $11`,
		lesson.Title, lesson.Content, lesson.VideoURL, lesson.DurationMinutes, lesson.LessonOrder,
		lesson.LessonType, lesson.IsActive, lesson.HasHomework, lesson.MaxScore, lesson.IsRequired, lesson.ID,
	)
	if err != nil {
		log.Error("failed to update lesson",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lesson.ID.String()))
		return MapConstraintError(err, lessonConstraints)
	}
	return CheckRowsAffected(result, store.ErrLessonNotFound)
}

// Delete implements store.LessonStore.Delete
func (s *PostgresLessonStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete lesson",
			slog.String("error", err.Error()),
			slog.String("lesson_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrLessonNotFound)
}

// ListByModule implements store.LessonStore.ListByModule
func (s *PostgresLessonStore) ListByModule(ctx context.Context, moduleID uuid.UUID) ([]domain.Lesson, error) {
	return s.query(ctx, `SELECT `+lessonColumns+` FROM lessons l
		WHERE l.module_id = $1 ORDER BY l.lesson_order`, moduleID)
}

// ListByCourse implements store.LessonStore.ListByCourse
func (s *PostgresLessonStore) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Lesson, error) {
	return s.query(ctx, `SELECT `+lessonColumns+` FROM lessons l
		JOIN modules m ON m.id = l.module_id
		WHERE m.course_id = $1
		ORDER BY m.module_order, l.lesson_order`, courseID)
}

func (s *PostgresLessonStore) query(ctx context.Context, query string, args ...any) ([]domain.Lesson, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list lessons",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	lessons := []domain.Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, MapError(err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return lessons, nil
}
