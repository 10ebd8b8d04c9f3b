package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

// PostgresCourseStore implements store.CourseStore.
type PostgresCourseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCourseStore creates a PostgresCourseStore.
func NewPostgresCourseStore(db store.DBTX, logger *slog.Logger) *PostgresCourseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCourseStore{
		db:     db,
		logger: logger.With(slog.String("component", "course_store")),
	}
}

var _ store.CourseStore = (*PostgresCourseStore)(nil)

// WithTx implements store.CourseStore.WithTx
func (s *PostgresCourseStore) WithTx(tx *sql.Tx) store.CourseStore {
	return &PostgresCourseStore{db: tx, logger: s.logger}
}

// price is NUMERIC; casting keeps the scan independent of the driver's numeric encoding.
const courseColumns = `c.id, c.title, c.description, c.price::float8, c.duration_weeks,
	c.difficulty, c.complexity_level, c.is_active, c.created_at, c.updated_at`

func scanCourse(row interface{ Scan(...any) error }) (domain.Course, error) {
	var c domain.Course
	var difficulty string
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.DurationWeeks,
		&difficulty, &c.ComplexityLevel, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	c.Difficulty = domain.Difficulty(difficulty)
	return c, err
}

// Create implements store.CourseStore.Create
func (s *PostgresCourseStore) Create(ctx context.Context, course *domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := course.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO courses (id, title, description, price, duration_weeks, difficulty,
			complexity_level, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		course.ID, course.Title, course.Description, course.Price, course.DurationWeeks,
		course.Difficulty, course.ComplexityLevel, course.IsActive, course.CreatedAt, course.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create course",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return MapError(err)
	}

	log.Info("course created", slog.String("course_id", course.ID.String()))
	return nil
}

// GetByID implements store.CourseStore.GetByID
func (s *PostgresCourseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	course, err := scanCourse(s.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses c WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("course not found", slog.String("course_id", id.String()))
			return nil, store.ErrCourseNotFound
		}
		log.Error("failed to get course",
			slog.String("error", err.Error()),
			slog.String("course_id", id.String()))
		return nil, MapError(err)
	}

	courses := []domain.Course{course}
	if err := s.attachTags(ctx, courses); err != nil {
		return nil, err
	}
	return &courses[0], nil
}

// Update implements store.CourseStore.Update
func (s *PostgresCourseStore) Update(ctx context.Context, course *domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := course.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE courses
		SET title = $1, description = $2, price = $3, duration_weeks = $4, difficulty = $5,
			complexity_level = $6, is_active = $7, updated_at = $8
		WHERE id = $9`,
		course.Title, course.Description, course.Price, course.DurationWeeks, course.Difficulty,
		course.ComplexityLevel, course.IsActive, course.UpdatedAt, course.ID,
	)
	if err != nil {
		log.Error("failed to update course",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCourseNotFound)
}

// Delete implements store.CourseStore.Delete
func (s *PostgresCourseStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete course",
			slog.String("error", err.Error()),
			slog.String("course_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrCourseNotFound); err != nil {
		return err
	}

	log.Info("course deleted", slog.String("course_id", id.String()))
	return nil
}

// List implements store.CourseStore.List
func (s *PostgresCourseStore) List(ctx context.Context, filter store.CourseFilter) ([]domain.Course, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ActiveOnly {
		conds = append(conds, "c.is_active")
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		p := arg(containsPattern(q))
		conds = append(conds, fmt.Sprintf(`(c.title ILIKE %[1]s ESCAPE '\' OR c.description ILIKE %[1]s ESCAPE '\' OR EXISTS (
			SELECT 1 FROM course_tags ct JOIN tags t ON t.id = ct.tag_id
			WHERE ct.course_id = c.id AND t.name ILIKE %[1]s ESCAPE '\'))`, p))
	}
	if len(filter.TagSlugs) > 0 {
		conds = append(conds, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM course_tags ct JOIN tags t ON t.id = ct.tag_id
			WHERE ct.course_id = c.id AND t.slug = ANY(%s))`, arg(filter.TagSlugs)))
	}
	if filter.Difficulty != "" {
		conds = append(conds, "c.difficulty = "+arg(string(filter.Difficulty)))
	}

	query := `SELECT ` + courseColumns + ` FROM courses c`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY c.complexity_level, c.title"

	return s.query(ctx, query, args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns free text into an ILIKE substring pattern in which
// the caller's wildcards match literally.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// ListByIDs implements store.CourseStore.ListByIDs
func (s *PostgresCourseStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Course, error) {
	if len(ids) == 0 {
		return []domain.Course{}, nil
	}
	return s.query(ctx, `SELECT `+courseColumns+` FROM courses c
		WHERE c.id = ANY($1::uuid[])
		ORDER BY c.complexity_level, c.title`, uuidStrings(ids))
}

func (s *PostgresCourseStore) query(ctx context.Context, query string, args ...any) ([]domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query courses", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	courses := []domain.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			log.Error("failed to scan course row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	if err := s.attachTags(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// attachTags loads the tags of all given courses with one query.
func (s *PostgresCourseStore) attachTags(ctx context.Context, courses []domain.Course) error {
	if len(courses) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(courses))
	index := make(map[uuid.UUID]int, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
		index[c.ID] = i
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ct.course_id, `+tagColumns+`
		FROM course_tags ct JOIN tags t ON t.id = ct.tag_id
		WHERE ct.course_id = ANY($1::uuid[])
		ORDER BY t.name`, uuidStrings(ids))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load course tags",
			slog.String("error", err.Error()))
		return MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var courseID uuid.UUID
		var t domain.Tag
		if err := rows.Scan(append([]any{&courseID}, tagDest(&t)...)...); err != nil {
			return MapError(err)
		}
		if i, ok := index[courseID]; ok {
			courses[i].Tags = append(courses[i].Tags, t)
		}
	}
	return MapError(rows.Err())
}

// SetTags implements store.CourseStore.SetTags
func (s *PostgresCourseStore) SetTags(ctx context.Context, courseID uuid.UUID, tagIDs []uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM course_tags WHERE course_id = $1`, courseID); err != nil {
		log.Error("failed to clear course tags",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return MapError(err)
	}

	for _, tagID := range tagIDs {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO course_tags (course_id, tag_id) VALUES ($1, $2)
			ON CONFLICT ON CONSTRAINT course_tags_pkey DO NOTHING`, courseID, tagID)
		if err != nil {
			log.Error("failed to link course tag",
				slog.String("error", err.Error()),
				slog.String("course_id", courseID.String()),
				slog.String("tag_id", tagID.String()))
			return MapError(err)
		}
	}

	log.Debug("course tags replaced",
		slog.String("course_id", courseID.String()),
		slog.Int("tag_count", len(tagIDs)))
	return nil
}

// Stats implements store.CourseStore.Stats
func (s *PostgresCourseStore) Stats(ctx context.Context, courseID uuid.UUID) (domain.CourseStats, error) {
	var st domain.CourseStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM modules WHERE course_id = $1),
			(SELECT COUNT(*) FROM lessons l JOIN modules m ON m.id = l.module_id WHERE m.course_id = $1),
			(SELECT COUNT(*) FROM enrollments WHERE course_id = $1 AND status = 'active'),
			(SELECT COUNT(*) FROM enrollments WHERE course_id = $1 AND status = 'completed')`,
		courseID,
	).Scan(&st.TotalModules, &st.TotalLessons, &st.ActiveStudents, &st.CompletedStudents)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to compute course stats",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return st, MapError(err)
	}
	return st, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
