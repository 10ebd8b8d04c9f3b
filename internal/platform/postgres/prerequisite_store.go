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

var prerequisiteConstraints = map[string]error{
	"course_prerequisites_pair_key": store.ErrPrerequisiteExists,
	"course_prerequisites_not_self": domain.ErrSelfPrerequisite,
}

// PostgresPrerequisiteStore implements store.PrerequisiteStore.
type PostgresPrerequisiteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPrerequisiteStore creates a PostgresPrerequisiteStore.
func NewPostgresPrerequisiteStore(db store.DBTX, logger *slog.Logger) *PostgresPrerequisiteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPrerequisiteStore{
		db:     db,
		logger: logger.With(slog.String("component", "prerequisite_store")),
	}
}

var _ store.PrerequisiteStore = (*PostgresPrerequisiteStore)(nil)

// WithTx implements store.PrerequisiteStore.WithTx
func (s *PostgresPrerequisiteStore) WithTx(tx *sql.Tx) store.PrerequisiteStore {
	return &PostgresPrerequisiteStore{db: tx, logger: s.logger}
}

// Create implements store.PrerequisiteStore.Create
func (s *PostgresPrerequisiteStore) Create(ctx context.Context, p *domain.CoursePrerequisite) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO course_prerequisites (id, course_id, required_course_id, requirement_type, min_score)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.CourseID, p.RequiredCourseID, p.RequirementType, p.MinScore,
	)
	if err != nil {
		log.Error("failed to create prerequisite",
			slog.String("error", err.Error()),
			slog.String("course_id", p.CourseID.String()),
			slog.String("required_course_id", p.RequiredCourseID.String()))
		return MapConstraintError(err, prerequisiteConstraints)
	}

	log.Info("prerequisite created",
		slog.String("course_id", p.CourseID.String()),
		slog.String("required_course_id", p.RequiredCourseID.String()),
		slog.String("requirement_type", string(p.RequirementType)))
	return nil
}

// Delete implements store.PrerequisiteStore.Delete
func (s *PostgresPrerequisiteStore) Delete(ctx context.Context, courseID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM course_prerequisites WHERE id = $1 AND course_id = $2`, id, courseID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete prerequisite",
			slog.String("error", err.Error()),
			slog.String("prerequisite_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrPrerequisiteNotFound)
}

// ListByCourse implements store.PrerequisiteStore.ListByCourse
func (s *PostgresPrerequisiteStore) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.CoursePrerequisite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.course_id, p.required_course_id, c.title, p.requirement_type, p.min_score
		FROM course_prerequisites p
		JOIN courses c ON c.id = p.required_course_id
		WHERE p.course_id = $1
		ORDER BY c.complexity_level, c.title`, courseID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list prerequisites",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	prereqs := []domain.CoursePrerequisite{}
	for rows.Next() {
		var p domain.CoursePrerequisite
		var reqType string
		if err := rows.Scan(&p.ID, &p.CourseID, &p.RequiredCourseID, &p.RequiredCourseTitle, &reqType, &p.MinScore); err != nil {
			return nil, MapError(err)
		}
		p.RequirementType = domain.RequirementType(reqType)
		prereqs = append(prereqs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return prereqs, nil
}
