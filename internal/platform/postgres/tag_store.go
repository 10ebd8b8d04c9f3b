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

var tagConstraints = map[string]error{
	"tags_slug_key":  store.ErrSlugExists,
	"tags_name_key":  store.ErrTagNameExists,
	"tags_color_key": store.ErrTagColorExists,
}

// PostgresTagStore implements store.TagStore.
type PostgresTagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTagStore creates a PostgresTagStore.
func NewPostgresTagStore(db store.DBTX, logger *slog.Logger) *PostgresTagStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTagStore{
		db:     db,
		logger: logger.With(slog.String("component", "tag_store")),
	}
}

var _ store.TagStore = (*PostgresTagStore)(nil)

// WithTx implements store.TagStore.WithTx
func (s *PostgresTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &PostgresTagStore{db: tx, logger: s.logger}
}

const tagColumns = `t.id, t.name, t.slug, t.description, t.color, t.is_featured, t.course_count, t.created_at`

func tagDest(t *domain.Tag) []any {
	return []any{&t.ID, &t.Name, &t.Slug, &t.Description, &t.Color, &t.IsFeatured, &t.CourseCount, &t.CreatedAt}
}

// Create implements store.TagStore.Create
func (s *PostgresTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tag.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, slug, description, color, is_featured, course_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tag.ID, tag.Name, tag.Slug, tag.Description, tag.Color, tag.IsFeatured, tag.CourseCount, tag.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("tag conflicts with an existing tag",
				slog.String("slug", tag.Slug),
				slog.String("constraint", ConstraintName(err)))
		} else {
			log.Error("failed to create tag",
				slog.String("error", err.Error()),
				slog.String("slug", tag.Slug))
		}
		return MapConstraintError(err, tagConstraints)
	}

	log.Info("tag created",
		slog.String("tag_id", tag.ID.String()),
		slog.String("slug", tag.Slug))
	return nil
}

func (s *PostgresTagStore) getOne(ctx context.Context, where string, arg any) (*domain.Tag, error) {
	var t domain.Tag
	err := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags t WHERE `+where, arg).Scan(tagDest(&t)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTagNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get tag",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &t, nil
}

// GetByID implements store.TagStore.GetByID
func (s *PostgresTagStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	return s.getOne(ctx, "t.id = $1", id)
}

// GetBySlug implements store.TagStore.GetBySlug
func (s *PostgresTagStore) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return s.getOne(ctx, "t.slug = $1", slug)
}

// GetByName implements store.TagStore.GetByName
func (s *PostgresTagStore) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	return s.getOne(ctx, "t.name = $1", name)
}

// Update implements store.TagStore.Update
func (s *PostgresTagStore) Update(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tag.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tags SET name = $1, slug = $2, description = $3, color = $4, is_featured = $5
		WHERE id = $6`,
		tag.Name, tag.Slug, tag.Description, tag.Color, tag.IsFeatured, tag.ID,
	)
	if err != nil {
		log.Error("failed to update tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return MapConstraintError(err, tagConstraints)
	}
	return CheckRowsAffected(result, store.ErrTagNotFound)
}

// Delete implements store.TagStore.Delete
func (s *PostgresTagStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTagNotFound)
}

// List implements store.TagStore.List
func (s *PostgresTagStore) List(ctx context.Context) ([]domain.Tag, error) {
	return s.query(ctx, `SELECT `+tagColumns+` FROM tags t
		ORDER BY t.is_featured DESC, t.course_count DESC, t.name`)
}

// ListPopular implements store.TagStore.ListPopular
func (s *PostgresTagStore) ListPopular(ctx context.Context, limit int) ([]domain.Tag, error) {
	return s.query(ctx, `SELECT `+tagColumns+` FROM tags t
		JOIN course_tags ct ON ct.tag_id = t.id
		JOIN courses c ON c.id = ct.course_id AND c.is_active
		WHERE t.is_featured
		GROUP BY t.id
		ORDER BY COUNT(c.id) DESC, t.name
		LIMIT $1`, limit)
}

// ListSimilar implements store.TagStore.ListSimilar
func (s *PostgresTagStore) ListSimilar(ctx context.Context, tagID uuid.UUID, limit int) ([]domain.Tag, error) {
	return s.query(ctx, `SELECT `+tagColumns+` FROM tags t
		JOIN course_tags ct ON ct.tag_id = t.id
		WHERE t.id <> $1 AND ct.course_id IN (
			SELECT own.course_id FROM course_tags own
			JOIN courses c ON c.id = own.course_id AND c.is_active
			WHERE own.tag_id = $1)
		GROUP BY t.id
		ORDER BY COUNT(*) DESC, t.name
		LIMIT $2`, tagID, limit)
}

// RecomputeCourseCounts implements store.TagStore.RecomputeCourseCounts.
// A single statement derives every count from current data, so running it
// twice or concurrently converges on the same values.
func (s *PostgresTagStore) RecomputeCourseCounts(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE tags t SET course_count = (
			SELECT COUNT(*) FROM course_tags ct
			JOIN courses c ON c.id = ct.course_id AND c.is_active
			WHERE ct.tag_id = t.id)`)
	if err != nil {
		log.Error("failed to recompute tag course counts", slog.String("error", err.Error()))
		return MapError(err)
	}

	if n, err := result.RowsAffected(); err == nil {
		log.Debug("tag course counts recomputed", slog.Int64("tags", n))
	}
	return nil
}

func (s *PostgresTagStore) query(ctx context.Context, query string, args ...any) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tags",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tags := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(tagDest(&t)...); err != nil {
			return nil, MapError(err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tags, nil
}
