package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
)

// TagStore defines the interface for tag persistence.
type TagStore interface {
	// Create saves a new tag. A slug collision returns ErrSlugExists, which is
	// distinguishable from ErrTagNameExists and ErrTagColorExists so callers
	// can retry with another slug.
	Create(ctx context.Context, tag *domain.Tag) error

	// GetByID retrieves a tag.
	// Returns ErrTagNotFound if the tag does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)

	// GetBySlug retrieves a tag by slug.
	// Returns ErrTagNotFound if the tag does not exist.
	GetBySlug(ctx context.Context, slug string) (*domain.Tag, error)

	// GetByName retrieves a tag by exact name.
	// Returns ErrTagNotFound if the tag does not exist.
	GetByName(ctx context.Context, name string) (*domain.Tag, error)

	// Update saves the editable attributes of a tag.
	// Returns ErrTagNotFound or one of the tag duplicate errors.
	Update(ctx context.Context, tag *domain.Tag) error

	// Delete removes a tag and its course links.
	// Returns ErrTagNotFound if the tag does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns all tags, featured first, then by course count, then by name.
	List(ctx context.Context) ([]domain.Tag, error)

	// ListPopular returns featured tags with at least one active course,
	// ranked by active course count.
	ListPopular(ctx context.Context, limit int) ([]domain.Tag, error)

	// ListSimilar returns other tags found on the active courses of a tag,
	// ranked by how many of those courses they share.
	ListSimilar(ctx context.Context, tagID uuid.UUID, limit int) ([]domain.Tag, error)

	// RecomputeCourseCounts sets every tag's course count to its number of
	// active courses. It is idempotent and safe to run concurrently.
	RecomputeCourseCounts(ctx context.Context) error

	// WithTx returns a new TagStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TagStore
}
