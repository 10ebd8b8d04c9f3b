package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

// Discovery limits.
const (
	PopularTagLimit = 10
	SimilarTagLimit = 5

	// maxSlugAttempts bounds the numbered suffixes tried for one tag name.
	maxSlugAttempts = 100
)

// TagCourses is the discovery page of one tag.
type TagCourses struct {
	Tag     *domain.Tag     `json:"tag"`
	Courses []domain.Course `json:"courses"`
	Similar []domain.Tag    `json:"similar_tags"`
}

// TagService manages tags and tag-based discovery.
type TagService interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	PopularTags(ctx context.Context) ([]domain.Tag, error)
	TagCloud(ctx context.Context) ([]domain.TagCloudEntry, error)
	CoursesByTag(ctx context.Context, slug string) (*TagCourses, error)

	// CreateTag creates a tag. Without an explicit slug one is derived from the
	// name, and numbered suffixes are tried until the insert succeeds. Admin only.
	CreateTag(ctx context.Context, actor domain.Identity, p domain.TagParams) (*domain.Tag, error)
	// UpdateTag edits a tag. An empty slug keeps the current one. Admin only.
	UpdateTag(ctx context.Context, actor domain.Identity, tagID uuid.UUID, p domain.TagParams) (*domain.Tag, error)
	DeleteTag(ctx context.Context, actor domain.Identity, tagID uuid.UUID) error

	// SeedDefaults creates the missing default tags and reports how many were created.
	SeedDefaults(ctx context.Context) (int, error)
	// RecomputeCounts refreshes every tag's active course count.
	RecomputeCounts(ctx context.Context) error
}

type tagService struct {
	tags    store.TagStore
	courses store.CourseStore
	logger  *slog.Logger
}

// NewTagService creates a TagService.
func NewTagService(tags store.TagStore, courses store.CourseStore, logger *slog.Logger) TagService {
	if logger == nil {
		logger = slog.Default()
	}
	return &tagService{
		tags:    tags,
		courses: courses,
		logger:  logger.With(slog.String("component", "tag_service")),
	}
}

func (s *tagService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tags.List(ctx)
	return tags, NewServiceError("tag", "list", err)
}

func (s *tagService) PopularTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tags.ListPopular(ctx, PopularTagLimit)
	return tags, NewServiceError("tag", "popular", err)
}

func (s *tagService) TagCloud(ctx context.Context) ([]domain.TagCloudEntry, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, NewServiceError("tag", "cloud", err)
	}
	return domain.BuildTagCloud(tags), nil
}

func (s *tagService) CoursesByTag(ctx context.Context, slug string) (*TagCourses, error) {
	tag, err := s.tags.GetBySlug(ctx, slug)
	if err != nil {
		return nil, NewServiceError("tag", "courses_by_tag", err)
	}

	courses, err := s.courses.List(ctx, store.CourseFilter{ActiveOnly: true, TagSlugs: []string{tag.Slug}})
	if err != nil {
		return nil, NewServiceError("tag", "courses_by_tag", err)
	}

	similar, err := s.tags.ListSimilar(ctx, tag.ID, SimilarTagLimit)
	if err != nil {
		return nil, NewServiceError("tag", "courses_by_tag", err)
	}

	return &TagCourses{Tag: tag, Courses: courses, Similar: similar}, nil
}

func (s *tagService) CreateTag(ctx context.Context, actor domain.Identity, p domain.TagParams) (*domain.Tag, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	tag, err := domain.NewTag(p)
	if err != nil {
		return nil, err
	}

	if err := s.insert(ctx, tag, strings.TrimSpace(p.Slug) == ""); err != nil {
		return nil, NewServiceError("tag", "create", err)
	}
	return tag, nil
}

// insert stores a new tag. With derived set, a slug collision moves on to
// the next numbered candidate; the unique index decides, not a prior lookup.
func (s *tagService) insert(ctx context.Context, tag *domain.Tag, derived bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !derived {
		return s.tags.Create(ctx, tag)
	}

	base := tag.Slug
	for n := 0; n < maxSlugAttempts; n++ {
		tag.Slug = domain.SlugCandidate(base, n)
		err := s.tags.Create(ctx, tag)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrSlugExists) {
			return err
		}
		log.Debug("tag slug taken, trying next candidate", slog.String("slug", tag.Slug))
	}
	return ErrSlugsExhausted
}

func (s *tagService) UpdateTag(
	ctx context.Context,
	actor domain.Identity,
	tagID uuid.UUID,
	p domain.TagParams,
) (*domain.Tag, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	tag, err := s.tags.GetByID(ctx, tagID)
	if err != nil {
		return nil, NewServiceError("tag", "update", err)
	}

	if strings.TrimSpace(p.Slug) == "" {
		p.Slug = tag.Slug
	}
	if err := tag.Apply(p); err != nil {
		return nil, err
	}

	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, NewServiceError("tag", "update", err)
	}
	return tag, nil
}

func (s *tagService) DeleteTag(ctx context.Context, actor domain.Identity, tagID uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return NewServiceError("tag", "delete", s.tags.Delete(ctx, tagID))
}

func (s *tagService) SeedDefaults(ctx context.Context) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	created := 0
	for _, p := range domain.DefaultTags() {
		_, err := s.tags.GetByName(ctx, p.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrTagNotFound) {
			return created, NewServiceError("tag", "seed", err)
		}

		tag, err := domain.NewTag(p)
		if err != nil {
			return created, NewServiceError("tag", "seed", err)
		}
		if err := s.insert(ctx, tag, true); err != nil {
			if errors.Is(err, store.ErrTagNameExists) {
				continue
			}
			return created, NewServiceError("tag", "seed", err)
		}

		created++
		log.Info("default tag created", slog.String("name", tag.Name), slog.String("slug", tag.Slug))
	}
	return created, nil
}

func (s *tagService) RecomputeCounts(ctx context.Context) error {
	return NewServiceError("tag", "recompute_counts", s.tags.RecomputeCourseCounts(ctx))
}
