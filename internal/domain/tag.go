package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tag attribute limits and defaults.
const (
	MaxTagNameLen   = 50
	DefaultTagColor = "#6c757d"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Tag validation errors
var (
	ErrEmptyTagName   = NewValidationError("name", "tag name cannot be empty")
	ErrTagNameTooLong = NewValidationError("name", "tag name must be at most 50 characters")
	ErrInvalidColor   = NewValidationError("color", "color must be a hex value like #1a2b3c")
	ErrInvalidSlug    = NewValidationError("slug", "slug may contain only lowercase letters, digits and hyphens")
)

// Tag labels courses for discovery. CourseCount is derived from the active
// courses carrying the tag and is never edited directly.
type Tag struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	IsFeatured  bool      `json:"is_featured"`
	CourseCount int       `json:"course_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// TagParams holds the editable attributes of a tag. An empty Slug asks for
// one derived from the name; an empty Color selects the default color.
type TagParams struct {
	Name        string
	Slug        string
	Description string
	Color       string
	IsFeatured  bool
}

// NewTag creates a validated tag. When no slug is given the derived base
// slug is used; callers resolve collisions with SlugCandidate.
func NewTag(p TagParams) (*Tag, error) {
	t := &Tag{ID: uuid.New(), CreatedAt: time.Now().UTC()}
	if err := t.Apply(p); err != nil {
		return nil, err
	}
	return t, nil
}

// Apply overwrites the editable attributes and validates the result.
func (t *Tag) Apply(p TagParams) error {
	t.Name = strings.TrimSpace(p.Name)
	t.Description = p.Description
	t.IsFeatured = p.IsFeatured

	t.Color = strings.ToLower(strings.TrimSpace(p.Color))
	if t.Color == "" {
		t.Color = DefaultTagColor
	}

	t.Slug = strings.TrimSpace(p.Slug)
	if t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}

	return t.Validate()
}

// Validate checks if the Tag has valid data.
func (t *Tag) Validate() error {
	if t.ID == uuid.Nil {
		return ErrInvalidID
	}
	if t.Name == "" {
		return ErrEmptyTagName
	}
	if len([]rune(t.Name)) > MaxTagNameLen {
		return ErrTagNameTooLong
	}
	if !hexColorPattern.MatchString(t.Color) {
		return ErrInvalidColor
	}
	if !IsValidSlug(t.Slug) {
		return ErrInvalidSlug
	}
	return nil
}

// DefaultTags is the starter tag set seeded into a fresh installation.
func DefaultTags() []TagParams {
	return []TagParams{
		{Name: "Python", Description: "Курсы по Python", Color: "#3776AB"},
		{Name: "JavaScript", Description: "Курсы по JavaScript", Color: "#F7DF1E"},
		{Name: "Веб-разработка", Description: "Веб-разработка", Color: "#61DAFB"},
		{Name: "Data Science", Description: "Наука о данных", Color: "#306998"},
		{Name: "Для начинающих", Description: "Курсы для новичков", Color: "#28A745"},
		{Name: "Продвинутый", Description: "Продвинутые курсы", Color: "#DC3545"},
		{Name: "Проекты", Description: "Курсы с реальными проектами", Color: "#6F42C1"},
	}
}

// TagCloudEntry is a tag sized by how many active courses carry it.
type TagCloudEntry struct {
	Tag
	FontSize float64 `json:"font_size"`
}

// Tag cloud font size range, in em.
const (
	MinTagFontSize = 0.8
	TagFontSpread  = 1.2
)

// BuildTagCloud sizes each tag relative to the most used one. Tags without
// active courses are dropped. Input order is preserved.
func BuildTagCloud(tags []Tag) []TagCloudEntry {
	maxCount := 0
	for _, t := range tags {
		if t.CourseCount > maxCount {
			maxCount = t.CourseCount
		}
	}

	cloud := make([]TagCloudEntry, 0, len(tags))
	for _, t := range tags {
		if t.CourseCount <= 0 {
			continue
		}
		size := MinTagFontSize + float64(t.CourseCount)/float64(maxCount)*TagFontSpread
		cloud = append(cloud, TagCloudEntry{Tag: t, FontSize: size})
	}
	return cloud
}
