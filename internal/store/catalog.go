package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
)

// CourseFilter narrows a course listing. Zero values do not filter.
type CourseFilter struct {
	// ActiveOnly restricts the listing to active courses.
	ActiveOnly bool
	// Query matches title, description or tag name, case-insensitively.
	Query string
	// TagSlugs keeps courses carrying at least one of the tags.
	TagSlugs []string
	// Difficulty keeps courses of one level.
	Difficulty domain.Difficulty
}

// CourseStore defines the interface for course persistence.
type CourseStore interface {
	// Create saves a new course.
	Create(ctx context.Context, course *domain.Course) error

	// GetByID retrieves a course with its tags.
	// Returns ErrCourseNotFound if the course does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)

	// Update saves the editable attributes of a course.
	// Returns ErrCourseNotFound if the course does not exist.
	Update(ctx context.Context, course *domain.Course) error

	// Delete removes a course together with its modules and lessons.
	// Returns ErrCourseNotFound if the course does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns courses matching the filter, ordered by complexity then title,
	// each with its tags. A course matching through several tags appears once.
	List(ctx context.Context, filter CourseFilter) ([]domain.Course, error)

	// ListByIDs returns the given courses ordered by complexity then title.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Course, error)

	// SetTags replaces the tag set of a course.
	// Returns ErrReferenceNotFound if a tag does not exist.
	SetTags(ctx context.Context, courseID uuid.UUID, tagIDs []uuid.UUID) error

	// Stats returns module, lesson and audience counts for a course.
	Stats(ctx context.Context, courseID uuid.UUID) (domain.CourseStats, error)

	// WithTx returns a new CourseStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CourseStore
}

// ModuleStore defines the interface for module persistence.
type ModuleStore interface {
	// Create saves a new module.
	// Returns ErrModuleOrderExists if the order is taken within the course.
	Create(ctx context.Context, module *domain.Module) error

	// GetByID retrieves a module.
	// Returns ErrModuleNotFound if the module does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Module, error)

	// Update saves the editable attributes of a module.
	// Returns ErrModuleNotFound or ErrModuleOrderExists.
	Update(ctx context.Context, module *domain.Module) error

	// Delete removes a module and its lessons.
	// Returns ErrModuleNotFound if the module does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByCourse returns the modules of a course by module order.
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Module, error)

	// WithTx returns a new ModuleStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ModuleStore
}

// LessonStore defines the interface for lesson persistence.
type LessonStore interface {
	// Create saves a new lesson.
	// Returns ErrLessonOrderExists if the order is taken within the module.
	Create(ctx context.Context, lesson *domain.Lesson) error

	// GetByID retrieves a lesson.
	// Returns ErrLessonNotFound if the lesson does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// Update saves a lesson, including its type-derived attributes.
	// Returns ErrLessonNotFound or ErrLessonOrderExists.
	Update(ctx context.Context, lesson *domain.Lesson) error

	// Delete removes a lesson.
	// Returns ErrLessonNotFound if the lesson does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByModule returns every lesson of a module, active or not, by lesson order.
	ListByModule(ctx context.Context, moduleID uuid.UUID) ([]domain.Lesson, error)

	// ListByCourse returns every lesson of a course, active or not, ordered by
	// module order then lesson order.
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Lesson, error)

	// WithTx returns a new LessonStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LessonStore
}

// TeachingStore defines the interface for reviewer-to-course assignments.
type TeachingStore interface {
	// Assign records that a reviewer teaches a course.
	// Returns ErrAlreadyAssigned if the pair already exists.
	Assign(ctx context.Context, assignment *domain.TeacherCourse) error

	// IsAssigned reports whether the reviewer teaches the course.
	IsAssigned(ctx context.Context, reviewerID, courseID uuid.UUID) (bool, error)

	// ListCourseIDs returns the IDs of the courses a reviewer teaches.
	ListCourseIDs(ctx context.Context, reviewerID uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new TeachingStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TeachingStore
}
