package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty is the advertised level of a course.
type Difficulty string

// Possible difficulty levels
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Bounds for course attributes.
const (
	MinComplexity     = 1
	MaxComplexity     = 5
	MinDurationWeeks  = 1
	MaxCourseTitleLen = 200
)

// Course validation errors
var (
	ErrEmptyCourseTitle   = NewValidationError("title", "course title cannot be empty")
	ErrCourseTitleTooLong = NewValidationError("title", "course title must be at most 200 characters")
	ErrNegativePrice      = NewValidationError("price", "price cannot be negative")
	ErrInvalidDuration    = NewValidationError("duration_weeks", "duration must be at least 1 week")
	ErrInvalidDifficulty  = NewValidationError("difficulty", "invalid difficulty level")
	ErrInvalidComplexity  = NewValidationError("complexity_level", "complexity must be between 1 and 5")
)

// Course is the top-level unit of the catalog. It owns its modules.
type Course struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Price           float64    `json:"price"`
	DurationWeeks   int        `json:"duration_weeks"`
	Difficulty      Difficulty `json:"difficulty"`
	ComplexityLevel int        `json:"complexity_level"`
	IsActive        bool       `json:"is_active"`
	Tags            []Tag      `json:"tags,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CourseParams holds the editable attributes of a course. Zero values of
// Difficulty and ComplexityLevel select the defaults.
type CourseParams struct {
	Title           string
	Description     string
	Price           float64
	DurationWeeks   int
	Difficulty      Difficulty
	ComplexityLevel int
	IsActive        bool
}

// NewCourse creates a validated course.
func NewCourse(p CourseParams) (*Course, error) {
	now := time.Now().UTC()
	c := &Course{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Apply(p); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply overwrites the editable attributes and validates the result.
func (c *Course) Apply(p CourseParams) error {
	if p.Difficulty == "" {
		p.Difficulty = DifficultyBeginner
	}
	if p.ComplexityLevel == 0 {
		p.ComplexityLevel = MinComplexity
	}

	c.Title = strings.TrimSpace(p.Title)
	c.Description = p.Description
	c.Price = p.Price
	c.DurationWeeks = p.DurationWeeks
	c.Difficulty = p.Difficulty
	c.ComplexityLevel = p.ComplexityLevel
	c.IsActive = p.IsActive
	c.UpdatedAt = time.Now().UTC()

	return c.Validate()
}

// Validate checks if the Course has valid data.
func (c *Course) Validate() error {
	if c.ID == uuid.Nil {
		return ErrInvalidID
	}
	if c.Title == "" {
		return ErrEmptyCourseTitle
	}
	if len([]rune(c.Title)) > MaxCourseTitleLen {
		return ErrCourseTitleTooLong
	}
	if c.Price < 0 {
		return ErrNegativePrice
	}
	if c.DurationWeeks < MinDurationWeeks {
		return ErrInvalidDuration
	}
	if !IsValidDifficulty(c.Difficulty) {
		return ErrInvalidDifficulty
	}
	if c.ComplexityLevel < MinComplexity || c.ComplexityLevel > MaxComplexity {
		return ErrInvalidComplexity
	}
	return nil
}

// IsValidDifficulty checks if the given value is a known difficulty level.
func IsValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// Module groups ordered lessons inside a course.
type Module struct {
	ID          uuid.UUID `json:"id"`
	CourseID    uuid.UUID `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ModuleOrder int       `json:"module_order"`
	IsActive    bool      `json:"is_active"`
	Lessons     []Lesson  `json:"lessons,omitempty"`
}

// Module validation errors
var (
	ErrEmptyModuleTitle   = NewValidationError("title", "module title cannot be empty")
	ErrInvalidModuleOrder = NewValidationError("module_order", "module order must be at least 1")
	ErrEmptyModuleCourse  = NewValidationError("course_id", "module must belong to a course")
)

// NewModule creates a validated, active module.
func NewModule(courseID uuid.UUID, title, description string, order int) (*Module, error) {
	m := &Module{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       strings.TrimSpace(title),
		Description: description,
		ModuleOrder: order,
		IsActive:    true,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks if the Module has valid data.
func (m *Module) Validate() error {
	if m.ID == uuid.Nil {
		return ErrInvalidID
	}
	if m.CourseID == uuid.Nil {
		return ErrEmptyModuleCourse
	}
	if m.Title == "" {
		return ErrEmptyModuleTitle
	}
	if m.ModuleOrder < 1 {
		return ErrInvalidModuleOrder
	}
	return nil
}

// CourseStats summarizes the size and audience of a course.
type CourseStats struct {
	TotalModules      int `json:"total_modules"`
	TotalLessons      int `json:"total_lessons"`
	ActiveStudents    int `json:"active_students"`
	CompletedStudents int `json:"completed_students"`
}
