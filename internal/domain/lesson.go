package domain

import (
	"strings"

	"github.com/google/uuid"
)

// LessonType is the format of a lesson. It determines the lesson's
// homework, scoring and requirement attributes.
type LessonType string

// Possible lesson types
const (
	LessonLecture      LessonType = "lecture"
	LessonSeminar      LessonType = "seminar"
	LessonPractice     LessonType = "practice"
	LessonConsultation LessonType = "consultation"
	LessonTest         LessonType = "test"
)

// LessonTypeRules are the attributes derived from a lesson type.
type LessonTypeRules struct {
	HasHomework bool
	MaxScore    int
	IsRequired  bool
}

var lessonTypeRules = map[LessonType]LessonTypeRules{
	LessonLecture:      {HasHomework: false, MaxScore: 0, IsRequired: true},
	LessonSeminar:      {HasHomework: false, MaxScore: 0, IsRequired: false},
	LessonPractice:     {HasHomework: true, MaxScore: 100, IsRequired: true},
	LessonConsultation: {HasHomework: false, MaxScore: 0, IsRequired: false},
	LessonTest:         {HasHomework: false, MaxScore: 100, IsRequired: true},
}

// RulesFor returns the derived attributes of a lesson type.
func RulesFor(t LessonType) (LessonTypeRules, bool) {
	r, ok := lessonTypeRules[t]
	return r, ok
}

// Lesson validation errors
var (
	ErrEmptyLessonTitle    = NewValidationError("title", "lesson title cannot be empty")
	ErrEmptyLessonModule   = NewValidationError("module_id", "lesson must belong to a module")
	ErrInvalidLessonOrder  = NewValidationError("lesson_order", "lesson order must be at least 1")
	ErrInvalidLessonType   = NewValidationError("lesson_type", "invalid lesson type")
	ErrInvalidLessonLength = NewValidationError("duration_minutes", "duration must be at least 1 minute")
)

// Lesson is the smallest unit of the catalog.
type Lesson struct {
	ID              uuid.UUID  `json:"id"`
	ModuleID        uuid.UUID  `json:"module_id"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	VideoURL        string     `json:"video_url,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	LessonOrder     int        `json:"lesson_order"`
	LessonType      LessonType `json:"lesson_type"`
	IsActive        bool       `json:"is_active"`
	HasHomework     bool       `json:"has_homework"`
	MaxScore        int        `json:"max_score"`
	IsRequired      bool       `json:"is_required"`
}

// LessonParams holds the editable attributes of a lesson. The derived
// attributes always follow the lesson type and cannot be supplied.
type LessonParams struct {
	Title           string
	Content         string
	VideoURL        string
	DurationMinutes int
	LessonOrder     int
	LessonType      LessonType
	IsActive        bool
}

// NewLesson creates a validated lesson inside a module.
func NewLesson(moduleID uuid.UUID, p LessonParams) (*Lesson, error) {
	l := &Lesson{ID: uuid.New(), ModuleID: moduleID}
	if err := l.Apply(p); err != nil {
		return nil, err
	}
	return l, nil
}

// Apply overwrites the editable attributes, re-derives the type-driven
// attributes and validates the result.
func (l *Lesson) Apply(p LessonParams) error {
	if p.DurationMinutes == 0 {
		p.DurationMinutes = 60
	}
	if p.LessonType == "" {
		p.LessonType = LessonLecture
	}

	l.Title = strings.TrimSpace(p.Title)
	l.Content = p.Content
	l.VideoURL = strings.TrimSpace(p.VideoURL)
	l.DurationMinutes = p.DurationMinutes
	l.LessonOrder = p.LessonOrder
	l.LessonType = p.LessonType
	l.IsActive = p.IsActive

	return l.Normalize()
}

// Normalize enforces the lesson type mapping, overriding whatever values the
// derived fields currently hold, then validates. It runs on every save.
func (l *Lesson) Normalize() error {
	rules, ok := RulesFor(l.LessonType)
	if !ok {
		return ErrInvalidLessonType
	}
	l.HasHomework = rules.HasHomework
	l.MaxScore = rules.MaxScore
	l.IsRequired = rules.IsRequired

	return l.Validate()
}

// Validate checks if the Lesson has valid data.
func (l *Lesson) Validate() error {
	if l.ID == uuid.Nil {
		return ErrInvalidID
	}
	if l.ModuleID == uuid.Nil {
		return ErrEmptyLessonModule
	}
	if l.Title == "" {
		return ErrEmptyLessonTitle
	}
	if l.LessonOrder < 1 {
		return ErrInvalidLessonOrder
	}
	if l.DurationMinutes < 1 {
		return ErrInvalidLessonLength
	}
	if _, ok := RulesFor(l.LessonType); !ok {
		return ErrInvalidLessonType
	}
	return nil
}

// LessonNavigation places a lesson among the active lessons of its module.
type LessonNavigation struct {
	Previous *Lesson `json:"previous,omitempty"`
	Next     *Lesson `json:"next,omitempty"`
}

// Navigate finds the active lessons immediately before and after the given
// lesson order. The lessons slice may be in any order.
func Navigate(lessons []Lesson, order int) LessonNavigation {
	var nav LessonNavigation
	for i := range lessons {
		l := &lessons[i]
		if !l.IsActive {
			continue
		}
		if l.LessonOrder < order && (nav.Previous == nil || l.LessonOrder > nav.Previous.LessonOrder) {
			nav.Previous = l
		}
		if l.LessonOrder > order && (nav.Next == nil || l.LessonOrder < nav.Next.LessonOrder) {
			nav.Next = l
		}
	}
	return nav
}
