package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewLesson_TypeDeterminesDerivedFields(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		lessonType  LessonType
		hasHomework bool
		maxScore    int
		isRequired  bool
	}{
		{LessonLecture, false, 0, true},
		{LessonSeminar, false, 0, false},
		{LessonPractice, true, 100, true},
		{LessonConsultation, false, 0, false},
		{LessonTest, false, 100, true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.lessonType), func(t *testing.T) {
			lesson, err := NewLesson(uuid.New(), LessonParams{
				Title:       "Intro",
				LessonOrder: 1,
				LessonType:  tc.lessonType,
				IsActive:    true,
			})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if lesson.HasHomework != tc.hasHomework {
				t.Errorf("Expected has_homework %v, got %v", tc.hasHomework, lesson.HasHomework)
			}
			if lesson.MaxScore != tc.maxScore {
				t.Errorf("Expected max_score %d, got %d", tc.maxScore, lesson.MaxScore)
			}
			if lesson.IsRequired != tc.isRequired {
				t.Errorf("Expected is_required %v, got %v", tc.isRequired, lesson.IsRequired)
			}
		})
	}
}

func TestLessonNormalize_OverridesManualValues(t *testing.T) {
	t.Parallel()

	lesson, err := NewLesson(uuid.New(), LessonParams{Title: "Quiz", LessonOrder: 2, LessonType: LessonSeminar})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	lesson.HasHomework = true
	lesson.MaxScore = 42
	lesson.IsRequired = true
	if err := lesson.Normalize(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if lesson.HasHomework || lesson.MaxScore != 0 || lesson.IsRequired {
		t.Errorf("Expected seminar defaults, got homework=%v max=%d required=%v",
			lesson.HasHomework, lesson.MaxScore, lesson.IsRequired)
	}

	lesson.LessonType = LessonTest
	if err := lesson.Normalize(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if lesson.MaxScore != 100 || !lesson.IsRequired {
		t.Errorf("Expected test defaults after type change, got max=%d required=%v", lesson.MaxScore, lesson.IsRequired)
	}
}

func TestNewLesson_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		moduleID uuid.UUID
		params   LessonParams
		expected error
	}{
		{"empty module", uuid.Nil, LessonParams{Title: "x", LessonOrder: 1}, ErrEmptyLessonModule},
		{"empty title", uuid.New(), LessonParams{Title: "  ", LessonOrder: 1}, ErrEmptyLessonTitle},
		{"zero order", uuid.New(), LessonParams{Title: "x"}, ErrInvalidLessonOrder},
		{"negative duration", uuid.New(), LessonParams{Title: "x", LessonOrder: 1, DurationMinutes: -5}, ErrInvalidLessonLength},
		{"unknown type", uuid.New(), LessonParams{Title: "x", LessonOrder: 1, LessonType: "workshop"}, ErrInvalidLessonType},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLesson(tc.moduleID, tc.params)
			if err != tc.expected {
				t.Errorf("Expected error %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestNavigate(t *testing.T) {
	t.Parallel()

	lessons := []Lesson{
		{ID: uuid.New(), LessonOrder: 3, IsActive: true},
		{ID: uuid.New(), LessonOrder: 1, IsActive: true},
		{ID: uuid.New(), LessonOrder: 2, IsActive: false},
		{ID: uuid.New(), LessonOrder: 5, IsActive: true},
	}

	nav := Navigate(lessons, 3)
	if nav.Previous == nil || nav.Previous.LessonOrder != 1 {
		t.Errorf("Expected previous lesson order 1 (skipping inactive), got %+v", nav.Previous)
	}
	if nav.Next == nil || nav.Next.LessonOrder != 5 {
		t.Errorf("Expected next lesson order 5, got %+v", nav.Next)
	}

	nav = Navigate(lessons, 5)
	if nav.Next != nil {
		t.Errorf("Expected no next lesson, got order %d", nav.Next.LessonOrder)
	}
}
