package domain

import (
	"math"

	"github.com/google/uuid"
)

// CourseProgress is the derived state of one enrollment in one course.
type CourseProgress struct {
	Percent          int     `json:"percent"`
	RequiredPercent  float64 `json:"required_percent"`
	CompletedLessons int     `json:"completed_lessons"`
	TotalLessons     int     `json:"total_lessons"`
	UserScore        int     `json:"user_score"`
	MaxPossibleScore int     `json:"max_possible_score"`
	IsCompleted      bool    `json:"is_completed"`
}

// ComputeCourseProgress derives progress from the lessons of a course and the
// completions of one enrollment. Only active lessons count: Percent is the
// truncated share of active lessons completed, RequiredPercent the share of
// active required lessons rounded to two decimals. Completions are matched
// by lesson ID; completions of unknown or inactive lessons are ignored.
func ComputeCourseProgress(lessons []Lesson, completions []LessonCompletion) CourseProgress {
	done := completionIndex(completions)

	var p CourseProgress
	var required, requiredDone int
	for i := range lessons {
		l := &lessons[i]
		if !l.IsActive {
			continue
		}

		p.TotalLessons++
		if l.MaxScore > 0 {
			p.MaxPossibleScore += l.MaxScore
		}
		if l.IsRequired {
			required++
		}

		c, ok := done[l.ID]
		if !ok {
			continue
		}
		p.CompletedLessons++
		if l.IsRequired {
			requiredDone++
		}
		if c.Score != nil {
			p.UserScore += *c.Score
		}
	}

	p.Percent = truncatedPercent(p.CompletedLessons, p.TotalLessons)
	if required > 0 {
		p.RequiredPercent = math.Round(float64(requiredDone)/float64(required)*10000) / 100
	}
	p.IsCompleted = p.TotalLessons > 0 && p.CompletedLessons == p.TotalLessons
	return p
}

// ComputeModuleProgress returns the truncated share of a module's lessons
// completed. Completions only count for active lessons, but the denominator
// is every lesson in the module, active or not.
func ComputeModuleProgress(moduleLessons []Lesson, completions []LessonCompletion) int {
	done := completionIndex(completions)

	completed := 0
	for i := range moduleLessons {
		l := &moduleLessons[i]
		if _, ok := done[l.ID]; ok && l.IsActive {
			completed++
		}
	}
	return truncatedPercent(completed, len(moduleLessons))
}

// NextActiveLesson returns the first active lesson of the module ordered after
// the given lesson order, or nil.
func NextActiveLesson(moduleLessons []Lesson, order int) *Lesson {
	return Navigate(moduleLessons, order).Next
}

func completionIndex(completions []LessonCompletion) map[uuid.UUID]LessonCompletion {
	idx := make(map[uuid.UUID]LessonCompletion, len(completions))
	for _, c := range completions {
		idx[c.LessonID] = c
	}
	return idx
}

func truncatedPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return part * 100 / total
}
