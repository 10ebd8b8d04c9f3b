package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnrollmentStatus is the lifecycle state of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses
const (
	EnrollmentActive         EnrollmentStatus = "active"
	EnrollmentCompleted      EnrollmentStatus = "completed"
	EnrollmentCancelled      EnrollmentStatus = "cancelled"
	EnrollmentPaused         EnrollmentStatus = "paused"
	EnrollmentWaitingPayment EnrollmentStatus = "waiting_payment"
)

// Enrollment validation errors
var (
	ErrInvalidEnrollmentStatus = NewValidationError("status", "invalid enrollment status")
	ErrInvalidOverallScore     = NewValidationError("overall_score", "overall score must be between 0 and 100")
)

// Enrollment ties one student to one course.
type Enrollment struct {
	ID             uuid.UUID        `json:"id"`
	StudentID      uuid.UUID        `json:"student_id"`
	CourseID       uuid.UUID        `json:"course_id"`
	Status         EnrollmentStatus `json:"status"`
	OverallScore   *int             `json:"overall_score,omitempty"`
	EnrollmentDate time.Time        `json:"enrollment_date"`
	CompletionDate *time.Time       `json:"completion_date,omitempty"`
}

// NewEnrollment creates an active enrollment.
func NewEnrollment(studentID, courseID uuid.UUID) *Enrollment {
	return &Enrollment{
		ID:             uuid.New(),
		StudentID:      studentID,
		CourseID:       courseID,
		Status:         EnrollmentActive,
		EnrollmentDate: time.Now().UTC(),
	}
}

// Update changes status and overall score. Moving into the completed state
// stamps the completion date; leaving it clears the date.
func (e *Enrollment) Update(status EnrollmentStatus, overallScore *int) error {
	if !IsValidEnrollmentStatus(status) {
		return ErrInvalidEnrollmentStatus
	}
	if overallScore != nil && (*overallScore < 0 || *overallScore > 100) {
		return ErrInvalidOverallScore
	}

	if status == EnrollmentCompleted && e.Status != EnrollmentCompleted {
		now := time.Now().UTC()
		e.CompletionDate = &now
	}
	if status != EnrollmentCompleted {
		e.CompletionDate = nil
	}

	e.Status = status
	e.OverallScore = overallScore
	return nil
}

// IsValidEnrollmentStatus checks if the given value is a known status.
func IsValidEnrollmentStatus(s EnrollmentStatus) bool {
	switch s {
	case EnrollmentActive, EnrollmentCompleted, EnrollmentCancelled,
		EnrollmentPaused, EnrollmentWaitingPayment:
		return true
	default:
		return false
	}
}

// LessonCompletion records that a lesson was finished within an enrollment.
type LessonCompletion struct {
	ID           uuid.UUID `json:"id"`
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	LessonID     uuid.UUID `json:"lesson_id"`
	Score        *int      `json:"score,omitempty"`
	CompletedAt  time.Time `json:"completed_at"`
}

// NewLessonCompletion creates a completion for an enrollment and lesson.
func NewLessonCompletion(enrollmentID, lessonID uuid.UUID, score *int) *LessonCompletion {
	return &LessonCompletion{
		ID:           uuid.New(),
		EnrollmentID: enrollmentID,
		LessonID:     lessonID,
		Score:        score,
		CompletedAt:  time.Now().UTC(),
	}
}

// ParseCompletionScore interprets a raw score submitted with a lesson
// completion. Input that is empty, non-numeric, outside [0,100], or above the
// lesson's max score (when it has one) yields nil; the completion itself is
// never refused because of its score.
func ParseCompletionScore(raw string, lesson *Lesson) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	score, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	if score < 0 || score > 100 {
		return nil
	}
	if lesson.MaxScore > 0 && score > lesson.MaxScore {
		return nil
	}
	return &score
}
