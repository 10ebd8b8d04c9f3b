package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Homework limits and defaults.
const (
	DefaultHomeworkMaxScore = 100
	MaxHomeworkMaxScore     = 1000
)

// Homework validation errors
var (
	ErrEmptyHomeworkTitle      = NewValidationError("title", "homework title cannot be empty")
	ErrInvalidHomeworkMaxScore = NewValidationError("max_score", "max score must be between 1 and 1000")
	ErrInvalidDeadlineDays     = NewValidationError("deadline_days", "deadline days cannot be negative")
	ErrLessonHasNoHomework     = NewValidationError("lesson_id", "lesson type does not take homework")
)

// Homework is an assignment attached to a lesson.
type Homework struct {
	ID           uuid.UUID `json:"id"`
	LessonID     uuid.UUID `json:"lesson_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	MaxScore     int       `json:"max_score"`
	DeadlineDays int       `json:"deadline_days"`
	IsOptional   bool      `json:"is_optional"`
	CreatedAt    time.Time `json:"created_at"`
}

// HomeworkParams holds the editable attributes of a homework. A zero MaxScore
// selects the default.
type HomeworkParams struct {
	Title        string
	Description  string
	MaxScore     int
	DeadlineDays int
	IsOptional   bool
}

// NewHomework creates a validated homework for a lesson that takes homework.
func NewHomework(lesson *Lesson, p HomeworkParams) (*Homework, error) {
	if !lesson.HasHomework {
		return nil, ErrLessonHasNoHomework
	}
	if p.MaxScore == 0 {
		p.MaxScore = DefaultHomeworkMaxScore
	}
	h := &Homework{
		ID:           uuid.New(),
		LessonID:     lesson.ID,
		Title:        strings.TrimSpace(p.Title),
		Description:  p.Description,
		MaxScore:     p.MaxScore,
		DeadlineDays: p.DeadlineDays,
		IsOptional:   p.IsOptional,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Validate checks if the Homework has valid data.
func (h *Homework) Validate() error {
	if h.ID == uuid.Nil || h.LessonID == uuid.Nil {
		return ErrInvalidID
	}
	if h.Title == "" {
		return ErrEmptyHomeworkTitle
	}
	if h.MaxScore < 1 || h.MaxScore > MaxHomeworkMaxScore {
		return ErrInvalidHomeworkMaxScore
	}
	if h.DeadlineDays < 0 {
		return ErrInvalidDeadlineDays
	}
	return nil
}

// SubmissionStatus is the review state of a homework submission.
type SubmissionStatus string

// Possible submission statuses
const (
	SubmissionSubmitted     SubmissionStatus = "submitted"
	SubmissionUnderReview   SubmissionStatus = "under_review"
	SubmissionApproved      SubmissionStatus = "approved"
	SubmissionRejected      SubmissionStatus = "rejected"
	SubmissionNeedsRevision SubmissionStatus = "needs_revision"
	SubmissionResubmitted   SubmissionStatus = "resubmitted"
)

// Urgency ranks how quickly a submission should be reviewed.
type Urgency string

// Possible urgency levels
const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Submission validation errors
var (
	ErrEmptySubmission        = NewValidationError("submission_text", "submission must contain text or an attachment")
	ErrInvalidTransition      = NewValidationError("status", "status transition not allowed")
	ErrInvalidSubmissionScore = NewValidationError("score", "score must be between 0 and the homework max score")
	ErrInvalidUrgency         = NewValidationError("urgency", "invalid urgency")
	ErrReviewBeforeSubmission = NewValidationError("reviewed_at", "review cannot precede submission")
)

// submissionTransitions lists the statuses reachable from each status.
var submissionTransitions = map[SubmissionStatus][]SubmissionStatus{
	SubmissionSubmitted:     {SubmissionUnderReview},
	SubmissionUnderReview:   {SubmissionApproved, SubmissionRejected, SubmissionNeedsRevision},
	SubmissionRejected:      {SubmissionResubmitted},
	SubmissionNeedsRevision: {SubmissionResubmitted},
	SubmissionResubmitted:   {SubmissionUnderReview},
}

// CanTransition reports whether a submission may move from one status to another.
func CanTransition(from, to SubmissionStatus) bool {
	for _, s := range submissionTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsReviewOutcome reports whether a status ends a review.
func IsReviewOutcome(s SubmissionStatus) bool {
	return s == SubmissionApproved || s == SubmissionRejected || s == SubmissionNeedsRevision
}

// HomeworkSubmission is a student's answer to a homework. Score and
// ReviewedAt stay nil until a reviewer records an outcome.
type HomeworkSubmission struct {
	ID             uuid.UUID        `json:"id"`
	HomeworkID     uuid.UUID        `json:"homework_id"`
	EnrollmentID   uuid.UUID        `json:"enrollment_id"`
	ReviewerID     *uuid.UUID       `json:"reviewer_id,omitempty"`
	SubmissionText string           `json:"submission_text"`
	AttachmentURL  string           `json:"attachment_url,omitempty"`
	SubmittedAt    time.Time        `json:"submitted_at"`
	Score          *int             `json:"score,omitempty"`
	Feedback       string           `json:"feedback,omitempty"`
	ReviewedAt     *time.Time       `json:"reviewed_at,omitempty"`
	Status         SubmissionStatus `json:"status"`
	Urgency        Urgency          `json:"urgency"`
}

// NewHomeworkSubmission creates a submission in the submitted state.
func NewHomeworkSubmission(homeworkID, enrollmentID uuid.UUID, text, attachmentURL string, urgency Urgency) (*HomeworkSubmission, error) {
	if urgency == "" {
		urgency = UrgencyNormal
	}
	s := &HomeworkSubmission{
		ID:             uuid.New(),
		HomeworkID:     homeworkID,
		EnrollmentID:   enrollmentID,
		SubmissionText: strings.TrimSpace(text),
		AttachmentURL:  strings.TrimSpace(attachmentURL),
		SubmittedAt:    time.Now().UTC(),
		Status:         SubmissionSubmitted,
		Urgency:        urgency,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the HomeworkSubmission has valid data.
func (s *HomeworkSubmission) Validate() error {
	if s.ID == uuid.Nil || s.HomeworkID == uuid.Nil || s.EnrollmentID == uuid.Nil {
		return ErrInvalidID
	}
	if s.SubmissionText == "" && s.AttachmentURL == "" {
		return ErrEmptySubmission
	}
	switch s.Urgency {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyCritical:
	default:
		return ErrInvalidUrgency
	}
	if s.ReviewedAt != nil && s.ReviewedAt.Before(s.SubmittedAt) {
		return ErrReviewBeforeSubmission
	}
	return nil
}

// Claim moves a submitted or resubmitted submission under review by the
// given reviewer.
func (s *HomeworkSubmission) Claim(reviewerID uuid.UUID) error {
	if !CanTransition(s.Status, SubmissionUnderReview) {
		return ErrInvalidTransition
	}
	s.ReviewerID = &reviewerID
	s.Status = SubmissionUnderReview
	return nil
}

// Review records the outcome of a review. The score is validated against the
// homework max score and never clamped.
func (s *HomeworkSubmission) Review(outcome SubmissionStatus, score *int, feedback string, maxScore int, at time.Time) error {
	if !IsReviewOutcome(outcome) || !CanTransition(s.Status, outcome) {
		return ErrInvalidTransition
	}
	if score != nil && (*score < 0 || *score > maxScore) {
		return ErrInvalidSubmissionScore
	}
	if at.Before(s.SubmittedAt) {
		return ErrReviewBeforeSubmission
	}

	reviewedAt := at.UTC()
	s.Status = outcome
	s.Score = score
	s.Feedback = strings.TrimSpace(feedback)
	s.ReviewedAt = &reviewedAt
	return nil
}

// Resubmit replaces the answer of a rejected or revision-requested submission.
// The submission time moves forward and the previous review is cleared.
func (s *HomeworkSubmission) Resubmit(text, attachmentURL string, at time.Time) error {
	if !CanTransition(s.Status, SubmissionResubmitted) {
		return ErrInvalidTransition
	}
	text = strings.TrimSpace(text)
	attachmentURL = strings.TrimSpace(attachmentURL)
	if text == "" && attachmentURL == "" {
		return ErrEmptySubmission
	}

	s.SubmissionText = text
	s.AttachmentURL = attachmentURL
	s.SubmittedAt = at.UTC()
	s.Status = SubmissionResubmitted
	s.Score = nil
	s.ReviewedAt = nil
	return nil
}
