package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/service"
)

// dateLayout is the wire format of calendar dates.
const dateLayout = "2006-01-02"

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	Role            string `json:"role"             validate:"required,oneof=student reviewer"`
	FirstName       string `json:"first_name"       validate:"required,max=100"`
	LastName        string `json:"last_name"        validate:"required,max=100"`
	Phone           string `json:"phone"            validate:"omitempty,max=30"`
	DateOfBirth     string `json:"date_of_birth"    validate:"omitempty,datetime=2006-01-02"`
	Specialization  string `json:"specialization"   validate:"omitempty,max=200"`
}

func (r RegisterRequest) params() service.RegisterParams {
	p := service.RegisterParams{
		Email:           r.Email,
		Password:        r.Password,
		PasswordConfirm: r.PasswordConfirm,
		Role:            domain.Role(r.Role),
		Name:            domain.PersonName{FirstName: r.FirstName, LastName: r.LastName, Phone: r.Phone},
		Specialization:  r.Specialization,
	}
	if dob, err := time.Parse(dateLayout, r.DateOfBirth); err == nil {
		p.DateOfBirth = &dob
	}
	return p
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	Identity     *domain.Identity `json:"identity,omitempty"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresAt    string           `json:"expires_at"`
}

// CourseRequest defines the payload for creating or replacing a course.
// A missing is_active defaults to true.
type CourseRequest struct {
	Title           string      `json:"title"            validate:"required,max=200"`
	Description     string      `json:"description"`
	Price           float64     `json:"price"            validate:"gte=0"`
	DurationWeeks   int         `json:"duration_weeks"   validate:"gte=1"`
	Difficulty      string      `json:"difficulty"       validate:"omitempty,oneof=beginner intermediate advanced"`
	ComplexityLevel int         `json:"complexity_level" validate:"omitempty,min=1,max=5"`
	IsActive        *bool       `json:"is_active"`
	TagIDs          []uuid.UUID `json:"tag_ids"`
}

func (r CourseRequest) params() domain.CourseParams {
	return domain.CourseParams{
		Title:           r.Title,
		Description:     r.Description,
		Price:           r.Price,
		DurationWeeks:   r.DurationWeeks,
		Difficulty:      domain.Difficulty(r.Difficulty),
		ComplexityLevel: r.ComplexityLevel,
		IsActive:        boolOr(r.IsActive, true),
	}
}

// CourseResponse is a course detail with what the caller may do with it.
type CourseResponse struct {
	*service.CourseDetail
	Access *service.CourseAccess `json:"access,omitempty"`
}

// ModuleRequest defines the payload for creating or replacing a module.
type ModuleRequest struct {
	Title       string `json:"title"        validate:"required,max=200"`
	Description string `json:"description"`
	ModuleOrder int    `json:"module_order" validate:"gte=1"`
	IsActive    *bool  `json:"is_active"`
}

func (r ModuleRequest) params() service.ModuleParams {
	return service.ModuleParams{
		Title:       r.Title,
		Description: r.Description,
		ModuleOrder: r.ModuleOrder,
		IsActive:    boolOr(r.IsActive, true),
	}
}

// LessonRequest defines the payload for creating or replacing a lesson.
// The homework and scoring attributes follow from lesson_type.
type LessonRequest struct {
	Title           string `json:"title"            validate:"required,max=200"`
	Content         string `json:"content"`
	VideoURL        string `json:"video_url"        validate:"omitempty,url"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0"`
	LessonOrder     int    `json:"lesson_order"     validate:"gte=1"`
	LessonType      string `json:"lesson_type"      validate:"omitempty,oneof=lecture seminar practice consultation test"`
	IsActive        *bool  `json:"is_active"`
}

func (r LessonRequest) params() domain.LessonParams {
	return domain.LessonParams{
		Title:           r.Title,
		Content:         r.Content,
		VideoURL:        r.VideoURL,
		DurationMinutes: r.DurationMinutes,
		LessonOrder:     r.LessonOrder,
		LessonType:      domain.LessonType(r.LessonType),
		IsActive:        boolOr(r.IsActive, true),
	}
}

// PrerequisiteRequest defines the payload for attaching a prerequisite.
// An omitted min_score means domain.DefaultPrerequisiteMinScore; an explicit
// 0 disables the score gate.
type PrerequisiteRequest struct {
	RequiredCourseID uuid.UUID `json:"required_course_id" validate:"required"`
	RequirementType  string    `json:"requirement_type"   validate:"omitempty,oneof=mandatory recommended optional"`
	MinScore         *int      `json:"min_score"          validate:"omitempty,gte=0,lte=100"`
}

func (r PrerequisiteRequest) params() service.PrerequisiteParams {
	minScore := domain.DefaultPrerequisiteMinScore
	if r.MinScore != nil {
		minScore = *r.MinScore
	}
	return service.PrerequisiteParams{
		RequiredCourseID: r.RequiredCourseID,
		RequirementType:  domain.RequirementType(r.RequirementType),
		MinScore:         minScore,
	}
}

// PrerequisitesResponse lists a course's prerequisites and, for a student,
// whether they are met.
type PrerequisitesResponse struct {
	Prerequisites []domain.CoursePrerequisite `json:"prerequisites"`
	Check         *domain.PrerequisiteCheck   `json:"check,omitempty"`
}

// CompleteLessonRequest carries an optional score. The score may be sent as
// a number or a string; unusable values are stored as no score.
type CompleteLessonRequest struct {
	Score json.RawMessage `json:"score"`
}

func (r CompleteLessonRequest) rawScore() string {
	raw := strings.TrimSpace(string(r.Score))
	if raw == "" || raw == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Score, &s); err == nil {
		return s
	}
	return raw
}

// UpdateEnrollmentRequest defines the payload for changing an enrollment.
type UpdateEnrollmentRequest struct {
	Status       string `json:"status"        validate:"required,oneof=active completed cancelled paused waiting_payment"`
	OverallScore *int   `json:"overall_score" validate:"omitempty,gte=0,lte=100"`
}

// HomeworkRequest defines the payload for creating a homework.
type HomeworkRequest struct {
	Title        string `json:"title"         validate:"required,max=200"`
	Description  string `json:"description"`
	MaxScore     int    `json:"max_score"     validate:"omitempty,min=1,max=1000"`
	DeadlineDays int    `json:"deadline_days" validate:"gte=0"`
	IsOptional   bool   `json:"is_optional"`
}

func (r HomeworkRequest) params() domain.HomeworkParams {
	return domain.HomeworkParams{
		Title:        r.Title,
		Description:  r.Description,
		MaxScore:     r.MaxScore,
		DeadlineDays: r.DeadlineDays,
		IsOptional:   r.IsOptional,
	}
}

// SubmissionRequest defines the payload for submitting or resubmitting homework.
type SubmissionRequest struct {
	SubmissionText string `json:"submission_text"`
	AttachmentURL  string `json:"attachment_url" validate:"omitempty,url"`
	Urgency        string `json:"urgency"        validate:"omitempty,oneof=low normal high critical"`
}

func (r SubmissionRequest) params() service.SubmissionParams {
	return service.SubmissionParams{
		Text:          r.SubmissionText,
		AttachmentURL: r.AttachmentURL,
		Urgency:       domain.Urgency(r.Urgency),
	}
}

// ReviewRequest defines the payload for a reviewer's verdict.
type ReviewRequest struct {
	Status   string `json:"status"   validate:"required,oneof=approved rejected needs_revision"`
	Score    *int   `json:"score"    validate:"omitempty,gte=0"`
	Feedback string `json:"feedback"`
}

func (r ReviewRequest) params() service.ReviewParams {
	return service.ReviewParams{
		Status:   domain.SubmissionStatus(r.Status),
		Score:    r.Score,
		Feedback: r.Feedback,
	}
}

// TagRequest defines the payload for creating or replacing a tag. An empty
// slug is derived from the name.
type TagRequest struct {
	Name        string `json:"name"        validate:"required,max=50"`
	Slug        string `json:"slug"        validate:"omitempty,max=60"`
	Description string `json:"description"`
	Color       string `json:"color"`
	IsFeatured  bool   `json:"is_featured"`
}

func (r TagRequest) params() domain.TagParams {
	return domain.TagParams{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Color:       r.Color,
		IsFeatured:  r.IsFeatured,
	}
}
