package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequirementType says how strongly a prerequisite binds.
type RequirementType string

// Possible requirement types
const (
	RequirementMandatory   RequirementType = "mandatory"
	RequirementRecommended RequirementType = "recommended"
	RequirementOptional    RequirementType = "optional"
)

// DefaultPrerequisiteMinScore is the minimum score assumed when none is given.
const DefaultPrerequisiteMinScore = 50

// Prerequisite validation errors
var (
	ErrSelfPrerequisite       = NewValidationError("required_course_id", "a course cannot require itself")
	ErrInvalidRequirementType = NewValidationError("requirement_type", "invalid requirement type")
	ErrInvalidMinScore        = NewValidationError("min_score", "minimum score must be between 0 and 100")
)

// CoursePrerequisite states that enrolling in CourseID requires having
// completed RequiredCourseID.
type CoursePrerequisite struct {
	ID                  uuid.UUID       `json:"id"`
	CourseID            uuid.UUID       `json:"course_id"`
	RequiredCourseID    uuid.UUID       `json:"required_course_id"`
	RequiredCourseTitle string          `json:"required_course_title,omitempty"`
	RequirementType     RequirementType `json:"requirement_type"`
	MinScore            int             `json:"min_score"`
}

// NewCoursePrerequisite creates a validated prerequisite.
func NewCoursePrerequisite(courseID, requiredCourseID uuid.UUID, reqType RequirementType, minScore int) (*CoursePrerequisite, error) {
	if reqType == "" {
		reqType = RequirementMandatory
	}
	p := &CoursePrerequisite{
		ID:               uuid.New(),
		CourseID:         courseID,
		RequiredCourseID: requiredCourseID,
		RequirementType:  reqType,
		MinScore:         minScore,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the CoursePrerequisite has valid data.
func (p *CoursePrerequisite) Validate() error {
	if p.ID == uuid.Nil || p.CourseID == uuid.Nil || p.RequiredCourseID == uuid.Nil {
		return ErrInvalidID
	}
	if p.CourseID == p.RequiredCourseID {
		return ErrSelfPrerequisite
	}
	switch p.RequirementType {
	case RequirementMandatory, RequirementRecommended, RequirementOptional:
	default:
		return ErrInvalidRequirementType
	}
	if p.MinScore < 0 || p.MinScore > 100 {
		return ErrInvalidMinScore
	}
	return nil
}

// MissingPrerequisite is an unmet prerequisite with the reason it is unmet.
type MissingPrerequisite struct {
	CourseID uuid.UUID `json:"course_id"`
	Title    string    `json:"title"`
	MinScore int       `json:"min_score"`
	Reason   string    `json:"reason"`
}

// PrerequisiteCheck is the outcome of evaluating a course's prerequisites
// for one student.
type PrerequisiteCheck struct {
	CanEnroll   bool                  `json:"can_enroll"`
	Mandatory   []MissingPrerequisite `json:"mandatory"`
	Recommended []MissingPrerequisite `json:"recommended"`
}

// Reasons reported for unmet prerequisites.
const (
	ReasonNotCompleted = "course not completed"
)

// EvaluatePrerequisites checks each prerequisite against the student's
// enrollments, keyed by course ID. A prerequisite is met by a completed
// enrollment whose overall score reaches MinScore when MinScore > 0; a
// missing score fails such a threshold. Mandatory and recommended
// prerequisites are evaluated the same way, only mandatory ones block.
// Optional prerequisites are not reported.
func EvaluatePrerequisites(prereqs []CoursePrerequisite, enrollments map[uuid.UUID]Enrollment) PrerequisiteCheck {
	check := PrerequisiteCheck{
		Mandatory:   []MissingPrerequisite{},
		Recommended: []MissingPrerequisite{},
	}

	for _, p := range prereqs {
		if p.RequirementType == RequirementOptional {
			continue
		}

		reason, met := prerequisiteMet(p, enrollments)
		if met {
			continue
		}

		missing := MissingPrerequisite{
			CourseID: p.RequiredCourseID,
			Title:    p.RequiredCourseTitle,
			MinScore: p.MinScore,
			Reason:   reason,
		}
		if p.RequirementType == RequirementMandatory {
			check.Mandatory = append(check.Mandatory, missing)
		} else {
			check.Recommended = append(check.Recommended, missing)
		}
	}

	check.CanEnroll = len(check.Mandatory) == 0
	return check
}

func prerequisiteMet(p CoursePrerequisite, enrollments map[uuid.UUID]Enrollment) (string, bool) {
	e, ok := enrollments[p.RequiredCourseID]
	if !ok || e.Status != EnrollmentCompleted {
		return ReasonNotCompleted, false
	}
	if p.MinScore <= 0 {
		return "", true
	}
	if e.OverallScore == nil {
		return fmt.Sprintf("required score %d, not graded", p.MinScore), false
	}
	if *e.OverallScore < p.MinScore {
		return fmt.Sprintf("required score %d, your score %d", p.MinScore, *e.OverallScore), false
	}
	return "", true
}

// TeacherCourse assigns a reviewer to teach a course.
type TeacherCourse struct {
	ID            uuid.UUID `json:"id"`
	ReviewerID    uuid.UUID `json:"reviewer_id"`
	CourseID      uuid.UUID `json:"course_id"`
	IsMainTeacher bool      `json:"is_main_teacher"`
	AssignedAt    time.Time `json:"assigned_at"`
}

// NewTeacherCourse creates a teaching assignment.
func NewTeacherCourse(reviewerID, courseID uuid.UUID, main bool) *TeacherCourse {
	return &TeacherCourse{
		ID:            uuid.New(),
		ReviewerID:    reviewerID,
		CourseID:      courseID,
		IsMainTeacher: main,
		AssignedAt:    time.Now().UTC(),
	}
}
