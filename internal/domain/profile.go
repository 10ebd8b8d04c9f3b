package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StudentStatus is the academic status of a student.
type StudentStatus string

// Possible student statuses
const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusSuspended StudentStatus = "suspended"
	StudentStatusGraduated StudentStatus = "graduated"
)

// ReviewerStatus is the employment status of a reviewer.
type ReviewerStatus string

// Possible reviewer statuses
const (
	ReviewerStatusActive   ReviewerStatus = "active"
	ReviewerStatusInactive ReviewerStatus = "inactive"
	ReviewerStatusOnLeave  ReviewerStatus = "on_leave"
)

// Profile validation errors
var (
	ErrEmptyFirstName        = NewValidationError("first_name", "first name cannot be empty")
	ErrEmptyLastName         = NewValidationError("last_name", "last name cannot be empty")
	ErrEmptyProfileAccount   = NewValidationError("account_id", "profile must reference an account")
	ErrInvalidStudentStatus  = NewValidationError("status", "invalid student status")
	ErrInvalidReviewerStatus = NewValidationError("status", "invalid reviewer status")
	ErrDateOfBirthInFuture   = NewValidationError("date_of_birth", "date of birth cannot be in the future")
)

// PersonName holds the name and contact fields shared by profiles.
type PersonName struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}

// FullName returns "First Last".
func (p PersonName) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p PersonName) validate() error {
	if strings.TrimSpace(p.FirstName) == "" {
		return ErrEmptyFirstName
	}
	if strings.TrimSpace(p.LastName) == "" {
		return ErrEmptyLastName
	}
	return nil
}

// Student is the learner profile attached to an account.
type Student struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	PersonName
	DateOfBirth      *time.Time    `json:"date_of_birth,omitempty"`
	Status           StudentStatus `json:"status"`
	RegistrationDate time.Time     `json:"registration_date"`
}

// NewStudent creates an active student profile for an account.
func NewStudent(accountID uuid.UUID, name PersonName, dateOfBirth *time.Time) (*Student, error) {
	s := &Student{
		ID:               uuid.New(),
		AccountID:        accountID,
		PersonName:       name,
		DateOfBirth:      dateOfBirth,
		Status:           StudentStatusActive,
		RegistrationDate: time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the Student has valid data.
func (s *Student) Validate() error {
	if s.ID == uuid.Nil {
		return ErrInvalidID
	}
	if s.AccountID == uuid.Nil {
		return ErrEmptyProfileAccount
	}
	if err := s.PersonName.validate(); err != nil {
		return err
	}
	if s.DateOfBirth != nil && s.DateOfBirth.After(time.Now().UTC()) {
		return ErrDateOfBirthInFuture
	}
	switch s.Status {
	case StudentStatusActive, StudentStatusInactive, StudentStatusSuspended, StudentStatusGraduated:
		return nil
	default:
		return ErrInvalidStudentStatus
	}
}

// Reviewer is the teaching and grading profile attached to an account.
// Reviewers need admin approval before their capabilities unlock.
type Reviewer struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	PersonName
	Specialization string         `json:"specialization,omitempty"`
	HireDate       time.Time      `json:"hire_date"`
	Status         ReviewerStatus `json:"status"`
	IsApproved     bool           `json:"is_approved"`
}

// NewReviewer creates an unapproved reviewer profile for an account.
func NewReviewer(accountID uuid.UUID, name PersonName, specialization string) (*Reviewer, error) {
	r := &Reviewer{
		ID:             uuid.New(),
		AccountID:      accountID,
		PersonName:     name,
		Specialization: strings.TrimSpace(specialization),
		HireDate:       time.Now().UTC(),
		Status:         ReviewerStatusActive,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks if the Reviewer has valid data.
func (r *Reviewer) Validate() error {
	if r.ID == uuid.Nil {
		return ErrInvalidID
	}
	if r.AccountID == uuid.Nil {
		return ErrEmptyProfileAccount
	}
	if err := r.PersonName.validate(); err != nil {
		return err
	}
	switch r.Status {
	case ReviewerStatusActive, ReviewerStatusInactive, ReviewerStatusOnLeave:
		return nil
	default:
		return ErrInvalidReviewerStatus
	}
}
