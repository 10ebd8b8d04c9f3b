package domain

import "github.com/google/uuid"

// IdentityKind discriminates the resolved identity of an account.
type IdentityKind string

// Possible identity kinds
const (
	IdentityStudent      IdentityKind = "student"
	IdentityReviewer     IdentityKind = "reviewer"
	IdentityUnregistered IdentityKind = "unregistered"
)

// NoticeReviewerPending is attached to an identity that resolved to Student
// while the account's reviewer application is still awaiting approval.
const NoticeReviewerPending = "reviewer application is awaiting admin approval"

// Identity is the role an account acts with for the duration of one request.
// Exactly one of Student or Reviewer is the acting profile, selected by Kind;
// the other may still be populated for informational purposes.
type Identity struct {
	Kind     IdentityKind `json:"kind"`
	Account  *Account     `json:"account"`
	Student  *Student     `json:"student,omitempty"`
	Reviewer *Reviewer    `json:"reviewer,omitempty"`
	Notice   string       `json:"notice,omitempty"`
}

// ResolveIdentity picks the acting role of an account from the profiles
// attached to it. An approved reviewer profile wins over a student profile;
// an unapproved reviewer falls back to the student profile when one exists.
func ResolveIdentity(account *Account, student *Student, reviewer *Reviewer) Identity {
	id := Identity{Account: account, Student: student, Reviewer: reviewer}

	switch {
	case reviewer != nil && reviewer.IsApproved:
		id.Kind = IdentityReviewer
	case reviewer != nil && student != nil:
		id.Kind = IdentityStudent
		id.Notice = NoticeReviewerPending
	case reviewer != nil:
		id.Kind = IdentityReviewer
	case student != nil:
		id.Kind = IdentityStudent
	default:
		id.Kind = IdentityUnregistered
	}

	return id
}

// AccountID returns the ID of the underlying account, or uuid.Nil.
func (i Identity) AccountID() uuid.UUID {
	if i.Account == nil {
		return uuid.Nil
	}
	return i.Account.ID
}

// IsAdmin reports whether the underlying account is an administrator.
func (i Identity) IsAdmin() bool {
	return i.Account != nil && i.Account.IsAdmin()
}

// IsStudent reports whether the identity acts as a student.
func (i Identity) IsStudent() bool {
	return i.Kind == IdentityStudent && i.Student != nil
}

// IsReviewer reports whether the identity acts as a reviewer, approved or not.
func (i Identity) IsReviewer() bool {
	return i.Kind == IdentityReviewer && i.Reviewer != nil
}

// Restricted reports whether the identity is a reviewer still awaiting approval.
func (i Identity) Restricted() bool {
	return i.IsReviewer() && !i.Reviewer.IsApproved
}

// ActingStudent returns the student profile or ErrStudentProfileRequired.
func (i Identity) ActingStudent() (*Student, error) {
	if !i.IsStudent() {
		return nil, ErrStudentProfileRequired
	}
	return i.Student, nil
}

// ActingReviewer returns the approved reviewer profile. Unapproved reviewers
// get ErrReviewerNotApproved; every other identity gets
// ErrReviewerProfileRequired.
func (i Identity) ActingReviewer() (*Reviewer, error) {
	if !i.IsReviewer() {
		return nil, ErrReviewerProfileRequired
	}
	if !i.Reviewer.IsApproved {
		return nil, ErrReviewerNotApproved
	}
	return i.Reviewer, nil
}
