package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
)

// AccountStore defines the interface for account persistence.
type AccountStore interface {
	// Create saves a new account. The account must carry a hashed password.
	// Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by ID.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByEmail retrieves an account by its normalized email. Used only at login.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// WithTx returns a new AccountStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AccountStore
}

// ProfileStore defines the interface for student and reviewer profiles.
// Each account has at most one profile of each kind.
type ProfileStore interface {
	// CreateStudent saves a student profile.
	// Returns ErrProfileExists if the account already has one.
	CreateStudent(ctx context.Context, student *domain.Student) error

	// CreateReviewer saves a reviewer profile.
	// Returns ErrProfileExists if the account already has one.
	CreateReviewer(ctx context.Context, reviewer *domain.Reviewer) error

	// GetStudentByAccount returns the student profile of an account.
	// Returns ErrStudentNotFound if there is none.
	GetStudentByAccount(ctx context.Context, accountID uuid.UUID) (*domain.Student, error)

	// GetReviewerByAccount returns the reviewer profile of an account.
	// Returns ErrReviewerNotFound if there is none.
	GetReviewerByAccount(ctx context.Context, accountID uuid.UUID) (*domain.Reviewer, error)

	// GetReviewerByID returns a reviewer profile by ID.
	// Returns ErrReviewerNotFound if there is none.
	GetReviewerByID(ctx context.Context, id uuid.UUID) (*domain.Reviewer, error)

	// SetReviewerApproval sets the approval flag of a reviewer.
	// Returns ErrReviewerNotFound if the reviewer does not exist.
	SetReviewerApproval(ctx context.Context, id uuid.UUID, approved bool) error

	// WithTx returns a new ProfileStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProfileStore
}
