package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the registration role recorded on an account.
type Role string

// Possible account roles
const (
	RoleStudent  Role = "student"
	RoleReviewer Role = "reviewer"
	RoleAdmin    Role = "admin"
)

// Common validation errors for Account
var (
	ErrEmptyAccountID      = NewValidationError("id", "account ID cannot be empty")
	ErrEmptyEmail          = NewValidationError("email", "email cannot be empty")
	ErrInvalidEmail        = NewValidationError("email", "invalid email format")
	ErrPasswordTooShort    = NewValidationError("password", "password must be at least 8 characters long")
	ErrPasswordTooLong     = NewValidationError("password", "password must be at most 72 characters long")
	ErrPasswordMismatch    = NewValidationError("password_confirm", "passwords do not match")
	ErrEmptyHashedPassword = NewValidationError("password", "hashed password cannot be empty")
	ErrInvalidRole         = NewValidationError("role", "invalid role")
)

// Account is the single authentication record of the system. Profiles
// (Student, Reviewer) reference it by ID; the role records what the account
// registered as.
type Account struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // plaintext, only set during registration
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewAccount creates a new Account with the given email, plaintext password
// and role. The caller is responsible for hashing the password before storing
// the account.
func NewAccount(email, password string, role Role) (*Account, error) {
	now := time.Now().UTC()
	account := &Account{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Password:  password,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks if the Account has valid data.
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAccountID
	}

	if a.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(a.Email) {
		return ErrInvalidEmail
	}

	if !isValidRole(a.Role) {
		return ErrInvalidRole
	}

	if a.Password != "" {
		return ValidatePassword(a.Password)
	}

	if a.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// IsAdmin reports whether the account has administrative rights.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ValidatePassword checks the length rules for a plaintext password.
// 72 bytes is the bcrypt input limit.
func ValidatePassword(password string) error {
	switch {
	case len(password) < 8:
		return ErrPasswordTooShort
	case len(password) > 72:
		return ErrPasswordTooLong
	default:
		return nil
	}
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmailFormat requires a non-empty local part and a dotted domain.
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return false
	}

	domainPart := email[at+1:]
	dot := strings.IndexByte(domainPart, '.')
	return dot > 0 && dot < len(domainPart)-1
}

func isValidRole(role Role) bool {
	switch role {
	case RoleStudent, RoleReviewer, RoleAdmin:
		return true
	default:
		return false
	}
}
