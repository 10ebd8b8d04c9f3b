package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/service/auth"
	"github.com/phrazzld/lms-api/internal/store"
)

// RegisterParams are the inputs of a self-service registration.
type RegisterParams struct {
	Email           string
	Password        string
	PasswordConfirm string
	Role            domain.Role
	Name            domain.PersonName
	DateOfBirth     *time.Time
	Specialization  string
}

// IdentityService manages accounts and resolves the identity an account acts with.
type IdentityService interface {
	// Resolve loads an account with its profiles and applies the identity
	// priority rules.
	Resolve(ctx context.Context, accountID uuid.UUID) (domain.Identity, error)

	// Register creates an account and its student or reviewer profile atomically.
	Register(ctx context.Context, p RegisterParams) (domain.Identity, error)

	// Login verifies credentials and returns the resolved identity.
	Login(ctx context.Context, email, password string) (domain.Identity, error)

	// ApproveReviewer marks a reviewer profile as approved. Admin only.
	ApproveReviewer(ctx context.Context, actor domain.Identity, reviewerID uuid.UUID) (*domain.Reviewer, error)
}

type identityService struct {
	tx       store.Transactor
	accounts store.AccountStore
	profiles store.ProfileStore
	hasher   auth.PasswordHasher
	logger   *slog.Logger
}

// NewIdentityService creates an IdentityService.
func NewIdentityService(
	tx store.Transactor,
	accounts store.AccountStore,
	profiles store.ProfileStore,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) IdentityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &identityService{
		tx:       tx,
		accounts: accounts,
		profiles: profiles,
		hasher:   hasher,
		logger:   logger.With(slog.String("component", "identity_service")),
	}
}

func (s *identityService) Resolve(ctx context.Context, accountID uuid.UUID) (domain.Identity, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return domain.Identity{}, NewServiceError("identity", "resolve", err)
	}
	return s.resolve(ctx, account)
}

func (s *identityService) resolve(ctx context.Context, account *domain.Account) (domain.Identity, error) {
	student, err := s.profiles.GetStudentByAccount(ctx, account.ID)
	if err != nil && !errors.Is(err, store.ErrStudentNotFound) {
		return domain.Identity{}, NewServiceError("identity", "resolve", err)
	}

	reviewer, err := s.profiles.GetReviewerByAccount(ctx, account.ID)
	if err != nil && !errors.Is(err, store.ErrReviewerNotFound) {
		return domain.Identity{}, NewServiceError("identity", "resolve", err)
	}

	return domain.ResolveIdentity(account, student, reviewer), nil
}

func (s *identityService) Register(ctx context.Context, p RegisterParams) (domain.Identity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if p.Role != domain.RoleStudent && p.Role != domain.RoleReviewer {
		return domain.Identity{}, ErrRoleNotRegistrable
	}
	if p.Password != p.PasswordConfirm {
		return domain.Identity{}, domain.ErrPasswordMismatch
	}

	account, err := domain.NewAccount(p.Email, p.Password, p.Role)
	if err != nil {
		return domain.Identity{}, err
	}

	var (
		student  *domain.Student
		reviewer *domain.Reviewer
	)
	switch p.Role {
	case domain.RoleStudent:
		student, err = domain.NewStudent(account.ID, p.Name, p.DateOfBirth)
	case domain.RoleReviewer:
		reviewer, err = domain.NewReviewer(account.ID, p.Name, p.Specialization)
	}
	if err != nil {
		return domain.Identity{}, err
	}

	account.HashedPassword, err = s.hasher.Hash(account.Password)
	if err != nil {
		return domain.Identity{}, NewServiceError("identity", "register", err)
	}
	account.Password = ""

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.accounts.WithTx(tx).Create(ctx, account); err != nil {
			return err
		}
		profiles := s.profiles.WithTx(tx)
		if student != nil {
			return profiles.CreateStudent(ctx, student)
		}
		return profiles.CreateReviewer(ctx, reviewer)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration with an existing email")
		} else {
			log.Error("failed to register account", slog.String("error", err.Error()))
		}
		return domain.Identity{}, NewServiceError("identity", "register", err)
	}

	log.Info("account registered",
		slog.String("account_id", account.ID.String()),
		slog.String("role", string(account.Role)))
	return domain.ResolveIdentity(account, student, reviewer), nil
}

func (s *identityService) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Debug("login for unknown email")
			return domain.Identity{}, ErrInvalidCredentials
		}
		return domain.Identity{}, NewServiceError("identity", "login", err)
	}

	if err := s.hasher.Compare(account.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("account_id", account.ID.String()))
		return domain.Identity{}, ErrInvalidCredentials
	}

	return s.resolve(ctx, account)
}

func (s *identityService) ApproveReviewer(
	ctx context.Context,
	actor domain.Identity,
	reviewerID uuid.UUID,
) (*domain.Reviewer, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	if err := s.profiles.SetReviewerApproval(ctx, reviewerID, true); err != nil {
		return nil, NewServiceError("identity", "approve_reviewer", err)
	}

	reviewer, err := s.profiles.GetReviewerByID(ctx, reviewerID)
	if err != nil {
		return nil, NewServiceError("identity", "approve_reviewer", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("reviewer approved",
		slog.String("reviewer_id", reviewerID.String()),
		slog.String("approved_by", actor.AccountID().String()))
	return reviewer, nil
}
