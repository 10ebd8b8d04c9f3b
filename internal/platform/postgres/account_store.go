package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

var accountConstraints = map[string]error{
	"accounts_email_key": store.ErrEmailExists,
}

// PostgresAccountStore implements store.AccountStore.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccountStore creates a PostgresAccountStore. If logger is nil,
// the default logger is used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

var _ store.AccountStore = (*PostgresAccountStore)(nil)

// WithTx implements store.AccountStore.WithTx
func (s *PostgresAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &PostgresAccountStore{db: tx, logger: s.logger}
}

// Create implements store.AccountStore.Create
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if account.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID, account.Email, account.HashedPassword, account.Role,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("account email already registered", slog.String("account_id", account.ID.String()))
		} else {
			log.Error("failed to create account",
				slog.String("error", err.Error()),
				slog.String("account_id", account.ID.String()))
		}
		return MapConstraintError(err, accountConstraints)
	}

	log.Info("account created",
		slog.String("account_id", account.ID.String()),
		slog.String("role", string(account.Role)))
	return nil
}

const accountColumns = `id, email, password_hash, role, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	var a domain.Account
	var role string
	if err := row.Scan(&a.ID, &a.Email, &a.HashedPassword, &role, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	return &a, nil
}

// GetByID implements store.AccountStore.GetByID
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return s.getOne(ctx, row, slog.String("account_id", id.String()))
}

// GetByEmail implements store.AccountStore.GetByEmail
func (s *PostgresAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
		domain.NormalizeEmail(email))
	return s.getOne(ctx, row, slog.String("lookup", "email"))
}

func (s *PostgresAccountStore) getOne(ctx context.Context, row *sql.Row, attr slog.Attr) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found", attr)
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account", slog.String("error", err.Error()), attr)
		return nil, MapError(err)
	}
	return account, nil
}
