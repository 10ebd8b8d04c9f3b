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

var profileConstraints = map[string]error{
	"students_account_id_key":  store.ErrProfileExists,
	"reviewers_account_id_key": store.ErrProfileExists,
}

// PostgresProfileStore implements store.ProfileStore over the students and
// reviewers tables.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a PostgresProfileStore.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// WithTx implements store.ProfileStore.WithTx
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{db: tx, logger: s.logger}
}

// CreateStudent implements store.ProfileStore.CreateStudent
func (s *PostgresProfileStore) CreateStudent(ctx context.Context, st *domain.Student) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := st.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO students (id, account_id, first_name, last_name, phone, date_of_birth, status, registration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		st.ID, st.AccountID, st.FirstName, st.LastName, st.Phone, st.DateOfBirth, st.Status, st.RegistrationDate,
	)
	if err != nil {
		log.Error("failed to create student profile",
			slog.String("error", err.Error()),
			slog.String("account_id", st.AccountID.String()))
		return MapConstraintError(err, profileConstraints)
	}

	log.Info("student profile created", slog.String("student_id", st.ID.String()))
	return nil
}

// CreateReviewer implements store.ProfileStore.CreateReviewer
func (s *PostgresProfileStore) CreateReviewer(ctx context.Context, r *domain.Reviewer) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := r.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviewers (id, account_id, first_name, last_name, phone, specialization, hire_date, status, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.AccountID, r.FirstName, r.LastName, r.Phone, r.Specialization, r.HireDate, r.Status, r.IsApproved,
	)
	if err != nil {
		log.Error("failed to create reviewer profile",
			slog.String("error", err.Error()),
			slog.String("account_id", r.AccountID.String()))
		return MapConstraintError(err, profileConstraints)
	}

	log.Info("reviewer profile created", slog.String("reviewer_id", r.ID.String()))
	return nil
}

const studentColumns = `id, account_id, first_name, last_name, phone, date_of_birth, status, registration_date`

// GetStudentByAccount implements store.ProfileStore.GetStudentByAccount
func (s *PostgresProfileStore) GetStudentByAccount(ctx context.Context, accountID uuid.UUID) (*domain.Student, error) {
	var st domain.Student
	var dob sql.NullTime
	var status string

	err := s.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE account_id = $1`, accountID).
		Scan(&st.ID, &st.AccountID, &st.FirstName, &st.LastName, &st.Phone, &dob, &status, &st.RegistrationDate)
	if err != nil {
		return nil, s.lookupError(ctx, err, store.ErrStudentNotFound, accountID)
	}

	if dob.Valid {
		st.DateOfBirth = &dob.Time
	}
	st.Status = domain.StudentStatus(status)
	return &st, nil
}

const reviewerColumns = `id, account_id, first_name, last_name, phone, specialization, hire_date, status, is_approved`

func scanReviewer(row *sql.Row) (*domain.Reviewer, error) {
	var r domain.Reviewer
	var status string
	err := row.Scan(&r.ID, &r.AccountID, &r.FirstName, &r.LastName, &r.Phone,
		&r.Specialization, &r.HireDate, &status, &r.IsApproved)
	if err != nil {
		return nil, err
	}
	r.Status = domain.ReviewerStatus(status)
	return &r, nil
}

// GetReviewerByAccount implements store.ProfileStore.GetReviewerByAccount
func (s *PostgresProfileStore) GetReviewerByAccount(ctx context.Context, accountID uuid.UUID) (*domain.Reviewer, error) {
	r, err := scanReviewer(s.db.QueryRowContext(ctx,
		`SELECT `+reviewerColumns+` FROM reviewers WHERE account_id = $1`, accountID))
	if err != nil {
		return nil, s.lookupError(ctx, err, store.ErrReviewerNotFound, accountID)
	}
	return r, nil
}

// GetReviewerByID implements store.ProfileStore.GetReviewerByID
func (s *PostgresProfileStore) GetReviewerByID(ctx context.Context, id uuid.UUID) (*domain.Reviewer, error) {
	r, err := scanReviewer(s.db.QueryRowContext(ctx,
		`SELECT `+reviewerColumns+` FROM reviewers WHERE id = $1`, id))
	if err != nil {
		return nil, s.lookupError(ctx, err, store.ErrReviewerNotFound, id)
	}
	return r, nil
}

// SetReviewerApproval implements store.ProfileStore.SetReviewerApproval
func (s *PostgresProfileStore) SetReviewerApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `UPDATE reviewers SET is_approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		log.Error("failed to update reviewer approval",
			slog.String("error", err.Error()),
			slog.String("reviewer_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrReviewerNotFound); err != nil {
		return err
	}

	log.Info("reviewer approval updated",
		slog.String("reviewer_id", id.String()),
		slog.Bool("approved", approved))
	return nil
}

func (s *PostgresProfileStore) lookupError(ctx context.Context, err error, notFound error, id uuid.UUID) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("failed to load profile",
		slog.String("error", err.Error()),
		slog.String("id", id.String()))
	return MapError(err)
}
