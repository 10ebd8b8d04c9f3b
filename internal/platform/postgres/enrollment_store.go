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

var enrollmentConstraints = map[string]error{
	"enrollments_student_course_key": store.ErrAlreadyEnrolled,
}

// PostgresEnrollmentStore implements store.EnrollmentStore.
type PostgresEnrollmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEnrollmentStore creates a PostgresEnrollmentStore.
func NewPostgresEnrollmentStore(db store.DBTX, logger *slog.Logger) *PostgresEnrollmentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresEnrollmentStore{
		db:     db,
		logger: logger.With(slog.String("component", "enrollment_store")),
	}
}

var _ store.EnrollmentStore = (*PostgresEnrollmentStore)(nil)

// WithTx implements store.EnrollmentStore.WithTx
func (s *PostgresEnrollmentStore) WithTx(tx *sql.Tx) store.EnrollmentStore {
	return &PostgresEnrollmentStore{db: tx, logger: s.logger}
}

const enrollmentColumns = `id, student_id, course_id, status, overall_score, enrollment_date, completion_date`

func scanEnrollment(row interface{ Scan(...any) error }) (domain.Enrollment, error) {
	var e domain.Enrollment
	var status string
	var score sql.NullInt32
	var completed sql.NullTime

	if err := row.Scan(&e.ID, &e.StudentID, &e.CourseID, &status, &score, &e.EnrollmentDate, &completed); err != nil {
		return e, err
	}

	e.Status = domain.EnrollmentStatus(status)
	e.OverallScore = intPtrFromNull(score)
	if completed.Valid {
		e.CompletionDate = &completed.Time
	}
	return e, nil
}

// Create implements store.EnrollmentStore.Create
func (s *PostgresEnrollmentStore) Create(ctx context.Context, e *domain.Enrollment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO enrollments (id, student_id, course_id, status, overall_score, enrollment_date, completion_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.StudentID, e.CourseID, e.Status, e.OverallScore, e.EnrollmentDate, e.CompletionDate,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("student already enrolled",
				slog.String("student_id", e.StudentID.String()),
				slog.String("course_id", e.CourseID.String()))
		} else {
			log.Error("failed to create enrollment",
				slog.String("error", err.Error()),
				slog.String("course_id", e.CourseID.String()))
		}
		return MapConstraintError(err, enrollmentConstraints)
	}

	log.Info("enrollment created",
		slog.String("enrollment_id", e.ID.String()),
		slog.String("course_id", e.CourseID.String()))
	return nil
}

func (s *PostgresEnrollmentStore) getOne(ctx context.Context, query string, args ...any) (*domain.Enrollment, error) {
	e, err := scanEnrollment(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrEnrollmentNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get enrollment",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &e, nil
}

// GetByID implements store.EnrollmentStore.GetByID
func (s *PostgresEnrollmentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	return s.getOne(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id)
}

// Get implements store.EnrollmentStore.Get
func (s *PostgresEnrollmentStore) Get(ctx context.Context, studentID, courseID uuid.UUID) (*domain.Enrollment, error) {
	return s.getOne(ctx, `SELECT `+enrollmentColumns+` FROM enrollments
		WHERE student_id = $1 AND course_id = $2`, studentID, courseID)
}

// Update implements store.EnrollmentStore.Update
func (s *PostgresEnrollmentStore) Update(ctx context.Context, e *domain.Enrollment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE enrollments SET status = $1, overall_score = $2, completion_date = $3
		WHERE id = $4`,
		e.Status, e.OverallScore, e.CompletionDate, e.ID,
	)
	if err != nil {
		log.Error("failed to update enrollment",
			slog.String("error", err.Error()),
			slog.String("enrollment_id", e.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrEnrollmentNotFound); err != nil {
		return err
	}

	log.Info("enrollment updated",
		slog.String("enrollment_id", e.ID.String()),
		slog.String("status", string(e.Status)))
	return nil
}

// ListByStudent implements store.EnrollmentStore.ListByStudent
func (s *PostgresEnrollmentStore) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+enrollmentColumns+` FROM enrollments
		WHERE student_id = $1 ORDER BY enrollment_date DESC`, studentID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list enrollments",
			slog.String("error", err.Error()),
			slog.String("student_id", studentID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	enrollments := []domain.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, MapError(err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return enrollments, nil
}
