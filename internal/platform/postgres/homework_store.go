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

var submissionConstraints = map[string]error{
	"homework_submissions_review_time_check": domain.ErrReviewBeforeSubmission,
}

// PostgresHomeworkStore implements store.HomeworkStore.
type PostgresHomeworkStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresHomeworkStore creates a PostgresHomeworkStore.
func NewPostgresHomeworkStore(db store.DBTX, logger *slog.Logger) *PostgresHomeworkStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresHomeworkStore{
		db:     db,
		logger: logger.With(slog.String("component", "homework_store")),
	}
}

var _ store.HomeworkStore = (*PostgresHomeworkStore)(nil)

// WithTx implements store.HomeworkStore.WithTx
func (s *PostgresHomeworkStore) WithTx(tx *sql.Tx) store.HomeworkStore {
	return &PostgresHomeworkStore{db: tx, logger: s.logger}
}

const homeworkColumns = `id, lesson_id, title, description, max_score, deadline_days, is_optional, created_at`

func scanHomework(row interface{ Scan(...any) error }) (domain.Homework, error) {
	var h domain.Homework
	err := row.Scan(&h.ID, &h.LessonID, &h.Title, &h.Description, &h.MaxScore,
		&h.DeadlineDays, &h.IsOptional, &h.CreatedAt)
	return h, err
}

// Create implements store.HomeworkStore.Create
func (s *PostgresHomeworkStore) Create(ctx context.Context, h *domain.Homework) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := h.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO homeworks (id, lesson_id, title, description, max_score, deadline_days, is_optional, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		h.ID, h.LessonID, h.Title, h.Description, h.MaxScore, h.DeadlineDays, h.IsOptional, h.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create homework",
			slog.String("error", err.Error()),
			slog.String("lesson_id", h.LessonID.String()))
		return MapError(err)
	}

	log.Info("homework created",
		slog.String("homework_id", h.ID.String()),
		slog.String("lesson_id", h.LessonID.String()))
	return nil
}

// GetByID implements store.HomeworkStore.GetByID
func (s *PostgresHomeworkStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Homework, error) {
	h, err := scanHomework(s.db.QueryRowContext(ctx, `SELECT `+homeworkColumns+` FROM homeworks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrHomeworkNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get homework",
			slog.String("error", err.Error()),
			slog.String("homework_id", id.String()))
		return nil, MapError(err)
	}
	return &h, nil
}

// ListByLesson implements store.HomeworkStore.ListByLesson
func (s *PostgresHomeworkStore) ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]domain.Homework, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+homeworkColumns+` FROM homeworks WHERE lesson_id = $1 ORDER BY created_at`, lessonID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list homework",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lessonID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	list := []domain.Homework{}
	for rows.Next() {
		h, err := scanHomework(rows)
		if err != nil {
			return nil, MapError(err)
		}
		list = append(list, h)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return list, nil
}

// CreateSubmission implements store.HomeworkStore.CreateSubmission
func (s *PostgresHomeworkStore) CreateSubmission(ctx context.Context, sub *domain.HomeworkSubmission) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sub.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO homework_submissions (id, homework_id, enrollment_id, reviewer_id, submission_text,
			attachment_url, submitted_at, score, feedback, reviewed_at, status, urgency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		sub.ID, sub.HomeworkID, sub.EnrollmentID, sub.ReviewerID, sub.SubmissionText,
		sub.AttachmentURL, sub.SubmittedAt, sub.Score, sub.Feedback, sub.ReviewedAt, sub.Status, sub.Urgency,
	)
	if err != nil {
		log.Error("failed to create submission",
			slog.String("error", err.Error()),
			slog.String("homework_id", sub.HomeworkID.String()))
		return MapConstraintError(err, submissionConstraints)
	}

	log.Info("homework submitted",
		slog.String("submission_id", sub.ID.String()),
		slog.String("urgency", string(sub.Urgency)))
	return nil
}

// GetSubmission implements store.HomeworkStore.GetSubmission
func (s *PostgresHomeworkStore) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.HomeworkSubmission, error) {
	var sub domain.HomeworkSubmission
	var reviewerID uuid.NullUUID
	var score sql.NullInt32
	var reviewedAt sql.NullTime
	var status, urgency string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, homework_id, enrollment_id, reviewer_id, submission_text, attachment_url,
			submitted_at, score, feedback, reviewed_at, status, urgency
		FROM homework_submissions WHERE id = $1`, id,
	).Scan(&sub.ID, &sub.HomeworkID, &sub.EnrollmentID, &reviewerID, &sub.SubmissionText, &sub.AttachmentURL,
		&sub.SubmittedAt, &score, &sub.Feedback, &reviewedAt, &status, &urgency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSubmissionNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get submission",
			slog.String("error", err.Error()),
			slog.String("submission_id", id.String()))
		return nil, MapError(err)
	}

	if reviewerID.Valid {
		sub.ReviewerID = &reviewerID.UUID
	}
	sub.Score = intPtrFromNull(score)
	if reviewedAt.Valid {
		sub.ReviewedAt = &reviewedAt.Time
	}
	sub.Status = domain.SubmissionStatus(status)
	sub.Urgency = domain.Urgency(urgency)
	return &sub, nil
}

// UpdateSubmission implements store.HomeworkStore.UpdateSubmission
func (s *PostgresHomeworkStore) UpdateSubmission(ctx context.Context, sub *domain.HomeworkSubmission) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE homework_submissions
		SET reviewer_id = $1, submission_text = $2, attachment_url = $3, submitted_at = $4,
			score = $5, feedback = $6, reviewed_at = $7, status = $8
		WHERE id = $9`,
		sub.ReviewerID, sub.SubmissionText, sub.AttachmentURL, sub.SubmittedAt,
		sub.Score, sub.Feedback, sub.ReviewedAt, sub.Status, sub.ID,
	)
	if err != nil {
		log.Error("failed to update submission",
			slog.String("error", err.Error()),
			slog.String("submission_id", sub.ID.String()))
		return MapConstraintError(err, submissionConstraints)
	}
	if err := CheckRowsAffected(result, store.ErrSubmissionNotFound); err != nil {
		return err
	}

	log.Info("submission updated",
		slog.String("submission_id", sub.ID.String()),
		slog.String("status", string(sub.Status)))
	return nil
}

// CountUnderReview implements store.HomeworkStore.CountUnderReview
func (s *PostgresHomeworkStore) CountUnderReview(ctx context.Context, reviewerID uuid.UUID) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM homework_submissions
		WHERE reviewer_id = $1 AND status = 'under_review'`, reviewerID)
}

// CountByReviewer implements store.HomeworkStore.CountByReviewer
func (s *PostgresHomeworkStore) CountByReviewer(ctx context.Context, reviewerID uuid.UUID) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM homework_submissions WHERE reviewer_id = $1`, reviewerID)
}

func (s *PostgresHomeworkStore) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count submissions",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return n, nil
}

// ListRecentUnderReview implements store.HomeworkStore.ListRecentUnderReview
func (s *PostgresHomeworkStore) ListRecentUnderReview(ctx context.Context, reviewerID uuid.UUID, limit int) ([]store.SubmissionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hs.id, h.title, c.id, c.title, st.first_name || ' ' || st.last_name,
			hs.status, hs.urgency, hs.submitted_at
		FROM homework_submissions hs
		JOIN homeworks h ON h.id = hs.homework_id
		JOIN enrollments e ON e.id = hs.enrollment_id
		JOIN courses c ON c.id = e.course_id
		JOIN students st ON st.id = e.student_id
		WHERE hs.reviewer_id = $1 AND hs.status = 'under_review'
		ORDER BY hs.submitted_at DESC
		LIMIT $2`, reviewerID, limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list submissions under review",
			slog.String("error", err.Error()),
			slog.String("reviewer_id", reviewerID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	list := []store.SubmissionSummary{}
	for rows.Next() {
		var sum store.SubmissionSummary
		var status, urgency string
		if err := rows.Scan(&sum.ID, &sum.HomeworkTitle, &sum.CourseID, &sum.CourseTitle, &sum.StudentName,
			&status, &urgency, &sum.SubmittedAt); err != nil {
			return nil, MapError(err)
		}
		sum.Status = domain.SubmissionStatus(status)
		sum.Urgency = domain.Urgency(urgency)
		list = append(list, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return list, nil
}

// CourseStats implements store.HomeworkStore.CourseStats
func (s *PostgresHomeworkStore) CourseStats(ctx context.Context, reviewerID uuid.UUID, courseIDs []uuid.UUID) ([]store.CourseReviewStats, error) {
	if len(courseIDs) == 0 {
		return []store.CourseReviewStats{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title,
			(SELECT COUNT(*) FROM homework_submissions hs
				JOIN enrollments e ON e.id = hs.enrollment_id
				WHERE e.course_id = c.id AND hs.reviewer_id = $1 AND hs.status = 'under_review'),
			(SELECT COUNT(*) FROM homework_submissions hs
				JOIN enrollments e ON e.id = hs.enrollment_id
				WHERE e.course_id = c.id AND hs.reviewer_id = $1),
			(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id AND e.status = 'active')
		FROM courses c
		WHERE c.id = ANY($2::uuid[])
		ORDER BY c.title`, reviewerID, uuidStrings(courseIDs))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to compute course review stats",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	stats := []store.CourseReviewStats{}
	for rows.Next() {
		var st store.CourseReviewStats
		if err := rows.Scan(&st.CourseID, &st.CourseTitle, &st.Pending, &st.Total, &st.ActiveStudents); err != nil {
			return nil, MapError(err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return stats, nil
}
