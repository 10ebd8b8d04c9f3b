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

var moduleConstraints = map[string]error{
	"modules_course_order_key": store.ErrModuleOrderExists,
}

// PostgresModuleStore implements store.ModuleStore.
type PostgresModuleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresModuleStore creates a PostgresModuleStore.
func NewPostgresModuleStore(db store.DBTX, logger *slog.Logger) *PostgresModuleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresModuleStore{
		db:     db,
		logger: logger.With(slog.String("component", "module_store")),
	}
}

var _ store.ModuleStore = (*PostgresModuleStore)(nil)

// WithTx implements store.ModuleStore.WithTx
func (s *PostgresModuleStore) WithTx(tx *sql.Tx) store.ModuleStore {
	return &PostgresModuleStore{db: tx, logger: s.logger}
}

const moduleColumns = `id, course_id, title, description, module_order, is_active`

func scanModule(row interface{ Scan(...any) error }) (domain.Module, error) {
	var m domain.Module
	err := row.Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.ModuleOrder, &m.IsActive)
	return m, err
}

// Create implements store.ModuleStore.Create
func (s *PostgresModuleStore) Create(ctx context.Context, module *domain.Module) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := module.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO modules (id, course_id, title, description, module_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		module.ID, module.CourseID, module.Title, module.Description, module.ModuleOrder, module.IsActive,
	)
	if err != nil {
		log.Error("failed to create module",
			slog.String("error", err.Error()),
			slog.String("course_id", module.CourseID.String()))
		return MapConstraintError(err, moduleConstraints)
	}

	log.Info("module created",
		slog.String("module_id", module.ID.String()),
		slog.Int("module_order", module.ModuleOrder))
	return nil
}

// GetByID implements store.ModuleStore.GetByID
func (s *PostgresModuleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Module, error) {
	m, err := scanModule(s.db.QueryRowContext(ctx, `SELECT `+moduleColumns+` FROM modules WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrModuleNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get module",
			slog.String("error", err.Error()),
			slog.String("module_id", id.String()))
		return nil, MapError(err)
	}
	return &m, nil
}

// Update implements store.ModuleStore.Update
func (s *PostgresModuleStore) Update(ctx context.Context, module *domain.Module) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := module.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE modules SET title = $1, description = $2, module_order = $3, is_active = $4
		WHERE id = $5`,
		module.Title, module.Description, module.ModuleOrder, module.IsActive, module.ID,
	)
	if err != nil {
		log.Error("failed to update module",
			slog.String("error", err.Error()),
			slog.String("module_id", module.ID.String()))
		return MapConstraintError(err, moduleConstraints)
	}
	return CheckRowsAffected(result, store.ErrModuleNotFound)
}

// Delete implements store.ModuleStore.Delete
func (s *PostgresModuleStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM modules WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete module",
			slog.String("error", err.Error()),
			slog.String("module_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrModuleNotFound)
}

// ListByCourse implements store.ModuleStore.ListByCourse
func (s *PostgresModuleStore) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Module, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+moduleColumns+` FROM modules WHERE course_id = $1 ORDER BY module_order`, courseID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list modules",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	modules := []domain.Module{}
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, MapError(err)
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return modules, nil
}
