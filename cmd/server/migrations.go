package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/lms-api/internal/platform/postgres"
)

// runMigrations executes a migration command against the embedded schema.
func runMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	logger.Info("Executing migrations", "command", command)
	if err := postgres.Migrate(ctx, db, command, logger); err != nil {
		return err
	}
	logger.Info("Migrations finished", "command", command)
	return nil
}
