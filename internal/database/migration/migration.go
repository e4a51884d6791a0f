package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_processes",
		SQL: `CREATE TABLE IF NOT EXISTS processes (
  id           UUID        PRIMARY KEY,
  title        TEXT        NOT NULL,
  description  TEXT        NOT NULL DEFAULT '',
  status       TEXT        NOT NULL CHECK (status IN ('draft', 'active', 'archived')),
  owner_id     TEXT        NOT NULL DEFAULT '',
  diagram_path TEXT        NOT NULL DEFAULT '',
  fields       JSONB       NOT NULL DEFAULT '{}'::jsonb,
  cloned_from  UUID        NULL REFERENCES processes (id) ON DELETE SET NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_processes_cloned_from",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_processes_cloned_from ON processes (cloned_from);`,
	},
	{
		Name: "create_index_processes_owner_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_processes_owner_id ON processes (owner_id);`,
	},
	{
		Name: "create_index_processes_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_processes_created_at ON processes (created_at);`,
	},
}

// EnsureMigrated checks if the 'processes' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger, dbHost string) error {
	start := time.Now()
	logger = logger.With(slog.String("component", "database"), slog.String("db_host", dbHost))

	logger.Info("db_migration_check", slog.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public.processes') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		logger.Error("db_migration_failed",
			slog.String("status", "error"),
			slog.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logger.Info("db_migration_skip",
			slog.String("status", "success"),
			slog.String("reason", "schema already exists, skipping migration"),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	logger.Info("db_migration_start", slog.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logger.Error("db_migration_failed",
				slog.String("status", "error"),
				slog.String("migration_step", step.Name),
				slog.String("error_message", err.Error()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logger.Info("db_migration_step",
			slog.String("status", "success"),
			slog.String("migration_step", step.Name),
			slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	logger.Info("db_migration_success",
		slog.String("status", "success"),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
