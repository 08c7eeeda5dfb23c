package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema for run history and the travel cache.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS assignment_runs (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		source_name TEXT NOT NULL DEFAULT '',
		summary JSONB NOT NULL
	);
	`

	createAssignmentsQuery := `
	CREATE TABLE IF NOT EXISTS assignments (
		run_id UUID NOT NULL REFERENCES assignment_runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		order_id TEXT NOT NULL,
		driver_name TEXT NOT NULL,
		used_spare BOOLEAN NOT NULL,
		pickup_time TIMESTAMPTZ,
		travel_minutes DOUBLE PRECISION NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL,
		arrival_time TIMESTAMPTZ,
		unreachable BOOLEAN NOT NULL DEFAULT FALSE,
		slot TEXT NOT NULL,
		sla_status TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	`

	createTravelCacheQuery := `
	CREATE TABLE IF NOT EXISTS travel_cache (
		origin_key TEXT NOT NULL,
		destination_key TEXT NOT NULL,
		duration_minutes DOUBLE PRECISION NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (origin_key, destination_key)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_assignment_runs_created_at
	ON assignment_runs(created_at DESC);
	`

	statements := []string{
		createRunsQuery,
		createAssignmentsQuery,
		createTravelCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
