package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres trip store schema.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTripPlansQuery := `
	CREATE TABLE IF NOT EXISTS trip_plans (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		start_time TIMESTAMPTZ NOT NULL,
		cycle_hours_used DOUBLE PRECISION NOT NULL,
		day_count INTEGER NOT NULL,
		warning_count INTEGER NOT NULL,
		payload JSONB NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trip_plans_created_at
	ON trip_plans(created_at);
	`

	statements := []string{
		createTripPlansQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}
