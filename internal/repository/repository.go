// Package repository persists daily API quota usage in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS api_quota_usage (
	date             DATE PRIMARY KEY,
	quota_used       INTEGER NOT NULL DEFAULT 0,
	operations_count INTEGER NOT NULL DEFAULT 0,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Repository stores quota counters keyed by calendar date (server time).
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a Repository on top of an existing connection pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Ping verifies database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// EnsureSchema creates the quota table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure quota schema: %w", err)
	}
	return nil
}

// IncrementUsage adds an API cost to today's row, creating it on first use.
func (r *Repository) IncrementUsage(ctx context.Context, cost int, operation string) error {
	if operation == "" {
		operation = "other"
	}

	query := `
		INSERT INTO api_quota_usage (date, quota_used, operations_count, updated_at)
		VALUES (CURRENT_DATE, $1, 1, now())
		ON CONFLICT (date) DO UPDATE SET
			quota_used       = api_quota_usage.quota_used + EXCLUDED.quota_used,
			operations_count = api_quota_usage.operations_count + 1,
			updated_at       = now()
	`

	if _, err := r.pool.Exec(ctx, query, cost); err != nil {
		return fmt.Errorf("increment quota usage (%s): %w", operation, err)
	}

	return nil
}

// TodaysUsage returns the quota cost and operation count booked today.
// A missing row means nothing was recorded yet.
func (r *Repository) TodaysUsage(ctx context.Context) (int, int, error) {
	query := `SELECT quota_used, operations_count FROM api_quota_usage WHERE date = CURRENT_DATE`

	var used, operations int
	err := r.pool.QueryRow(ctx, query).Scan(&used, &operations)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("get todays quota usage: %w", err)
	}

	return used, operations, nil
}
