//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	repo := New(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}

	cleanup := func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return repo, cleanup
}

func TestPing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo, cleanup := setupTestDB(t)
	defer cleanup()

	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestTodaysUsageEmpty(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo, cleanup := setupTestDB(t)
	defer cleanup()

	used, operations, err := repo.TodaysUsage(context.Background())
	if err != nil {
		t.Fatalf("TodaysUsage() error = %v", err)
	}
	if used != 0 || operations != 0 {
		t.Errorf("TodaysUsage() = (%d, %d), want (0, 0)", used, operations)
	}
}

func TestIncrementUsage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	if err := repo.IncrementUsage(ctx, 103, "analyze_channel"); err != nil {
		t.Fatalf("IncrementUsage() error = %v", err)
	}
	if err := repo.IncrementUsage(ctx, 3, "analyze_channel"); err != nil {
		t.Fatalf("IncrementUsage() error = %v", err)
	}

	used, operations, err := repo.TodaysUsage(ctx)
	if err != nil {
		t.Fatalf("TodaysUsage() error = %v", err)
	}
	if used != 106 {
		t.Errorf("used = %d, want 106", used)
	}
	if operations != 2 {
		t.Errorf("operations = %d, want 2", operations)
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo, cleanup := setupTestDB(t)
	defer cleanup()

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Errorf("second EnsureSchema() error = %v", err)
	}
}
