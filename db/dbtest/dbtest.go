// Package dbtest starts a throwaway PostgreSQL container with the teeBay
// schema applied. It is meant for tests built with the integration tag.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/teebay/teebay-api/config"
	"github.com/teebay/teebay-api/db"
)

// Open starts postgres, runs every up migration and returns a connected
// Database. The container and pool are released when t finishes.
func Open(t *testing.T) *db.Database {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("teebay"),
		postgres.WithUsername("teebay"),
		postgres.WithPassword("teebay"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	cfg := &config.PoolConfig{URL: dsn, MaxSize: 10}

	if err := db.RunMigrations(cfg, db.Up); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	database, err := db.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(database.Close)
	return database
}
