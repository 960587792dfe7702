package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"winsbygroup.com/priceserver/internal/config"
	"winsbygroup.com/priceserver/internal/database"
)

func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return NewTestDBAt(t, filepath.Join(t.TempDir(), "test.db"))
}

// NewTestDBAt opens a migrated SQLite store at dbPath.
func NewTestDBAt(t *testing.T, dbPath string) *sqlx.DB {
	t.Helper()

	db, err := database.Open(config.DB{Driver: config.DriverSQLite, Path: dbPath})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	// Register cleanup immediately
	t.Cleanup(func() {
		db.Close()
	})

	// Run migrations
	if err := database.RunMigrations(db.DB, config.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

// NewPostgresDB starts a throwaway Postgres container and returns a migrated
// store connected to it. Skipped under -short.
func NewPostgresDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("housing"),
		postgres.WithUsername("scorer"),
		postgres.WithPassword("scorer"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres dsn: %v", err)
	}

	db, err := sqlx.Open(config.DriverPostgres, dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if err := database.RunMigrations(db.DB, config.DriverPostgres); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
