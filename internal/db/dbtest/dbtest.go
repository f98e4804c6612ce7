// Package dbtest starts a throwaway Postgres container with the portal schema applied.
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vertox/portal/internal/config"
	database "github.com/vertox/portal/internal/db"
)

// NewTestDB returns a migrated database. The test is skipped under -short or when
// Docker is unavailable.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Postgres integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("vertox"),
		postgres.WithUsername("vertox"),
		postgres.WithPassword("vertox"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping Postgres integration test: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	svc, err := database.NewDBService(ctx, config.DatabaseConfig{
		ConnectionString: connStr,
		MaxOpenConns:     4,
		MaxIdleConns:     2,
	}, nil)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = svc.DB.Close() })

	if _, err := database.Migrate(ctx, svc.DB); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return svc.DB
}

// InsertUser creates a bare user row and returns its id.
func InsertUser(t *testing.T, db *sql.DB, email string) string {
	t.Helper()
	var id string
	err := db.QueryRow(
		`INSERT INTO users (email, password_hash, hash_token) VALUES ($1, '', 'token') RETURNING id`,
		email,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}
