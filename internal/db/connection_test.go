package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertox/portal/internal/config"
	database "github.com/vertox/portal/internal/db"
	"github.com/vertox/portal/internal/db/dbtest"
)

func TestNewDBService_MissingConnectionString(t *testing.T) {
	_, err := database.NewDBService(context.Background(), config.DatabaseConfig{}, nil)
	assert.ErrorIs(t, err, database.ErrMissingConnectionString)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := dbtest.NewTestDB(t)
	ctx := context.Background()

	// NewTestDB already migrated, a second run has nothing left to apply
	applied, err := database.Migrate(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, applied)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 5, count)

	for _, table := range []string{"users", "profiles", "payment_methods", "translation_sessions", "user_settings", "sales_requests", "support_requests"} {
		var exists bool
		err := db.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, table)
	}
}

func TestHealth(t *testing.T) {
	db := dbtest.NewTestDB(t)
	svc := &database.DBService{DB: db}

	stats := svc.Health(context.Background())
	assert.Equal(t, "up", stats["status"])
}
