package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertox/portal/internal/db/dbtest"
	"github.com/vertox/portal/internal/history"
)

func TestRepository_Postgres(t *testing.T) {
	db := dbtest.NewTestDB(t)
	repo := history.NewRepository(db)
	ctx := context.Background()
	userID := dbtest.InsertUser(t, db, "ana@example.com")
	now := time.Date(2024, 12, 16, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateBulk(ctx, history.DemoSessions(userID, now)))

	sessions, err := repo.List(ctx, userID, history.Filter{Query: "50%_off"})
	require.NoError(t, err)
	assert.Empty(t, sessions)

	sessions, err = repo.List(ctx, userID, history.Filter{Query: "call", Kind: history.KindCall, Limit: 2})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "Support Call - São Paulo", sessions[0].Title)

	stats, err := repo.Stats(ctx, userID, now.AddDate(0, 0, -3))
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalSessions)
	assert.Equal(t, 697, stats.TotalMinutes)
	assert.Equal(t, 11, stats.LanguagesUsed)
	assert.Equal(t, 5, stats.ThisWeek)

	require.NoError(t, repo.Delete(ctx, userID, sessions[0].ID))
	assert.ErrorIs(t, repo.Delete(ctx, userID, sessions[0].ID), history.ErrSessionNotFound)

	n, err := repo.DeleteAll(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 11, n)
}
