package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertox/portal/internal/db/dbtest"
	"github.com/vertox/portal/internal/settings"
)

func TestRepository_Postgres(t *testing.T) {
	db := dbtest.NewTestDB(t)
	repo := settings.NewRepository(db)
	ctx := context.Background()
	userID := dbtest.InsertUser(t, db, "ana@example.com")

	_, err := repo.Get(ctx, userID)
	assert.ErrorIs(t, err, settings.ErrSettingsNotFound)

	s := settings.Defaults()
	s.Theme = settings.ThemeDark
	require.NoError(t, repo.Save(ctx, userID, s))
	s.InputVolume = 10
	require.NoError(t, repo.Save(ctx, userID, s))

	got, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, s, *got)

	require.NoError(t, repo.Delete(ctx, userID))
	_, err = repo.Get(ctx, userID)
	assert.ErrorIs(t, err, settings.ErrSettingsNotFound)
}
