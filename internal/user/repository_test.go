package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertox/portal/internal/db/dbtest"
	"github.com/vertox/portal/internal/user"
)

func TestUserRepository_Postgres(t *testing.T) {
	db := dbtest.NewTestDB(t)
	repo := user.NewUserRepository(db)
	ctx := context.Background()

	u := &user.User{Email: "ana@example.com", PasswordHash: "hash", HashToken: "token"}
	require.NoError(t, repo.CreateUser(ctx, u, "Ana"))
	assert.NotEmpty(t, u.ID)

	err := repo.CreateUser(ctx, &user.User{Email: "ana@example.com", PasswordHash: "x", HashToken: "y"}, "Ana")
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)

	p, err := repo.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.FullName)
	assert.True(t, p.NotificationPush)

	p.Company = "Acme"
	require.NoError(t, repo.UpsertProfile(ctx, p))
	require.NoError(t, repo.UpdateAvatarURL(ctx, u.ID, u.Email, "http://x/avatars/a.png"))
	p, err = repo.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "http://x/avatars/a.png", p.AvatarURL)

	now := time.Now().UTC()
	require.NoError(t, repo.SaveVerificationCode(ctx, user.VerificationCode{UserID: u.ID, Code: "123456", Type: "password", ExpiresAt: now.Add(-time.Minute)}))
	n, err := repo.DeleteExpiredVerificationCodes(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.GetUserByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
