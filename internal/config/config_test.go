package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "VertoX", cfg.Auth.Issuer)
	assert.False(t, cfg.Auth.Google.Enabled())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "2.3.2", cfg.App.Version)
	assert.Equal(t, 2*time.Second, cfg.App.PairingDelay)
	assert.Equal(t, "support@vertox.com", cfg.Email.SupportInbox)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[server]
port = 9090

[auth.google]
client_id = "id"
client_secret = "secret"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Auth.Google.Enabled())
	// values absent from the file keep their defaults
	assert.Equal(t, "smtp.gmail.com", cfg.Email.SMTPHost)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_CONNECTION_STRING", "postgres://localhost/vertox")
	t.Setenv("SECURE_COOKIES", "true")
	t.Setenv("SUPPORT_INBOX", "help@example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Auth.SecureCookies)
	assert.Equal(t, "help@example.com", cfg.Email.SupportInbox)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTSecret)

	cfg.Auth.JWTSecret = "x"
	assert.ErrorIs(t, cfg.Validate(), ErrMissingConnectionString)
}
