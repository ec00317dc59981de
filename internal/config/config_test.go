package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9090"
  mode: production
jwt:
  secret: file-secret
booking:
  cancel_cutoff_hours: 48
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 48, cfg.Booking.CancelCutoffHours)

	// Untouched values fall back to defaults
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.Equal(t, "1h", cfg.JWT.AccessTokenExpiration)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
jwt:
  secret: file-secret
`)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("BOOKING_CANCEL_CUTOFF_HOURS", "12")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 12, cfg.Booking.CancelCutoffHours)
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-only-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-only-secret", cfg.JWT.Secret)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "8080"
`)

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "JWT secret is required")
}

func TestLoadConfigRejectsBadDurations(t *testing.T) {
	path := writeConfigFile(t, `
jwt:
  secret: s
  access_token_expiration: not-a-duration
`)

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "access token expiration")
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Database.User = "sideout"
	cfg.Database.Password = "pw"
	cfg.Database.DBName = "sideout_test"

	assert.Equal(t,
		"postgres://sideout:pw@localhost:5432/sideout_test?sslmode=disable",
		cfg.GetPostgresConnectionString())
}
