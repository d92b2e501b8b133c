package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 14*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, 3*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 6, cfg.OTPLength)
	assert.Equal(t, 5, cfg.OTPMaxAttempts)
	assert.Equal(t, time.Minute, cfg.OTPResendWindow)
	assert.Equal(t, 15*time.Minute, cfg.SecretTokenTTL)
	assert.Equal(t, 5, cfg.LoginLimitAttempts)
	assert.Equal(t, 5*time.Minute, cfg.LoginLimitWindow)
	assert.Equal(t, "memory", cfg.LoginLimitStore)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := `
app:
  port: 8080
jwt:
  secret: file-secret
  access_ttl: 5m
  refresh_ttl_days: 7
otp:
  length: 4
login_limit:
  store: redis
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "env-secret", cfg.JWTSecret, "env must win over the file")
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTTL, "env must win over the file")
	assert.Equal(t, 4, cfg.OTPLength)
	assert.Equal(t, "redis", cfg.LoginLimitStore)
}

func TestLoad_RejectsBadDurations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("jwt:\n  access_ttl: nope\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	assert.Error(t, err)
}
