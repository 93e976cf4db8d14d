package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_RATE_LIMIT", "")
	t.Setenv("AUDIT_SINKS", "")
	t.Setenv("JWT_TTL", "")

	cfg := Load()

	assert.Equal(t, 30, cfg.Admin.RateLimit)
	assert.Equal(t, time.Minute, cfg.Admin.RateWindow)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"db", "log"}, cfg.Audit.Sinks)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADMIN_RATE_LIMIT", "5")
	t.Setenv("AUDIT_SINKS", " Redis, log ,")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("AWS_USE_SSL", "true")

	cfg := Load()

	assert.Equal(t, 5, cfg.Admin.RateLimit)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.True(t, cfg.HasAuditSink("redis"))
	assert.True(t, cfg.HasAuditSink("log"))
	assert.False(t, cfg.HasAuditSink("db"))
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("ADMIN_RATE_LIMIT", "lots")
	t.Setenv("ADMIN_RATE_WINDOW", "soon")

	cfg := Load()

	assert.Equal(t, 30, cfg.Admin.RateLimit)
	assert.Equal(t, time.Minute, cfg.Admin.RateWindow)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.Auth.JWTSecret = ""
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET is required")

	cfg.Auth.JWTSecret = "secret"
	cfg.MinIO.AccessKeyID = "key"
	cfg.MinIO.SecretAccessKey = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestLoadClient(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MOVIEFLIX_HOME", dir)
	t.Setenv("MOVIEFLIX_STATE", "")
	t.Setenv("MOVIEFLIX_API_URL", "https://api.example.com")
	t.Setenv("MOVIEFLIX_TIMEOUT", "3s")

	cfg := LoadClient()

	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, filepath.Join(dir, "mylist.json"), cfg.StatePath)
	assert.Equal(t, filepath.Join(dir, "token"), cfg.TokenPath)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}
