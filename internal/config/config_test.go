package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"PORT", "ADDR", "CORS_ORIGINS", "USER_HEADER", "SHUTDOWN_TIMEOUT",
	"DATABASE_URL", "LOG_LEVEL", "OIDC_ISSUER", "OIDC_CLIENT_ID", "OIDC_USERINFO",
}

// isolate clears every variable Load reads and moves into an empty
// directory so no stray .env file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg := Load()
	assert.Equal(t, "0.0.0.0:4000", cfg.Addr)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "x-user-id", cfg.UserHeader)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "./data/putter.db", cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.OIDCIssuer)
	assert.False(t, cfg.OIDCUserInfo)
}

func TestLoadOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DATABASE_URL", "memory")
	t.Setenv("OIDC_ISSUER", "https://issuer.example")
	t.Setenv("OIDC_USERINFO", "true")

	cfg := Load()
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "memory", cfg.DatabaseURL)
	assert.Equal(t, "https://issuer.example", cfg.OIDCIssuer)
	assert.True(t, cfg.OIDCUserInfo)

	t.Setenv("ADDR", "127.0.0.1:9000")
	assert.Equal(t, "127.0.0.1:9000", Load().Addr)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	isolate(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	t.Setenv("OIDC_USERINFO", "maybe")

	cfg := Load()
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.OIDCUserInfo)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=5050\nLOG_LEVEL=debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg := Load()
	assert.Equal(t, "0.0.0.0:5050", cfg.Addr)
	assert.Equal(t, "warn", cfg.LogLevel, "environment wins over .env")
}
