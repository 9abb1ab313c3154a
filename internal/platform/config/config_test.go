package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MemoryBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Memory")
	t.Setenv("JWT_EXPIRY_DURATION", "90m")
	t.Setenv("PORT", "9090")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.StorageMemory, cfg.StorageBackend)
	assert.Equal(t, 90*time.Minute, cfg.JWTExpiryDuration)
	assert.Equal(t, "9090", cfg.Port)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfig_PostgresNeedsURL(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("PGSQL_URL", "")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConsoleConfig(t *testing.T) {
	t.Setenv("TREASURY_API_BASE_URL", "http://api.test/api/v1")
	t.Setenv("TREASURY_SESSION_STORE", "redis")
	t.Setenv("TREASURY_LOG_LEVEL", "debug")

	cfg, err := config.LoadConsoleConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://api.test/api/v1", cfg.APIBaseURL)
	assert.Equal(t, config.SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/login", cfg.LoginRoute)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
}

func TestLoadConsoleConfig_UnknownStore(t *testing.T) {
	t.Setenv("TREASURY_SESSION_STORE", "cookie")

	_, err := config.LoadConsoleConfig()
	assert.Error(t, err)
}
