package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Session stores understood by the console.
const (
	SessionStoreFile   = "file"
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

// ConsoleConfig holds the configuration of the treasury console client.
type ConsoleConfig struct {
	APIBaseURL     string
	SessionStore   string
	SessionFile    string
	RedisAddr      string
	RedisKey       string
	SessionTTL     time.Duration
	LoginRoute     string
	LogLevel       slog.Level
	RequestTimeout time.Duration
}

// LoadConsoleConfig loads the console configuration from the environment
// (prefix TREASURY_) and a .env file if present.
func LoadConsoleConfig() (*ConsoleConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TREASURY")
	v.AutomaticEnv()

	v.SetDefault("API_BASE_URL", "http://localhost:8080/api/v1")
	v.SetDefault("SESSION_STORE", SessionStoreFile)
	v.SetDefault("SESSION_FILE", defaultSessionFile())
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_KEY", "treasury:session")
	v.SetDefault("SESSION_TTL", "8h")
	v.SetDefault("LOGIN_ROUTE", "/login")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("REQUEST_TIMEOUT", "30s")

	cfg := &ConsoleConfig{
		APIBaseURL:   v.GetString("API_BASE_URL"),
		SessionStore: strings.ToLower(strings.TrimSpace(v.GetString("SESSION_STORE"))),
		SessionFile:  v.GetString("SESSION_FILE"),
		RedisAddr:    v.GetString("REDIS_ADDR"),
		RedisKey:     v.GetString("REDIS_KEY"),
		LoginRoute:   v.GetString("LOGIN_ROUTE"),
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(v.GetString("SESSION_TTL")); err != nil {
		return nil, fmt.Errorf("invalid TREASURY_SESSION_TTL: %w", err)
	}
	if cfg.RequestTimeout, err = time.ParseDuration(v.GetString("REQUEST_TIMEOUT")); err != nil {
		return nil, fmt.Errorf("invalid TREASURY_REQUEST_TIMEOUT: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid TREASURY_LOG_LEVEL: %w", err)
	}

	switch cfg.SessionStore {
	case SessionStoreFile, SessionStoreRedis, SessionStoreMemory:
	default:
		return nil, fmt.Errorf("unknown TREASURY_SESSION_STORE %q", cfg.SessionStore)
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("TREASURY_API_BASE_URL must not be empty")
	}

	return cfg, nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "treasury", "session.json")
}
