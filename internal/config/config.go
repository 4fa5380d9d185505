// Package config loads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Cache drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverValkey = "valkey"
)

// Config holds the process settings.
type Config struct {
	Port               string
	LogLevel           string
	LogFormat          string // json or console
	SettingsPath       string
	CacheDriver        string
	SQLitePath         string
	ValkeyAddress      string
	ValkeyPassword     string
	CacheNamespace     string
	RateLimitPerMinute int64
	APIBaseURL         string
	StaticDir          string
}

// Load reads .env files (when present) and then the environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		Port:           getenv("PORT", "3000"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      strings.ToLower(getenv("LOG_FORMAT", "json")),
		SettingsPath:   os.Getenv("SETTINGS_PATH"),
		CacheDriver:    strings.ToLower(getenv("CACHE_DRIVER", DriverMemory)),
		SQLitePath:     getenv("SQLITE_PATH", "tweetfeed.db"),
		ValkeyAddress:  getenv("VALKEY_ADDRESS", "localhost:6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		CacheNamespace: getenv("CACHE_NAMESPACE", "tweetfeed"),
		APIBaseURL:     os.Getenv("API_BASE_URL"),
		StaticDir:      getenv("STATIC_DIR", "./static"),
	}

	limit, err := strconv.ParseInt(getenv("RATE_LIMIT_PER_MINUTE", "30"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_MINUTE: %w", err)
	}
	cfg.RateLimitPerMinute = limit

	switch cfg.CacheDriver {
	case DriverMemory, DriverSQLite, DriverValkey:
	default:
		return Config{}, fmt.Errorf("CACHE_DRIVER: unknown driver %q", cfg.CacheDriver)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
