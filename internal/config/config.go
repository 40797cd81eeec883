package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/vytor/codetrail/internal/logger"
)

type Config struct {
	Addr            string
	DBPath          string
	LogLevel        string
	ContentDir      string
	RotationStart   string
	Timezone        string
	SyncWorkerCount int
	SyncQueueSize   int
	RedisAddr       string
	RedisStream     string
	ShuffleSeed     uint64
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:codetrail.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		ContentDir:      envOr("CONTENT_DIR", "./content"),
		RotationStart:   envOr("ROTATION_START", "2025-01-01"),
		Timezone:        envOr("TIMEZONE", "UTC"),
		SyncWorkerCount: envIntOr("SYNC_WORKER_COUNT", 2),
		SyncQueueSize:   envIntOr("SYNC_QUEUE_SIZE", 256),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisStream:     envOr("REDIS_STREAM", "codetrail:records"),
		ShuffleSeed:     envUintOr("SHUFFLE_SEED", 0),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if strings.TrimSpace(c.ContentDir) == "" {
		return fmt.Errorf("CONTENT_DIR cannot be empty")
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		return fmt.Errorf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel)
	}
	if _, err := c.RotationStartDate(); err != nil {
		return fmt.Errorf("ROTATION_START must be a YYYY-MM-DD date: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Timezone, err)
	}
	if c.SyncWorkerCount <= 0 {
		return fmt.Errorf("SYNC_WORKER_COUNT must be positive, got %d", c.SyncWorkerCount)
	}
	if c.SyncQueueSize <= 0 {
		return fmt.Errorf("SYNC_QUEUE_SIZE must be positive, got %d", c.SyncQueueSize)
	}
	if c.RedisAddr != "" && strings.TrimSpace(c.RedisStream) == "" {
		return fmt.Errorf("REDIS_STREAM cannot be empty when REDIS_ADDR is set")
	}
	return nil
}

// RotationStartDate parses RotationStart.
func (c Config) RotationStartDate() (time.Time, error) {
	return time.Parse("2006-01-02", c.RotationStart)
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envUintOr(key string, def uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if u, err := strconv.ParseUint(v, 10, 64); err == nil {
			return u
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
