package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tgienger/honeydo/internal/db"
	"github.com/tgienger/honeydo/internal/search"
)

const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type Config struct {
	Storage        string
	DBPath         string
	SearchDebounce time.Duration
	WeekStart      time.Weekday
	LogLevel       slog.Level
	LogFile        string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPath := getEnv("HONEYDO_DB_PATH", "")
	if dbPath == "" {
		p, err := db.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		dbPath = p
	}

	storage := strings.ToLower(getEnv("HONEYDO_STORAGE", StorageSQLite))
	if storage != StorageSQLite && storage != StorageMemory {
		return nil, fmt.Errorf("HONEYDO_STORAGE: unknown storage %q", storage)
	}

	weekStart, err := parseWeekday(getEnv("HONEYDO_WEEK_START", "sunday"))
	if err != nil {
		return nil, fmt.Errorf("HONEYDO_WEEK_START: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("HONEYDO_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("HONEYDO_LOG_LEVEL: %w", err)
	}

	return &Config{
		Storage:        storage,
		DBPath:         dbPath,
		SearchDebounce: getEnvAsDuration("HONEYDO_SEARCH_DEBOUNCE", search.DefaultDebounce),
		WeekStart:      weekStart,
		LogLevel:       level,
		LogFile:        getEnv("HONEYDO_LOG_FILE", filepath.Join(filepath.Dir(dbPath), "honeydo.log")),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	// Try parsing as duration string (e.g., "300ms"), then as milliseconds
	if duration, err := time.ParseDuration(valueStr); err == nil && duration >= 0 {
		return duration
	}
	if ms, err := strconv.Atoi(valueStr); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}

	return defaultValue
}

func parseWeekday(v string) (time.Weekday, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if v == name || v == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", v)
}
