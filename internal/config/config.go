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
)

// Config holds all configuration for the application.
type Config struct {
	DBPath    string
	APIPort   string
	LogLevel  slog.Level
	LogFormat string

	// CompletionThreshold is the watched fraction past which a video counts
	// as completed.
	CompletionThreshold float64
	// CheckpointInterval is the playback checkpoint cadence.
	CheckpointInterval time.Duration
	// StorageQuotaBytes caps total database size; 0 disables the quota.
	StorageQuotaBytes int64
	// MaxEmbedBytes caps a single embedded video blob; 0 disables the cap.
	MaxEmbedBytes int64
}

// Load reads configuration from environment variables and returns a Config
// struct. It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or project root, it will be
// loaded automatically. Environment variables already set take precedence
// over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Try to find project root by looking for a .env next to go.mod
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		DBPath:    getEnv("DB_PATH", "./data/courseflow.db"),
		APIPort:   getEnv("API_PORT", "9000"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	threshold, err := parseFloat("COMPLETION_THRESHOLD", 0.95)
	if err != nil {
		return nil, err
	}
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("COMPLETION_THRESHOLD must be in (0, 1], got %v", threshold)
	}
	cfg.CompletionThreshold = threshold

	intervalSeconds, err := parseInt64("CHECKPOINT_INTERVAL_SECONDS", 5)
	if err != nil {
		return nil, err
	}
	if intervalSeconds <= 0 {
		return nil, fmt.Errorf("CHECKPOINT_INTERVAL_SECONDS must be positive, got %d", intervalSeconds)
	}
	cfg.CheckpointInterval = time.Duration(intervalSeconds) * time.Second

	if cfg.StorageQuotaBytes, err = parseInt64("STORAGE_QUOTA_BYTES", 0); err != nil {
		return nil, err
	}
	if cfg.StorageQuotaBytes < 0 {
		return nil, fmt.Errorf("STORAGE_QUOTA_BYTES must not be negative")
	}
	if cfg.MaxEmbedBytes, err = parseInt64("MAX_EMBED_BYTES", 0); err != nil {
		return nil, err
	}
	if cfg.MaxEmbedBytes < 0 {
		return nil, fmt.Errorf("MAX_EMBED_BYTES must not be negative")
	}

	// Create the data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", raw)
	}
}

func parseFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return v, nil
}

func parseInt64(key string, defaultValue int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
