package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database Configuration
	Database DatabaseConfig

	// Redis Configuration (task queue backend)
	Redis RedisConfig

	// Session Configuration
	Session SessionConfig

	// Upload Configuration
	Uploads UploadConfig

	// Logging Configuration
	Logging LoggingConfig

	// Environment is "production" or "development"
	Environment string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address string // Redis address (host:port)
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	Secret string // HMAC key for signing session cookies
}

// UploadConfig holds image upload configuration
type UploadConfig struct {
	Dir             string // Root directory for stored images
	CleanupSchedule string // Cron expression for orphan cleanup, empty = disabled
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := loadFromEnv()

	// Session secret signs the admin session cookie. Required: an unsigned
	// cookie would let any client mint its own admin flag.
	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

// LoadCLI loads configuration for CLI commands, which work directly against
// the database and do not need the session secret
func LoadCLI() (*Config, error) {
	return loadFromEnv(), nil
}

func loadFromEnv() *Config {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// Database URL - default to a local sqlite file, allow override for dev
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "threadline.sqlite"
	}

	// Redis address - default to localhost:6379, allow override for dev/docker
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	sessionSecret := os.Getenv("SESSION_SECRET")

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	// Orphan upload cleanup - default to 3am daily
	cleanupSchedule := os.Getenv("CLEANUP_SCHEDULE")
	if cleanupSchedule == "" {
		cleanupSchedule = "0 3 * * *"
	}

	// Logging configuration - defaults suitable for production
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	return &Config{
		Database: DatabaseConfig{
			URL: dbURL,
		},
		Redis: RedisConfig{
			Address: redisAddr,
		},
		Session: SessionConfig{
			Secret: sessionSecret,
		},
		Uploads: UploadConfig{
			Dir:             uploadDir,
			CleanupSchedule: cleanupSchedule,
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
		Environment: environment,
	}
}

// IsProduction reports whether the server runs with production hardening
// (secure cookies, release mode)
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
