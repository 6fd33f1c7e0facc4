package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	JWTSecret string // Required: shared secret for signing session tokens
	Issuer    string // Optional: issuer claim for tokens (default: notes-service)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./notes.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	InviteBaseURL        string        // Optional: frontend origin embedded in invite links (default: http://localhost:3000)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-invitation sweep interval (default: 1h)
}

// ErrMissingJWTSecret means NOTES_JWT_SECRET was unset. The service refuses
// to start rather than falling back to a hardcoded secret.
var ErrMissingJWTSecret = errors.New("NOTES_JWT_SECRET must be set")

func LoadConfig() (Config, error) {
	cfg := Config{
		JWTSecret:            os.Getenv("NOTES_JWT_SECRET"),
		Issuer:               getEnvOrDefault("NOTES_ISSUER", "notes-service"),
		DatabaseFile:         getEnvOrDefault("NOTES_DATABASE_FILE", "notes.db"),
		PepperFile:           getEnvOrDefault("NOTES_PEPPER_FILE", "pepper"),
		InviteBaseURL:        getEnvOrDefault("NOTES_INVITE_BASE_URL", "http://localhost:3000"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
