package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env file
// in the working directory is loaded first if present; real environment
// variables take precedence over it (godotenv does not overwrite).
//
// Variables:
//
//	CAMPUSLINK_API_URL          base URL of the backend API
//	CAMPUSLINK_REQUEST_TIMEOUT  per-request timeout, e.g. "15s"
//	CAMPUSLINK_DB_PATH          path of the local SQLite database
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	cfg.APIBaseURL = getEnv("CAMPUSLINK_API_URL", cfg.APIBaseURL)
	cfg.RequestTimeout = getEnvDuration("CAMPUSLINK_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.DatabasePath = getEnv("CAMPUSLINK_DB_PATH", cfg.DatabasePath)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
