package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with environment variables, loading a .env file from
// the working directory first when one exists.
//
// Recognized variables:
//
//	ENHANCER_SERVER_URL       base URL of the backend
//	ENHANCER_REQUEST_TIMEOUT  duration string, e.g. "30s"
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("ENHANCER_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("ENHANCER_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}
