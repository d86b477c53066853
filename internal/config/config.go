package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded once at startup.
type Config struct {
	Port           string
	DBPath         string
	Env            string
	LogLevel       string
	JWTSecret      string
	AllowedOrigins []string
}

// Load reads configuration from the environment, after loading a .env file
// if one is present. The JWT signing secret is the only required value.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("TASKLIST_PORT", "8080"),
		DBPath:         getEnv("TASKLIST_DB_PATH", "tasklist.db"),
		Env:            getEnv("TASKLIST_ENV", "development"),
		LogLevel:       getEnv("TASKLIST_LOG_LEVEL", "info"),
		JWTSecret:      os.Getenv("TASKLIST_JWT_SECRET"),
		AllowedOrigins: splitCSV(getEnv("TASKLIST_ALLOWED_ORIGINS", "*")),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("TASKLIST_JWT_SECRET is required")
	}

	return cfg, nil
}

// Production reports whether the process runs with production settings.
// It controls the Secure flag on the session cookie.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
