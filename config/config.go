package config

import (
	"os"
	"strconv"
	"time"
)

// DevSessionSecret is the fallback used when SESSION_SECRET is unset.
// It is unsafe for production; main logs a warning when it is in use.
const DevSessionSecret = "change-me-in-production"

type Config struct {
	Port          string
	SessionSecret string
	UploadDir     string
	MaxUploadMB   int64
	DataFile      string // snapshot path; empty disables persistence
	TokenTTL      time.Duration
}

func Load() (*Config, error) {
	maxMB := int64(16)
	if v := getEnv("MAX_UPLOAD_MB", "16"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxMB = n
		}
	}
	ttl := 24 * time.Hour
	if v := getEnv("TOKEN_TTL_HOURS", ""); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Hour
		}
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		SessionSecret: getEnv("SESSION_SECRET", DevSessionSecret),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadMB:   maxMB,
		DataFile:      getEnv("DATA_FILE", ""),
		TokenTTL:      ttl,
	}, nil
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
