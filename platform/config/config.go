// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Environment
	Env string

	// HTTP server
	HTTPAddr        string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL   string
	MigrationsDir string

	// Auth
	JWTSecret string

	// Public intake rate limiting (requests per minute per IP)
	IntakeRateLimit int

	// Email. Provider is "smtp", "brevo" or "noop".
	EmailProvider string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	BrevoAPIKey   string
	EmailFrom     string
	EmailFromName string

	// Frontend base URL used in notification links
	AppBaseURL string

	// Redis / background worker
	RedisURL string

	// Quote defaults
	QuoteValidityDays int
}

// Load reads configuration from environment variables.
// A .env file is loaded first when present (development convenience).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins:       splitAndTrim(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MigrationsDir:     getEnv("MIGRATIONS_DIR", "migrations"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		IntakeRateLimit:   getEnvInt("INTAKE_RATE_LIMIT", 10),
		EmailProvider:     getEnv("EMAIL_PROVIDER", "noop"),
		SMTPHost:          getEnv("SMTP_HOST", "localhost"),
		SMTPPort:          getEnvInt("SMTP_PORT", 587),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPassword:      os.Getenv("SMTP_PASSWORD"),
		BrevoAPIKey:       os.Getenv("BREVO_API_KEY"),
		EmailFrom:         getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailFromName:     getEnv("EMAIL_FROM_NAME", "Event Marketplace"),
		AppBaseURL:        getEnv("APP_BASE_URL", "http://localhost:3000"),
		RedisURL:          os.Getenv("REDIS_URL"),
		QuoteValidityDays: getEnvInt("QUOTE_VALIDITY_DAYS", 14),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// GetJWTSecret returns the secret used to verify access tokens.
func (c *Config) GetJWTSecret() string {
	return c.JWTSecret
}

// GetCORSOrigins returns the allowed CORS origins.
func (c *Config) GetCORSOrigins() []string {
	return c.CORSOrigins
}

// GetIntakeRateLimit returns the per-IP requests-per-minute limit for
// the public inquiry intake endpoint.
func (c *Config) GetIntakeRateLimit() int {
	return c.IntakeRateLimit
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// SchedulerEnabled reports whether the deferred notification worker
// can be used. Without Redis all notifications are sent inline.
func (c *Config) SchedulerEnabled() bool {
	return c.RedisURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
