package config

import (
	"os"
	"strconv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port               string
	JWTSecret          string
	AdminUsername      string
	AdminPassword      string
	CORSAllowedOrigins string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	RateLimitPerSecond float64 // requests per second per client IP
	RateLimitBurst     int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:               envOrDefault("PORT", "8010"),
		JWTSecret:          envOrDefault("JWT_SECRET", "dev-secret-change-me"),
		AdminUsername:      envOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:      envOrDefault("ADMIN_PASSWORD", "admin123"),
		CORSAllowedOrigins: envOrDefault("CORS_ALLOWED_ORIGINS", "*"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		RateLimitPerSecond: envFloatOrDefault("RATE_LIMIT_PER_SECOND", 20),
		RateLimitBurst:     envIntOrDefault("RATE_LIMIT_BURST", 40),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
