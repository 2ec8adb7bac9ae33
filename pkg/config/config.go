package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	AppEnv             string
	AuthenticationCode string
	ClientDomain       string
	JWTSecret          string
	SessionTTL         time.Duration
	Location           *time.Location
	LogLevel           string
	RateLimits         RateLimits
}

// ErrMissingAuthenticationCode is fatal at startup.
var ErrMissingAuthenticationCode = errors.New("AUTHENTICATION_CODE environment variable is not set")

// Load reads the process environment (and .env, if present). Values are
// fixed for the lifetime of the process.
func Load() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "file:blog.sqlite"),
		AppEnv:             getEnv("APP_ENV", "local"),
		AuthenticationCode: getEnv("AUTHENTICATION_CODE", ""),
		ClientDomain:       getEnv("CLIENT_DOMAIN", "http://localhost:3000"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if cfg.AuthenticationCode == "" {
		return nil, ErrMissingAuthenticationCode
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "12h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL: invalid duration")
	}
	cfg.SessionTTL = ttl

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	limits := DefaultRateLimits()
	if path := getEnv("RATE_LIMIT_FILE", ""); path != "" {
		limits, err = LoadRateLimits(path)
		if err != nil {
			return nil, err
		}
	}
	cfg.RateLimits = limits

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
