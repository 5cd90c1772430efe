// Package config loads application configuration from environment variables.
// A .env file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
)

const (
	defaultHealthDataURL = "https://my.api.mockaroo.com/health.json?key=92050340"
	defaultPremURL       = "https://app.premai.io"
	defaultPremModel     = "gpt-4o-mini"
)

// Config holds all application configuration.
type Config struct {
	// Server settings.
	Port int
	Env  string // "development" enables pretty console logs.

	// Prem settings. Absence is not validated; it surfaces as an auth failure.
	PremAPIKey    string
	PremProjectID string
	PremAPIURL    string
	PremModel     string

	// HealthDataURL is the CSV endpoint, access key included.
	HealthDataURL string

	// Operational settings.
	HTTPClientTimeout time.Duration
	LogLevel          zerolog.Level
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	port, err := envInt("PORT", 8080)
	if err != nil {
		return Config{}, err
	}
	timeout, err := envDuration("HTTP_CLIENT_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	level, err := envLevel("LOG_LEVEL", zerolog.InfoLevel)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:              port,
		Env:               envStr("APP_ENV", "development"),
		PremAPIKey:        envStr("PREM_SAAS_API_KEY", ""),
		PremProjectID:     envStr("PREM_PROJECT_ID", ""),
		PremAPIURL:        envStr("PREM_API_URL", defaultPremURL),
		PremModel:         envStr("PREM_MODEL", defaultPremModel),
		HealthDataURL:     envStr("HEALTH_DATA_URL", defaultHealthDataURL),
		HTTPClientTimeout: timeout,
		LogLevel:          level,
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("PORT=%d is out of range", cfg.Port)
	}
	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func envStr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration", key, v)
	}
	return d, nil
}

func envLevel(key string, fallback zerolog.Level) (zerolog.Level, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(v))
	if err != nil {
		return fallback, fmt.Errorf("%s=%q is not a valid log level", key, v)
	}
	return level, nil
}
