package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	BACKEND_VADER  = "vader"
	BACKEND_REMOTE = "remote"
)

type Config struct {
	Port     string
	LogLevel string

	SentimentBackend        string
	StripMarkdown           bool
	SentimentServiceURL     string
	SentimentServiceTimeout time.Duration

	ShutdownTimeout time.Duration
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return v, nil
}

// Load reads the service configuration from the environment. Call LoadEnv
// first so values from the env file are visible.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "5001"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		SentimentBackend:    getEnv("SENTIMENT_BACKEND", BACKEND_VADER),
		SentimentServiceURL: getEnv("SENTIMENT_SERVICE_URL", ""),
	}

	var err error
	if cfg.StripMarkdown, err = getEnvBool("SENTIMENT_STRIP_MARKDOWN", false); err != nil {
		return nil, err
	}
	if cfg.SentimentServiceTimeout, err = getEnvDuration("SENTIMENT_SERVICE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", cfg.Port)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q: must be one of debug, info, warn, error", cfg.LogLevel)
	}

	switch cfg.SentimentBackend {
	case BACKEND_VADER:
	case BACKEND_REMOTE:
		if cfg.SentimentServiceURL == "" {
			return fmt.Errorf("SENTIMENT_SERVICE_URL is required when SENTIMENT_BACKEND=%s", BACKEND_REMOTE)
		}
	default:
		return fmt.Errorf("invalid SENTIMENT_BACKEND %q: must be %s or %s",
			cfg.SentimentBackend, BACKEND_VADER, BACKEND_REMOTE)
	}

	return nil
}
