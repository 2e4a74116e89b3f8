// Package config reads environment configuration. Missing payment keys are
// reported as errors so callers can fail the affected feature instead of
// crashing the process.
package config

import (
	"errors"
	"os"
	"time"
)

// RelayConfig configures the payment relay server. The Stripe secret key
// stays server-side; only the publishable key is handed to clients.
type RelayConfig struct {
	Port                 string
	StripeSecretKey      string
	StripePublishableKey string
	RequestTimeout       time.Duration
	ShutdownTimeout      time.Duration
}

// ClientConfig configures the app-side components: where the relay and the
// catalog live, and an optional Redis address for catalog caching.
type ClientConfig struct {
	RelayBaseURL   string
	CatalogBaseURL string
	RedisAddr      string
}

var (
	ErrMissingSecretKey      = errors.New("STRIPE_SECRET_KEY is not set")
	ErrMissingPublishableKey = errors.New("STRIPE_PUBLISHABLE_KEY is not set")
	ErrMissingRelayURL       = errors.New("RELAY_BASE_URL is not set")
)

func LoadRelayConfig() (*RelayConfig, error) {
	cfg := &RelayConfig{
		Port:                 getEnv("PORT", "3000"),
		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripePublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		RequestTimeout:       30 * time.Second,
		ShutdownTimeout:      10 * time.Second,
	}
	if cfg.StripeSecretKey == "" {
		return nil, ErrMissingSecretKey
	}
	if cfg.StripePublishableKey == "" {
		return nil, ErrMissingPublishableKey
	}
	return cfg, nil
}

func LoadClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{
		RelayBaseURL:   os.Getenv("RELAY_BASE_URL"),
		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "https://dummyjson.com"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
	}
	if cfg.RelayBaseURL == "" {
		return nil, ErrMissingRelayURL
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
