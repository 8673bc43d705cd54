package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

var (
	ErrMissingDatabaseURL   = errors.New("DATABASE_URL is required")
	ErrMissingSessionSecret = errors.New("SESSION_SECRET is required")
)

// DefaultCompletionEndpoint is the default OpenAI-compatible API base URL.
const DefaultCompletionEndpoint = "https://api.openai.com/v1"

// Config holds everything the process needs at startup. Values come from the
// environment, with an optional config.yaml overlay for the non-secret parts.
type Config struct {
	Port          string
	Env           string
	DatabaseURL   string
	SessionSecret string

	CompletionKey      string
	CompletionEndpoint string
	CompletionModel    string

	PaymentWebhookSecret string

	AllowedOrigins []string
}

// fileConfig is the shape of the optional config.yaml overlay.
type fileConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	OpenAI         struct {
		Endpoint string `yaml:"endpoint"`
		Model    string `yaml:"model"`
	} `yaml:"openai"`
}

// Load reads configuration from the environment and, if present, a
// config.yaml file next to the binary. Environment variables win.
//
// Environment variables:
//   - PORT: HTTP listen port (default: "3001")
//   - APP_ENV: "production" enables Secure session cookies
//   - DATABASE_URL: Postgres connection string (required)
//   - SESSION_SECRET: key used to sign session cookies (required)
//   - OPENAI_API_KEY: upstream completion API key
//   - OPENAI_ENDPOINT: upstream base URL (default: https://api.openai.com/v1)
//   - OPENAI_MODEL: completion model name (default: "gpt-4o-mini")
//   - PAYMENT_WEBHOOK_SECRET: HMAC key for payment provider webhooks
//   - CORS_ORIGINS: comma-separated origin allow-list
func Load() (Config, error) {
	cfg := Config{
		Port:                 os.Getenv("PORT"),
		Env:                  strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		SessionSecret:        os.Getenv("SESSION_SECRET"),
		CompletionKey:        os.Getenv("OPENAI_API_KEY"),
		CompletionEndpoint:   strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")),
		CompletionModel:      strings.TrimSpace(os.Getenv("OPENAI_MODEL")),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
	}

	if raw, err := os.ReadFile("config.yaml"); err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config.yaml: %w", err)
		}
		cfg.AllowedOrigins = fc.AllowedOrigins
		if cfg.CompletionEndpoint == "" {
			cfg.CompletionEndpoint = fc.OpenAI.Endpoint
		}
		if cfg.CompletionModel == "" {
			cfg.CompletionModel = fc.OpenAI.Model
		}
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if cfg.Port == "" {
		cfg.Port = "3001"
	}
	if cfg.CompletionEndpoint == "" {
		cfg.CompletionEndpoint = DefaultCompletionEndpoint
	}
	if cfg.CompletionModel == "" {
		cfg.CompletionModel = "gpt-4o-mini"
	}

	return cfg, cfg.Validate()
}

// Validate checks the values no deployment can run without.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.SessionSecret == "" {
		return ErrMissingSessionSecret
	}
	return nil
}

// IsProduction reports whether the process runs in production deployment
// mode, which switches session cookies to Secure (HTTPS only).
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
