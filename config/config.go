// Package config loads service and player configuration from DPF_* environment variables.
package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr             string   `envconfig:"ADDR" default:"0.0.0.0:3000"`
	DataFile         string   `envconfig:"DATA_FILE" default:"data.json"`
	OpenAPIFile      string   `envconfig:"OPENAPI_FILE" default:"openapi.json"`
	AssetsDir        string   `envconfig:"ASSETS_DIR" default:"public/assets"`
	DBPath           string   `envconfig:"DB_PATH" default:"photos.db"`
	PersistSettings  bool     `envconfig:"PERSIST_SETTINGS" default:"true"`
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	S3Bucket         string   `envconfig:"S3_BUCKET"`
	AWSProfile       string   `envconfig:"AWS_PROFILE"`
	ServerURL        string   `envconfig:"SERVER_URL" default:"http://localhost:3000"`
	RequestTimeoutMS int      `envconfig:"REQUEST_TIMEOUT_MS" default:"5000"`
}

const prefix = "DPF"

// Load reads an optional .env file and then the DPF_* environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if cfg.RequestTimeoutMS <= 0 {
		return nil, fmt.Errorf("DPF_REQUEST_TIMEOUT_MS must be positive, got %d", cfg.RequestTimeoutMS)
	}
	return &cfg, nil
}

// RemoteSyncEnabled reports whether an S3 bucket is configured for asset sync.
func (c *Config) RemoteSyncEnabled() bool {
	return c.S3Bucket != ""
}
