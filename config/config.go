package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime parameter of the application, populated
// from environment variables.
type Config struct {
	DatabaseURL  string `env:"DATABASE_URL,required"`
	JWTSecretKey string `env:"JWT_SECRET_KEY,required"`
	ServerPort   int    `env:"SERVER_PORT" envDefault:"8080"`

	// Interval between tournament status sweeps.
	StatusSweepSeconds int `env:"STATUS_SWEEP_SECONDS" envDefault:"60"`

	R2 R2Config `envPrefix:"R2_"`
}

// R2Config configures the Cloudflare R2 bucket used for tournament
// logos. Optional: when AccountID is empty the application runs without
// logo uploads.
type R2Config struct {
	AccountID       string `env:"ACCOUNT_ID"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	BucketName      string `env:"BUCKET_NAME"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL"`
}

func (c R2Config) Enabled() bool {
	return c.AccountID != ""
}

// Load reads the configuration from the environment. A .env file is
// loaded first when present; its absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.StatusSweepSeconds < 1 {
		return nil, fmt.Errorf("STATUS_SWEEP_SECONDS must be positive, got %d", cfg.StatusSweepSeconds)
	}
	return cfg, nil
}
