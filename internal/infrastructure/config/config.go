package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR, default=localhost:4444"`
	AdminAddr  string `env:"ADMIN_ADDR,  default=localhost:9090"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`

	CertPath string `env:"CERT_PATH"`
	KeyPath  string `env:"KEY_PATH"`
	DBPath   string `env:"DB_PATH, default=./directory.db"`

	Seed SeedConfig
}

// SeedConfig carries the two bootstrap identities used when the store
// is initialized for the first time.
type SeedConfig struct {
	User         string `env:"DEFAULT_USER"`
	UserPassword string `env:"DEFAULT_USER_PASSWORD"`
	UserPhone    string `env:"DEFAULT_USER_PHONE"`

	HR         string `env:"DEFAULT_HR"`
	HRPassword string `env:"DEFAULT_HR_PASSWORD"`
	HRPhone    string `env:"DEFAULT_HR_PHONE"`
}

// Load reads configuration from environment variables using
// go-envconfig and validates the fields the server cannot run without.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if cfg.CertPath == "" || cfg.KeyPath == "" {
		return nil, fmt.Errorf("CERT_PATH and KEY_PATH are required")
	}
	if cfg.Seed.User == "" || cfg.Seed.UserPassword == "" || cfg.Seed.UserPhone == "" ||
		cfg.Seed.HR == "" || cfg.Seed.HRPassword == "" || cfg.Seed.HRPhone == "" {
		return nil, fmt.Errorf("seed identities (DEFAULT_USER*, DEFAULT_HR*) are required")
	}

	return &cfg, nil
}
