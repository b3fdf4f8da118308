package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type APIConfig struct {
	Addr        string `env:"SHOPSIM_API_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`
	MaxSteps    int    `env:"SHOPSIM_MAX_STEPS" envDefault:"500"`
	CatalogPath string `env:"SHOPSIM_CATALOG"`
}

type WorkerConfig struct {
	DatabaseURL string        `env:"DATABASE_URL,notEmpty"`
	Every       time.Duration `env:"SHOPSIM_WORKER_EVERY" envDefault:"1m"`
	Batch       int           `env:"SHOPSIM_WORKER_BATCH" envDefault:"10"`
	RunOnce     bool          `env:"SHOPSIM_WORKER_RUN_ONCE" envDefault:"false"`
	MaxSteps    int           `env:"SHOPSIM_MAX_STEPS" envDefault:"500"`
	CatalogPath string        `env:"SHOPSIM_CATALOG"`
}

type CLIConfig struct {
	APIBaseURL  string `env:"SHOPSIM_API_BASE_URL" envDefault:"http://localhost:8080"`
	MaxSteps    int    `env:"SHOPSIM_MAX_STEPS" envDefault:"500"`
	CatalogPath string `env:"SHOPSIM_CATALOG"`
}

func LoadAPIFromEnv() (APIConfig, error) {
	var cfg APIConfig
	if err := parseEnv(&cfg); err != nil {
		return cfg, err
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Addr = port
	}
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if cfg.MaxSteps <= 0 {
		return cfg, fmt.Errorf("SHOPSIM_MAX_STEPS must be > 0")
	}
	return cfg, nil
}

func LoadWorkerFromEnv() (WorkerConfig, error) {
	var cfg WorkerConfig
	if err := parseEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Every <= 0 {
		return cfg, fmt.Errorf("SHOPSIM_WORKER_EVERY must be > 0")
	}
	if cfg.Batch <= 0 {
		return cfg, fmt.Errorf("SHOPSIM_WORKER_BATCH must be > 0")
	}
	if cfg.MaxSteps <= 0 {
		return cfg, fmt.Errorf("SHOPSIM_MAX_STEPS must be > 0")
	}
	return cfg, nil
}

func LoadCLIFromEnv() (CLIConfig, error) {
	var cfg CLIConfig
	if err := parseEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	return cfg, nil
}

func parseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
