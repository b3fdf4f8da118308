package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadAPIFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", " postgres://localhost/shopsim ")
	t.Setenv("PORT", "")

	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr got=%q", cfg.Addr)
	}
	if cfg.DatabaseURL != "postgres://localhost/shopsim" {
		t.Fatalf("database url got=%q", cfg.DatabaseURL)
	}
	if cfg.MaxSteps != 500 {
		t.Fatalf("max steps got=%d", cfg.MaxSteps)
	}
}

func TestLoadAPIFromEnvPortOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/shopsim")
	t.Setenv("PORT", "9090")

	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr got=%q want=:9090", cfg.Addr)
	}
}

func TestLoadAPIFromEnvRequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadAPIFromEnv(); err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestLoadWorkerFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/shopsim")
	t.Setenv("SHOPSIM_WORKER_EVERY", "30s")
	t.Setenv("SHOPSIM_WORKER_BATCH", "4")
	t.Setenv("SHOPSIM_WORKER_RUN_ONCE", "true")

	cfg, err := LoadWorkerFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Every != 30*time.Second || cfg.Batch != 4 || !cfg.RunOnce {
		t.Fatalf("unexpected config %+v", cfg)
	}

	t.Setenv("SHOPSIM_WORKER_BATCH", "0")
	if _, err := LoadWorkerFromEnv(); err == nil {
		t.Fatalf("expected error for zero batch")
	}

	t.Setenv("SHOPSIM_WORKER_BATCH", "many")
	if _, err := LoadWorkerFromEnv(); err == nil {
		t.Fatalf("expected error for non-numeric batch")
	}
}

func TestLoadCLIFromEnv(t *testing.T) {
	t.Setenv("SHOPSIM_API_BASE_URL", "https://shop.example.com/ ")
	cfg, err := LoadCLIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://shop.example.com" {
		t.Fatalf("base url got=%q", cfg.APIBaseURL)
	}
}
