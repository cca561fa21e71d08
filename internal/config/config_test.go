package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.RateLimit != 100 {
		t.Errorf("RateLimit = %v, want 100", cfg.RateLimit)
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("WIRESERVE_ADDR", ":9090")
	t.Setenv("WIRESERVE_RATE_LIMIT_RPS", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.RateLimit != 50 {
		t.Errorf("RateLimit = %v, want 50", cfg.RateLimit)
	}
}
