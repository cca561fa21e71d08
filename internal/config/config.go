// Package config loads the apiserver binary's runtime configuration from
// environment variables. spec.md §1 names "configuration from environment
// variables" as an out-of-scope collaborator of the core spec; this is the
// concrete, in-workspace implementation, using caarlos0/env/v10 (named but
// ungrounded in the example pack — no repo in the pack loads config from
// env — because it's the struct-tag-driven loader the Go ecosystem reaches
// for by default).
package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds every environment-tunable value the apiserver binary needs:
// listen address, database path, token secret and lifetime, rate-limit
// rate and burst, HSTS max-age, and CORS origin. The core's own constants
// (idle timeout, header/body caps) live in internal/wire and are not
// configurable here.
type Config struct {
	Addr       string        `env:"WIRESERVE_ADDR" envDefault:":8080"`
	DBPath     string        `env:"WIRESERVE_DB_PATH" envDefault:"wireserve.db"`
	JWTSecret  string        `env:"WIRESERVE_JWT_SECRET" envDefault:"change-me-in-production"`
	TokenTTL   time.Duration `env:"WIRESERVE_TOKEN_TTL" envDefault:"24h"`
	RateLimit  float64       `env:"WIRESERVE_RATE_LIMIT_RPS" envDefault:"100"`
	RateBurst  int           `env:"WIRESERVE_RATE_LIMIT_BURST" envDefault:"20"`
	HSTSMaxAge int           `env:"WIRESERVE_HSTS_MAX_AGE" envDefault:"31536000"`
	CORSOrigin string        `env:"WIRESERVE_CORS_ORIGIN" envDefault:"*"`
}

// Load parses Config from the current process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
