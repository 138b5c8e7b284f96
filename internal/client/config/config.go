package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the console.
//
// Fields:
//   - ServerBaseURL: base URL every API path is appended to.
//   - RequestTimeout: fixed per-call deadline enforced by the HTTP client.
//   - StateDSN: SQLite DSN of the session database (":memory:" keeps nothing).
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL  string        `env:"BLADMIN_SERVER_URL"`
	RequestTimeout time.Duration `env:"BLADMIN_REQUEST_TIMEOUT"`
	StateDSN       string        `env:"BLADMIN_STATE_DSN"`
	LogLevel       string        `env:"BLADMIN_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000/api/v1"
	c.RequestTimeout = 10 * time.Second
	c.StateDSN = "bladmin.db"
	c.LogLevel = "warn"
}

// LoadConfig builds a Config from defaults, then overlays the JSON file named
// by -c/-config, environment variables and finally command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request timeout must be positive, got %s", cfg.RequestTimeout)
	}
	return cfg, nil
}
