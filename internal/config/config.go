// Package config holds service-level configuration resolved from the
// environment. LLM provider settings live in the llm package; this wraps
// them together with the HTTP and storage settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/smilepat/csat-connectedu-company/internal/llm"
)

// Config is the full service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// DBPath is the SQLite database path. Empty means the default XDG path.
	DBPath string

	// MaxAttempts bounds generation retries per request.
	MaxAttempts int

	// ClassifyTimeout bounds the model classifier call during routing.
	ClassifyTimeout time.Duration

	// Heartbeat is the interval between streaming heartbeat events.
	Heartbeat time.Duration

	// LLM holds provider selection and credentials.
	LLM llm.Config
}

// Default returns the configuration used when no environment overrides are set.
func Default() Config {
	return Config{
		Addr:            ":8080",
		MaxAttempts:     3,
		ClassifyTimeout: 10 * time.Second,
		Heartbeat:       8 * time.Second,
		LLM:             llm.DefaultConfig(),
	}
}

// FromEnv builds a Config from environment variables, falling back to defaults.
//
//	CSAT_ADDR              HTTP listen address
//	CSAT_DB                SQLite database path
//	CSAT_MAX_ATTEMPTS      generation attempts per request
//	CSAT_CLASSIFY_TIMEOUT  classifier call timeout (e.g. "10s")
//	CSAT_HEARTBEAT         streaming heartbeat interval (e.g. "8s")
//
// plus the CSAT_LLM_* and provider key variables read by llm.ConfigFromEnv.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("CSAT_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("CSAT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CSAT_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid CSAT_MAX_ATTEMPTS %q", v)
		}
		cfg.MaxAttempts = n
	}
	if v := os.Getenv("CSAT_CLASSIFY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid CSAT_CLASSIFY_TIMEOUT %q", v)
		}
		cfg.ClassifyTimeout = d
	}
	if v := os.Getenv("CSAT_HEARTBEAT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid CSAT_HEARTBEAT %q", v)
		}
		cfg.Heartbeat = d
	}

	cfg.LLM = llm.ConfigFromEnv()

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address required")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1")
	}
	return c.LLM.Validate()
}
