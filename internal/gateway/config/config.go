// Package config handles configuration for the gateway,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the console gateway.
//
// Fields:
//   - ListenAddr: bind address for the HTTP listener.
//   - UpstreamURL: the frontend server every gated request is proxied to.
//   - SessionTTL: session cookie lifetime for tokens without an exp claim.
//   - SecureCookie: mark the session cookie Secure (enable behind TLS).
//   - ShutdownTimeout: how long in-flight requests get on SIGINT/SIGTERM.
//   - LogFormat: text, json or zerolog.
type Config struct {
	ListenAddr      string
	UpstreamURL     string
	SessionTTL      time.Duration
	SecureCookie    bool
	ShutdownTimeout time.Duration
	LogFormat       string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":3000"
	c.UpstreamURL = "http://localhost:3001"
	c.SessionTTL = 24 * time.Hour
	c.SecureCookie = false
	c.ShutdownTimeout = 10 * time.Second
	c.LogFormat = "json"
}

// Load builds a Config by applying defaults, then overlaying values from an
// optional JSON file, the environment and finally command-line flags.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg, getenv)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.Getenv)
}
