package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/riskcheck/console/internal/flagx"
	"github.com/riskcheck/console/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "10s" or
// integer nanoseconds.
type JsonConfig struct {
	ListenAddr      string          `json:"listen_addr"`
	UpstreamURL     string          `json:"upstream_url"`
	SessionTTL      *timex.Duration `json:"session_ttl"`
	SecureCookie    *bool           `json:"secure_cookie"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
	LogFormat       string          `json:"log_format"`
}

// parseJson overlays the file named by -c/-config, if any. Only keys present
// in the file override the current values.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.ListenAddr != "" {
		config.ListenAddr = c.ListenAddr
	}
	if c.UpstreamURL != "" {
		config.UpstreamURL = c.UpstreamURL
	}
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.SecureCookie != nil {
		config.SecureCookie = *c.SecureCookie
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
	return nil
}
