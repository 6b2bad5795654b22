package config

import (
	"os"
	"time"

	"github.com/riskcheck/console/internal/common"
)

// Config holds runtime settings for the RiskCheck CLI.
//
// Fields:
//   - APIURL: backend base URL, including the /api/v1 prefix.
//   - SessionDB: path of the local SQLite session database; empty means the
//     per-user data directory.
//   - RequestTimeout: transport timeout for every backend call.
//   - SessionTTL: session lifetime for tokens without an exp claim.
//   - LogFormat: text, json or zerolog.
//   - Debug: log at debug level.
type Config struct {
	APIURL         string
	SessionDB      string
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	LogFormat      string
	Debug          bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = common.DefaultAPIURL
	c.SessionDB = ""
	c.RequestTimeout = 30 * time.Second
	c.SessionTTL = 24 * time.Hour
	c.LogFormat = "text"
	c.Debug = false
}

// Load constructs a Config, applies defaults, then overlays values from JSON
// (if present), the environment and command-line flags. Later sources take
// precedence over earlier ones.
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
