package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/riskcheck/console/internal/flagx"
	"github.com/riskcheck/console/internal/timex"
)

// JsonConfig is the on-disk form of Config, used only while reading the
// file. Absent keys leave the current values alone.
type JsonConfig struct {
	APIURL         string          `json:"api_url"`
	SessionDB      string          `json:"session_db"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	SessionTTL     *timex.Duration `json:"session_ttl"`
	LogFormat      string          `json:"log_format"`
	Debug          *bool           `json:"debug"`
}

// parseJson overlays the file named by -c/-config. No flag means no file.
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

	if c.APIURL != "" {
		config.APIURL = c.APIURL
	}
	if c.SessionDB != "" {
		config.SessionDB = c.SessionDB
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
	if c.Debug != nil {
		config.Debug = *c.Debug
	}
	return nil
}
