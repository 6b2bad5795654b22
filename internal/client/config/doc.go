// Package config loads runtime configuration for the RiskCheck CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment: RISKCHECK_API_URL, RISKCHECK_SESSION_DB.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend API base URL
//	-d string   session database path
//	-t int      request timeout (seconds)
//	-l string   log format: text, json or zerolog
//	-v          debug logging
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "30s"
// or integer nanoseconds:
//
//	{
//	  "api_url": "https://api.riskcheck.example/api/v1",
//	  "session_db": "/home/me/.config/riskcheck/session.db",
//	  "request_timeout": "30s",
//	  "session_ttl": "24h",
//	  "log_format": "text"
//	}
package config
