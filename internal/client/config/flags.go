package config

import (
	"flag"
	"io"
	"time"

	"github.com/riskcheck/console/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend API base URL (default from Config)
//	-d string   session database path
//	-t int      request timeout in seconds (default from Config)
//	-l string   log format
//	-v          debug logging
//
// Arguments are first filtered with flagx.FilterArgs so the REPL's own
// arguments never reach this flag set.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-l", "-v"})

	fs := flag.NewFlagSet("riskcheck", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.APIURL, "a", config.APIURL, "backend API base URL")
	fs.StringVar(&config.SessionDB, "d", config.SessionDB, "session database path")
	timeout := fs.Int("t", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format: text, json or zerolog")
	fs.BoolVar(&config.Debug, "v", config.Debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
