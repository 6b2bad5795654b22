package config

import (
	"flag"
	"io"
	"time"

	"github.com/riskcheck/console/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   listen address (e.g., ":3000")
//	-u string   upstream frontend URL
//	-t int      session TTL, hours
//	-s bool     secure session cookie
//	-l string   log format: text, json or zerolog
//
// Only the flags handled here are parsed; -c is consumed by parseJson.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-u", "-t", "-s", "-l"})

	fs := flag.NewFlagSet("gateway", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to listen on")
	fs.StringVar(&config.UpstreamURL, "u", config.UpstreamURL, "upstream frontend URL")
	ttl := fs.Int("t", int(config.SessionTTL.Hours()), "session TTL (in hours)")
	fs.BoolVar(&config.SecureCookie, "s", config.SecureCookie, "mark the session cookie Secure")
	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.SessionTTL = time.Duration(*ttl) * time.Hour
	return nil
}
