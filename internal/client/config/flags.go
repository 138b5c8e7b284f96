package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/bladmin/internal/flagx"
)

// parseFlags populates cfg from command-line flags.
//
//	-a string     API base URL
//	-t duration   per-request deadline, e.g. 10s
//	-d string     session database DSN
//	-l string     log level
//
// Only these flags are looked at; anything else in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-a", "-t", "-d", "-l"})

	fs := flag.NewFlagSet("bladmin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "API base URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request deadline")
	fs.StringVar(&cfg.StateDSN, "d", cfg.StateDSN, "session database DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	return fs.Parse(filtered)
}
