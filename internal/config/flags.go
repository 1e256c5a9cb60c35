package config

import (
	"flag"
	"os"
	"time"

	"github.com/amelnik/enhancer/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend server (default from Config)
//	-t int      request timeout in seconds (default from Config)
//
// Arguments are filtered to the flags handled here, so the -c/-config flag
// consumed by the JSON stage does not trip this parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the backend server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
