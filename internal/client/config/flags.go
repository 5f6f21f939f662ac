package config

import (
	"flag"
	"os"
	"time"

	"github.com/synapsespace/synapsectl/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   base URL of the backend API (default from Config)
//	-t int      request timeout in seconds (default from Config)
//	-d string   path of the local metadata cache
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-t", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "s", cfg.ServerBaseURL, "base URL of the backend API")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.CachePath, "d", cfg.CachePath, "path of the local metadata cache")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
