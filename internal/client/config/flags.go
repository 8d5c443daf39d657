package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend API
//	-i int      online check interval in seconds
//	-p int      files per roster page
//	-l string   log level
//
// args are filtered to the flags handled here, so flags meant for other
// components do not cause parse errors.
func parseFlags(cfg *Config, args []string) error {
	filtered := filterArgs(args, []string{"-a", "-i", "-p", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the backend API")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "files per roster page")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
