package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/hmpi/internal/flagx"
)

var knownFlags = []string{"-a", "-r", "-d", "-o", "-t", "-i", "-l"}

// parseFlags overlays cfg with command-line flags:
//
//	-a string   backend base URL
//	-r string   report base URL
//	-d string   local database path
//	-o string   download directory
//	-t int      request timeout (seconds)
//	-i int      balance reconcile interval (seconds, 0 disables)
//	-l string   log level
//
// Arguments it does not know, such as -c, are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("hmpi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BackendURL, "a", cfg.BackendURL, "backend base URL")
	fs.StringVar(&cfg.ReportBaseURL, "r", cfg.ReportBaseURL, "report base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "download directory")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.ReconcileInterval.Seconds()), "reconcile interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	// Whole-second flags would truncate finer JSON durations, so they only
	// apply when given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "i":
			cfg.ReconcileInterval = time.Duration(*interval) * time.Second
		}
	})
	return nil
}
