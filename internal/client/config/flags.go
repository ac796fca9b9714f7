package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/fragments-ui/internal/flagx"
)

// parseFlags overlays cfg with the command-line flags this package owns.
// Other arguments (for example -c) are filtered out first.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-t", "-p", "-l"})

	fs := flag.NewFlagSet("fragments", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "fragments service base URL")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds, 0 disables)")
	fs.StringVar(&cfg.AuthProvider, "p", cfg.AuthProvider, "identity provider: cognito or basic")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
