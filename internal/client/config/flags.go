package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-m", "-s", "-d", "-t"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "server base URL")
	fs.StringVar(&cfg.Mode, "m", cfg.Mode, "identity backend: simulated or live")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "session store: sqlite or bolt")
	fs.StringVar(&cfg.StoreDir, "d", cfg.StoreDir, "session store directory")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// only an explicit -t overrides, so sub-second JSON values survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
