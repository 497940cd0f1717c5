package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

// parseFlags reads:
//
//	-a string   HTTP listen address
//	-d string   PostgreSQL DSN
//	-s string   JWT secret key
//	-t int      access token validity (minutes)
//	-r int      refresh token validity (minutes)
//	-pt int     token resolution timeout (seconds)
//	-u, -p, -b, -g, -e   S3 user, password, bucket, region, endpoint
//
// Duration flags override the current value only when given.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-r", "-pt", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.EndpointAddrHTTP, "a", cfg.EndpointAddrHTTP, "address and port to listen on")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	access := fs.Int("t", int(cfg.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refresh := fs.Int("r", int(cfg.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")
	provider := fs.Int("pt", int(cfg.ProviderTimeout.Seconds()), "token resolution timeout (in seconds)")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 access key")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 secret key")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 avatar bucket, empty to disable")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.AccessTokenValidityDuration = time.Duration(*access) * time.Minute
		case "r":
			cfg.RefreshTokenValidityDuration = time.Duration(*refresh) * time.Minute
		case "pt":
			cfg.ProviderTimeout = time.Duration(*provider) * time.Second
		}
	})
	return nil
}
