// Package config loads runtime configuration for the AuthKeeper CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults ((*Config).LoadDefaults).
//  2. An optional JSON file given with -c or -config.
//  3. Command-line flags.
//
// Flags:
//
//	-a string   server base URL
//	-m string   identity backend: simulated or live
//	-s string   session store: sqlite or bolt
//	-d string   session store directory
//	-t int      request timeout (seconds)
//
// JSON file (durations as "10s" or integer nanoseconds):
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:8080",
//	  "mode": "live",
//	  "store_backend": "bolt",
//	  "store_dir": "/home/me/.authkeeper",
//	  "request_timeout": "10s"
//	}
//
// Environment variables are not read.
package config
