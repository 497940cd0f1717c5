package config

import (
	"fmt"
	"time"
)

const (
	ModeSimulated = "simulated"
	ModeLive      = "live"

	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
)

// Config holds runtime settings for the AuthKeeper CLI.
type Config struct {
	// ServerEndpointAddr is the base URL of the auth server.
	ServerEndpointAddr string
	// Mode selects the identity backend once at startup: ModeSimulated or ModeLive.
	Mode string
	// StoreBackend selects the local session store: StoreSQLite or StoreBolt.
	StoreBackend string
	// StoreDir is the directory holding the session store file.
	StoreDir string
	// RequestTimeout bounds every HTTP request to the server.
	RequestTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.Mode = ModeSimulated
	c.StoreBackend = StoreSQLite
	c.StoreDir = ".authkeeper"
	c.RequestTimeout = 10 * time.Second
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeSimulated, ModeLive:
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", c.Mode, ModeSimulated, ModeLive)
	}
	switch c.StoreBackend {
	case StoreSQLite, StoreBolt:
	default:
		return fmt.Errorf("unknown store backend %q (want %s or %s)", c.StoreBackend, StoreSQLite, StoreBolt)
	}
	if c.StoreDir == "" {
		return fmt.Errorf("store dir must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// LoadConfig applies defaults, then the JSON file named by -c/-config (if
// any), then the remaining flags. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
