package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

type jsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	Mode               string         `json:"mode"`
	StoreBackend       string         `json:"store_backend"`
	StoreDir           string         `json:"store_dir"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
}

// parseJSON overlays cfg with the fields present in the JSON file named by
// -c/-config. Absent fields keep their current value.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.Mode != "" {
		cfg.Mode = jc.Mode
	}
	if jc.StoreBackend != "" {
		cfg.StoreBackend = jc.StoreBackend
	}
	if jc.StoreDir != "" {
		cfg.StoreDir = jc.StoreDir
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
