package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

type jsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	ProviderTimeout              timex.Duration `json:"provider_timeout"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     *string        `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJSON overlays cfg with the fields present in the file named by
// -c/-config. s3_bucket may be set to "" explicitly to turn avatars off.
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

	setString(&cfg.EndpointAddrHTTP, jc.EndpointAddrHTTP)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.SecretKey, jc.SecretKey)
	setString(&cfg.S3RootUser, jc.S3RootUser)
	setString(&cfg.S3RootPassword, jc.S3RootPassword)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	if jc.S3Bucket != nil {
		cfg.S3Bucket = *jc.S3Bucket
	}
	if d := jc.AccessTokenValidityDuration.Duration; d != 0 {
		cfg.AccessTokenValidityDuration = d
	}
	if d := jc.RefreshTokenValidityDuration.Duration; d != 0 {
		cfg.RefreshTokenValidityDuration = d
	}
	if d := jc.ProviderTimeout.Duration; d != 0 {
		cfg.ProviderTimeout = d
	}
	return nil
}
