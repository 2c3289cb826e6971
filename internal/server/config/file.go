package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations accept
// "1m" style strings or integer nanoseconds.
type FileConfig struct {
	SecretKey        string         `json:"secret_key" yaml:"secret_key"`
	UserTable        string         `json:"user_table" yaml:"user_table"`
	UsernameField    string         `json:"username_field" yaml:"username_field"`
	PasswordField    string         `json:"password_field" yaml:"password_field"`
	PasswordCost     int            `json:"password_cost" yaml:"password_cost"`
	PasswordMemory   int            `json:"password_memory" yaml:"password_memory"`
	SessionKeyName   string         `json:"session_key_name" yaml:"session_key_name"`
	DatabaseDriver   string         `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN      string         `json:"database_dsn" yaml:"database_dsn"`
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	MetricsAddr      *string        `json:"metrics_addr" yaml:"metrics_addr"`
	CacheTTL         timex.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	SessionLifetime  timex.Duration `json:"session_lifetime" yaml:"session_lifetime"`
}

func configFilePath(args []string) string {
	return flagx.ConfigFileFlag(args)
}

// parseFile overlays the values set in the file at path onto config.
// Fields missing from the file keep their current value. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON.
func parseFile(config *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.SecretKey, fc.SecretKey)
	setString(&c.UserTable, fc.UserTable)
	setString(&c.UsernameField, fc.UsernameField)
	setString(&c.PasswordField, fc.PasswordField)
	setString(&c.SessionKeyName, fc.SessionKeyName)
	setString(&c.DatabaseDriver, fc.DatabaseDriver)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.EndpointAddrGRPC, fc.EndpointAddrGRPC)

	if fc.PasswordCost > 0 {
		c.PasswordCost = fc.PasswordCost
	}
	if fc.PasswordMemory > 0 {
		c.PasswordMemory = fc.PasswordMemory
	}
	// an explicit empty metrics_addr disables the endpoint
	if fc.MetricsAddr != nil {
		c.MetricsAddr = *fc.MetricsAddr
	}
	if fc.CacheTTL.Duration > 0 {
		c.CacheTTL = fc.CacheTTL.Duration
	}
	if fc.SessionLifetime.Duration > 0 {
		c.SessionLifetime = fc.SessionLifetime.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
