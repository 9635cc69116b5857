package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// AppConfig represents the complete file-based configuration. Connection
// settings stay in the environment; this file tunes behavior.
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Jobs   JobsConfig   `toml:"jobs"`
	Cache  CacheConfig  `toml:"cache"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int `toml:"port"`
	ReadTimeout  int `toml:"read_timeout_seconds"`
	WriteTimeout int `toml:"write_timeout_seconds"`
}

// JobsConfig contains background job intervals
type JobsConfig struct {
	OverdueCheckMinutes int `toml:"overdue_check_minutes"`
	CacheWarmMinutes    int `toml:"cache_warm_minutes"`
}

// CacheConfig contains cache TTL settings
type CacheConfig struct {
	EntityTTLMinutes int `toml:"entity_ttl_minutes"`
}

// LoadConfig loads configuration from a TOML file
func LoadConfig(filename string) (*AppConfig, error) {
	config := Default()
	if _, err := toml.DecodeFile(filename, config); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return config, nil
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Jobs: JobsConfig{
			OverdueCheckMinutes: 60,
			CacheWarmMinutes:    30,
		},
		Cache: CacheConfig{
			EntityTTLMinutes: 10,
		},
	}
}
