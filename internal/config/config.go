// Package config provides configuration management for sociogram.
//
// The config file carries identity and endpoints; durable graph state
// lives in the local database and can be wiped independently.
//
// Config file locations (priority order):
//  1. $SOCIOGRAM_CONFIG
//  2. ./sociogram.yaml
//  3. ~/.config/sociogram/config.yaml
//  4. /etc/sociogram/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration
type Config struct {
	// Viewer is the user id this client acts as
	Viewer ViewerConfig `yaml:"viewer"`

	Relay    RelayConfig    `yaml:"relay"`
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Seed     SeedConfig     `yaml:"seed"`
	Layout   LayoutConfig   `yaml:"layout"`
}

// ViewerConfig identifies the local user
type ViewerConfig struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label,omitempty"`
	Role  string `yaml:"role,omitempty"`
}

// RelayConfig points at the real-time relay
type RelayConfig struct {
	URL string `yaml:"url"`
}

// APIConfig points at the persistence service
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	// GeocoderURL overrides the public Nominatim endpoint
	GeocoderURL string `yaml:"geocoder_url,omitempty"`
}

// DatabaseConfig locates the local mirror database
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SeedConfig locates the bootstrap seed file. Watch enables live
// reload when the file changes.
type SeedConfig struct {
	Path  string `yaml:"path,omitempty"`
	Watch bool   `yaml:"watch,omitempty"`
}

// LayoutConfig tunes the relaxation simulation
type LayoutConfig struct {
	Repulsion  float64 `yaml:"repulsion,omitempty"`
	Spring     float64 `yaml:"spring,omitempty"`
	TargetDist float64 `yaml:"target_dist,omitempty"`
	Radius     float64 `yaml:"radius,omitempty"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Relay.URL == "" {
		c.Relay.URL = "ws://localhost:8080/ws"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:4000/api"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./sociogram.db"
	}
}
