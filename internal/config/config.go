package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the client configuration
type Config struct {
	API      APIConfig      `yaml:"api"`
	Session  SessionConfig  `yaml:"session"`
	Location LocationConfig `yaml:"location"`
	Map      MapConfig      `yaml:"map"`
	Display  DisplayConfig  `yaml:"display"`
}

// APIConfig holds settings for the remote game-matching API
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig holds settings for the persisted session store
type SessionConfig struct {
	Path string `yaml:"path"`
}

// LocationConfig holds geolocation settings. The default coordinate is used
// whenever the device location is unavailable or denied.
type LocationConfig struct {
	DefaultLat    float64       `yaml:"default_lat"`
	DefaultLng    float64       `yaml:"default_lng"`
	RadiusKm      float64       `yaml:"radius_km"`
	SampleTimeout time.Duration `yaml:"sample_timeout"`
	WatchInterval time.Duration `yaml:"watch_interval"`
}

// MapConfig holds map adapter settings
type MapConfig struct {
	ReadyPollInterval time.Duration `yaml:"ready_poll_interval"`
	ReadyTimeout      time.Duration `yaml:"ready_timeout"`
}

// DisplayConfig holds presentation settings
type DisplayConfig struct {
	// Timezone is the fixed display timezone for rendered timestamps,
	// regardless of the viewer's local zone.
	Timezone string `yaml:"timezone"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8080/api"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 10 * time.Second
	}

	// Session defaults
	if c.Session.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.Session.Path = filepath.Join(home, ".hoopmatch", "session.json")
	}

	// Location defaults (Seoul city hall)
	if c.Location.DefaultLat == 0 {
		c.Location.DefaultLat = 37.5665
	}
	if c.Location.DefaultLng == 0 {
		c.Location.DefaultLng = 126.978
	}
	if c.Location.RadiusKm == 0 {
		c.Location.RadiusKm = 5
	}
	if c.Location.SampleTimeout == 0 {
		c.Location.SampleTimeout = 5 * time.Second
	}
	if c.Location.WatchInterval == 0 {
		c.Location.WatchInterval = 10 * time.Second
	}

	// Map defaults
	if c.Map.ReadyPollInterval == 0 {
		c.Map.ReadyPollInterval = 100 * time.Millisecond
	}
	if c.Map.ReadyTimeout == 0 {
		c.Map.ReadyTimeout = 10 * time.Second
	}

	// Display defaults
	if c.Display.Timezone == "" {
		c.Display.Timezone = "Asia/Seoul"
	}
}

// DefaultConfig returns a configuration with all defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
