// Package config loads the storescout configuration from
// .scout/config.yaml, with environment overrides for the values that
// change between deployments.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all storescout configuration.
type Config struct {
	// Backend search/chat service
	Backend BackendConfig `yaml:"backend"`

	// Third-party geocoding service
	Geocode GeocodeConfig `yaml:"geocode"`

	// Manual address search behavior
	Search SearchConfig `yaml:"search"`

	// Initial map viewport
	Map MapConfig `yaml:"map"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig configures the nearby-store backend.
type BackendConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
}

// GeocodeConfig configures the free-text address lookup.
type GeocodeConfig struct {
	Endpoint     string `yaml:"endpoint"`
	CountryCodes string `yaml:"country_codes"`
	Limit        int    `yaml:"limit"`
}

// SearchConfig configures input-driven searching.
type SearchConfig struct {
	// Debounce window between the last keystroke and the geocode call
	Debounce string `yaml:"debounce"`

	// Queries shorter than this are ignored (no network call)
	MinQueryLength int `yaml:"min_query_length"`
}

// MapConfig configures the initial viewport.
type MapConfig struct {
	CenterLat float64 `yaml:"center_lat"`
	CenterLng float64 `yaml:"center_lng"`
	Zoom      int     `yaml:"zoom"`
}

// LoggingConfig configures the category file loggers.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration. The map defaults
// center on Hanoi, matching the backend's coverage area.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:   "http://localhost:8000",
			UserAgent: "storescout/1.0",
		},
		Geocode: GeocodeConfig{
			Endpoint:     "https://nominatim.openstreetmap.org/search",
			CountryCodes: "vn",
			Limit:        5,
		},
		Search: SearchConfig{
			Debounce:       "500ms",
			MinQueryLength: 2,
		},
		Map: MapConfig{
			CenterLat: 21.0285,
			CenterLng: 105.8542,
			Zoom:      14,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the values the rest of the system depends on.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Geocode.Endpoint == "" {
		return fmt.Errorf("geocode.endpoint is required")
	}
	if c.Geocode.Limit <= 0 {
		return fmt.Errorf("geocode.limit must be positive, got %d", c.Geocode.Limit)
	}
	if _, err := c.DebounceWindow(); err != nil {
		return err
	}
	return nil
}

// DebounceWindow parses the configured debounce duration.
func (c *Config) DebounceWindow() (time.Duration, error) {
	d, err := time.ParseDuration(c.Search.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid search.debounce %q: %w", c.Search.Debounce, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("search.debounce must be positive, got %s", d)
	}
	return d, nil
}

// applyEnvOverrides lets the environment win over the file for the
// values operators commonly rebind.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SCOUT_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("SCOUT_GEOCODE_URL"); v != "" {
		c.Geocode.Endpoint = v
	}
	if v := os.Getenv("SCOUT_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

// DefaultPath returns the conventional config location under the
// working directory.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".scout", "config.yaml")
}
