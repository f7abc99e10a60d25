package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"runcoach/internal/analysis"
)

// Config represents the application configuration
type Config struct {
	Sensor SensorConfig `json:"sensor"`
	Coach  CoachConfig  `json:"coach"`
	Zones  ZonesConfig  `json:"zones"`
}

// SensorConfig holds sensor platform API credentials
type SensorConfig struct {
	BaseURL      string `json:"base_url"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// CoachConfig holds the coach backend location
type CoachConfig struct {
	BaseURL string `json:"base_url"`
}

// ZonesConfig holds the heart rate zone boundaries in bpm.
// Each field is the upper bound of that zone; zone 5 is open-ended.
type ZonesConfig struct {
	Z1Upper float64 `json:"z1_upper"`
	Z2Upper float64 `json:"z2_upper"`
	Z3Upper float64 `json:"z3_upper"`
	Z4Upper float64 `json:"z4_upper"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	z := analysis.DefaultZoneThresholds()
	return Config{
		Coach: CoachConfig{
			BaseURL: "http://localhost:8000",
		},
		Zones: ZonesConfig{
			Z1Upper: z.Z1Upper,
			Z2Upper: z.Z2Upper,
			Z3Upper: z.Z3Upper,
			Z4Upper: z.Z4Upper,
		},
	}
}

// Thresholds converts the configured zone boundaries for the analysis layer
func (c *Config) Thresholds() analysis.ZoneThresholds {
	return analysis.ZoneThresholds{
		Z1Upper: c.Zones.Z1Upper,
		Z2Upper: c.Zones.Z2Upper,
		Z3Upper: c.Zones.Z3Upper,
		Z4Upper: c.Zones.Z4Upper,
	}
}

// Load reads the configuration from ~/.runcoach/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Coach.BaseURL == "" {
		cfg.Coach.BaseURL = defaults.Coach.BaseURL
	}
	if cfg.Zones.Z1Upper == 0 {
		cfg.Zones = defaults.Zones
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.runcoach/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Never overwrite an existing config
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	example := DefaultConfig()
	example.Sensor = SensorConfig{
		BaseURL:      "https://api.example-sensors.com",
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Sensor.BaseURL == "" {
		return errors.New("sensor.base_url is required")
	}
	if c.Sensor.ClientID == "" || c.Sensor.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("sensor.client_id is required - get it from your sensor platform's developer settings")
	}
	if c.Sensor.ClientSecret == "" || c.Sensor.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("sensor.client_secret is required - get it from your sensor platform's developer settings")
	}

	if !c.Thresholds().Valid() {
		return fmt.Errorf("zones must be strictly increasing, got %v < %v < %v < %v",
			c.Zones.Z1Upper, c.Zones.Z2Upper, c.Zones.Z3Upper, c.Zones.Z4Upper)
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".runcoach", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".runcoach"), nil
}
