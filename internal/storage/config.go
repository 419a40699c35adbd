package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Storage backends selectable in Config.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Duration is a time.Duration that reads and writes as "750ms" in JSON.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"750ms\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Config holds application configuration.
type Config struct {
	Backend            string   `json:"backend"`  // "json", "sqlite", or "" for auto
	DataPath           string   `json:"dataPath"` // "" = ~/.config/linkdeck
	SaveDelay          Duration `json:"saveDelay"`
	SavingFloor        Duration `json:"savingFloor"`
	CullExcludeDomains []string `json:"cullExcludeDomains"`
	ServeAddr          string   `json:"serveAddr"`
	LogPath            string   `json:"logPath"` // "" = <dataPath>/linkdeck.log
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		SaveDelay:          Duration(750 * time.Millisecond),
		SavingFloor:        Duration(300 * time.Millisecond),
		CullExcludeDomains: []string{"github.com", "gitlab.com"},
		ServeAddr:          "127.0.0.1:7777",
	}
}

// LoadConfig reads config from the JSON file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: return defaults even if save fails
			_ = SaveConfig(path, &config)
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.SaveDelay <= 0 {
		config.SaveDelay = defaults.SaveDelay
	}
	if config.SavingFloor <= 0 {
		config.SavingFloor = defaults.SavingFloor
	}
	if config.CullExcludeDomains == nil {
		config.CullExcludeDomains = defaults.CullExcludeDomains
	}
	if config.ServeAddr == "" {
		config.ServeAddr = defaults.ServeAddr
	}

	switch config.Backend {
	case "", BackendJSON, BackendSQLite:
	default:
		return nil, fmt.Errorf("config %s: unknown backend %q", path, config.Backend)
	}

	return &config, nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfigFilePath returns the default config path: ~/.config/linkdeck/config.json
func DefaultConfigFilePath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ResolvedLogPath returns LogPath, or linkdeck.log inside the data directory.
func (c Config) ResolvedLogPath() (string, error) {
	if c.LogPath != "" {
		return c.LogPath, nil
	}
	dir := c.DataPath
	if dir == "" {
		var err error
		if dir, err = DefaultDataDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, "linkdeck.log"), nil
}
