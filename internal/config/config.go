// Package config holds runtime settings for the vidgen CLI.
//
// Values are resolved in layers, later sources winning:
//
//	defaults -> JSON config file (path from VIDGEN_CONFIG) -> environment
//
// Command-line flags are applied on top by the cli package.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Environment variable names recognised by Load.
const (
	EnvAPIBaseURL = "VIDGEN_API_URL"
	EnvDataDir    = "VIDGEN_DATA_DIR"
	EnvConfigFile = "VIDGEN_CONFIG"
)

// Config holds runtime settings for the client.
//
// Fields:
//   - APIBaseURL: base endpoint of the backend HTTP API.
//   - DataDir: directory for local client state (session database).
type Config struct {
	APIBaseURL string `json:"api_base_url"`
	DataDir    string `json:"data_dir"`
}

// DatabasePath returns the location of the local state database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "vidgen.db")
}

func defaults() Config {
	dataDir := ".vidgen"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".vidgen")
	}
	return Config{
		APIBaseURL: "http://localhost:9000",
		DataDir:    dataDir,
	}
}

// Load constructs a Config by applying defaults, then overlaying the JSON
// config file (if VIDGEN_CONFIG is set), then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := applyJSON(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)

	return cfg, nil
}

func applyJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc Config
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
}
