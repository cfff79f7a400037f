package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvAPIBaseURL, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvConfigFile, "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9000", cfg.APIBaseURL)
	require.NotEmpty(t, cfg.DataDir)
	require.Equal(t, filepath.Join(cfg.DataDir, "vidgen.db"), cfg.DatabasePath())
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	t.Setenv(EnvAPIBaseURL, "https://api.example.com")
	t.Setenv(EnvDataDir, "/tmp/vidgen-test")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	require.Equal(t, "/tmp/vidgen-test", cfg.DataDir)
}

func TestLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	err := os.WriteFile(path, []byte(`{"api_base_url":"http://json:9000","data_dir":"/json/dir"}`), 0o600)
	require.NoError(t, err)

	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvAPIBaseURL, "")
	t.Setenv(EnvDataDir, "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://json:9000", cfg.APIBaseURL)
	require.Equal(t, "/json/dir", cfg.DataDir)
}

func TestLoadEnvWinsOverJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	err := os.WriteFile(path, []byte(`{"api_base_url":"http://json:9000"}`), 0o600)
	require.NoError(t, err)

	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvAPIBaseURL, "http://env:9000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://env:9000", cfg.APIBaseURL)
}

func TestLoadBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	err := os.WriteFile(path, []byte(`{not json`), 0o600)
	require.NoError(t, err)

	t.Setenv(EnvConfigFile, path)

	_, err = Load()
	require.Error(t, err)
}
