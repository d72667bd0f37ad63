package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/avatarlab/morphctl/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetArgs(t *testing.T, args ...string) {
	t.Helper()
	oldArgs := os.Args
	os.Args = append([]string{"morphctl"}, args...)
	t.Cleanup(func() { os.Args = oldArgs })
}

func TestLoad(t *testing.T) {
	resetArgs(t)

	tempDir := t.TempDir()
	configContent := []byte(`
interval = 10
debounce_ms = 75
renderer_url = "ws://renderer.local:9030/session"
database = "/path/to/avatars.db"
avatar = "b4f5c1f2-0000-0000-0000-000000000000"
monitor = true
verbose = true
`)
	configPath := filepath.Join(tempDir, "morphctl.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("MORPHCTL_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Interval, "Expected Interval 10")
	assert.Equal(t, 75, cfg.DebounceMS, "Expected DebounceMS 75")
	assert.Equal(t, "ws://renderer.local:9030/session", cfg.RendererURL)
	assert.Equal(t, "/path/to/avatars.db", cfg.Database)
	assert.Equal(t, "b4f5c1f2-0000-0000-0000-000000000000", cfg.Avatar)
	assert.True(t, cfg.Monitor, "Expected Monitor true")
	assert.True(t, cfg.Verbose, "Expected Verbose true")
	assert.False(t, cfg.Debug, "Expected Debug false")
}

func TestLoadDefaults(t *testing.T) {
	resetArgs(t)
	t.Setenv("MORPHCTL_CONFIG", "")

	// Run from an empty directory so no stray morphctl.toml is picked up.
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultInterval, cfg.Interval)
	assert.Equal(t, config.DefaultDebounceMS, cfg.DebounceMS)
	assert.Equal(t, config.DefaultRendererURL, cfg.RendererURL)
	assert.Equal(t, config.DefaultDBPath, cfg.Database)
	assert.False(t, cfg.Monitor, "Expected default Monitor false")
	assert.False(t, cfg.Debug, "Expected default Debug false")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	resetArgs(t)

	tempDir := t.TempDir()
	configContent := []byte(`
This is not a valid TOML file
`)
	configPath := filepath.Join(tempDir, "morphctl.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("MORPHCTL_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	resetArgs(t, "--debounce", "120", "--monitor")

	tempDir := t.TempDir()
	configContent := []byte(`
debounce_ms = 75
`)
	configPath := filepath.Join(tempDir, "morphctl.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("MORPHCTL_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.DebounceMS, "Expected flag to override config file")
	assert.True(t, cfg.Monitor)
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{
		Interval:    0,
		DebounceMS:  50,
		RendererURL: config.DefaultRendererURL,
		Database:    config.DefaultDBPath,
	}
	require.Error(t, cfg.Validate())

	cfg.Interval = 5
	require.NoError(t, cfg.Validate())

	cfg.RendererURL = ""
	require.Error(t, cfg.Validate())
}
