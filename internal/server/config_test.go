package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "klondike.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), config)
	assert.NoError(t, config.Validate())
}

func TestLoadConfigFromHCL(t *testing.T) {
	path := writeConfig(t, `
server {
  address = ":9090"
  metrics = true
}

games {
  max_games = 10
  seed      = 7
}
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, ":9090", config.Server.Address)
	assert.True(t, config.Server.Metrics)
	assert.Equal(t, "info", config.Server.LogLevel, "unset attributes keep their defaults")
	assert.Equal(t, 10, config.Games.MaxGames)
	assert.Equal(t, 128, config.Games.WatchBuffer)
	require.NotNil(t, config.Games.Seed)
	assert.Equal(t, int64(7), *config.Games.Seed)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server {
  address   = ":9090"
  log_level = "warn"
}
`)
	t.Setenv("KLONDIKE_ADDRESS", "127.0.0.1:7000")
	t.Setenv("KLONDIKE_WATCH_BUFFER", "16")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", config.Server.Address)
	assert.Equal(t, "warn", config.Server.LogLevel)
	assert.Equal(t, 16, config.Games.WatchBuffer)
	assert.Nil(t, config.Games.Seed)
}

func TestLoadConfigBadEnv(t *testing.T) {
	t.Setenv("KLONDIKE_MAX_GAMES", "lots")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestLoadConfigBadHCL(t *testing.T) {
	path := writeConfig(t, `server { address = `)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")

	path = writeConfig(t, `server { port = 8080 }`)
	_, err = LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode HCL")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty address", func(c *Config) { c.Server.Address = "" }, "Address"},
		{"address without port", func(c *Config) { c.Server.Address = "localhost" }, "Address"},
		{"bad port", func(c *Config) { c.Server.Address = ":99999" }, "Address"},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "loud" }, "LogLevel"},
		{"zero watch buffer", func(c *Config) { c.Games.WatchBuffer = 0 }, "WatchBuffer"},
		{"negative max games", func(c *Config) { c.Games.MaxGames = -1 }, "MaxGames"},
		{"missing block", func(c *Config) { c.Games = nil }, "games"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestRegistryOptions(t *testing.T) {
	config := DefaultConfig()
	config.Games.MaxGames = 1

	registry := newTestRegistry(config.RegistryOptions()...)
	_, _, err := registry.Create()
	require.NoError(t, err)
	_, _, err = registry.Create()
	assert.Error(t, err)
}
