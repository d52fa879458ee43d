package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfigFile(t, "server:\n  env: test\n"))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.True(t, cfg.Routing.Enabled)
	assert.Equal(t, 3, cfg.Routing.MaxFallbacks)
	assert.Equal(t, "config/models.csv", cfg.Routing.CatalogPath)
	assert.NotEmpty(t, cfg.Routing.SafeDefaultModel)
	assert.Equal(t, 256, cfg.Routing.DecisionBuffer)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "strata.db", cfg.Database.Path)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfigFile(t, "server:\n  env: test\n"))
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ROUTING_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Routing.Enabled)
}

func TestLoadConfig_FileValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfigFile(t, `
server:
  port: "7070"
routing:
  max_fallbacks: 5
  excluded_tools: [listmodels, version]
  safe_default_model: tiny-local
rate_limit:
  requests_per_second: 50
  burst: 100
`))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Routing.MaxFallbacks)
	assert.Equal(t, []string{"listmodels", "version"}, cfg.Routing.ExcludedTools)
	assert.Equal(t, "tiny-local", cfg.Routing.SafeDefaultModel)
	assert.Equal(t, 50.0, cfg.RateLimit.RequestsPerSecond)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative fallbacks", "routing:\n  max_fallbacks: -1\n"},
		{"auth without keys", "server:\n  auth_enabled: true\n"},
		{"empty safe default", "routing:\n  safe_default_model: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", writeConfigFile(t, tt.content))
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
