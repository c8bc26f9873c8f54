package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, cfg *Config) string {
	t.Helper()
	b, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestConfigLoading(t *testing.T) {
	t.Run("load from file", func(t *testing.T) {
		configContent := `
environment: test
port: 9999
log_level: debug

metrictank:
  endpoints:
    - "http://test-mt:6060"
  timeout: 5000
  org_id: "42"

victoria_traces:
  endpoints:
    - "http://test-vt:10428"

cache:
  nodes:
    - "test-valkey:6379"
  ttl: 30
`
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(configContent), 0o600))
		t.Setenv("CONFIG_PATH", path)

		config, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test", config.Environment)
		assert.Equal(t, 9999, config.Port)
		assert.Equal(t, "debug", config.LogLevel)
		assert.Equal(t, []string{"http://test-mt:6060"}, config.MetricTank.Endpoints)
		assert.Equal(t, 5000, config.MetricTank.Timeout)
		assert.Equal(t, "42", config.MetricTank.OrgID)
		assert.Equal(t, []string{"http://test-vt:10428"}, config.VictoriaTraces.Endpoints)
		assert.Equal(t, 30, config.Cache.TTL)
		// untouched keys keep defaults
		assert.Equal(t, DefaultRetries, config.MetricTank.Retries)
		assert.Equal(t, DefaultCountTarget, config.Trends.CountTarget)
	})

	t.Run("env var precedence", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", writeConfig(t, GetDefaultConfig()))
		t.Setenv("MIRADOR_ALERTS_PORT", "7777")
		t.Setenv("MIRADOR_ALERTS_LOG_LEVEL", "warn")

		config, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 7777, config.Port)
		assert.Equal(t, "warn", config.LogLevel)
	})

	t.Run("deployment env vars", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", writeConfig(t, GetDefaultConfig()))
		t.Setenv("PORT", "8181")
		t.Setenv("METRICTANK_ENDPOINTS", "http://mt-a:6060, http://mt-b:6060")
		t.Setenv("VT_ENDPOINTS", "http://vt:10428")
		t.Setenv("VALKEY_CACHE_NODES", "v1:6379,v2:6379")
		t.Setenv("CACHE_TTL", "120")

		config, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8181, config.Port)
		assert.Equal(t, []string{"http://mt-a:6060", "http://mt-b:6060"}, config.MetricTank.Endpoints)
		assert.Equal(t, []string{"http://vt:10428"}, config.VictoriaTraces.Endpoints)
		assert.Equal(t, []string{"v1:6379", "v2:6379"}, config.Cache.Nodes)
		assert.Equal(t, 120, config.Cache.TTL)
	})

	t.Run("unreadable file fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: [not, an, int"), 0o600))

		_, err := LoadFrom(path)
		assert.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.LogLevel = "chatty"

		_, err := LoadFrom(writeConfig(t, cfg))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Empty(t, splitList(""))
}
