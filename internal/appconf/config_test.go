package appconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Env)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, DefaultMonitorURL, cfg.Realtime.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Realtime.PollInterval())
	assert.Equal(t, 10*time.Second, cfg.Realtime.RequestTimeout())
	assert.True(t, cfg.Realtime.AutoStart)
	assert.False(t, cfg.MQTT.Enabled())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
env: production
logLevel: warn
server:
  port: 8080
  allowedOrigins: ["https://example.org"]
  apiKeys: [admin]
  rateLimit: 50
static:
  snapshotPath: /srv/wl-data.json
realtime:
  pollIntervalSeconds: 20
  watch: [60200179, 60201040]
mqtt:
  broker: tcp://localhost:1883
  topic: vienna/monitor
  qos: 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Production, cfg.Env)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"https://example.org"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{"admin"}, cfg.Server.APIKeys)
	assert.Equal(t, 50, cfg.Server.RateLimit)
	assert.Equal(t, "/srv/wl-data.json", cfg.Static.SnapshotPath)
	assert.Equal(t, 20*time.Second, cfg.Realtime.PollInterval())
	assert.Equal(t, []int{60200179, 60201040}, cfg.Realtime.Watch)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultMonitorURL, cfg.Realtime.BaseURL)
	assert.True(t, cfg.Realtime.AutoStart)

	assert.True(t, cfg.MQTT.Enabled())
	assert.Equal(t, "vienna/monitor", cfg.MQTT.Topic)
	assert.Equal(t, 1, cfg.MQTT.QoS)
	assert.Equal(t, 5*time.Second, cfg.MQTT.PublishTimeout())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "invalid: yaml: content: [[["},
		{"bad port", "server:\n  port: 70000\n"},
		{"bad env", "env: staging\n"},
		{"bad base url", "realtime:\n  baseURL: not a url\n"},
		{"negative interval", "realtime:\n  pollIntervalSeconds: -5\n"},
		{"negative watch key", "realtime:\n  watch: [-1]\n"},
		{"bad qos", "mqtt:\n  qos: 3\n"},
		{"broker without topic", "mqtt:\n  broker: tcp://localhost:1883\n  topic: \"\"\n"},
		{"bad log level", "logLevel: loud\n"},
		{"negative rate limit", "server:\n  rateLimit: -1\n"},
		{"empty api key", "server:\n  apiKeys: [\"\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestEnvFlagToEnvironment(t *testing.T) {
	assert.Equal(t, Production, EnvFlagToEnvironment("production"))
	assert.Equal(t, Production, EnvFlagToEnvironment("PROD"))
	assert.Equal(t, Test, EnvFlagToEnvironment("test"))
	assert.Equal(t, Development, EnvFlagToEnvironment("development"))
	assert.Equal(t, Development, EnvFlagToEnvironment("anything-else"))
}
