//nolint:testpackage // Testing internal config requires same package access
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "moderation", cfg.Service.Name)
	assert.Equal(t, 8080, cfg.Service.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "content_moderation", cfg.Database.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.URL)
	assert.Equal(t, "moderation.classified", cfg.Redis.EventChannel)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "http://toxicity-scorer:8090", cfg.Scorer.URL)
	assert.Equal(t, 5*time.Second, cfg.Scorer.Timeout)
	assert.InDelta(t, 0.8, cfg.Thresholds.ToxicityHigh, 0.0001)
	assert.InDelta(t, 0.6, cfg.Thresholds.ToxicityMedium, 0.0001)
	assert.InDelta(t, 0.7, cfg.Thresholds.SpamHigh, 0.0001)
	assert.InDelta(t, 0.5, cfg.Thresholds.SpamMedium, 0.0001)
	assert.InDelta(t, 0.6, cfg.Thresholds.ConfidenceLow, 0.0001)
	assert.Equal(t, 2, cfg.Publisher.Workers)
	assert.Equal(t, 256, cfg.Publisher.QueueSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
service:
  name: moderation-staging
  port: 9090
database:
  host: db.internal
  password: hunter2
thresholds:
  toxicity_high: 0.9
scorer:
  timeout: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "moderation-staging", cfg.Service.Name)
	assert.Equal(t, 9090, cfg.Service.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.InDelta(t, 0.9, cfg.Thresholds.ToxicityHigh, 0.0001)
	assert.Equal(t, 2*time.Second, cfg.Scorer.Timeout)

	// Unspecified values still get defaults.
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.InDelta(t, 0.6, cfg.Thresholds.ToxicityMedium, 0.0001)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: ["), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
service:
  port: 9090
database:
  host: from-file
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("MODERATION_PORT", "7070")
	t.Setenv("POSTGRES_HOST", "from-env")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("SCORER_TIMEOUT", "250ms")
	t.Setenv("AUTH_JWT_SECRET", "secret-from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Service.Port)
	assert.Equal(t, "from-env", cfg.Database.Host)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Scorer.Timeout)
	assert.Equal(t, "secret-from-env", cfg.Auth.JWTSecret)
}

func TestGetConfigPath(t *testing.T) {
	assert.Equal(t, "config.yaml", GetConfigPath("config.yaml"))

	t.Setenv("CONFIG_PATH", "/etc/moderation/config.yaml")
	assert.Equal(t, "/etc/moderation/config.yaml", GetConfigPath("config.yaml"))
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool("true"))
	assert.True(t, parseBool("TRUE"))
	assert.True(t, parseBool("1"))
	assert.True(t, parseBool("yes"))
	assert.False(t, parseBool("false"))
	assert.False(t, parseBool("0"))
	assert.False(t, parseBool(""))
}
