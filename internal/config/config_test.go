package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 0.5, cfg.Thresholds.Escalation)
	assert.Equal(t, 6334, cfg.QdrantPort)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
port: "9090"
cache_backend: qdrant
cache_ttl: 1h
qdrant:
  host: qdrant.internal
  port: 7000
  collection: test_cache
thresholds:
  escalation: 0.65
  low: 0.2
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "qdrant", cfg.CacheBackend)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "qdrant.internal", cfg.QdrantHost)
	assert.Equal(t, 7000, cfg.QdrantPort)
	assert.Equal(t, "test_cache", cfg.QdrantCollection)
	assert.Equal(t, 0.65, cfg.Thresholds.Escalation)
	assert.Equal(t, 0.2, cfg.Thresholds.Low)
	// Unset file values keep their defaults.
	assert.Equal(t, 0.8, cfg.Thresholds.High)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\n"), 0o600))

	t.Setenv("PORT", "7777")
	t.Setenv("GROK_API_KEY", "test-key")
	t.Setenv("ESCALATION_THRESHOLD", "0.75")
	t.Setenv("CACHE_TTL", "30m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7777", cfg.Port)
	assert.Equal(t, "test-key", cfg.GrokAPIKey)
	assert.Equal(t, 0.75, cfg.Thresholds.Escalation)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
}

func TestLoadClampsThresholds(t *testing.T) {
	t.Setenv("ESCALATION_THRESHOLD", "1.8")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Thresholds.Escalation)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [broken"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
