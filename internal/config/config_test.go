package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "en", cfg.Geocoder.Language)
	assert.Equal(t, float64(1), cfg.Geocoder.RequestsPerSecond)
	assert.Equal(t, 30, cfg.Geocoder.TimeoutSecs)
	assert.Equal(t, "./import", cfg.Import.Dir)
	assert.Equal(t, 4, cfg.Import.Prefetch)
	assert.Equal(t, "./media", cfg.Media.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
store:
  driver: sqlite
  database_url: ./landscape.db
geocoder:
  key: test-key
import:
  prefetch: 8
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "./landscape.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "test-key", cfg.Geocoder.Key)
	assert.Equal(t, 8, cfg.Import.Prefetch)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset values still fall back to defaults.
	assert.Equal(t, "./media", cfg.Media.Dir)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LANDSCAPE_GEOCODER_KEY", "env-key")
	t.Setenv("LANDSCAPE_STORE_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Geocoder.Key)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
