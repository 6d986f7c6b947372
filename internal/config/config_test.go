package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAllowedFields(t *testing.T) {
	cfg, err := Parse([]byte(`{"store_root":"/var/gg","default_backend":"local","concurrency":8}`))
	require.NoError(t, err)
	assert.Equal(t, "/var/gg", cfg.StoreRoot)
	assert.Equal(t, "local", cfg.DefaultBackend)
	assert.Equal(t, 8, cfg.Concurrency)
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte(`{"nonsense": true}`))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseRejectsInvalidBackendName(t *testing.T) {
	_, err := Parse([]byte(`{"default_backend":"gpu"}`))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseRejectsNonPositiveConcurrency(t *testing.T) {
	_, err := Parse([]byte(`{"concurrency":0}`))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadOptionalMissingFileIsNotAnError(t *testing.T) {
	cfg, present, err := LoadOptional(t.TempDir())
	require.NoError(t, err)
	assert.False(t, present)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadOptionalParsesPresentFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"concurrency":4}`), 0o644))

	cfg, present, err := LoadOptional(dir)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, 4, cfg.Concurrency)
}
