// internal/config/write_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plexrename", "config.toml")

	require.NoError(t, WriteDefault(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(content), "[general]")
	assert.Contains(t, string(content), "[providers.tmdb]")
	assert.Contains(t, string(content), "${TMDB_API_KEY:-}")
}

func TestWriteDefault_KeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("mine"), 0644))

	assert.Error(t, WriteDefault(path))

	content, _ := os.ReadFile(path)
	assert.Equal(t, "mine", string(content))
}

func TestWriteDefault_CreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "config.toml")

	require.NoError(t, WriteDefault(path))

	_, err := os.Stat(path)
	assert.False(t, os.IsNotExist(err), "file was not created")
}

func TestConfig_Write(t *testing.T) {
	cfg := Default()
	cfg.Paths.Base = "/media/library"
	cfg.General.Operation = "copy"

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, cfg.Write(path))

	loaded, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, "/media/library", loaded.Paths.Base)
	assert.Equal(t, "copy", loaded.General.Operation)
	assert.Equal(t, cfg.TVShows, loaded.TVShows)
}
