package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsResolve(t *testing.T) {
	tests := []struct {
		name  string
		paths PathsConfig
		want  string
	}{
		{"relative joined to base", PathsConfig{Base: "/srv", Movies: "films"}, filepath.Join("/srv", "films")},
		{"absolute ignores base", PathsConfig{Base: "/srv", Movies: "/mnt/films"}, "/mnt/films"},
		{"absolute without base", PathsConfig{Movies: "/mnt/films"}, "/mnt/films"},
		{"relative without base", PathsConfig{Movies: "films"}, ""},
		{"empty folder uses base", PathsConfig{Base: "/srv"}, "/srv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Paths: tt.paths}
			assert.Equal(t, tt.want, cfg.MoviesRoot())
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[general]
dry_run = true
workers = 2

[providers.tmdb]
api_key = "from-file"
`)
	t.Setenv("PLEXRENAME_DRY_RUN", "false")
	t.Setenv("PLEXRENAME_WORKERS", " 12 ")
	t.Setenv("PLEXRENAME_LOG_LEVEL", "DEBUG")
	t.Setenv("TMDB_API_KEY", "from-env")
	t.Setenv("TVDB_API_KEY", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.General.DryRun)
	assert.Equal(t, 12, cfg.General.Workers)
	assert.Equal(t, "debug", cfg.General.LogLevel)
	assert.Equal(t, "from-env", cfg.Providers.TMDB.APIKey)
	assert.Empty(t, cfg.Providers.TVDB.APIKey, "empty env values are ignored")
}

func TestEnvOverrides_Invalid(t *testing.T) {
	t.Setenv("PLEXRENAME_DRY_RUN", "maybe")
	t.Setenv("PLEXRENAME_WORKERS", "many")

	_, err := FromEnv()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Errors, 2)
	assert.Contains(t, err.Error(), "PLEXRENAME_WORKERS")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PLEXRENAME_WORKERS", "3")
	t.Setenv("TVDB_API_KEY", "abc")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.General.Workers)
	assert.Equal(t, "abc", cfg.Providers.TVDB.APIKey)
	assert.Equal(t, []string{"tvdb", "tmdb"}, cfg.Providers.TVOrder)
}
