// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"
)

// Config is the root configuration structure. A loaded Config is never
// modified afterwards.
type Config struct {
	Providers ProvidersConfig `toml:"providers"`
	Paths     PathsConfig     `toml:"paths"`
	Movies    MoviesConfig    `toml:"movies"`
	TVShows   TVShowsConfig   `toml:"tv_shows"`
	Scan      ScanConfig      `toml:"scan"`
	General   GeneralConfig   `toml:"general"`
	Plex      PlexConfig      `toml:"plex"`
}

type ProvidersConfig struct {
	Timeout          time.Duration `toml:"timeout"`
	RateLimitBackoff time.Duration `toml:"rate_limit_backoff"`
	TVOrder          []string      `toml:"tv_order"`
	Cache            bool          `toml:"cache"`
	TMDB             TMDBConfig    `toml:"tmdb"`
	TVDB             TVDBConfig    `toml:"tvdb"`
}

type TMDBConfig struct {
	APIKey      string        `toml:"api_key"`
	Language    string        `toml:"language"`
	BaseURL     string        `toml:"base_url"`
	MinInterval time.Duration `toml:"min_interval"`
}

type TVDBConfig struct {
	APIKey      string        `toml:"api_key"`
	BaseURL     string        `toml:"base_url"`
	MinInterval time.Duration `toml:"min_interval"`
}

type PathsConfig struct {
	Base    string `toml:"base"`
	Movies  string `toml:"movies"`
	TVShows string `toml:"tv_shows"`
}

type MoviesConfig struct {
	CreateFolders bool `toml:"create_folders"`
}

type TVShowsConfig struct {
	IncludeEpisodeTitle bool   `toml:"include_episode_title"`
	IncludeSeriesID     bool   `toml:"include_series_id"`
	PreferredIDSource   string `toml:"preferred_id_source"`
}

type ScanConfig struct {
	MaxDepth int `toml:"max_depth"`
}

type GeneralConfig struct {
	DryRun    bool   `toml:"dry_run"`
	LogLevel  string `toml:"log_level"`
	Operation string `toml:"operation"`
	Workers   int    `toml:"workers"`
	HistoryDB string `toml:"history_db"`
}

// PlexConfig enables a library scan after apply when URL and Token are set.
type PlexConfig struct {
	URL        string `toml:"url"`
	Token      string `toml:"token"`
	LocalPath  string `toml:"local_path"`
	RemotePath string `toml:"remote_path"`
}

// Enabled reports whether a Plex server is configured.
func (p PlexConfig) Enabled() bool { return p.URL != "" && p.Token != "" }

// Default returns the configuration used for keys a file leaves out.
func Default() Config {
	return Config{
		Providers: ProvidersConfig{
			Timeout:          10 * time.Second,
			RateLimitBackoff: 5 * time.Second,
			TVOrder:          []string{"tvdb", "tmdb"},
			Cache:            true,
			TMDB: TMDBConfig{
				Language:    "en-US",
				MinInterval: 250 * time.Millisecond,
			},
			TVDB: TVDBConfig{
				MinInterval: 100 * time.Millisecond,
			},
		},
		Paths: PathsConfig{
			Movies:  "movies",
			TVShows: "tv_shows",
		},
		Movies:  MoviesConfig{CreateFolders: true},
		TVShows: TVShowsConfig{IncludeEpisodeTitle: true, PreferredIDSource: "tvdb"},
		Scan:    ScanConfig{MaxDepth: 3},
		General: GeneralConfig{
			DryRun:    true,
			LogLevel:  "info",
			Operation: "rename",
			Workers:   4,
			HistoryDB: DefaultHistoryPath(),
		},
	}
}

// MoviesRoot is the movie library directory, or "" when none is set.
func (c *Config) MoviesRoot() string { return c.Paths.resolve(c.Paths.Movies) }

// TVRoot is the TV library directory, or "" when none is set.
func (c *Config) TVRoot() string { return c.Paths.resolve(c.Paths.TVShows) }

// resolve joins a relative library folder onto Base. Without a base only
// absolute folders count.
func (p PathsConfig) resolve(folder string) string {
	switch {
	case folder != "" && filepath.IsAbs(folder):
		return folder
	case p.Base == "":
		return ""
	default:
		return filepath.Join(p.Base, folder)
	}
}

// Load reads, substitutes, decodes and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation is Load minus Validate. Unresolved environment
// variables and bad overrides are still errors.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	cfg := Default()
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if errs := applyEnv(&cfg); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return &cfg, nil
}

// FromEnv returns the defaults with environment overrides, for running
// without a config file.
func FromEnv() (*Config, error) {
	cfg := Default()
	if errs := applyEnv(&cfg); len(errs) > 0 {
		return nil, &ConfigError{Errors: errs}
	}
	return &cfg, nil
}

// applyEnv applies the PLEXRENAME_* and provider key overrides.
func applyEnv(cfg *Config) []string {
	var errs []string
	if v, ok := lookup("PLEXRENAME_DRY_RUN"); ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("PLEXRENAME_DRY_RUN: %v", err))
		}
		cfg.General.DryRun = b
	}
	if v, ok := lookup("PLEXRENAME_WORKERS"); ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("PLEXRENAME_WORKERS: %v", err))
		}
		cfg.General.Workers = n
	}
	if v, ok := lookup("PLEXRENAME_LOG_LEVEL"); ok {
		cfg.General.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup("TMDB_API_KEY"); ok {
		cfg.Providers.TMDB.APIKey = v
	}
	if v, ok := lookup("TVDB_API_KEY"); ok {
		cfg.Providers.TVDB.APIKey = v
	}
	return errs
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references. Unresolved references
// are left in place and reported: bare ones by name, ":?" ones as
// "NAME: message". Empty values count as unset for ":-" and ":?".
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if ok && value != "" {
				return value
			}
			return arg
		case ":?":
			if ok && value != "" {
				return value
			}
			missing = append(missing, name+": "+arg)
			return match
		default:
			if ok {
				return value
			}
			missing = append(missing, name)
			return match
		}
	})
	return out, missing
}
