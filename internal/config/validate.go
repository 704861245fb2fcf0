// internal/config/validate.go
package config

import (
	"fmt"
	"slices"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validOperations = map[string]bool{
	"rename": true, "move": true, "copy": true,
}

var validSources = []string{"tvdb", "tmdb"}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.General.LogLevel] {
		errs = append(errs, fmt.Sprintf("general.log_level: must be one of debug, info, warn, error; got %q", c.General.LogLevel))
	}
	if !validOperations[c.General.Operation] {
		errs = append(errs, fmt.Sprintf("general.operation: must be one of rename, move, copy; got %q", c.General.Operation))
	}
	if c.General.Workers < 1 {
		errs = append(errs, fmt.Sprintf("general.workers: must be at least 1, got %d", c.General.Workers))
	}
	if c.General.HistoryDB == "" {
		errs = append(errs, "general.history_db: required")
	}

	if !slices.Contains(validSources, c.TVShows.PreferredIDSource) {
		errs = append(errs, fmt.Sprintf("tv_shows.preferred_id_source: must be tvdb or tmdb; got %q", c.TVShows.PreferredIDSource))
	}

	if c.Scan.MaxDepth < 0 {
		errs = append(errs, fmt.Sprintf("scan.max_depth: must not be negative, got %d", c.Scan.MaxDepth))
	}

	p := c.Providers
	if p.Timeout <= 0 {
		errs = append(errs, "providers.timeout: must be positive")
	}
	if p.RateLimitBackoff < 0 {
		errs = append(errs, "providers.rate_limit_backoff: must not be negative")
	}
	if p.TMDB.MinInterval < 0 || p.TVDB.MinInterval < 0 {
		errs = append(errs, "providers.*.min_interval: must not be negative")
	}
	seen := map[string]bool{}
	for _, name := range p.TVOrder {
		switch {
		case !slices.Contains(validSources, name):
			errs = append(errs, fmt.Sprintf("providers.tv_order: unknown provider %q", name))
		case seen[name]:
			errs = append(errs, fmt.Sprintf("providers.tv_order: %q listed twice", name))
		}
		seen[name] = true
	}

	if (c.Plex.URL == "") != (c.Plex.Token == "") {
		errs = append(errs, "plex: url and token must be set together")
	}
	if (c.Plex.LocalPath == "") != (c.Plex.RemotePath == "") {
		errs = append(errs, "plex: local_path and remote_path must be set together")
	}

	return errs
}
