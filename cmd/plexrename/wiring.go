package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vmunix/plexrename/internal/config"
	"github.com/vmunix/plexrename/internal/importer"
	"github.com/vmunix/plexrename/internal/metadata"
	"github.com/vmunix/plexrename/internal/naming"
	"github.com/vmunix/plexrename/internal/pipeline"
	"github.com/vmunix/plexrename/internal/tmdb"
	"github.com/vmunix/plexrename/pkg/tvdb"

	_ "modernc.org/sqlite"
)

// newResolver builds the metadata resolver from the provider config. A
// provider without an API key is left out, so its lookups report
// unavailable. A nil cache disables caching.
func newResolver(cfg *config.Config, cache *metadata.Cache, log *slog.Logger) *metadata.Resolver {
	p := cfg.Providers
	httpClient := &http.Client{Timeout: p.Timeout}

	var tmdbClient *tmdb.Client
	if p.TMDB.APIKey != "" {
		opts := []tmdb.Option{
			tmdb.WithHTTPClient(httpClient),
			tmdb.WithLanguage(p.TMDB.Language),
			tmdb.WithMinInterval(p.TMDB.MinInterval),
			tmdb.WithRateLimitBackoff(p.RateLimitBackoff),
			tmdb.WithLogger(log),
		}
		if p.TMDB.BaseURL != "" {
			opts = append(opts, tmdb.WithBaseURL(p.TMDB.BaseURL))
		}
		tmdbClient = tmdb.NewClient(p.TMDB.APIKey, opts...)
	}

	var tvdbClient *tvdb.Client
	if p.TVDB.APIKey != "" {
		opts := []tvdb.Option{
			tvdb.WithHTTPClient(httpClient),
			tvdb.WithMinInterval(p.TVDB.MinInterval),
			tvdb.WithRateLimitBackoff(p.RateLimitBackoff),
			tvdb.WithLogger(log),
		}
		if p.TVDB.BaseURL != "" {
			opts = append(opts, tvdb.WithBaseURL(p.TVDB.BaseURL))
		}
		tvdbClient = tvdb.New(p.TVDB.APIKey, opts...)
	}

	var movies metadata.MovieProvider
	if tmdbClient != nil {
		movies = metadata.NewTMDBMovies(tmdbClient)
		if cache != nil {
			movies = metadata.NewCachedMovies(movies, cache, log)
		}
	}

	var series []metadata.TVProvider
	for _, name := range p.TVOrder {
		var tv metadata.TVProvider
		switch {
		case name == metadata.SourceTVDB && tvdbClient != nil:
			tv = metadata.NewTVDBSeries(tvdbClient)
		case name == metadata.SourceTMDB && tmdbClient != nil:
			tv = metadata.NewTMDBSeries(tmdbClient)
		default:
			continue
		}
		if cache != nil {
			tv = metadata.NewCachedSeries(tv, cache, log)
		}
		series = append(series, tv)
	}

	return metadata.NewResolver(movies, series, log)
}

// hasProviderKeys reports whether any catalog can be queried.
func hasProviderKeys(cfg *config.Config) bool {
	return cfg.Providers.TMDB.APIKey != "" || cfg.Providers.TVDB.APIKey != ""
}

// openCache opens the lookup cache in the history database. It returns a
// nil cache when caching is off or no catalog is configured.
func openCache(cfg *config.Config, log *slog.Logger) (*metadata.Cache, func(), error) {
	if !cfg.Providers.Cache || !hasProviderKeys(cfg) {
		return nil, func() {}, nil
	}
	path := cfg.General.HistoryDB
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	cache, err := metadata.NewCache(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if n, err := cache.Prune(context.Background()); err == nil && n > 0 {
		log.Debug("pruned expired lookups", "entries", n)
	}
	return cache, func() { _ = db.Close() }, nil
}

func newComposer(cfg *config.Config) *naming.Composer {
	return naming.NewComposer(naming.Options{
		MoviesRoot:          cfg.MoviesRoot(),
		TVRoot:              cfg.TVRoot(),
		CreateMovieFolders:  cfg.Movies.CreateFolders,
		IncludeEpisodeTitle: cfg.TVShows.IncludeEpisodeTitle,
		IncludeSeriesID:     cfg.TVShows.IncludeSeriesID,
		PreferredIDSource:   cfg.TVShows.PreferredIDSource,
	})
}

// warnMissingCatalogs logs the lookups that will report unavailable because
// their catalog is not configured. It returns the number of warnings.
func warnMissingCatalogs(r *metadata.Resolver, log *slog.Logger) int {
	n := 0
	if !r.HasMovieProvider() {
		log.Warn("no movie catalog configured, movie names come from filenames", "hint", "set TMDB_API_KEY")
		n++
	}
	if len(r.TVProviders()) == 0 {
		log.Warn("no TV catalog configured, show names come from filenames", "hint", "set TVDB_API_KEY or TMDB_API_KEY")
		n++
	} else {
		log.Debug("tv catalogs", "order", r.TVProviders())
	}
	return n
}

func newPipeline(cfg *config.Config, cache *metadata.Cache, log *slog.Logger) *pipeline.Pipeline {
	resolver := newResolver(cfg, cache, log)
	warnMissingCatalogs(resolver, log)
	return pipeline.New(resolver, newComposer(cfg),
		pipeline.WithWorkers(cfg.General.Workers),
		pipeline.WithLogger(log))
}

// libraryRoots returns the roots targets must stay under. With either
// library unset some targets land beside their sources, so nothing is
// restricted.
func libraryRoots(cfg *config.Config) []string {
	movies, tv := cfg.MoviesRoot(), cfg.TVRoot()
	if movies == "" || tv == "" {
		return nil
	}
	return []string{movies, tv}
}

// openHistory opens the rename journal, creating its directory.
func openHistory(cfg *config.Config) (*importer.HistoryStore, func(), error) {
	path := cfg.General.HistoryDB
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create history dir: %w", err)
	}
	store, db, err := importer.OpenHistory(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = db.Close() }, nil
}

func lockPath(cfg *config.Config) string {
	return filepath.Join(filepath.Dir(cfg.General.HistoryDB), "plexrename.lock")
}
