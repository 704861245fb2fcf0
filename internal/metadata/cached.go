package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

const (
	searchTTL  = 24 * time.Hour
	detailTTL  = 7 * 24 * time.Hour
	episodeTTL = 24 * time.Hour
)

// CachedMovies serves repeated movie lookups from a Cache.
type CachedMovies struct {
	next  MovieProvider
	cache *Cache
	log   *slog.Logger
}

// NewCachedMovies wraps p with cache.
func NewCachedMovies(p MovieProvider, cache *Cache, log *slog.Logger) *CachedMovies {
	return &CachedMovies{next: p, cache: cache, log: cacheLogger(log)}
}

func (c *CachedMovies) Name() string { return c.next.Name() }

func (c *CachedMovies) SearchMovies(ctx context.Context, title string, year int) ([]Candidate, error) {
	key := cacheKey(c.Name(), "movie-search", strings.ToLower(title), year)
	return cached(ctx, c.cache, c.log, key, searchTTL, nonEmpty[Candidate], func() ([]Candidate, error) {
		return c.next.SearchMovies(ctx, title, year)
	})
}

func (c *CachedMovies) MovieDetails(ctx context.Context, id int64) (*Candidate, error) {
	return cached(ctx, c.cache, c.log, cacheKey(c.Name(), "movie", id), detailTTL, notNil[Candidate], func() (*Candidate, error) {
		return c.next.MovieDetails(ctx, id)
	})
}

// CachedSeries serves repeated series lookups from a Cache.
type CachedSeries struct {
	next  TVProvider
	cache *Cache
	log   *slog.Logger
}

// NewCachedSeries wraps p with cache.
func NewCachedSeries(p TVProvider, cache *Cache, log *slog.Logger) *CachedSeries {
	return &CachedSeries{next: p, cache: cache, log: cacheLogger(log)}
}

func (c *CachedSeries) Name() string { return c.next.Name() }

func (c *CachedSeries) SearchSeries(ctx context.Context, title string, year int) ([]Candidate, error) {
	key := cacheKey(c.Name(), "search", strings.ToLower(title), year)
	return cached(ctx, c.cache, c.log, key, searchTTL, nonEmpty[Candidate], func() ([]Candidate, error) {
		return c.next.SearchSeries(ctx, title, year)
	})
}

func (c *CachedSeries) SeriesDetails(ctx context.Context, id int64) (*Candidate, error) {
	return cached(ctx, c.cache, c.log, cacheKey(c.Name(), "series", id), detailTTL, notNil[Candidate], func() (*Candidate, error) {
		return c.next.SeriesDetails(ctx, id)
	})
}

func (c *CachedSeries) Episodes(ctx context.Context, seriesID int64, season int) ([]Episode, error) {
	key := cacheKey(c.Name(), "episodes", seriesID, season)
	return cached(ctx, c.cache, c.log, key, episodeTTL, nonEmpty[Episode], func() ([]Episode, error) {
		return c.next.Episodes(ctx, seriesID, season)
	})
}

func (c *CachedSeries) EpisodeDetails(ctx context.Context, seriesID int64, ep Episode) (*Episode, error) {
	key := cacheKey(c.Name(), "episode", seriesID, ep.Season, ep.Number)
	return cached(ctx, c.cache, c.log, key, episodeTTL, notNil[Episode], func() (*Episode, error) {
		return c.next.EpisodeDetails(ctx, seriesID, ep)
	})
}

// cached returns the value stored under key, or calls fetch and stores its
// result when keep accepts it. Errors from fetch are returned unchanged and
// never cached. A broken cache only costs a lookup.
func cached[T any](ctx context.Context, c *Cache, log *slog.Logger, key string, ttl time.Duration,
	keep func(T) bool, fetch func() (T, error)) (T, error) {
	if data, ok := c.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			log.Debug("cache hit", "key", key)
			return v, nil
		}
		log.Warn("failed to unmarshal cached value", "key", key)
	}

	v, err := fetch()
	if err != nil || !keep(v) {
		return v, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		log.Warn("failed to marshal value for cache", "key", key, "error", err)
		return v, nil
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		log.Warn("failed to cache value", "key", key, "error", err)
	}
	return v, nil
}

func nonEmpty[T any](v []T) bool { return len(v) > 0 }

func notNil[T any](v *T) bool { return v != nil }

func cacheKey(provider, kind string, parts ...any) string {
	var b strings.Builder
	b.WriteString(provider + ":" + kind)
	for _, p := range parts {
		fmt.Fprintf(&b, ":%v", p)
	}
	return b.String()
}

func cacheLogger(log *slog.Logger) *slog.Logger {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return log.With("component", "metadata_cache")
}
