package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org"
	defaultCacheTTL = 24 * time.Hour

	// DefaultLanguage is sent with every request unless overridden.
	DefaultLanguage = "en-US"

	// DefaultMinInterval is the minimum spacing between API calls.
	DefaultMinInterval = 250 * time.Millisecond

	// DefaultRateLimitBackoff is how long to wait after a 429 before the single retry.
	DefaultRateLimitBackoff = 5 * time.Second
)

// Sentinel errors for TMDB API responses.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized: invalid API key")
	ErrRateLimited  = errors.New("rate limited: too many requests")
)

type seasonKey struct {
	tvID   int64
	season int
}

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	log        *slog.Logger
	limiter    *rate.Limiter
	backoff    time.Duration

	movies  *cache[int64, *Movie]
	shows   *cache[int64, *TVShow]
	seasons *cache[seasonKey, *Season]
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithCacheTTL sets the detail cache TTL. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.movies = newCache[int64, *Movie](ttl)
		c.shows = newCache[int64, *TVShow](ttl)
		c.seasons = newCache[seasonKey, *Season](ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLanguage sets the language results are localized to.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
		}
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log.With("component", "tmdb")
		}
	}
}

// WithMinInterval sets the minimum spacing between API calls. Zero disables throttling.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithRateLimitBackoff sets the wait before retrying a rate-limited request.
func WithRateLimitBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		language: DefaultLanguage,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(DefaultMinInterval), 1),
		backoff: DefaultRateLimitBackoff,
	}
	WithCacheTTL(defaultCacheTTL)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchMovies searches movies by title. A year of zero is not sent.
func (c *Client) SearchMovies(ctx context.Context, query string, year int) ([]Movie, error) {
	params := url.Values{}
	params.Set("query", query)
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var resp movieSearchResponse
	if err := c.get(ctx, "/3/search/movie", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// GetMovie fetches movie metadata by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64) (*Movie, error) {
	if movie, ok := c.movies.get(tmdbID); ok {
		return movie, nil
	}

	var movie Movie
	if err := c.get(ctx, fmt.Sprintf("/3/movie/%d", tmdbID), nil, &movie); err != nil {
		return nil, err
	}

	c.movies.set(tmdbID, &movie)
	return &movie, nil
}

// SearchTV searches series by name. A year of zero is not sent.
func (c *Client) SearchTV(ctx context.Context, query string, year int) ([]TVShow, error) {
	params := url.Values{}
	params.Set("query", query)
	if year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(year))
	}

	var resp tvSearchResponse
	if err := c.get(ctx, "/3/search/tv", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// GetTV fetches series metadata, including external IDs, by TMDB ID.
func (c *Client) GetTV(ctx context.Context, tvID int64) (*TVShow, error) {
	if show, ok := c.shows.get(tvID); ok {
		return show, nil
	}

	params := url.Values{}
	params.Set("append_to_response", "external_ids")

	var show TVShow
	if err := c.get(ctx, fmt.Sprintf("/3/tv/%d", tvID), params, &show); err != nil {
		return nil, err
	}

	c.shows.set(tvID, &show)
	return &show, nil
}

// GetSeason fetches one season of a series with its episodes.
func (c *Client) GetSeason(ctx context.Context, tvID int64, season int) (*Season, error) {
	key := seasonKey{tvID: tvID, season: season}
	if s, ok := c.seasons.get(key); ok {
		return s, nil
	}

	var s Season
	if err := c.get(ctx, fmt.Sprintf("/3/tv/%d/season/%d", tvID, season), nil, &s); err != nil {
		return nil, err
	}

	c.seasons.set(key, &s)
	return &s, nil
}

// GetEpisode fetches a single episode by season and episode number.
func (c *Client) GetEpisode(ctx context.Context, tvID int64, season, episode int) (*Episode, error) {
	var ep Episode
	endpoint := fmt.Sprintf("/3/tv/%d/season/%d/episode/%d", tvID, season, episode)
	if err := c.get(ctx, endpoint, nil, &ep); err != nil {
		return nil, err
	}
	return &ep, nil
}

// get performs a throttled GET and decodes a 200 response into out.
// A 429 is retried once after the backoff.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	start := time.Now()

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	reqURL := c.baseURL + path + "?" + params.Encode()

	resp, err := c.do(ctx, reqURL)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		if c.log != nil {
			c.log.Warn("rate limited, backing off", "path", path, "backoff", c.backoff)
		}

		timer := time.NewTimer(c.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		resp, err = c.do(ctx, reqURL)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if c.log != nil {
		c.log.Debug("request completed", "path", path, "duration_ms", time.Since(start).Milliseconds())
	}
	return nil
}

func (c *Client) do(ctx context.Context, reqURL string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}
