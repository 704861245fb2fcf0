package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api4.thetvdb.com/v4"

	// DefaultMinInterval is the minimum spacing between API calls.
	DefaultMinInterval = 100 * time.Millisecond

	// DefaultRateLimitBackoff is how long to wait after a 429 before the single retry.
	DefaultRateLimitBackoff = 5 * time.Second

	// tokenLifetime is how long a login token is trusted before logging in again.
	tokenLifetime = 30 * 24 * time.Hour

	maxEpisodePages = 100
)

// Sentinel errors for TVDB API responses.
var (
	ErrNotFound     = errors.New("series not found")
	ErrUnauthorized = errors.New("unauthorized: invalid or expired API key")
	ErrRateLimited  = errors.New("rate limited: too many requests")
)

// session is the login state shared by concurrent callers.
type session struct {
	mu      sync.Mutex
	token   string
	expires time.Time
}

// Client is a TVDB API v4 client with JWT authentication.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	limiter    *rate.Limiter
	backoff    time.Duration
	now        func() time.Time

	session session
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log.With("component", "tvdb")
		}
	}
}

// WithMinInterval sets the minimum spacing between API calls. Zero disables throttling.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) {
		c.limiter = newLimiter(d)
	}
}

// WithRateLimitBackoff sets the wait before retrying a rate-limited request.
func WithRateLimitBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// New creates a new TVDB API v4 client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: newLimiter(DefaultMinInterval),
		backoff: DefaultRateLimitBackoff,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// login authenticates with TVDB. The caller holds c.session.mu.
func (c *Client) login(ctx context.Context) error {
	body := map[string]string{"apikey": c.apiKey}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: %s", resp.Status)
	}

	var loginResp loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	if loginResp.Data.Token == "" {
		return errors.New("login response missing token")
	}

	c.session.token = loginResp.Data.Token
	c.session.expires = c.now().Add(tokenLifetime)

	if c.log != nil {
		c.log.Debug("authenticated with TVDB")
	}

	return nil
}

// token returns a usable token, logging in when there is none or it expired.
// Concurrent callers wait on the same login.
func (c *Client) token(ctx context.Context) (string, error) {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()

	if c.session.token != "" && c.now().Before(c.session.expires) {
		return c.session.token, nil
	}
	if err := c.login(ctx); err != nil {
		return "", err
	}
	return c.session.token, nil
}

// invalidate drops stale unless another caller already replaced it.
func (c *Client) invalidate(stale string) {
	c.session.mu.Lock()
	if c.session.token == stale {
		c.session.token = ""
	}
	c.session.mu.Unlock()
}

// doRequest performs an authenticated GET. A 401 triggers one re-login and
// retry; a 429 triggers one retry after the backoff.
func (c *Client) doRequest(ctx context.Context, endpoint string) (*http.Response, error) {
	resp, err := c.doWithAuthRetry(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		return resp, nil
	}
	resp.Body.Close()

	if c.log != nil {
		c.log.Warn("rate limited, backing off", "endpoint", endpoint, "backoff", c.backoff)
	}
	timer := time.NewTimer(c.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return c.doWithAuthRetry(ctx, endpoint)
}

func (c *Client) doWithAuthRetry(ctx context.Context, endpoint string) (*http.Response, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.doAuthenticatedRequest(ctx, endpoint, token)
	if err != nil {
		return nil, err
	}

	// If unauthorized, refresh token and retry once
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()

		if c.log != nil {
			c.log.Debug("token rejected, refreshing")
		}

		c.invalidate(token)
		token, err = c.token(ctx)
		if err != nil {
			return nil, err
		}
		return c.doAuthenticatedRequest(ctx, endpoint, token)
	}

	return resp, nil
}

// doAuthenticatedRequest performs a single throttled request.
func (c *Client) doAuthenticatedRequest(ctx context.Context, endpoint, token string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	return resp, nil
}

// get performs the request and decodes a 200 response into out.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	resp, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Search searches for series by name. A year of zero is not sent.
func (c *Client) Search(ctx context.Context, query string, year int) ([]SearchResult, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("query", query)
	params.Set("type", "series")
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var searchResp searchResponse
	if err := c.get(ctx, "/search?"+params.Encode(), &searchResp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(searchResp.Data))
	for _, item := range searchResp.Data {
		if item.Type != "" && item.Type != "series" {
			continue
		}

		// Parse TVDB ID from string
		tvdbID, _ := strconv.Atoi(item.TVDBID)
		if tvdbID == 0 {
			// Try objectID as fallback (format: "series-12345")
			if id, ok := strings.CutPrefix(item.ObjectID, "series-"); ok {
				tvdbID, _ = strconv.Atoi(id)
			}
		}

		itemYear, _ := strconv.Atoi(item.Year)
		if itemYear == 0 {
			itemYear = yearOf(item.FirstAirTime)
		}

		results = append(results, SearchResult{
			ID:           tvdbID,
			Name:         item.Name,
			Year:         itemYear,
			FirstAirTime: item.FirstAirTime,
			Status:       item.Status,
			Overview:     item.Overview,
			Network:      item.Network,
		})
	}

	if c.log != nil {
		c.log.Debug("search completed", "query", query, "year", year, "results", len(results), "duration_ms", time.Since(start).Milliseconds())
	}

	return results, nil
}

// GetSeries fetches extended series metadata by TVDB ID.
func (c *Client) GetSeries(ctx context.Context, id int) (*Series, error) {
	start := time.Now()

	var seriesResp seriesResponse
	if err := c.get(ctx, fmt.Sprintf("/series/%d/extended", id), &seriesResp); err != nil {
		if c.log != nil && errors.Is(err, ErrNotFound) {
			c.log.Debug("series not found", "id", id)
		}
		return nil, err
	}

	series := seriesResp.Data.toSeries()

	if c.log != nil {
		c.log.Debug("fetched series", "id", id, "name", series.Name, "duration_ms", time.Since(start).Milliseconds())
	}

	return series, nil
}

// GetEpisodes fetches one season of a series in default order, following
// pagination.
func (c *Client) GetEpisodes(ctx context.Context, seriesID, season int) ([]Episode, error) {
	start := time.Now()

	var allEpisodes []Episode
	page := 0

	for {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("season", strconv.Itoa(season))

		var episodesResp episodesResponse
		endpoint := fmt.Sprintf("/series/%d/episodes/default?%s", seriesID, params.Encode())
		if err := c.get(ctx, endpoint, &episodesResp); err != nil {
			return nil, err
		}

		for _, ep := range episodesResp.Data.Episodes {
			allEpisodes = append(allEpisodes, ep.toEpisode())
		}

		// Check for more pages
		if episodesResp.Links.Next == "" {
			break
		}
		page++

		if page >= maxEpisodePages {
			if c.log != nil {
				c.log.Warn("hit pagination limit", "series_id", seriesID, "pages", page)
			}
			break
		}
	}

	if c.log != nil {
		c.log.Debug("fetched episodes", "series_id", seriesID, "season", season, "count", len(allEpisodes), "pages", page+1, "duration_ms", time.Since(start).Milliseconds())
	}

	return allEpisodes, nil
}

// GetEpisode fetches extended episode metadata by TVDB episode ID.
func (c *Client) GetEpisode(ctx context.Context, id int) (*Episode, error) {
	var episodeResp episodeResponse
	if err := c.get(ctx, fmt.Sprintf("/episodes/%d/extended", id), &episodeResp); err != nil {
		return nil, err
	}
	ep := episodeResp.Data.toEpisode()
	return &ep, nil
}

// checkResponse checks the HTTP response for errors and returns appropriate sentinel errors.
func (c *Client) checkResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("TVDB API error: %s", resp.Status)
	}
}
