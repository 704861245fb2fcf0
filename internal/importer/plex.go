// internal/importer/plex.go
package importer

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// PlexClient asks a Plex Media Server to rescan the folders a batch wrote to.
type PlexClient struct {
	baseURL    string
	token      string
	remotePath string // Path prefix as seen by Plex
	localPath  string // Corresponding local path
	httpClient *http.Client
	log        *slog.Logger
}

// NewPlexClient creates a Plex client. localPath and remotePath map this
// machine's library prefix onto the one Plex sees; leave both empty when
// they match.
func NewPlexClient(baseURL, token, localPath, remotePath string, log *slog.Logger) *PlexClient {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PlexClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		localPath:  localPath,
		remotePath: remotePath,
		log:        log.With("component", "plex"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// translateToRemote converts a local path to the path Plex expects.
func (c *PlexClient) translateToRemote(path string) string {
	if c.localPath == "" || c.remotePath == "" {
		return path
	}
	if strings.HasPrefix(path, c.localPath) {
		return c.remotePath + path[len(c.localPath):]
	}
	return path
}

// Section represents a Plex library section.
type Section struct {
	Key       string     `xml:"key,attr"`
	Title     string     `xml:"title,attr"`
	Type      string     `xml:"type,attr"`
	Locations []Location `xml:"Location"`
}

// Location represents a library section's filesystem location.
type Location struct {
	Path string `xml:"path,attr"`
}

// sectionsResponse is the XML response from /library/sections.
type sectionsResponse struct {
	XMLName  xml.Name  `xml:"MediaContainer"`
	Sections []Section `xml:"Directory"`
}

// GetSections returns all library sections.
func (c *PlexClient) GetSections(ctx context.Context) ([]Section, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/library/sections", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result sectionsResponse
	if err := xml.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result.Sections, nil
}

// Refresh triggers one partial scan per distinct target directory of the
// successful outcomes. It returns the number of scans triggered; a
// directory outside every Plex section is logged and skipped.
func (c *PlexClient) Refresh(ctx context.Context, outcomes []Outcome) (int, error) {
	dirs := map[string]struct{}{}
	for _, o := range outcomes {
		if o.Success && !o.Skipped {
			dirs[filepath.Dir(c.translateToRemote(o.Target))] = struct{}{}
		}
	}
	if len(dirs) == 0 {
		return 0, nil
	}

	sections, err := c.GetSections(ctx)
	if err != nil {
		return 0, fmt.Errorf("get sections: %w", err)
	}

	sorted := make([]string, 0, len(dirs))
	for d := range dirs {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	scanned := 0
	for _, dir := range sorted {
		key := sectionFor(sections, dir)
		if key == "" {
			c.log.Warn("no library section for path", "path", dir)
			continue
		}
		if err := c.scan(ctx, key, dir); err != nil {
			return scanned, err
		}
		scanned++
	}
	return scanned, nil
}

func sectionFor(sections []Section, dir string) string {
	for _, section := range sections {
		for _, loc := range section.Locations {
			if ValidatePath(dir, loc.Path) == nil {
				return section.Key
			}
		}
	}
	return ""
}

func (c *PlexClient) scan(ctx context.Context, sectionKey, remoteDir string) error {
	scanURL := fmt.Sprintf("%s/library/sections/%s/refresh?path=%s",
		c.baseURL, sectionKey, url.QueryEscape(remoteDir))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scanURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scan failed with status: %d", resp.StatusCode)
	}

	c.log.Debug("scan triggered", "section", sectionKey, "path", remoteDir, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
