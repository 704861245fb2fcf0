// internal/profile/profile.go

// Package profile guesses the dominant content type of each folder under a
// library root. It is a heuristic: the weights below are fixed so that
// profiles stay comparable across runs and versions.
package profile

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/vmunix/plexrename/internal/media"
	"github.com/vmunix/plexrename/pkg/release"
)

const (
	// DefaultMaxDepth is used when Profile is called with maxDepth <= 0.
	DefaultMaxDepth = 3

	// MaxSamples caps FolderProfile.Samples.
	MaxSamples = 5

	seasonFolderWeight = 2
	seasonFolderBonus  = 0.5
	tvThreshold        = 0.3
	movieThreshold     = 0.2
	mixedConfidence    = 0.5
	manySeasonsBoost   = 0.3
	manySeasonsCount   = 2
)

var seasonFolderPattern = regexp.MustCompile(`(?i)^(season[\s._-]*\d{1,3}|s\d{1,3})$`)

// ignoredDirs are noise directories created by NAS boxes, desktops and VCS
// tools. Matched case-insensitively against the directory name.
var ignoredDirs = map[string]bool{
	"@eadir":                    true,
	".@__thumb":                 true,
	".thumbnails":               true,
	"thumbs":                    true,
	".git":                      true,
	".svn":                      true,
	".hg":                       true,
	"$recycle.bin":              true,
	".trash":                    true,
	".trashes":                  true,
	".trash-1000":               true,
	"lost+found":                true,
	"system volume information": true,
	".ds_store":                 true,
	"#recycle":                  true,
}

// IsIgnoredDir reports whether name is on the noise deny-list.
func IsIgnoredDir(name string) bool {
	return ignoredDirs[strings.ToLower(name)]
}

// IsSeasonFolder reports whether name looks like "Season 01", "season.2" or "S03".
func IsSeasonFolder(name string) bool {
	return seasonFolderPattern.MatchString(name)
}

// Profiler profiles library folders.
type Profiler struct {
	log *slog.Logger
}

// New creates a Profiler. A nil logger discards output.
func New(logger *slog.Logger) *Profiler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Profiler{log: logger.With("component", "profile")}
}

// Profile is a convenience wrapper around a Profiler without logging.
func Profile(root string, maxDepth int) ([]media.FolderProfile, error) {
	return New(nil).Profile(root, maxDepth)
}

// Profile returns one FolderProfile per immediate subdirectory of root,
// sorted by confidence descending and then by name.
//
// Only an unreadable root is an error. Unreadable subdirectories are
// logged and skipped.
func (p *Profiler) Profile(root string, maxDepth int) ([]media.FolderProfile, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read root %s: %w", root, err)
	}

	var profiles []media.FolderProfile
	for _, e := range entries {
		if !e.IsDir() || IsIgnoredDir(e.Name()) {
			continue
		}
		path := filepath.Join(root, e.Name())
		profiles = append(profiles, p.profileFolder(path, maxDepth))
	}

	slices.SortStableFunc(profiles, func(a, b media.FolderProfile) int {
		if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	p.log.Debug("profiled root", "root", root, "folders", len(profiles), "max_depth", maxDepth)
	return profiles, nil
}

// tally holds the raw counters for one candidate folder.
type tally struct {
	media          int
	files          int
	subdirs        int
	seasonFolders  int
	tvIndicator    int
	movieIndicator int
	samples        []string
}

func (p *Profiler) profileFolder(path string, maxDepth int) media.FolderProfile {
	var t tally
	p.walk(path, 1, maxDepth, &t)

	kind, confidence := Score(t.media, t.tvIndicator, t.movieIndicator, t.seasonFolders)

	return media.FolderProfile{
		Path:          path,
		Name:          filepath.Base(path),
		MediaCount:    t.media,
		FileCount:     t.files,
		SubdirCount:   t.subdirs,
		SeasonFolders: t.seasonFolders,
		Kind:          kind,
		Confidence:    confidence,
		Samples:       t.samples,
	}
}

// walk visits the entries of dir, which sit at the given level below the
// candidate folder.
func (p *Profiler) walk(dir string, level, maxDepth int, t *tally) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		p.log.Warn("skipping unreadable directory", "path", dir, "error", err)
		return
	}

	for _, e := range entries {
		name := e.Name()
		full := filepath.Join(dir, name)

		if e.IsDir() {
			if IsIgnoredDir(name) {
				continue
			}
			t.subdirs++
			if IsSeasonFolder(name) {
				t.seasonFolders++
				t.tvIndicator += seasonFolderWeight
			}
			if level < maxDepth {
				p.walk(full, level+1, maxDepth, t)
			}
			continue
		}

		t.files++
		if !release.IsVideoFile(name) {
			continue
		}
		t.media++
		if len(t.samples) < MaxSamples {
			t.samples = append(t.samples, full)
		}

		if release.ExtractTVMarkers(name).Found() {
			t.tvIndicator++
		} else if _, ok := release.ExtractYear(name); ok {
			t.movieIndicator++
		}
	}
}

// Score turns the raw counters into a kind and a confidence in [0, 1].
//
// Season folders are counted twice on purpose: once in tvIndicator as they
// are found and once more here, plus a flat bonus when any exist.
func Score(mediaCount, tvIndicator, movieIndicator, seasonFolders int) (media.FolderKind, float64) {
	if mediaCount == 0 {
		return media.FolderNone, 0
	}

	denom := float64(max(mediaCount, 1))
	tvScore := float64(tvIndicator+seasonFolders*seasonFolderWeight) / denom
	if seasonFolders > 0 {
		tvScore += seasonFolderBonus
	}
	movieScore := float64(movieIndicator) / denom

	var (
		kind       media.FolderKind
		confidence float64
	)
	switch {
	case tvScore > movieScore && tvScore > tvThreshold:
		kind, confidence = media.FolderTVShows, min(tvScore, 1.0)
	case movieScore > tvScore && movieScore > movieThreshold:
		kind, confidence = media.FolderMovies, min(movieScore, 1.0)
	default:
		kind, confidence = media.FolderMixed, mixedConfidence
	}

	if seasonFolders > manySeasonsCount {
		confidence = min(confidence+manySeasonsBoost, 1.0)
	}
	return kind, confidence
}
