// Package classify turns a single file path into a media.Descriptor.
//
// Classification only looks at the path string. Directory listing and file
// contents are the caller's business.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/vmunix/plexrename/internal/media"
	"github.com/vmunix/plexrename/pkg/release"
)

// Classify infers title, year, season, episode and kind from path.
//
// With HintAuto the file is TV when the filename carries any season or
// episode marker and a movie otherwise. For TV files without a season in the
// filename, ancestor directories are searched nearest first ("Season 2", "S02").
// The title always comes from the filename alone.
func Classify(path string, hint media.Hint) media.Descriptor {
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	d := media.Descriptor{
		Path:      path,
		Filename:  filename,
		Extension: ext,
		Quality:   release.ExtractQuality(stem),
		Source:    release.ExtractSource(stem),
		Codec:     release.ExtractCodec(stem),
		Title:     release.CleanTitle(stem),
	}
	if year, ok := release.ExtractYear(stem); ok {
		d.Year = &year
	}

	// Markers are read from the full filename so "05.mkv" still yields
	// episode 5 through the bare-number pattern.
	markers := release.ExtractTVMarkers(filename)

	kind := media.KindMovie
	switch hint {
	case media.HintTV:
		kind = media.KindTV
	case media.HintMovie:
		kind = media.KindMovie
	default:
		if markers.Found() {
			kind = media.KindTV
		}
	}
	d.Kind = kind

	if kind != media.KindTV {
		return d
	}

	d.Season = markers.Season
	d.Episode = markers.Episode
	d.EpisodeEnd = markers.EpisodeEnd
	if d.Season == nil {
		if season, ok := seasonFromAncestors(path); ok {
			d.Season = &season
		}
	}
	return d
}

// seasonFromAncestors walks the directories of path from the nearest upward.
func seasonFromAncestors(path string) (int, bool) {
	dir := filepath.Dir(path)
	for {
		name := filepath.Base(dir)
		if name == "." || name == string(filepath.Separator) || name == "" {
			return 0, false
		}
		if season, ok := release.SeasonFromDir(name); ok {
			return season, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return 0, false
		}
		dir = parent
	}
}

// ClassifyAll classifies each path with the same hint, preserving order.
func ClassifyAll(paths []string, hint media.Hint) []media.Descriptor {
	out := make([]media.Descriptor, 0, len(paths))
	for _, p := range paths {
		out = append(out, Classify(p, hint))
	}
	return out
}
