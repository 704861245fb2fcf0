// Package release extracts structured hints (year, quality, source, codec,
// season/episode markers) from the filenames of ripped or downloaded video
// releases, and normalizes titles for comparison against catalog results.
//
// Every function in this package is pure: no state, no I/O.
package release

import (
	"path/filepath"
	"strings"
)

// Markers holds the season/episode numbers found in a filename.
// A nil field means the marker was not present.
type Markers struct {
	Season     *int
	Episode    *int
	EpisodeEnd *int
	Pattern    MarkerPattern
}

// Found reports whether a season or an episode was detected.
func (m Markers) Found() bool {
	return m.Season != nil || m.Episode != nil
}

// MarkerPattern identifies which TV-marker pattern matched.
type MarkerPattern int

const (
	PatternNone          MarkerPattern = iota
	PatternSeasonEpisode               // S01E02, S01E02-E03
	PatternCross                       // 1x02, 1x02-03
	PatternVerbose                     // Season 1 ... Episode 2
	PatternEpisodeOnly                 // E02, E02-E03
	PatternBareNumber                  // 02, 02-03 (not followed by x)
)

func (p MarkerPattern) String() string {
	switch p {
	case PatternSeasonEpisode:
		return "SxxEyy"
	case PatternCross:
		return "NxM"
	case PatternVerbose:
		return "season-episode"
	case PatternEpisodeOnly:
		return "Eyy"
	case PatternBareNumber:
		return "bare-number"
	default:
		return ""
	}
}

// videoExtensions is the allow-list used to decide whether a file is a video.
var videoExtensions = map[string]bool{
	".mkv": true, ".avi": true, ".mp4": true, ".m4v": true,
	".mov": true, ".wmv": true, ".flv": true, ".webm": true,
	".mpg": true, ".mpeg": true, ".3gp": true, ".ogv": true,
	".ts": true, ".m2ts": true,
}

// IsVideoFile reports whether path has a known video extension (case-insensitive).
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}
