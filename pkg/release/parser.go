package release

import (
	"regexp"
	"strconv"
	"strings"
)

// yearPattern matches a standalone 19xx or 20xx token.
var yearPattern = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// qualityPatterns are tried in order; the first list that matches wins.
var qualityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(4K|2160p|1080p|720p|480p|360p|240p)\b`),
	regexp.MustCompile(`(?i)\b(UHD|HD|SD)\b`),
	regexp.MustCompile(`(?i)\b(BluRay|Blu-Ray|BRRip|BDRip|DVDRip|WEBRip|HDTV|WEB-DL)\b`),
}

var sourcePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(BluRay|Blu-Ray|BRRip|BDRip|DVDRip|WEBRip|HDTV|WEB-DL|CAM|TS|TC|SCR|R5|DVDScr)\b`),
}

var codecPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(x264|x265|h\.?264|h\.?265|HEVC|AVC|XviD|DivX)\b`),
}

// tvPattern pairs a marker regex with how its capture groups are read.
type tvPattern struct {
	re         *regexp.Regexp
	kind       MarkerPattern
	withSeason bool
}

// tvPatterns are tried in fixed priority order. The first match wins and
// patterns are never combined.
//
// The bare-number pattern is ambiguous with numeric titles ("24 Hours",
// "1917") and is a known false-positive source. It is kept unchanged because
// existing libraries were renamed with it.
var tvPatterns = []tvPattern{
	{regexp.MustCompile(`(?i)s(\d{1,2})e(\d{1,2})(?:-?e(\d{1,2}))?`), PatternSeasonEpisode, true},
	{regexp.MustCompile(`(?i)(\d{1,2})x(\d{1,2})(?:-(\d{1,2}))?`), PatternCross, true},
	{regexp.MustCompile(`(?i)season\s*(\d{1,2}).*episode\s*(\d{1,2})`), PatternVerbose, true},
	{regexp.MustCompile(`(?i)^e(\d{1,2})(?:-e(\d{1,2}))?`), PatternEpisodeOnly, false},
	{regexp.MustCompile(`(?i)^(\d{1,2})(?:-(\d{1,2}))?[^x]`), PatternBareNumber, false},
}

// separatorPattern matches characters treated as word separators in release names.
var separatorPattern = regexp.MustCompile(`[._\-\[\]()]`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Season directory patterns: "Season 2" anywhere in the name, or a bare "S02".
var (
	seasonDirVerbose = regexp.MustCompile(`(?i)season\s*(\d{1,2})`)
	seasonDirShort   = regexp.MustCompile(`(?i)^s(\d{1,2})$`)
)

// ExtractYear returns the first 19xx/20xx token in text.
func ExtractYear(text string) (int, bool) {
	m := yearPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// ExtractQuality returns the first known quality token in text, as written.
func ExtractQuality(text string) string {
	return firstMatch(qualityPatterns, text)
}

// ExtractSource returns the first known release source token in text, as written.
func ExtractSource(text string) string {
	return firstMatch(sourcePatterns, text)
}

// ExtractCodec returns the first known video codec token in text, as written.
func ExtractCodec(text string) string {
	return firstMatch(codecPatterns, text)
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// ExtractTVMarkers finds season/episode markers in text.
// An episode range (S01E01-E02, 1x01-02) yields Episode=start and EpisodeEnd=end.
func ExtractTVMarkers(text string) Markers {
	for _, p := range tvPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		var out Markers
		out.Pattern = p.kind
		if p.withSeason {
			out.Season = atoiPtr(m[1])
			out.Episode = atoiPtr(m[2])
			if len(m) > 3 {
				out.EpisodeEnd = atoiPtr(m[3])
			}
		} else {
			out.Episode = atoiPtr(m[1])
			if len(m) > 2 {
				out.EpisodeEnd = atoiPtr(m[2])
			}
		}
		return out
	}
	return Markers{}
}

// atoiPtr parses a base-10 capture group; empty or invalid input yields nil.
func atoiPtr(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// CleanTitle strips quality, source, codec, TV-marker and year tokens from a
// raw release name and turns separators into single spaces.
// It is idempotent: CleanTitle(CleanTitle(x)) == CleanTitle(x).
func CleanTitle(raw string) string {
	s := raw
	for {
		next := cleanOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

// cleanOnce performs a single stripping pass. Stripping can expose new
// matches (e.g. "24 25 Hours"), so CleanTitle repeats it until stable.
func cleanOnce(s string) string {
	for _, re := range qualityPatterns {
		s = re.ReplaceAllString(s, "")
	}
	for _, re := range sourcePatterns {
		s = re.ReplaceAllString(s, "")
	}
	for _, re := range codecPatterns {
		s = re.ReplaceAllString(s, "")
	}
	for _, p := range tvPatterns {
		s = p.re.ReplaceAllString(s, "")
	}
	s = yearPattern.ReplaceAllString(s, "")

	s = separatorPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SeasonFromDir reads a season number from a directory name such as
// "Season 02", "season2" or "S02".
func SeasonFromDir(name string) (int, bool) {
	if m := seasonDirVerbose.FindStringSubmatch(name); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	if m := seasonDirShort.FindStringSubmatch(name); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	return 0, false
}
