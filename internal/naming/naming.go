// Package naming turns descriptors and resolved metadata into library paths.
//
// Layout:
//
//	{movies}/{Title (Year)}/{Title (Year)}.ext
//	{tv}/{Show (Year)[ {tvdb-ID}]}/Season NN/{Show - sNNeNN[-eNN][ - Episode]}.ext
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/plexrename/internal/media"
)

// Name templates. Placeholders are {name} or {name:02} for zero padding.
const (
	movieTemplate   = "{title} ({year})"
	episodeTemplate = "{show} - s{season:02}e{episode:02}"
	rangeTemplate   = "-e{episode_end:02}"
	seasonTemplate  = "Season {season:02}"
	idTemplate      = "{{source}-{id}}"
)

// Options control optional parts of composed names.
type Options struct {
	MoviesRoot          string
	TVRoot              string
	CreateMovieFolders  bool
	IncludeEpisodeTitle bool
	IncludeSeriesID     bool
	PreferredIDSource   string // "tvdb" or "tmdb"
}

// Composer builds rename plans. It is stateless and safe for concurrent use.
type Composer struct {
	opts Options
}

// NewComposer creates a Composer. An empty PreferredIDSource means tvdb.
func NewComposer(opts Options) *Composer {
	if opts.PreferredIDSource == "" {
		opts.PreferredIDSource = "tvdb"
	}
	return &Composer{opts: opts}
}

// MovieName composes "{title} ({year})". Metadata wins over the descriptor
// only when the movie result is found. A title that sanitizes to nothing
// gives "".
func MovieName(d media.Descriptor, movie *media.Result) string {
	title := d.Title
	year, hasYear := 0, d.Year != nil
	if hasYear {
		year = *d.Year
	}
	if movie.Found() {
		title = movie.Payload.Title
		if y, ok := movie.Payload.Year(); ok {
			year, hasYear = y, true
		}
	}
	if Sanitize(title) == "" {
		return ""
	}
	if !hasYear {
		return Sanitize(title)
	}
	return Sanitize(applyTemplate(movieTemplate, map[string]any{"title": title, "year": year}))
}

// EpisodeName composes "{show} - sNNeNN[-eNN][ - {episode title}]".
// Season and episode default to 1. The episode title is appended only when
// includeTitle is set and the episode result is found. An empty show title
// gives "".
func EpisodeName(d media.Descriptor, show, episode *media.Result, includeTitle bool) string {
	title := showTitle(d, show)
	if Sanitize(title) == "" {
		return ""
	}
	name := applyTemplate(episodeTemplate, map[string]any{
		"show":    title,
		"season":  d.SeasonOr(1),
		"episode": d.EpisodeOr(1),
	})
	if d.EpisodeEnd != nil {
		name += applyTemplate(rangeTemplate, map[string]any{"episode_end": *d.EpisodeEnd})
	}
	if includeTitle && episode.Found() {
		name += " - " + episode.Payload.Title
	}
	return Sanitize(name)
}

// ShowFolder composes "{show} ({first-air year})" with an optional
// "{source-ID}" suffix taken from the preferred catalog. When the show is
// not found the folder is the descriptor title alone.
func ShowFolder(d media.Descriptor, show *media.Result, includeID bool, preferred string) string {
	if !show.Found() {
		return Sanitize(d.Title)
	}

	name := show.Payload.Title
	if y, ok := show.Payload.Year(); ok {
		name = applyTemplate(movieTemplate, map[string]any{"title": name, "year": y})
	} else if d.Year != nil {
		name = applyTemplate(movieTemplate, map[string]any{"title": name, "year": *d.Year})
	}

	if includeID {
		if id := idFor(show.Payload.IDs, preferred); id != 0 {
			name += " " + applyTemplate(idTemplate, map[string]any{"source": preferred, "id": id})
		}
	}
	return Sanitize(name)
}

// SeasonFolder returns "Season NN", defaulting to season 1.
func SeasonFolder(season *int) string {
	n := 1
	if season != nil {
		n = *season
	}
	return applyTemplate(seasonTemplate, map[string]any{"season": n})
}

// PlanMovie builds the plan for a movie file. Without a movies root the
// target stays beside the source, or beside its movie folder when the file
// already sits in one.
func (c *Composer) PlanMovie(d media.Descriptor, movie *media.Result) media.RenamePlan {
	name := MovieName(d, movie)
	var dir string
	if c.opts.CreateMovieFolders {
		dir = filepath.Join(c.root(c.opts.MoviesRoot, d.Path, name), name)
	} else {
		dir = c.root(c.opts.MoviesRoot, d.Path)
	}
	return media.RenamePlan{
		Source:     d.Path,
		Target:     filepath.Join(dir, name+d.Extension),
		Descriptor: d,
		Movie:      movie,
	}
}

// PlanEpisode builds the plan for an episode file. Without a TV root the
// show folder goes beside the source, above any show and season folders the
// file is already in.
func (c *Composer) PlanEpisode(d media.Descriptor, show, episode *media.Result) media.RenamePlan {
	name := EpisodeName(d, show, episode, c.opts.IncludeEpisodeTitle)
	showDir := ShowFolder(d, show, c.opts.IncludeSeriesID, c.opts.PreferredIDSource)
	seasonDir := SeasonFolder(d.Season)
	dir := filepath.Join(c.root(c.opts.TVRoot, d.Path, showDir, seasonDir), showDir, seasonDir)
	return media.RenamePlan{
		Source:     d.Path,
		Target:     filepath.Join(dir, name+d.Extension),
		Descriptor: d,
		Show:       show,
		Episode:    episode,
	}
}

// root returns the configured root, or else the source's directory minus
// any trailing ancestors already named like folders.
func (c *Composer) root(configured, source string, folders ...string) string {
	if configured != "" {
		return configured
	}
	dir := filepath.Dir(source)
	for i := len(folders) - 1; i >= 0; i-- {
		if folders[i] == "" || filepath.Base(dir) != folders[i] {
			break
		}
		dir = filepath.Dir(dir)
	}
	return dir
}

func showTitle(d media.Descriptor, show *media.Result) string {
	if show.Found() {
		return show.Payload.Title
	}
	return d.Title
}

func idFor(ids media.IDs, source string) int64 {
	switch source {
	case "tmdb":
		return ids.TMDB
	case "tvdb":
		return ids.TVDB
	}
	return 0
}

var (
	illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Sanitize makes a composed name safe as a single path element: characters
// illegal on common filesystems are removed, whitespace runs collapse to one
// space, and leading/trailing spaces and trailing periods are stripped.
func Sanitize(name string) string {
	name = illegalChars.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	name = strings.TrimRight(name, ".")
	return strings.TrimSpace(name)
}

// formatPattern matches {name} or {name:02} style placeholders.
var formatPattern = regexp.MustCompile(`\{(\w+)(?::(\d+))?\}`)

// applyTemplate substitutes vars into template. Unknown placeholders are
// left as is.
func applyTemplate(template string, vars map[string]any) string {
	return formatPattern.ReplaceAllStringFunc(template, func(match string) string {
		parts := formatPattern.FindStringSubmatch(match)
		val, ok := vars[parts[1]]
		if !ok {
			return match
		}

		if parts[2] != "" {
			if width, err := strconv.Atoi(parts[2]); err == nil {
				switch v := val.(type) {
				case int:
					return fmt.Sprintf("%0*d", width, v)
				case int64:
					return fmt.Sprintf("%0*d", width, v)
				}
			}
		}
		return fmt.Sprintf("%v", val)
	})
}
