// Package media defines the records passed between the classification,
// resolution and naming stages. Each stage owns the record it produces and
// never holds a reference back to its producer.
package media

// Kind is the media type of a single file.
type Kind string

const (
	KindMovie   Kind = "movie"
	KindTV      Kind = "tv"
	KindUnknown Kind = "unknown"
)

// Hint tells the classifier how to treat a file.
type Hint string

const (
	HintAuto  Hint = "auto"
	HintMovie Hint = "movie"
	HintTV    Hint = "tv"
)

// ParseHint maps user input onto a Hint. Unknown values fall back to auto.
func ParseHint(s string) Hint {
	switch s {
	case "movie", "movies":
		return HintMovie
	case "tv", "tv_shows", "show", "shows":
		return HintTV
	default:
		return HintAuto
	}
}

// Descriptor is what a single file path says about its content.
// Optional numbers are nil when the filename (or, for season, its
// ancestor directories) did not carry them.
type Descriptor struct {
	Path       string `json:"path"`
	Filename   string `json:"filename"`
	Extension  string `json:"extension"`
	Title      string `json:"title"`
	Year       *int   `json:"year,omitempty"`
	Season     *int   `json:"season,omitempty"`
	Episode    *int   `json:"episode,omitempty"`
	EpisodeEnd *int   `json:"episode_end,omitempty"`
	Quality    string `json:"quality,omitempty"`
	Source     string `json:"source,omitempty"`
	Codec      string `json:"codec,omitempty"`
	Kind       Kind   `json:"kind"`
}

// YearOr returns the descriptor year or def when unknown.
func (d Descriptor) YearOr(def int) int {
	if d.Year == nil {
		return def
	}
	return *d.Year
}

// SeasonOr returns the season or def when unknown.
func (d Descriptor) SeasonOr(def int) int {
	if d.Season == nil {
		return def
	}
	return *d.Season
}

// EpisodeOr returns the episode or def when unknown.
func (d Descriptor) EpisodeOr(def int) int {
	if d.Episode == nil {
		return def
	}
	return *d.Episode
}

// FolderKind is the dominant content type of a folder.
type FolderKind string

const (
	FolderMovies  FolderKind = "movies"
	FolderTVShows FolderKind = "tv_shows"
	FolderMixed   FolderKind = "mixed"
	FolderNone    FolderKind = "none"
)

// FolderProfile is the verdict for one candidate folder.
type FolderProfile struct {
	Path          string     `json:"path"`
	Name          string     `json:"name"`
	MediaCount    int        `json:"media_count"`
	FileCount     int        `json:"file_count"`
	SubdirCount   int        `json:"subdir_count"`
	SeasonFolders int        `json:"season_folders"`
	Kind          FolderKind `json:"kind"`
	Confidence    float64    `json:"confidence"`
	Samples       []string   `json:"samples,omitempty"`
}

// RenamePlan is a proposed source to target move plus the evidence used
// to derive it. The core never mutates a plan once built.
type RenamePlan struct {
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	Descriptor Descriptor `json:"descriptor"`
	Movie      *Result    `json:"movie,omitempty"`
	Show       *Result    `json:"show,omitempty"`
	Episode    *Result    `json:"episode,omitempty"`
}
