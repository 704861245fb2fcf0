package naming

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vmunix/plexrename/internal/media"
)

func intPtr(n int) *int { return &n }

func found(title, date string, ids media.IDs) *media.Result {
	return &media.Result{
		Status:  media.StatusFound,
		Source:  "tmdb",
		Payload: media.Payload{Title: title, Date: date, IDs: ids},
	}
}

func unavailable() *media.Result {
	return &media.Result{Status: media.StatusUnavailable, Message: "no provider"}
}

func TestMovieName(t *testing.T) {
	tests := []struct {
		name  string
		desc  media.Descriptor
		movie *media.Result
		want  string
	}{
		{
			name:  "metadata wins when found",
			desc:  media.Descriptor{Title: "Inception", Year: intPtr(2009)},
			movie: found("Inception", "2010-07-16", media.IDs{TMDB: 27205}),
			want:  "Inception (2010)",
		},
		{
			name:  "descriptor when unavailable",
			desc:  media.Descriptor{Title: "The Matrix", Year: intPtr(1999)},
			movie: unavailable(),
			want:  "The Matrix (1999)",
		},
		{
			name:  "no year anywhere",
			desc:  media.Descriptor{Title: "Heat"},
			movie: nil,
			want:  "Heat",
		},
		{
			name:  "found without release date keeps descriptor year",
			desc:  media.Descriptor{Title: "Heat", Year: intPtr(1995)},
			movie: found("Heat", "", media.IDs{}),
			want:  "Heat (1995)",
		},
		{
			name: "partial ignored",
			desc: media.Descriptor{Title: "Alien", Year: intPtr(1979)},
			movie: &media.Result{
				Status:  media.StatusPartial,
				Message: "no details",
				Payload: media.Payload{Title: "Aliens", Date: "1986-07-18"},
			},
			want: "Alien (1979)",
		},
		{
			name:  "illegal characters removed after interpolation",
			desc:  media.Descriptor{Title: "x"},
			movie: found("Mission: Impossible", "1996-05-22", media.IDs{}),
			want:  "Mission Impossible (1996)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MovieName(tt.desc, tt.movie))
		})
	}
}

func TestEpisodeName(t *testing.T) {
	desc := media.Descriptor{Title: "Breaking Bad", Season: intPtr(1), Episode: intPtr(1)}
	episode := &media.Result{Status: media.StatusFound, Payload: media.Payload{Title: "Pilot"}}

	assert.Equal(t, "Breaking Bad - s01e01", EpisodeName(desc, unavailable(), nil, true))
	assert.Equal(t, "Breaking Bad - s01e01 - Pilot", EpisodeName(desc, found("Breaking Bad", "2008-01-20", media.IDs{}), episode, true))
	assert.Equal(t, "Breaking Bad - s01e01", EpisodeName(desc, found("Breaking Bad", "2008-01-20", media.IDs{}), episode, false))

	partial := &media.Result{Status: media.StatusPartial, Message: "x", Payload: media.Payload{Title: "Pilot"}}
	assert.Equal(t, "Breaking Bad - s01e01", EpisodeName(desc, nil, partial, true))
}

func TestEpisodeName_Defaults(t *testing.T) {
	desc := media.Descriptor{Title: "Dark"}
	assert.Equal(t, "Dark - s01e01", EpisodeName(desc, nil, nil, false))

	desc.Season = intPtr(0)
	desc.Episode = intPtr(3)
	assert.Equal(t, "Dark - s00e03", EpisodeName(desc, nil, nil, false))
}

func TestEpisodeName_Range(t *testing.T) {
	desc := media.Descriptor{Title: "Lost", Season: intPtr(1), Episode: intPtr(1), EpisodeEnd: intPtr(2)}
	assert.Equal(t, "Lost - s01e01-e02", EpisodeName(desc, nil, nil, false))
}

func TestEpisodeName_SanitizesEpisodeTitle(t *testing.T) {
	desc := media.Descriptor{Title: "Show", Season: intPtr(2), Episode: intPtr(10)}
	episode := &media.Result{Status: media.StatusFound, Payload: media.Payload{Title: "What?  Why...  "}}
	assert.Equal(t, "Show - s02e10 - What Why", EpisodeName(desc, nil, episode, true))
}

func TestShowFolder(t *testing.T) {
	desc := media.Descriptor{Title: "Breaking Bad"}
	show := found("Breaking Bad", "2008-01-20", media.IDs{TMDB: 1396, TVDB: 81189})

	assert.Equal(t, "Breaking Bad (2008)", ShowFolder(desc, show, false, "tvdb"))
	assert.Equal(t, "Breaking Bad (2008) {tvdb-81189}", ShowFolder(desc, show, true, "tvdb"))
	assert.Equal(t, "Breaking Bad (2008) {tmdb-1396}", ShowFolder(desc, show, true, "tmdb"))

	noTVDB := found("Dark", "2017-12-01", media.IDs{TMDB: 70523})
	assert.Equal(t, "Dark (2017)", ShowFolder(media.Descriptor{Title: "Dark"}, noTVDB, true, "tvdb"))
}

func TestShowFolder_NotFound(t *testing.T) {
	desc := media.Descriptor{Title: "Some: Show", Year: intPtr(2020)}
	assert.Equal(t, "Some Show", ShowFolder(desc, unavailable(), true, "tvdb"))
	assert.Equal(t, "Some Show", ShowFolder(desc, nil, false, "tvdb"))
}

func TestShowFolder_YearFallsBackToDescriptor(t *testing.T) {
	desc := media.Descriptor{Title: "The Office", Year: intPtr(2005)}
	assert.Equal(t, "The Office (2005)", ShowFolder(desc, found("The Office", "", media.IDs{}), false, "tvdb"))
	assert.Equal(t, "The Office", ShowFolder(media.Descriptor{Title: "The Office"}, found("The Office", "", media.IDs{}), false, "tvdb"))
}

func TestSeasonFolder(t *testing.T) {
	assert.Equal(t, "Season 01", SeasonFolder(nil))
	assert.Equal(t, "Season 00", SeasonFolder(intPtr(0)))
	assert.Equal(t, "Season 12", SeasonFolder(intPtr(12)))
	assert.Equal(t, "Season 100", SeasonFolder(intPtr(100)))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Normal Name", "Normal Name"},
		{`a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"  spaced   out\tname  ", "spaced out name"},
		{"Trailing...", "Trailing"},
		{"Mr. Robot", "Mr. Robot"},
		{"nul\x00byte", "nulbyte"},
		{"???", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), "input %q", tt.in)
	}
}

func TestPlanMovie(t *testing.T) {
	movies := filepath.Join("/library", "movies")
	desc := media.Descriptor{
		Path:      filepath.Join("/downloads", "The.Matrix.1999.1080p.BluRay.x264.avi"),
		Title:     "The Matrix",
		Year:      intPtr(1999),
		Extension: ".avi",
		Kind:      media.KindMovie,
	}
	movie := unavailable()

	c := NewComposer(Options{MoviesRoot: movies, CreateMovieFolders: true})
	plan := c.PlanMovie(desc, movie)
	assert.Equal(t, desc.Path, plan.Source)
	assert.Equal(t, filepath.Join(movies, "The Matrix (1999)", "The Matrix (1999).avi"), plan.Target)
	assert.Same(t, movie, plan.Movie)
	assert.Nil(t, plan.Show)
	assert.Equal(t, desc, plan.Descriptor)

	flat := NewComposer(Options{MoviesRoot: movies})
	assert.Equal(t, filepath.Join(movies, "The Matrix (1999).avi"), flat.PlanMovie(desc, movie).Target)

	inPlace := NewComposer(Options{})
	assert.Equal(t, filepath.Join("/downloads", "The Matrix (1999).avi"), inPlace.PlanMovie(desc, movie).Target)
}

func TestPlanMovie_InPlaceIsStable(t *testing.T) {
	desc := media.Descriptor{
		Path:      filepath.Join("/lib", "The Matrix (1999)", "The Matrix (1999).mkv"),
		Title:     "The Matrix",
		Year:      intPtr(1999),
		Extension: ".mkv",
		Kind:      media.KindMovie,
	}
	c := NewComposer(Options{CreateMovieFolders: true})
	plan := c.PlanMovie(desc, unavailable())
	assert.Equal(t, plan.Source, plan.Target)

	// Loose file gets a sibling movie folder.
	desc.Path = filepath.Join("/lib", "The.Matrix.1999.1080p.mkv")
	assert.Equal(t, filepath.Join("/lib", "The Matrix (1999)", "The Matrix (1999).mkv"), c.PlanMovie(desc, unavailable()).Target)
}

func TestPlanEpisode_InPlaceIsStable(t *testing.T) {
	desc := media.Descriptor{
		Path:      filepath.Join("/lib", "Breaking Bad", "Season 01", "Breaking Bad - s01e01.mkv"),
		Title:     "Breaking Bad",
		Season:    intPtr(1),
		Episode:   intPtr(1),
		Extension: ".mkv",
		Kind:      media.KindTV,
	}
	c := NewComposer(Options{})
	plan := c.PlanEpisode(desc, unavailable(), nil)
	assert.Equal(t, plan.Source, plan.Target)

	desc.Path = filepath.Join("/downloads", "Breaking.Bad.S01E01.mkv")
	assert.Equal(t, filepath.Join("/downloads", "Breaking Bad", "Season 01", "Breaking Bad - s01e01.mkv"),
		c.PlanEpisode(desc, unavailable(), nil).Target)
}

func TestNames_EmptyAfterSanitize(t *testing.T) {
	d := media.Descriptor{Title: "Inception", Year: intPtr(2010), Season: intPtr(1), Episode: intPtr(1)}
	assert.Empty(t, MovieName(d, found("???", "2010-07-16", media.IDs{})))
	assert.Empty(t, EpisodeName(d, found("???", "", media.IDs{}), nil, false))
	assert.Empty(t, MovieName(media.Descriptor{Year: intPtr(2010)}, unavailable()))
}

func TestPlanEpisode_Unavailable(t *testing.T) {
	tv := filepath.Join("/library", "tv")
	desc := media.Descriptor{
		Path:      filepath.Join("/downloads", "Breaking.Bad.S01E01.720p.HDTV.x264.mkv"),
		Title:     "Breaking Bad",
		Season:    intPtr(1),
		Episode:   intPtr(1),
		Extension: ".mkv",
		Kind:      media.KindTV,
	}

	c := NewComposer(Options{TVRoot: tv, IncludeEpisodeTitle: true, IncludeSeriesID: true})
	plan := c.PlanEpisode(desc, unavailable(), nil)

	assert.Equal(t, filepath.Join(tv, "Breaking Bad", "Season 01", "Breaking Bad - s01e01.mkv"), plan.Target)
	assert.Nil(t, plan.Episode)
	assert.Nil(t, plan.Movie)
}

func TestPlanEpisode_Found(t *testing.T) {
	tv := filepath.Join("/library", "tv")
	desc := media.Descriptor{
		Path:      filepath.Join("/downloads", "breaking.bad.s01e02.mkv"),
		Title:     "breaking bad",
		Season:    intPtr(1),
		Episode:   intPtr(2),
		Extension: ".mkv",
	}
	show := found("Breaking Bad", "2008-01-20", media.IDs{TVDB: 81189, TMDB: 1396})
	episode := &media.Result{Status: media.StatusFound, Payload: media.Payload{Title: "Cat's in the Bag..."}}

	c := NewComposer(Options{TVRoot: tv, IncludeEpisodeTitle: true, IncludeSeriesID: true})
	plan := c.PlanEpisode(desc, show, episode)

	assert.Equal(t, filepath.Join(tv, "Breaking Bad (2008) {tvdb-81189}", "Season 01",
		"Breaking Bad - s01e02 - Cat's in the Bag.mkv"), plan.Target)
}

func TestApplyTemplate(t *testing.T) {
	assert.Equal(t, "S01E05", applyTemplate("S{s:02}E{e:02}", map[string]any{"s": 1, "e": 5}))
	assert.Equal(t, "id 007", applyTemplate("id {id:03}", map[string]any{"id": int64(7)}))
	assert.Equal(t, "{missing}", applyTemplate("{missing}", nil))
	assert.Equal(t, "title", applyTemplate("{t:02}", map[string]any{"t": "title"}))
}
