package metadata_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/plexrename/internal/media"
	"github.com/vmunix/plexrename/internal/metadata"
	"github.com/vmunix/plexrename/internal/metadata/mocks"
	"go.uber.org/mock/gomock"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(n int) *int { return &n }

func movieDescriptor(title string, year *int) media.Descriptor {
	return media.Descriptor{Title: title, Year: year, Kind: media.KindMovie, Filename: title + ".mkv"}
}

func tvDescriptor(title string, season, episode *int) media.Descriptor {
	return media.Descriptor{Title: title, Season: season, Episode: episode, Kind: media.KindTV}
}

func newMovieProvider(ctrl *gomock.Controller) *mocks.MockMovieProvider {
	m := mocks.NewMockMovieProvider(ctrl)
	m.EXPECT().Name().Return("tmdb").AnyTimes()
	return m
}

func newTVProvider(ctrl *gomock.Controller, name string) *mocks.MockTVProvider {
	m := mocks.NewMockTVProvider(ctrl)
	m.EXPECT().Name().Return(name).AnyTimes()
	return m
}

func TestResolveMovie_Found(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := newMovieProvider(ctrl)

	movies.EXPECT().
		SearchMovies(gomock.Any(), "Inception", 2010).
		Return([]metadata.Candidate{
			{ID: 64956, Title: "Inception: The Cobol Job", Date: "2010-12-07"},
			{ID: 27205, Title: "Inception", Date: "2010-07-15"},
		}, nil)
	movies.EXPECT().
		MovieDetails(gomock.Any(), int64(64956)).
		Return(&metadata.Candidate{
			ID:    64956,
			Title: "Inception: The Cobol Job",
			Date:  "2010-12-07",
			IDs:   media.IDs{TMDB: 64956, IMDB: "tt5295894"},
		}, nil)

	r := metadata.NewResolver(movies, nil, testLogger())
	res := r.ResolveMovie(context.Background(), movieDescriptor("Inception", intPtr(2010)))

	assert.Equal(t, media.StatusFound, res.Status)
	assert.Equal(t, "tmdb", res.Source)
	assert.Equal(t, "Inception: The Cobol Job", res.Payload.Title, "first candidate dated in the year wins")
	assert.Equal(t, "tt5295894", res.Payload.IDs.IMDB)
	assert.NoError(t, res.Validate())
}

func TestResolveMovie_PrefersYearMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := newMovieProvider(ctrl)

	movies.EXPECT().
		SearchMovies(gomock.Any(), "Dune", 1984).
		Return([]metadata.Candidate{
			{ID: 438631, Title: "Dune", Date: "2021-09-15"},
			{ID: 841, Title: "Dune", Date: "1984-12-14"},
		}, nil)
	movies.EXPECT().
		MovieDetails(gomock.Any(), int64(841)).
		Return(&metadata.Candidate{ID: 841, Title: "Dune", Date: "1984-12-14"}, nil)

	r := metadata.NewResolver(movies, nil, testLogger())
	res := r.ResolveMovie(context.Background(), movieDescriptor("Dune", intPtr(1984)))

	require.Equal(t, media.StatusFound, res.Status)
	assert.Equal(t, "1984-12-14", res.Payload.Date)
	assert.InDelta(t, 1.0, res.MatchScore, 1e-9)
}

func TestResolveMovie_NoYearTakesFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := newMovieProvider(ctrl)

	movies.EXPECT().
		SearchMovies(gomock.Any(), "Dune", 0).
		Return([]metadata.Candidate{
			{ID: 438631, Title: "Dune", Date: "2021-09-15"},
			{ID: 841, Title: "Dune", Date: "1984-12-14"},
		}, nil)
	movies.EXPECT().
		MovieDetails(gomock.Any(), int64(438631)).
		Return(&metadata.Candidate{ID: 438631, Title: "Dune", Date: "2021-09-15"}, nil)

	r := metadata.NewResolver(movies, nil, testLogger())
	res := r.ResolveMovie(context.Background(), movieDescriptor("Dune", nil))

	assert.Equal(t, media.StatusFound, res.Status)
	assert.Equal(t, "2021-09-15", res.Payload.Date)
}

func TestResolveMovie_Unavailable(t *testing.T) {
	r := metadata.NewResolver(nil, nil, testLogger())
	res := r.ResolveMovie(context.Background(), movieDescriptor("The Matrix", intPtr(1999)))

	assert.Equal(t, media.StatusUnavailable, res.Status)
	assert.Contains(t, res.Message, `"The Matrix" (1999)`)
	assert.NoError(t, res.Validate())
}

func TestResolveMovie_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := newMovieProvider(ctrl)
	movies.EXPECT().SearchMovies(gomock.Any(), "Nope", 2001).Return(nil, nil)

	r := metadata.NewResolver(movies, nil, testLogger())
	res := r.ResolveMovie(context.Background(), movieDescriptor("Nope", intPtr(2001)))

	assert.Equal(t, media.StatusNotFound, res.Status)
	assert.Contains(t, res.Message, `"Nope" (2001)`)
}

func TestResolveMovie_SearchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := newMovieProvider(ctrl)
	movies.EXPECT().SearchMovies(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	r := metadata.NewResolver(movies, nil, testLogger())
	res := r.ResolveMovie(context.Background(), movieDescriptor("Heat", intPtr(1995)))

	assert.Equal(t, media.StatusError, res.Status)
	assert.Contains(t, res.Message, "connection refused")
	assert.Contains(t, res.Message, `"Heat" (1995)`)
}

func TestResolveMovie_DetailsFailIsPartial(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := newMovieProvider(ctrl)
	movies.EXPECT().
		SearchMovies(gomock.Any(), "Heat", 1995).
		Return([]metadata.Candidate{{ID: 949, Title: "Heat", Date: "1995-12-15"}}, nil)
	movies.EXPECT().MovieDetails(gomock.Any(), int64(949)).Return(nil, errors.New("timeout"))

	r := metadata.NewResolver(movies, nil, testLogger())
	res := r.ResolveMovie(context.Background(), movieDescriptor("Heat", intPtr(1995)))

	assert.Equal(t, media.StatusPartial, res.Status)
	assert.Equal(t, "Heat", res.Payload.Title)
	assert.Contains(t, res.Message, "timeout")
	assert.False(t, res.Found())
}

func TestResolveMovie_EmptyDetailTitleFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := newMovieProvider(ctrl)
	movies.EXPECT().
		SearchMovies(gomock.Any(), "Heat", 0).
		Return([]metadata.Candidate{{ID: 949, Title: "Heat", Date: "1995-12-15"}}, nil)
	movies.EXPECT().MovieDetails(gomock.Any(), int64(949)).Return(&metadata.Candidate{ID: 949}, nil)

	r := metadata.NewResolver(movies, nil, testLogger())
	res := r.ResolveMovie(context.Background(), movieDescriptor("Heat", nil))

	assert.Equal(t, media.StatusFound, res.Status)
	assert.Equal(t, "Heat", res.Payload.Title)
	assert.Equal(t, "1995-12-15", res.Payload.Date)
}

func TestResolveMovie_EmptyTitle(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := newMovieProvider(ctrl)

	r := metadata.NewResolver(movies, nil, testLogger())
	res := r.ResolveMovie(context.Background(), movieDescriptor("", nil))

	assert.Equal(t, media.StatusNotFound, res.Status)
	assert.NoError(t, res.Validate())
}

func TestResolveTV_Unavailable(t *testing.T) {
	r := metadata.NewResolver(nil, nil, testLogger())
	show, episode := r.ResolveTV(context.Background(), tvDescriptor("Breaking Bad", intPtr(1), intPtr(1)))

	assert.Equal(t, media.StatusUnavailable, show.Status)
	assert.Nil(t, episode)
}

func TestResolveTV_FirstProviderWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newTVProvider(ctrl, "tvdb")
	b := newTVProvider(ctrl, "tmdb")

	a.EXPECT().
		SearchSeries(gomock.Any(), "Breaking Bad", 0).
		Return([]metadata.Candidate{{ID: 81189, Title: "Breaking Bad", Date: "2008-01-20"}}, nil)
	a.EXPECT().
		SeriesDetails(gomock.Any(), int64(81189)).
		Return(&metadata.Candidate{ID: 81189, Title: "Breaking Bad", Date: "2008-01-20", IDs: media.IDs{TVDB: 81189}}, nil)
	a.EXPECT().
		Episodes(gomock.Any(), int64(81189), 1).
		Return([]metadata.Episode{
			{ID: 349232, Season: 1, Number: 1, Title: "Pilot"},
			{ID: 349233, Season: 1, Number: 2, Title: "Cat's in the Bag..."},
		}, nil)
	a.EXPECT().
		EpisodeDetails(gomock.Any(), int64(81189), metadata.Episode{ID: 349233, Season: 1, Number: 2, Title: "Cat's in the Bag..."}).
		Return(&metadata.Episode{ID: 349233, Season: 1, Number: 2, Title: "Cat's in the Bag...", AirDate: "2008-01-27"}, nil)
	// b must never be consulted
	b.EXPECT().SearchSeries(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	r := metadata.NewResolver(nil, []metadata.TVProvider{a, b}, testLogger())
	show, episode := r.ResolveTV(context.Background(), tvDescriptor("Breaking Bad", intPtr(1), intPtr(2)))

	require.Equal(t, media.StatusFound, show.Status)
	assert.Equal(t, "tvdb", show.Source)
	assert.Equal(t, int64(81189), show.Payload.IDs.TVDB)

	require.NotNil(t, episode)
	assert.Equal(t, media.StatusFound, episode.Status)
	assert.Equal(t, "Cat's in the Bag...", episode.Payload.Title)
	assert.Equal(t, 2, episode.Payload.Episode)
}

func TestResolveTV_FoundNeverOverriddenByFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newTVProvider(ctrl, "tvdb")
	b := newTVProvider(ctrl, "tmdb")

	a.EXPECT().SearchSeries(gomock.Any(), "Lost", 0).
		Return([]metadata.Candidate{{ID: 73739, Title: "Lost", Date: "2004-09-22"}}, nil)
	a.EXPECT().SeriesDetails(gomock.Any(), int64(73739)).
		Return(&metadata.Candidate{ID: 73739, Title: "Lost", Date: "2004-09-22"}, nil)
	// episode lookup on A fails; that must not hand the show over to B
	a.EXPECT().Episodes(gomock.Any(), int64(73739), 1).Return(nil, errors.New("boom"))
	b.EXPECT().SearchSeries(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	r := metadata.NewResolver(nil, []metadata.TVProvider{a, b}, testLogger())
	show, episode := r.ResolveTV(context.Background(), tvDescriptor("Lost", intPtr(1), intPtr(4)))

	assert.Equal(t, media.StatusFound, show.Status)
	assert.Equal(t, "tvdb", show.Source)
	require.NotNil(t, episode)
	assert.Equal(t, media.StatusError, episode.Status)
	assert.Contains(t, episode.Message, "boom")
}

func TestResolveTV_FallsBackToSecondProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newTVProvider(ctrl, "tvdb")
	b := newTVProvider(ctrl, "tmdb")

	a.EXPECT().SearchSeries(gomock.Any(), "Dark", 2017).Return(nil, nil)
	b.EXPECT().SearchSeries(gomock.Any(), "Dark", 2017).
		Return([]metadata.Candidate{{ID: 70523, Title: "Dark", Date: "2017-12-01"}}, nil)
	b.EXPECT().SeriesDetails(gomock.Any(), int64(70523)).
		Return(&metadata.Candidate{ID: 70523, Title: "Dark", Date: "2017-12-01", IDs: media.IDs{TMDB: 70523, TVDB: 334824}}, nil)

	d := tvDescriptor("Dark", nil, intPtr(3))
	d.Year = intPtr(2017)

	r := metadata.NewResolver(nil, []metadata.TVProvider{a, b}, testLogger())
	show, episode := r.ResolveTV(context.Background(), d)

	assert.Equal(t, media.StatusFound, show.Status)
	assert.Equal(t, "tmdb", show.Source)
	assert.Equal(t, int64(334824), show.Payload.IDs.TVDB)
	assert.Nil(t, episode, "no episode lookup without a season")
}

func TestResolveTV_PartialOnAFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newTVProvider(ctrl, "tvdb")
	b := newTVProvider(ctrl, "tmdb")

	a.EXPECT().SearchSeries(gomock.Any(), "Dark", 0).
		Return([]metadata.Candidate{{ID: 1, Title: "Dark"}}, nil)
	a.EXPECT().SeriesDetails(gomock.Any(), int64(1)).Return(nil, errors.New("502"))
	b.EXPECT().SearchSeries(gomock.Any(), "Dark", 0).
		Return([]metadata.Candidate{{ID: 70523, Title: "Dark", Date: "2017-12-01"}}, nil)
	b.EXPECT().SeriesDetails(gomock.Any(), int64(70523)).
		Return(&metadata.Candidate{ID: 70523, Title: "Dark", Date: "2017-12-01"}, nil)

	r := metadata.NewResolver(nil, []metadata.TVProvider{a, b}, testLogger())
	show, _ := r.ResolveTV(context.Background(), tvDescriptor("Dark", nil, nil))

	assert.Equal(t, media.StatusFound, show.Status)
	assert.Equal(t, "tmdb", show.Source)
}

func TestResolveTV_NeitherFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newTVProvider(ctrl, "tvdb")
	b := newTVProvider(ctrl, "tmdb")

	a.EXPECT().SearchSeries(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("login failed"))
	b.EXPECT().SearchSeries(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	r := metadata.NewResolver(nil, []metadata.TVProvider{a, b}, testLogger())
	show, episode := r.ResolveTV(context.Background(), tvDescriptor("Nothing Show", intPtr(1), intPtr(1)))

	assert.Equal(t, media.StatusNotFound, show.Status)
	assert.Contains(t, show.Message, `"Nothing Show"`)
	assert.Contains(t, show.Message, "tvdb")
	assert.Contains(t, show.Message, "tmdb")
	assert.Contains(t, show.Message, "login failed")
	assert.Nil(t, episode)
	assert.NoError(t, show.Validate())
}

func TestResolveTV_EpisodeMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newTVProvider(ctrl, "tvdb")

	a.EXPECT().SearchSeries(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]metadata.Candidate{{ID: 5, Title: "Show"}}, nil)
	a.EXPECT().SeriesDetails(gomock.Any(), int64(5)).Return(&metadata.Candidate{ID: 5, Title: "Show"}, nil)
	a.EXPECT().Episodes(gomock.Any(), int64(5), 2).
		Return([]metadata.Episode{{ID: 1, Season: 2, Number: 1, Title: "One"}}, nil)

	r := metadata.NewResolver(nil, []metadata.TVProvider{a}, testLogger())
	show, episode := r.ResolveTV(context.Background(), tvDescriptor("Show", intPtr(2), intPtr(7)))

	assert.True(t, show.Found())
	require.NotNil(t, episode)
	assert.Equal(t, media.StatusNotFound, episode.Status)
	assert.Contains(t, episode.Message, "s02e07")
}

func TestResolveTV_EpisodeDetailsFailIsPartial(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newTVProvider(ctrl, "tmdb")

	a.EXPECT().SearchSeries(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]metadata.Candidate{{ID: 5, Title: "Show"}}, nil)
	a.EXPECT().SeriesDetails(gomock.Any(), int64(5)).Return(&metadata.Candidate{ID: 5, Title: "Show"}, nil)
	a.EXPECT().Episodes(gomock.Any(), int64(5), 1).
		Return([]metadata.Episode{{ID: 9, Season: 1, Number: 1, Title: "Pilot"}}, nil)
	a.EXPECT().EpisodeDetails(gomock.Any(), int64(5), gomock.Any()).Return(nil, errors.New("nope"))

	r := metadata.NewResolver(nil, []metadata.TVProvider{a}, testLogger())
	_, episode := r.ResolveTV(context.Background(), tvDescriptor("Show", intPtr(1), intPtr(1)))

	require.NotNil(t, episode)
	assert.Equal(t, media.StatusPartial, episode.Status)
	assert.Equal(t, "Pilot", episode.Payload.Title)
}

func TestResolver_ProviderNames(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := metadata.NewResolver(newMovieProvider(ctrl),
		[]metadata.TVProvider{newTVProvider(ctrl, "tvdb"), newTVProvider(ctrl, "tmdb")}, nil)

	assert.True(t, r.HasMovieProvider())
	assert.Equal(t, []string{"tvdb", "tmdb"}, r.TVProviders())
}

func TestResolveMovie_WarnsWhenCloserTitlePassedOver(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := newMovieProvider(ctrl)

	movies.EXPECT().
		SearchMovies(gomock.Any(), "Heat", 0).
		Return([]metadata.Candidate{
			{ID: 1, Title: "Heatwave Chronicles", Date: "2001-01-01"},
			{ID: 949, Title: "Heat", Date: "1995-12-15"},
		}, nil)
	movies.EXPECT().
		MovieDetails(gomock.Any(), int64(1)).
		Return(&metadata.Candidate{ID: 1, Title: "Heatwave Chronicles", Date: "2001-01-01"}, nil)

	var buf bytes.Buffer
	r := metadata.NewResolver(movies, nil, slog.New(slog.NewTextHandler(&buf, nil)))
	res := r.ResolveMovie(context.Background(), movieDescriptor("Heat", nil))

	assert.Equal(t, "Heatwave Chronicles", res.Payload.Title, "pick order is unchanged")
	assert.Contains(t, buf.String(), "closer title passed over")
	assert.Contains(t, buf.String(), "closer=Heat")
}
