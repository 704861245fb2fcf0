package metadata

import (
	"context"
	"fmt"

	"github.com/vmunix/plexrename/internal/media"
	"github.com/vmunix/plexrename/internal/tmdb"
	"github.com/vmunix/plexrename/pkg/tvdb"
)

// Provider tags, also used as Result.Source.
const (
	SourceTMDB = "tmdb"
	SourceTVDB = "tvdb"
)

// TMDBMovies serves movie lookups from TMDB.
type TMDBMovies struct {
	client *tmdb.Client
}

// NewTMDBMovies wraps a TMDB client as a MovieProvider.
func NewTMDBMovies(client *tmdb.Client) *TMDBMovies {
	return &TMDBMovies{client: client}
}

func (p *TMDBMovies) Name() string { return SourceTMDB }

func (p *TMDBMovies) SearchMovies(ctx context.Context, title string, year int) ([]Candidate, error) {
	movies, err := p.client.SearchMovies(ctx, title, year)
	if err != nil {
		return nil, fmt.Errorf("tmdb movie search: %w", err)
	}
	out := make([]Candidate, 0, len(movies))
	for i := range movies {
		out = append(out, movieCandidate(&movies[i]))
	}
	return out, nil
}

func (p *TMDBMovies) MovieDetails(ctx context.Context, id int64) (*Candidate, error) {
	movie, err := p.client.GetMovie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("tmdb movie %d: %w", id, err)
	}
	c := movieCandidate(movie)
	return &c, nil
}

func movieCandidate(m *tmdb.Movie) Candidate {
	return Candidate{
		ID:       m.ID,
		Title:    m.Title,
		Date:     m.ReleaseDate,
		Overview: m.Overview,
		IDs:      media.IDs{TMDB: m.ID, IMDB: m.IMDBID},
	}
}

// TMDBSeries serves series lookups from TMDB.
type TMDBSeries struct {
	client *tmdb.Client
}

// NewTMDBSeries wraps a TMDB client as a TVProvider.
func NewTMDBSeries(client *tmdb.Client) *TMDBSeries {
	return &TMDBSeries{client: client}
}

func (p *TMDBSeries) Name() string { return SourceTMDB }

func (p *TMDBSeries) SearchSeries(ctx context.Context, title string, year int) ([]Candidate, error) {
	shows, err := p.client.SearchTV(ctx, title, year)
	if err != nil {
		return nil, fmt.Errorf("tmdb tv search: %w", err)
	}
	out := make([]Candidate, 0, len(shows))
	for i := range shows {
		out = append(out, showCandidate(&shows[i]))
	}
	return out, nil
}

func (p *TMDBSeries) SeriesDetails(ctx context.Context, id int64) (*Candidate, error) {
	show, err := p.client.GetTV(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("tmdb tv %d: %w", id, err)
	}
	c := showCandidate(show)
	return &c, nil
}

func (p *TMDBSeries) Episodes(ctx context.Context, seriesID int64, season int) ([]Episode, error) {
	s, err := p.client.GetSeason(ctx, seriesID, season)
	if err != nil {
		return nil, fmt.Errorf("tmdb tv %d season %d: %w", seriesID, season, err)
	}
	out := make([]Episode, 0, len(s.Episodes))
	for i := range s.Episodes {
		out = append(out, tmdbEpisode(&s.Episodes[i]))
	}
	return out, nil
}

func (p *TMDBSeries) EpisodeDetails(ctx context.Context, seriesID int64, ep Episode) (*Episode, error) {
	e, err := p.client.GetEpisode(ctx, seriesID, ep.Season, ep.Number)
	if err != nil {
		return nil, fmt.Errorf("tmdb tv %d s%02de%02d: %w", seriesID, ep.Season, ep.Number, err)
	}
	out := tmdbEpisode(e)
	return &out, nil
}

func showCandidate(s *tmdb.TVShow) Candidate {
	return Candidate{
		ID:       s.ID,
		Title:    s.Name,
		Date:     s.FirstAirDate,
		Overview: s.Overview,
		IDs: media.IDs{
			TMDB: s.ID,
			TVDB: s.ExternalIDs.TVDBID,
			IMDB: s.ExternalIDs.IMDBID,
		},
	}
}

func tmdbEpisode(e *tmdb.Episode) Episode {
	return Episode{
		ID:       e.ID,
		Season:   e.SeasonNumber,
		Number:   e.EpisodeNumber,
		Title:    e.Name,
		AirDate:  e.AirDate,
		Overview: e.Overview,
		IDs:      media.IDs{TMDB: e.ID},
	}
}

// TVDBSeries serves series lookups from TVDB.
type TVDBSeries struct {
	client *tvdb.Client
}

// NewTVDBSeries wraps a TVDB client as a TVProvider.
func NewTVDBSeries(client *tvdb.Client) *TVDBSeries {
	return &TVDBSeries{client: client}
}

func (p *TVDBSeries) Name() string { return SourceTVDB }

func (p *TVDBSeries) SearchSeries(ctx context.Context, title string, year int) ([]Candidate, error) {
	results, err := p.client.Search(ctx, title, year)
	if err != nil {
		return nil, fmt.Errorf("tvdb search: %w", err)
	}
	out := make([]Candidate, 0, len(results))
	for _, r := range results {
		date := r.FirstAirTime
		if date == "" && r.Year > 0 {
			date = fmt.Sprintf("%04d", r.Year)
		}
		out = append(out, Candidate{
			ID:       int64(r.ID),
			Title:    r.Name,
			Date:     date,
			Overview: r.Overview,
			IDs:      media.IDs{TVDB: int64(r.ID)},
		})
	}
	return out, nil
}

func (p *TVDBSeries) SeriesDetails(ctx context.Context, id int64) (*Candidate, error) {
	s, err := p.client.GetSeries(ctx, int(id))
	if err != nil {
		return nil, fmt.Errorf("tvdb series %d: %w", id, err)
	}
	return &Candidate{
		ID:       int64(s.ID),
		Title:    s.Name,
		Date:     s.FirstAired,
		Overview: s.Overview,
		IDs:      media.IDs{TVDB: int64(s.ID), IMDB: s.IMDBID},
	}, nil
}

func (p *TVDBSeries) Episodes(ctx context.Context, seriesID int64, season int) ([]Episode, error) {
	episodes, err := p.client.GetEpisodes(ctx, int(seriesID), season)
	if err != nil {
		return nil, fmt.Errorf("tvdb series %d season %d: %w", seriesID, season, err)
	}
	out := make([]Episode, 0, len(episodes))
	for i := range episodes {
		out = append(out, tvdbEpisode(&episodes[i]))
	}
	return out, nil
}

func (p *TVDBSeries) EpisodeDetails(ctx context.Context, seriesID int64, ep Episode) (*Episode, error) {
	e, err := p.client.GetEpisode(ctx, int(ep.ID))
	if err != nil {
		return nil, fmt.Errorf("tvdb episode %d of series %d: %w", ep.ID, seriesID, err)
	}
	out := tvdbEpisode(e)
	return &out, nil
}

func tvdbEpisode(e *tvdb.Episode) Episode {
	var aired string
	if !e.AirDate.IsZero() {
		aired = e.AirDate.Format("2006-01-02")
	}
	return Episode{
		ID:       int64(e.ID),
		Season:   e.Season,
		Number:   e.Episode,
		Title:    e.Name,
		AirDate:  aired,
		Overview: e.Overview,
		IDs:      media.IDs{TVDB: int64(e.ID)},
	}
}

var (
	_ MovieProvider = (*TMDBMovies)(nil)
	_ TVProvider    = (*TMDBSeries)(nil)
	_ TVProvider    = (*TVDBSeries)(nil)
)
