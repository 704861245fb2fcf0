package metadata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/plexrename/internal/media"
	"github.com/vmunix/plexrename/pkg/release"
)

// Resolver looks up descriptors in the configured catalogs.
//
// It holds no state of its own and is safe for concurrent use as long as the
// providers are.
type Resolver struct {
	movies MovieProvider
	tv     []TVProvider
	log    *slog.Logger
}

// NewResolver creates a resolver. movies may be nil and tv may be empty;
// lookups against a missing catalog report StatusUnavailable.
// TV providers are tried in the given order.
func NewResolver(movies MovieProvider, tv []TVProvider, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{
		movies: movies,
		tv:     tv,
		log:    log.With("component", "resolver"),
	}
}

// HasMovieProvider reports whether a movie catalog is configured.
func (r *Resolver) HasMovieProvider() bool { return r.movies != nil }

// TVProviders returns the names of the configured series catalogs in order.
func (r *Resolver) TVProviders() []string {
	names := make([]string, 0, len(r.tv))
	for _, p := range r.tv {
		names = append(names, p.Name())
	}
	return names
}

// ResolveMovie looks up a movie descriptor.
func (r *Resolver) ResolveMovie(ctx context.Context, d media.Descriptor) media.Result {
	label := describe(d.Title, d.Year)

	if r.movies == nil {
		return media.Result{
			Status:  media.StatusUnavailable,
			Message: "no movie provider configured for " + label,
		}
	}
	source := r.movies.Name()
	if d.Title == "" {
		return media.Result{Status: media.StatusNotFound, Source: source, Message: "no title to search for in " + d.Filename}
	}

	start := time.Now()
	candidates, err := r.movies.SearchMovies(ctx, d.Title, d.YearOr(0))
	if err != nil {
		r.log.Warn("movie search failed", "provider", source, "title", d.Title, "error", err)
		return media.Result{
			Status:  media.StatusError,
			Source:  source,
			Message: fmt.Sprintf("search %s: %v", label, err),
		}
	}
	if len(candidates) == 0 {
		return media.Result{
			Status:  media.StatusNotFound,
			Source:  source,
			Message: "no match for " + label,
		}
	}

	chosen := pickCandidate(candidates, d.YearOr(0))
	r.noteCloserMatch(source, d.Title, chosen, candidates)
	result := r.detailResult(d, source, label, chosen, func() (*Candidate, error) {
		return r.movies.MovieDetails(ctx, chosen.ID)
	})

	r.log.Debug("resolved movie", "provider", source, "title", d.Title, "status", result.Status,
		"duration_ms", time.Since(start).Milliseconds())
	return result
}

// ResolveTV looks up a series and, when season and episode are both known,
// the episode.
//
// Providers are asked in order. The first one to reach StatusFound for the
// series wins and later providers are not consulted. If none does, the show
// result is StatusNotFound with every provider's diagnostic. The episode
// result is nil when no lookup was attempted.
func (r *Resolver) ResolveTV(ctx context.Context, d media.Descriptor) (media.Result, *media.Result) {
	label := describe(d.Title, d.Year)

	if len(r.tv) == 0 {
		return media.Result{
			Status:  media.StatusUnavailable,
			Message: "no TV provider configured for " + label,
		}, nil
	}
	if d.Title == "" {
		return media.Result{Status: media.StatusNotFound, Message: "no title to search for in " + d.Filename}, nil
	}

	var tried []string
	for _, p := range r.tv {
		show, series := r.resolveSeries(ctx, p, d, label)
		if !show.Found() {
			r.log.Debug("series not resolved", "provider", p.Name(), "title", d.Title, "status", show.Status)
			tried = append(tried, p.Name()+": "+show.Message)
			continue
		}

		if d.Season == nil || d.Episode == nil {
			return show, nil
		}
		episode := r.resolveEpisode(ctx, p, series.ID, *d.Season, *d.Episode, show.Payload.Title)
		return show, &episode
	}

	return media.Result{
		Status:  media.StatusNotFound,
		Message: fmt.Sprintf("%s not found (tried %s)", label, strings.Join(tried, "; ")),
	}, nil
}

// resolveSeries runs search and details against a single provider. The
// returned candidate is the one the result describes.
func (r *Resolver) resolveSeries(ctx context.Context, p TVProvider, d media.Descriptor, label string) (media.Result, Candidate) {
	source := p.Name()

	candidates, err := p.SearchSeries(ctx, d.Title, d.YearOr(0))
	if err != nil {
		r.log.Warn("series search failed", "provider", source, "title", d.Title, "error", err)
		return media.Result{
			Status:  media.StatusError,
			Source:  source,
			Message: fmt.Sprintf("search %s: %v", label, err),
		}, Candidate{}
	}
	if len(candidates) == 0 {
		return media.Result{
			Status:  media.StatusNotFound,
			Source:  source,
			Message: "no match for " + label,
		}, Candidate{}
	}

	chosen := pickCandidate(candidates, d.YearOr(0))
	r.noteCloserMatch(source, d.Title, chosen, candidates)
	result := r.detailResult(d, source, label, chosen, func() (*Candidate, error) {
		return p.SeriesDetails(ctx, chosen.ID)
	})
	return result, chosen
}

// detailResult fetches details for chosen and maps the outcome. A failed or
// empty detail fetch keeps the search data as a partial result.
func (r *Resolver) detailResult(d media.Descriptor, source, label string, chosen Candidate, fetch func() (*Candidate, error)) media.Result {
	details, err := fetch()
	if err != nil || details == nil {
		msg := "no details for " + label
		if err != nil {
			msg = fmt.Sprintf("details for %s: %v", label, err)
			r.log.Warn("detail fetch failed", "provider", source, "id", chosen.ID, "error", err)
		}
		return media.Result{
			Status:     media.StatusPartial,
			Source:     source,
			Message:    msg,
			Payload:    payloadOf(chosen),
			MatchScore: release.Similarity(d.Title, chosen.Title),
		}
	}

	merged := *details
	if merged.Title == "" {
		merged.Title = chosen.Title
	}
	if merged.Date == "" {
		merged.Date = chosen.Date
	}
	merged.IDs = mergeIDs(merged.IDs, chosen.IDs)

	if merged.Title == "" {
		return media.Result{
			Status:  media.StatusPartial,
			Source:  source,
			Message: "provider returned no title for " + label,
			Payload: payloadOf(merged),
		}
	}

	return media.Result{
		Status:     media.StatusFound,
		Source:     source,
		Payload:    payloadOf(merged),
		MatchScore: release.Similarity(d.Title, merged.Title),
	}
}

// resolveEpisode finds one episode of a resolved series on provider p.
func (r *Resolver) resolveEpisode(ctx context.Context, p TVProvider, seriesID int64, season, number int, show string) media.Result {
	source := p.Name()
	label := fmt.Sprintf("%s s%02de%02d", show, season, number)

	episodes, err := p.Episodes(ctx, seriesID, season)
	if err != nil {
		r.log.Warn("episode list failed", "provider", source, "series_id", seriesID, "season", season, "error", err)
		return media.Result{
			Status:  media.StatusError,
			Source:  source,
			Message: fmt.Sprintf("episodes of %s season %d: %v", show, season, err),
		}
	}

	var match *Episode
	for i := range episodes {
		if episodes[i].Season == season && episodes[i].Number == number {
			match = &episodes[i]
			break
		}
	}
	if match == nil {
		return media.Result{
			Status:  media.StatusNotFound,
			Source:  source,
			Message: "no episode " + label,
		}
	}

	details, err := p.EpisodeDetails(ctx, seriesID, *match)
	if err != nil || details == nil {
		msg := "no details for " + label
		if err != nil {
			msg = fmt.Sprintf("details for %s: %v", label, err)
		}
		return media.Result{
			Status:  media.StatusPartial,
			Source:  source,
			Message: msg,
			Payload: episodePayload(*match),
		}
	}

	merged := *details
	if merged.Title == "" {
		merged.Title = match.Title
	}
	if merged.Season == 0 && merged.Number == 0 {
		merged.Season, merged.Number = match.Season, match.Number
	}
	if merged.Title == "" {
		return media.Result{
			Status:  media.StatusPartial,
			Source:  source,
			Message: "provider returned no title for " + label,
			Payload: episodePayload(merged),
		}
	}

	return media.Result{
		Status:  media.StatusFound,
		Source:  source,
		Payload: episodePayload(merged),
	}
}

// pickCandidate prefers the first candidate dated in year, else the first.
func pickCandidate(candidates []Candidate, year int) Candidate {
	if year > 0 {
		prefix := strconv.Itoa(year)
		for _, c := range candidates {
			if strings.HasPrefix(c.Date, prefix) {
				return c
			}
		}
	}
	return candidates[0]
}

// noteCloserMatch warns when the picked candidate is a weaker title match
// than another result. The pick itself stands.
func (r *Resolver) noteCloserMatch(source, title string, chosen Candidate, candidates []Candidate) {
	titles := make([]string, len(candidates))
	for i, c := range candidates {
		titles[i] = c.Title
	}
	best := release.MatchTitle(title, titles)
	if best.Title == "" || best.Title == chosen.Title {
		return
	}
	if release.ConfidenceFor(release.Similarity(title, chosen.Title)) >= best.Confidence {
		return
	}
	r.log.Warn("closer title passed over", "provider", source, "title", title,
		"chosen", chosen.Title, "closer", best.Title, "confidence", best.Confidence.String())
}

func payloadOf(c Candidate) media.Payload {
	return media.Payload{
		Title:    c.Title,
		Date:     c.Date,
		Overview: c.Overview,
		IDs:      c.IDs,
	}
}

func episodePayload(e Episode) media.Payload {
	return media.Payload{
		Title:    e.Title,
		Date:     e.AirDate,
		Overview: e.Overview,
		IDs:      e.IDs,
		Season:   e.Season,
		Episode:  e.Number,
	}
}

// mergeIDs fills zero fields of a from b.
func mergeIDs(a, b media.IDs) media.IDs {
	if a.TMDB == 0 {
		a.TMDB = b.TMDB
	}
	if a.TVDB == 0 {
		a.TVDB = b.TVDB
	}
	if a.IMDB == "" {
		a.IMDB = b.IMDB
	}
	return a
}

// describe renders a title and optional year for diagnostics: "Heat" (1995).
func describe(title string, year *int) string {
	if year == nil {
		return strconv.Quote(title)
	}
	return fmt.Sprintf("%q (%d)", title, *year)
}
