// Package metadata resolves descriptors against external catalogs.
//
// Providers are thin adapters over the catalog clients. The Resolver owns the
// policy: which provider is asked first, when to fall back, and how each
// outcome maps onto a media.Status.
package metadata

//go:generate mockgen -destination=mocks/provider.go -package=mocks github.com/vmunix/plexrename/internal/metadata MovieProvider,TVProvider

import (
	"context"

	"github.com/vmunix/plexrename/internal/media"
)

// Candidate is a movie or series as reported by a provider.
type Candidate struct {
	ID       int64 // provider-native ID used for detail lookups
	Title    string
	Date     string // release or first-air date, YYYY-MM-DD
	Overview string
	IDs      media.IDs
}

// Episode is a single episode as reported by a provider.
type Episode struct {
	ID       int64
	Season   int
	Number   int
	Title    string
	AirDate  string
	Overview string
	IDs      media.IDs
}

// MovieProvider is a movie catalog.
type MovieProvider interface {
	Name() string
	SearchMovies(ctx context.Context, title string, year int) ([]Candidate, error)
	MovieDetails(ctx context.Context, id int64) (*Candidate, error)
}

// TVProvider is a series catalog.
type TVProvider interface {
	Name() string
	SearchSeries(ctx context.Context, title string, year int) ([]Candidate, error)
	SeriesDetails(ctx context.Context, id int64) (*Candidate, error)
	Episodes(ctx context.Context, seriesID int64, season int) ([]Episode, error)
	EpisodeDetails(ctx context.Context, seriesID int64, ep Episode) (*Episode, error)
}
