package media

import (
	"fmt"
	"strconv"
)

// Status is the outcome of one metadata query.
type Status string

const (
	StatusFound       Status = "found"
	StatusPartial     Status = "partial"
	StatusNotFound    Status = "not_found"
	StatusUnavailable Status = "unavailable"
	StatusError       Status = "error"
)

// IDs are the catalog identifiers attached to a payload. Zero means absent.
type IDs struct {
	TMDB int64  `json:"tmdb,omitempty"`
	TVDB int64  `json:"tvdb,omitempty"`
	IMDB string `json:"imdb,omitempty"`
}

// Payload is the provider data kept from a query.
type Payload struct {
	Title    string `json:"title,omitempty"`
	Date     string `json:"date,omitempty"` // release, first-air or air date, YYYY-MM-DD
	Overview string `json:"overview,omitempty"`
	IDs      IDs    `json:"ids"`
	Season   int    `json:"season,omitempty"`
	Episode  int    `json:"episode,omitempty"`
}

// Year returns the leading four digits of Date.
func (p Payload) Year() (int, bool) {
	if len(p.Date) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(p.Date[:4])
	if err != nil {
		return 0, false
	}
	return y, true
}

// Result is a tagged metadata query result.
//
// Found implies Payload.Title is set; every other status carries a Message.
type Result struct {
	Status     Status  `json:"status"`
	Source     string  `json:"source,omitempty"`
	Message    string  `json:"message,omitempty"`
	Payload    Payload `json:"payload"`
	MatchScore float64 `json:"match_score,omitempty"`
}

// Found reports whether the result is usable for naming.
func (r *Result) Found() bool {
	return r != nil && r.Status == StatusFound
}

// Validate checks the Result invariant.
func (r Result) Validate() error {
	if r.Status == StatusFound && r.Payload.Title == "" {
		return fmt.Errorf("found result from %q has no title", r.Source)
	}
	if r.Status != StatusFound && r.Message == "" {
		return fmt.Errorf("%s result from %q has no diagnostic", r.Status, r.Source)
	}
	return nil
}
