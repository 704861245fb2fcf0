// Package tvdb provides a client for the TVDB API v4.
package tvdb

import (
	"strconv"
	"time"
)

// Series represents a TV series from TVDB.
type Series struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Year       int    `json:"year"`        // Extracted from firstAired
	FirstAired string `json:"first_aired"` // YYYY-MM-DD
	Status     string `json:"status"`      // "Continuing" or "Ended"
	Overview   string `json:"overview"`
	IMDBID     string `json:"imdb_id,omitempty"`
}

// Episode represents a single episode from TVDB.
type Episode struct {
	ID       int       `json:"id"`
	SeriesID int       `json:"seriesId"`
	Season   int       `json:"seasonNumber"`
	Episode  int       `json:"number"`
	Name     string    `json:"name"`
	Overview string    `json:"overview"`
	AirDate  time.Time `json:"aired"` // Parsed from YYYY-MM-DD
	Runtime  int       `json:"runtime"`
}

// SearchResult represents a series search result.
type SearchResult struct {
	ID           int    `json:"tvdb_id"`
	Name         string `json:"name"`
	Year         int    `json:"year"`
	FirstAirTime string `json:"first_air_time"`
	Status       string `json:"status"`
	Overview     string `json:"overview"`
	Network      string `json:"network"`
}

// loginResponse is the TVDB login API response.
type loginResponse struct {
	Status string `json:"status"`
	Data   struct {
		Token string `json:"token"`
	} `json:"data"`
}

type searchItem struct {
	ObjectID     string `json:"objectID"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	Year         string `json:"year"`
	FirstAirTime string `json:"first_air_time"`
	Status       string `json:"status"`
	Overview     string `json:"overview"`
	Network      string `json:"network"`
	TVDBID       string `json:"tvdb_id"`
}

// searchResponse is the TVDB search API response.
type searchResponse struct {
	Status string       `json:"status"`
	Data   []searchItem `json:"data"`
}

type remoteID struct {
	ID         string `json:"id"`
	SourceName string `json:"sourceName"`
}

type seriesRecord struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status struct {
		Name string `json:"name"`
	} `json:"status"`
	Overview   string     `json:"overview"`
	FirstAired string     `json:"firstAired"` // YYYY-MM-DD
	RemoteIDs  []remoteID `json:"remoteIds"`
}

// seriesResponse is the TVDB extended series API response.
type seriesResponse struct {
	Status string       `json:"status"`
	Data   seriesRecord `json:"data"`
}

type episodeRecord struct {
	ID           int    `json:"id"`
	SeriesID     int    `json:"seriesId"`
	SeasonNumber int    `json:"seasonNumber"`
	Number       int    `json:"number"`
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	Aired        string `json:"aired"` // YYYY-MM-DD
	Runtime      int    `json:"runtime"`
}

// episodesResponse is the TVDB get episodes API response.
type episodesResponse struct {
	Status string `json:"status"`
	Data   struct {
		Episodes []episodeRecord `json:"episodes"`
	} `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// episodeResponse is the TVDB extended episode API response.
type episodeResponse struct {
	Status string        `json:"status"`
	Data   episodeRecord `json:"data"`
}

func (r episodeRecord) toEpisode() Episode {
	var airDate time.Time
	if r.Aired != "" {
		airDate, _ = time.Parse("2006-01-02", r.Aired)
	}
	return Episode{
		ID:       r.ID,
		SeriesID: r.SeriesID,
		Season:   r.SeasonNumber,
		Episode:  r.Number,
		Name:     r.Name,
		Overview: r.Overview,
		AirDate:  airDate,
		Runtime:  r.Runtime,
	}
}

func (r seriesRecord) toSeries() *Series {
	s := &Series{
		ID:         r.ID,
		Name:       r.Name,
		Year:       yearOf(r.FirstAired),
		FirstAired: r.FirstAired,
		Status:     r.Status.Name,
		Overview:   r.Overview,
	}
	for _, rid := range r.RemoteIDs {
		if rid.SourceName == "IMDB" {
			s.IMDBID = rid.ID
			break
		}
	}
	return s
}

// yearOf reads the year from a YYYY-MM-DD date. Zero when absent.
func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, _ := strconv.Atoi(date[:4])
	return year
}
