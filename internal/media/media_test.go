package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHint(t *testing.T) {
	assert.Equal(t, HintMovie, ParseHint("movie"))
	assert.Equal(t, HintMovie, ParseHint("movies"))
	assert.Equal(t, HintTV, ParseHint("tv"))
	assert.Equal(t, HintTV, ParseHint("tv_shows"))
	assert.Equal(t, HintAuto, ParseHint(""))
	assert.Equal(t, HintAuto, ParseHint("whatever"))
}

func TestDescriptorDefaults(t *testing.T) {
	var d Descriptor
	assert.Equal(t, 1, d.SeasonOr(1))
	assert.Equal(t, 1, d.EpisodeOr(1))
	assert.Equal(t, 0, d.YearOr(0))

	season, episode, year := 0, 12, 2008
	d = Descriptor{Season: &season, Episode: &episode, Year: &year}
	assert.Equal(t, 0, d.SeasonOr(1), "season 0 is a real season")
	assert.Equal(t, 12, d.EpisodeOr(1))
	assert.Equal(t, 2008, d.YearOr(0))
}

func TestPayloadYear(t *testing.T) {
	y, ok := Payload{Date: "2010-07-16"}.Year()
	assert.True(t, ok)
	assert.Equal(t, 2010, y)

	_, ok = Payload{Date: "201"}.Year()
	assert.False(t, ok)

	_, ok = Payload{Date: "abcd-01-01"}.Year()
	assert.False(t, ok)
}

func TestResultValidate(t *testing.T) {
	assert.NoError(t, Result{Status: StatusFound, Payload: Payload{Title: "Inception"}}.Validate())
	assert.Error(t, Result{Status: StatusFound}.Validate())
	assert.Error(t, Result{Status: StatusNotFound}.Validate())
	assert.NoError(t, Result{Status: StatusNotFound, Message: "no match"}.Validate())
}

func TestResultFound(t *testing.T) {
	var r *Result
	assert.False(t, r.Found())
	assert.True(t, (&Result{Status: StatusFound}).Found())
	assert.False(t, (&Result{Status: StatusPartial}).Found())
}
