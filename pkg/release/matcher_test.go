package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchConfidenceString(t *testing.T) {
	tests := []struct {
		conf     MatchConfidence
		expected string
	}{
		{ConfidenceHigh, "high"},
		{ConfidenceMedium, "medium"},
		{ConfidenceLow, "low"},
		{ConfidenceNone, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.conf.String())
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("The Matrix", "Matrix"), 0.0001)
	assert.InDelta(t, 1.0, Similarity("Leon: The Professional", "Léon: The Professional"), 0.0001)
	assert.Less(t, Similarity("Rocky 2", "Rocky III"), Similarity("Rocky 2", "Rocky II"))
	assert.Equal(t, 0.0, Similarity("", "Matrix"))
}

func TestMatchTitle(t *testing.T) {
	library := []string{
		"The Matrix",
		"The Matrix Reloaded",
		"Back to the Future",
		"Back to the Future Part II",
	}

	got := MatchTitle("Back to the Future Part 2", library)
	assert.Equal(t, "Back to the Future Part II", got.Title)
	assert.Equal(t, ConfidenceHigh, got.Confidence)

	got = MatchTitle("matrix", library)
	assert.Equal(t, "The Matrix", got.Title)

	got = MatchTitle("Completely Unrelated Documentary", []string{"Zzz"})
	assert.Empty(t, got.Title)
	assert.Equal(t, ConfidenceNone, got.Confidence)

	assert.Equal(t, ConfidenceNone, MatchTitle("anything", nil).Confidence)
}
