package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"The Matrix", "matrix"},
		{"A Beautiful Mind", "beautiful mind"},
		{"Fast & Furious", "fast and furious"},
		{"Léon: The Professional", "leon professional"},
		{"Spider-Man: No Way Home", "spider man no way home"},
		{"Rocky IV", "rocky 4"},
		{"  Extra   Spaces  ", "extra spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.input))
		})
	}
}

func TestNormalizeRomanNumerals(t *testing.T) {
	assert.Equal(t, "rocky 2", NormalizeRomanNumerals("rocky ii"))
	assert.Equal(t, "american history x", NormalizeRomanNumerals("american history x"))
	assert.Equal(t, "vii days", NormalizeRomanNumerals("vii days"))
}
