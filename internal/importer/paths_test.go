package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePath(t *testing.T) {
	root := "/movies"

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid subpath", "/movies/Movie (2024)/movie.mkv", false},
		{"valid nested", "/movies/A/B/C/movie.mkv", false},
		{"exact root", "/movies", false},
		{"traversal attempt", "/movies/../etc/passwd", true},
		{"outside root", "/tv/show.mkv", true},
		{"sibling prefix", "/movies-old/show.mkv", true},
		{"sneaky traversal", "/movies/foo/../../etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path, root)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPathTraversal, "ValidatePath(%q, %q)", tt.path, root)
			} else {
				assert.NoError(t, err, "ValidatePath(%q, %q)", tt.path, root)
			}
		})
	}
}

func TestValidateTarget(t *testing.T) {
	roots := []string{"/library/movies", "/library/tv"}

	assert.NoError(t, validateTarget("/library/tv/Dark (2017)/Season 01/Dark - s01e01.mkv", roots))
	assert.NoError(t, validateTarget("/library/movies/Heat (1995).mkv", roots))
	assert.ErrorIs(t, validateTarget("/downloads/Heat (1995).mkv", roots), ErrPathTraversal)
	assert.NoError(t, validateTarget("/anywhere/file.mkv", nil))
}
