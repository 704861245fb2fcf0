package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vmunix/plexrename/internal/media"
)

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Name", "Count"}, [][]string{{"alpha", "1"}, {"beta"}}, []columnAlignment{alignLeft, alignRight})
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "beta")
	assert.Equal(t, "", renderTable(nil, nil, nil))
}

func TestShouldColorize_NonFile(t *testing.T) {
	assert.False(t, shouldColorize(&bytes.Buffer{}))
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "found", colorize("found", statusColor(media.StatusFound), false))
	got := colorize("found", statusColor(media.StatusFound), true)
	assert.True(t, strings.HasPrefix(got, ansiGreen))
	assert.True(t, strings.HasSuffix(got, ansiReset))
	assert.Equal(t, "x", colorize("x", "", true))
}
