package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vmunix/plexrename/internal/classify"
	"github.com/vmunix/plexrename/internal/media"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "classify <path>...",
		Short: "Show what each filename says about its content (no lookups)",
		Long: `Classify file paths from their names alone.

Examples:
  plexrename classify "Breaking.Bad.S01E01.720p.HDTV.x264.mkv"
  plexrename classify --kind movie ~/Downloads/*.mkv --json`,
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptors := classify.ClassifyAll(args, media.ParseHint(kind))
			if ctx.json() {
				return writeJSON(cmd, descriptors)
			}

			rows := make([][]string, 0, len(descriptors))
			for _, d := range descriptors {
				rows = append(rows, []string{
					d.Filename, string(d.Kind), d.Title,
					optional(d.Year), optional(d.Season), episodeLabel(d), d.Quality,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Kind", "Title", "Year", "Season", "Episode", "Quality"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "auto", "Treat files as movie, tv or auto")
	return cmd
}

func optional(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func episodeLabel(d media.Descriptor) string {
	if d.Episode == nil {
		return "-"
	}
	if d.EpisodeEnd != nil {
		return fmt.Sprintf("%d-%d", *d.Episode, *d.EpisodeEnd)
	}
	return strconv.Itoa(*d.Episode)
}
