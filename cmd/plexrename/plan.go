package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vmunix/plexrename/internal/config"
	"github.com/vmunix/plexrename/internal/media"
	"github.com/vmunix/plexrename/internal/pipeline"
	"github.com/vmunix/plexrename/pkg/release"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "plan <dir>...",
		Short: "Show the renames apply would perform",
		Long: `Scan directories for video files, look them up and print the
proposed names. Nothing on disk is changed.

Examples:
  plexrename plan ~/Downloads
  plexrename plan --kind tv /data/incoming --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.logger(cmd)

			items, err := planPaths(cmd, cfg, log, args, kind)
			if err != nil {
				return err
			}
			if ctx.json() {
				return writeJSON(cmd, items)
			}
			printItems(cmd.OutOrStdout(), items, shouldColorize(cmd.OutOrStdout()))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "auto", "Treat files as movie, tv or auto")
	return cmd
}

func planPaths(cmd *cobra.Command, cfg *config.Config, log *slog.Logger, roots []string, kind string) ([]pipeline.Item, error) {
	files, err := pipeline.ScanAll(roots)
	if err != nil {
		return nil, err
	}
	log.Info("scanned", "roots", len(roots), "files", len(files))

	cache, closeCache, err := openCache(cfg, log)
	if err != nil {
		return nil, err
	}
	defer closeCache()

	return newPipeline(cfg, cache, log).Plan(cmd.Context(), files, media.ParseHint(kind))
}

func printItems(w io.Writer, items []pipeline.Item, color bool) {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		status := planStatus(it.Plan)
		label := colorize(string(status), statusColor(status), color)
		target := it.Plan.Target
		if !it.OK() {
			label = colorize("skip", ansiRed, color)
			target = it.Error
		}
		rows = append(rows, []string{filepath.Base(it.Plan.Source), target, label, matchLabel(it.Plan)})
	}
	fmt.Fprintln(w, renderTable([]string{"Source", "Target", "Lookup", "Match"}, rows, nil))

	ready := len(pipeline.Plans(items))
	fmt.Fprintf(w, "%d of %d files ready\n", ready, len(items))
}

// planStatus is the weakest lookup status behind a plan.
func planStatus(p media.RenamePlan) media.Status {
	if p.Descriptor.Kind != media.KindTV {
		if p.Movie == nil {
			return media.StatusUnavailable
		}
		return p.Movie.Status
	}
	if p.Show == nil {
		return media.StatusUnavailable
	}
	if p.Show.Found() && p.Episode != nil {
		return p.Episode.Status
	}
	return p.Show.Status
}

// matchLabel buckets how closely the resolved title matches the filename
// title. Lookups that returned no title show "-".
func matchLabel(p media.RenamePlan) string {
	r := p.Movie
	if p.Descriptor.Kind == media.KindTV {
		r = p.Show
	}
	if r == nil || (r.Status != media.StatusFound && r.Status != media.StatusPartial) {
		return "-"
	}
	return release.ConfidenceFor(r.MatchScore).String()
}
