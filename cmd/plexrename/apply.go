package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/plexrename/internal/config"
	"github.com/vmunix/plexrename/internal/importer"
	"github.com/vmunix/plexrename/internal/pipeline"
)

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var (
		kind   string
		mode   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "apply <dir>...",
		Short: "Plan and carry out the renames",
		Long: `Plan every video file under the given directories and rename, move
or copy it into place. Applied renames are journaled and can be
reverted with undo.

general.dry_run defaults to true; pass --dry-run=false to change files.

Examples:
  plexrename apply ~/Downloads --dry-run=false
  plexrename apply --mode copy --kind movie /data/incoming --dry-run=false`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.logger(cmd)

			if !cmd.Flags().Changed("dry-run") {
				dryRun = cfg.General.DryRun
			}
			if mode == "" {
				mode = cfg.General.Operation
			}
			m, err := importer.ParseMode(mode)
			if err != nil {
				return err
			}

			items, err := planPaths(cmd, cfg, log, args, kind)
			if err != nil {
				return err
			}
			for _, it := range items {
				if !it.OK() {
					log.Warn("skipping file", "path", it.Plan.Source, "reason", it.Error)
				}
			}

			opts := []importer.Option{
				importer.WithMode(m),
				importer.WithDryRun(dryRun),
				importer.WithRoots(libraryRoots(cfg)...),
				importer.WithLogger(log),
			}
			if !dryRun {
				history, closeHistory, err := openHistory(cfg)
				if err != nil {
					return err
				}
				defer closeHistory()
				opts = append(opts, importer.WithHistory(history), importer.WithLockFile(lockPath(cfg)))
			}

			report, err := importer.NewExecutor(opts...).Execute(cmd.Context(), pipeline.Plans(items))
			if err != nil {
				return err
			}

			if !dryRun && cfg.Plex.Enabled() {
				refreshPlex(cmd.Context(), cfg, report, log)
			}

			if ctx.json() {
				return writeJSON(cmd, report)
			}
			printReport(cmd.OutOrStdout(), report, shouldColorize(cmd.OutOrStdout()))
			if report.Summary.Failed > 0 {
				return fmt.Errorf("%d of %d operations failed", report.Summary.Failed, report.Summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "auto", "Treat files as movie, tv or auto")
	cmd.Flags().StringVar(&mode, "mode", "", "Operation: rename, move or copy (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", true, "Report what would happen without changing files")
	return cmd
}

// refreshPlex asks Plex to scan the folders that received files. Failures
// are logged; the renames already happened.
func refreshPlex(ctx context.Context, cfg *config.Config, report *importer.Report, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	plex := importer.NewPlexClient(cfg.Plex.URL, cfg.Plex.Token, cfg.Plex.LocalPath, cfg.Plex.RemotePath, log)
	n, err := plex.Refresh(ctx, report.Outcomes)
	if err != nil {
		log.Warn("plex refresh failed", "error", err)
		return
	}
	log.Info("plex refresh triggered", "scans", n)
}

func printReport(w io.Writer, report *importer.Report, color bool) {
	rows := make([][]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		result := colorize("ok", outcomeColor(true), color)
		switch {
		case o.Skipped:
			result = "unchanged"
		case !o.Success:
			result = colorize(o.Error, outcomeColor(false), color)
		}
		rows = append(rows, []string{o.Source, o.Target, result})
	}
	if len(rows) > 0 {
		fmt.Fprintln(w, renderTable([]string{"Source", "Target", "Result"}, rows, nil))
	}

	s := report.Summary
	prefix := ""
	if s.DryRun {
		prefix = "[dry run] "
	}
	fmt.Fprintf(w, "%s%s: %d total, %d successful, %d failed\n", prefix, report.Mode, s.Total, s.Successful, s.Failed)
	if report.BatchID != "" {
		fmt.Fprintf(w, "batch %s (undo with: plexrename undo %s)\n", report.BatchID, report.BatchID)
	}
}
