package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vmunix/plexrename/internal/importer"
)

func newUndoCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "undo <batch-id>",
		Short: "Move the files of an applied batch back where they came from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, closeHistory, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer closeHistory()

			exec := importer.NewExecutor(
				importer.WithHistory(store),
				importer.WithDryRun(dryRun),
				importer.WithRoots(libraryRoots(cfg)...),
				importer.WithLockFile(lockPath(cfg)),
				importer.WithLogger(ctx.logger(cmd)),
			)
			report, err := exec.Undo(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if ctx.json() {
				return writeJSON(cmd, report)
			}
			printReport(cmd.OutOrStdout(), report, shouldColorize(cmd.OutOrStdout()))
			if report.Summary.Failed > 0 {
				return fmt.Errorf("%d of %d files could not be restored", report.Summary.Failed, report.Summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Check what would be restored without moving files")
	return cmd
}
