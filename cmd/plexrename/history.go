package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/plexrename/internal/importer"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [batch-id]",
		Short: "List applied batches, or the renames of one batch",
		Args:  cobra.MaximumNArgs(1),
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

			if len(args) == 1 {
				return showBatch(cmd, ctx, store, args[0])
			}

			batches, err := store.Batches(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if ctx.json() {
				return writeJSON(cmd, batches)
			}
			if len(batches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No batches recorded")
				return nil
			}

			rows := make([][]string, 0, len(batches))
			for _, b := range batches {
				rows = append(rows, []string{
					b.ID, string(b.Mode), b.CreatedAt.Local().Format(time.DateTime),
					strconv.Itoa(b.Total), strconv.Itoa(b.Applied), strconv.Itoa(b.Undone),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Batch", "Mode", "Created", "Total", "Applied", "Undone"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of batches to list")
	return cmd
}

func showBatch(cmd *cobra.Command, ctx *commandContext, store *importer.HistoryStore, id string) error {
	batch, entries, err := store.Batch(cmd.Context(), id)
	if err != nil {
		return err
	}
	if ctx.json() {
		return writeJSON(cmd, struct {
			Batch   *importer.Batch         `json:"batch"`
			Entries []importer.HistoryEntry `json:"entries"`
		}{batch, entries})
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := e.Status
		if e.UndoneAt != nil {
			status = "undone"
		}
		if e.Error != "" {
			status += ": " + e.Error
		}
		rows = append(rows, []string{e.Source, e.Target, status})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "batch %s (%s, %s)\n", batch.ID, batch.Mode, batch.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Source", "Target", "Status"}, rows, nil))
	return nil
}
