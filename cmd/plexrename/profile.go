package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vmunix/plexrename/internal/profile"
)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "profile <root>",
		Short: "Guess whether each folder under root holds movies or TV shows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("depth") {
				depth = cfg.Scan.MaxDepth
			}

			profiles, err := profile.New(ctx.logger(cmd)).Profile(args[0], depth)
			if err != nil {
				return err
			}
			if ctx.json() {
				return writeJSON(cmd, profiles)
			}
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No folders found")
				return nil
			}

			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				rows = append(rows, []string{
					p.Name, string(p.Kind), fmt.Sprintf("%.2f", p.Confidence),
					strconv.Itoa(p.MediaCount), strconv.Itoa(p.SeasonFolders),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Folder", "Kind", "Confidence", "Media", "Seasons"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", profile.DefaultMaxDepth, "Maximum directory depth to inspect")
	return cmd
}
