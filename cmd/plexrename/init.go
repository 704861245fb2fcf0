package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmunix/plexrename/internal/config"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write the default config file",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			switch {
			case len(args) == 1:
				path = args[0]
			case *ctx.configFlag != "":
				path = *ctx.configFlag
			}

			if _, err := os.Stat(path); err == nil {
				if !force {
					return fmt.Errorf("%s already exists; use --force to overwrite", path)
				}
				if err := os.Remove(path); err != nil {
					return err
				}
			} else if !errors.Is(err, os.ErrNotExist) {
				return err
			}

			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
			fmt.Fprintln(cmd.OutOrStdout(), "Set TMDB_API_KEY and TVDB_API_KEY, then run: plexrename plan <dir>")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
