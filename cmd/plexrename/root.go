package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/vmunix/plexrename/internal/config"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newRootCommand() *cobra.Command {
	var (
		configFlag string
		logLevel   string
		jsonOutput bool
	)
	ctx := &commandContext{configFlag: &configFlag, logLevelFlag: &logLevel, jsonFlag: &jsonOutput}

	rootCmd := &cobra.Command{
		Use:   "plexrename",
		Short: "Rename movie and TV files into a Plex-friendly layout",
		Long: `plexrename - rename movie and TV files into a Plex-friendly layout

Files are classified from their names, looked up in TMDB and TheTVDB,
and given names like "Movie (2010)/Movie (2010).mkv" or
"Show (2008)/Season 01/Show - s01e01 - Title.mkv".

Nothing is changed on disk until you run apply with dry_run disabled.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.SetVersionTemplate("plexrename {{.Version}}\n")

	rootCmd.AddCommand(newClassifyCommand(ctx))
	rootCmd.AddCommand(newProfileCommand(ctx))
	rootCmd.AddCommand(newPlanCommand(ctx))
	rootCmd.AddCommand(newApplyCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newUndoCommand(ctx))
	rootCmd.AddCommand(newInitCommand(ctx))

	return rootCmd
}

// ensureConfig loads the config once. Without --config the standard
// locations are searched; when none exists the defaults plus environment
// overrides are used.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := strings.TrimSpace(*c.configFlag)
		if path == "" {
			found, err := config.Discover()
			switch {
			case errors.Is(err, config.ErrNotFound):
				c.config, c.configErr = config.FromEnv()
				return
			case err != nil:
				c.configErr = err
				return
			}
			path = found
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config %s: %w", path, err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) json() bool { return *c.jsonFlag }

// logger writes to the command's stderr at the configured level. --log-level
// wins over general.log_level.
func (c *commandContext) logger(cmd *cobra.Command) *slog.Logger {
	level := *c.logLevelFlag
	if level == "" && c.config != nil {
		level = c.config.General.LogLevel
	}
	return newLogger(cmd.ErrOrStderr(), level)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
