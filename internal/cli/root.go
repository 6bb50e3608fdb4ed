package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/discman/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string
	LogLevel   string
	ConfigFile string

	// Config is resolved from flags, environment and ConfigFile before any
	// subcommand runs.
	Config config.Config
}

// NewRootCommand creates the root command for the discman CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "discman",
		Short: "discman - disc golf scorekeeping",
		Long: `Keep disc golf courses, players and games in a local SQLite database.

Settings come from flags, DISCMAN_* environment variables (a .env file in
the working directory is loaded first) and an optional --config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(opts.ConfigFile, cmd.Flags())
			if err != nil {
				return WrapExitError(ExitCommandError, "load config", err)
			}
			if !slices.Contains(config.ValidFormats, conf.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", conf.Format, config.ValidFormats))
			}
			opts.Config = conf
			opts.Format = conf.Format
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "database", "discman.db", "path to the SQLite database")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "optional config file")

	cmd.AddCommand(NewCourseCommand(opts))
	cmd.AddCommand(NewPlayerCommand(opts))
	cmd.AddCommand(NewGameCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}
