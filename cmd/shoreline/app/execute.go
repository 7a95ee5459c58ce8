package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the shoreline CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "shoreline",
		Short:   "Beach cleanup data merge pipeline",
		Version: a.version,
		Long: `Shoreline merges years of beach-cleanup spreadsheets into one
consistent dataset.

Each yearly workbook is loaded, oriented, reconciled against the configured
column schema, and its site names canonicalized. The merged result is
persisted as a date-sorted CSV together with the finalized column table.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().StringVar(&a.config.ColumnConfig, "column-config", a.config.ColumnConfig, "column configuration file")
	rootCmd.PersistentFlags().StringVar(&a.config.SiteConfig, "site-config", a.config.SiteConfig, "site alias configuration file")
	rootCmd.PersistentFlags().StringVar(&a.config.CoordinatesFile, "coordinates", a.config.CoordinatesFile, "coordinate reference table")

	rootCmd.SetVersionTemplate("shoreline {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand runs before any command: it folds parsed flag values back
// into the configuration and reinitializes the logger and pipeline.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	logLevel, _ := cmd.Flags().GetString("log-level")
	a.config.UpdateFromFlags(verbose, quiet, logLevel)

	logger := NewLogger(a.config)
	a.logger = &logger
	a.reset()
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.NewMergeCommand())
	rootCmd.AddCommand(a.NewReportCommand())
	rootCmd.AddCommand(a.NewSchemaCommand())
	rootCmd.AddCommand(a.NewSitesCommand())
}

// ExitOnError prints an error and exits with status 1. Meant for top-level
// error handling in main.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
