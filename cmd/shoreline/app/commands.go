package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// maxReportColumns caps the per-year report width; the long tail of item
// columns is noise at terminal width.
const maxReportColumns = 10

// NewMergeCommand creates the merge command.
func (a *App) NewMergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge [dir]",
		Short: "Merge all source spreadsheets into one dataset",
		Long: `Merge loads every yearly spreadsheet in the data directory, reconciles
it against the configured column schema, canonicalizes site names, and
writes the merged dataset and finalized column table as CSV files.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyDataDir(args)

			pipeline, err := a.Pipeline()
			if err != nil {
				return err
			}

			result, err := pipeline.Merge(cmd.Context())
			if err != nil {
				return err
			}
			if err := pipeline.Save(result.Dataset); err != nil {
				return err
			}

			for _, failed := range result.Failed {
				a.logger.Warn().Err(failed.Err).Str("file", failed.File).Msg("File skipped")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged %d events from %d files (%d skipped)\n",
				len(result.Dataset.Events), len(result.Files)-len(result.Failed), len(result.Failed))
			return nil
		},
	}

	cmd.Flags().BoolVar(&a.config.FailFast, "fail-fast", false, "abort on the first file-level schema error")
	return cmd
}

// NewReportCommand creates the report command.
func (a *App) NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [dir]",
		Short: "Print per-year totals from the merged dataset",
		Long: `Report loads the merged dataset (merging from source first if no
persisted copy exists), groups events by calendar year, and prints the
summed totals for the dominant columns.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyDataDir(args)

			pipeline, err := a.Pipeline()
			if err != nil {
				return err
			}

			d, err := pipeline.Dataset(cmd.Context())
			if err != nil {
				return err
			}

			annual := d.GroupByYear()
			columns := annual.Columns
			if len(columns) > maxReportColumns {
				columns = columns[:maxReportColumns]
			}

			header := make([]any, 0, len(columns)+1)
			header = append(header, "Year")
			for _, name := range columns {
				header = append(header, name)
			}

			table := tablewriter.NewTable(cmd.OutOrStdout())
			table.Header(header...)
			for _, year := range annual.Years {
				row := make([]any, 0, len(columns)+1)
				row = append(row, strconv.Itoa(year))
				for _, name := range columns {
					row = append(row, strconv.FormatFloat(annual.Totals[year][name], 'f', -1, 64))
				}
				if err := table.Append(row...); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}

	cmd.Flags().BoolVar(&a.config.Geocode, "geocode", false, "annotate events with coordinates via Nominatim")
	return cmd
}

// NewSchemaCommand creates the schema inspection command.
func (a *App) NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [dir]",
		Short: "Print the destination column schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyDataDir(args)

			pipeline, err := a.Pipeline()
			if err != nil {
				return err
			}

			table := tablewriter.NewTable(cmd.OutOrStdout())
			table.Header("Name", "Type", "Required", "Material", "Activity", "Sources")
			for _, spec := range pipeline.Columns() {
				if err := table.Append(
					spec.Name,
					spec.Type.String(),
					strconv.FormatBool(spec.Required),
					spec.Material,
					spec.Activity,
					strings.Join(spec.Sources, ", "),
				); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}

// NewSitesCommand creates the site alias inspection command.
func (a *App) NewSitesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sites [dir]",
		Short: "Print the configured site alias rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyDataDir(args)

			pipeline, err := a.Pipeline()
			if err != nil {
				return err
			}

			table := tablewriter.NewTable(cmd.OutOrStdout())
			table.Header("Canonical Site", "Match Keys")
			for _, rule := range pipeline.SiteRules() {
				if err := table.Append(rule.Canonical, strings.Join(rule.Keys, ", ")); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}

// applyDataDir points the pipeline at a directory given as a positional
// argument.
func (a *App) applyDataDir(args []string) {
	if len(args) == 1 {
		a.config.DataDir = args[0]
		a.reset()
	}
}
