// Package shoreline merges years of beach-cleanup spreadsheets into one
// consistent dataset. Each yearly workbook arrives with its own column
// names, orientation, and site-name spellings; the pipeline reconciles them
// against a configured destination schema, canonicalizes site names, and
// persists a single date-sorted CSV alongside the finalized column table.
package shoreline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleanupdata/shoreline/pkg/dataset"
	"github.com/cleanupdata/shoreline/pkg/schema"
	"github.com/cleanupdata/shoreline/pkg/sites"
)

// Default file names within the data directory.
const (
	DefaultColumnConfig    = "column_categories.yml"
	DefaultSiteConfig      = "site_categories.yml"
	DefaultCoordinatesFile = "cleanup_site_coordinates.csv"
	MergedDataFile         = "merged_cleanup_data.csv"
	ColumnInfoFile         = "cleanup_column_info.csv"
)

// Shoreline runs the cleanup-data merge pipeline.
type Shoreline interface {
	// Merge processes every source spreadsheet in the data directory and
	// returns the merged, date-sorted dataset.
	Merge(ctx context.Context) (*MergeResult, error)

	// Dataset returns the merged dataset with derived total columns,
	// loading the persisted copy when one exists and otherwise merging
	// from source and persisting the result.
	Dataset(ctx context.Context) (*dataset.Dataset, error)

	// Save persists the merged dataset and the finalized column table.
	Save(d *dataset.Dataset) error

	// Columns returns the destination column schema.
	Columns() schema.Columns

	// SiteRules returns the configured site alias rules.
	SiteRules() schema.AliasRules
}

type shoreline struct {
	config  *config
	columns schema.Columns
	rules   schema.AliasRules
	coords  sites.Table
}

// New loads the schema configuration and returns a ready pipeline.
// Configuration problems surface here, before any source file is touched.
func New(opts ...Option) (Shoreline, error) {
	s := &shoreline{config: defaultConfig()}
	for _, opt := range opts {
		if err := opt(s.config); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	columns, rules, err := schema.LoadFiles(
		s.config.path(s.config.columnConfig),
		s.config.path(s.config.siteConfig),
	)
	if err != nil {
		return nil, err
	}
	s.columns = columns
	s.rules = rules

	// The coordinate reference table is optional.
	coordPath := s.config.path(s.config.coordinatesFile)
	if _, err := os.Stat(coordPath); err == nil {
		table, err := sites.LoadTable(coordPath)
		if err != nil {
			return nil, err
		}
		table.Threshold = s.config.distanceThreshold
		s.coords = table
	}

	return s, nil
}

func (s *shoreline) Columns() schema.Columns { return s.columns }

func (s *shoreline) SiteRules() schema.AliasRules { return s.rules }

// path resolves a file name against the data directory, leaving absolute
// paths alone.
func (c *config) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.dataDir, name)
}
