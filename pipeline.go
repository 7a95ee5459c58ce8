package shoreline

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleanupdata/shoreline/pkg/dataset"
	"github.com/cleanupdata/shoreline/pkg/errors"
	"github.com/cleanupdata/shoreline/pkg/logging"
	"github.com/cleanupdata/shoreline/pkg/reconcile"
	"github.com/cleanupdata/shoreline/pkg/sheet"
	"github.com/cleanupdata/shoreline/pkg/sites"
)

// FileError records a source file that could not be merged.
type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string {
	return e.File + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error { return e.Err }

// MergeResult is the outcome of one merge run. Failed lists the source
// files skipped because of schema violations; unless fail-fast is enabled,
// one bad year does not block the rest.
type MergeResult struct {
	Dataset *dataset.Dataset
	Files   []string
	Failed  []FileError
	Stats   reconcile.Stats
}

// Merge processes every source spreadsheet in the data directory: load,
// orient, reconcile against the column schema, canonicalize site names.
// Events from all files are concatenated and sorted by date.
func (s *shoreline) Merge(ctx context.Context) (*MergeResult, error) {
	ctx = logging.WithLogger(ctx, s.config.logger)
	log := s.config.logger

	files, err := s.sourceFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.NewIOError("glob", s.config.dataDir, errors.ErrNotFound)
	}

	result := &MergeResult{Files: files}
	var events dataset.Events
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Info().Str("file", file).Msg("Analyzing file")

		fileEvents, stats, err := s.processFile(ctx, file)
		if err != nil {
			if s.config.failFast {
				return nil, FileError{File: file, Err: err}
			}
			log.Warn().Err(err).Str("file", file).Msg("Skipping file")
			result.Failed = append(result.Failed, FileError{File: file, Err: err})
			continue
		}
		events = append(events, fileEvents...)

		result.Stats.RowsIn += stats.RowsIn
		result.Stats.RowsDroppedDate += stats.RowsDroppedDate
		result.Stats.RowsDroppedSite += stats.RowsDroppedSite
		result.Stats.CellsCoerced += stats.CellsCoerced
		result.Stats.OtherColumns += stats.OtherColumns
	}

	events.SortByDate()
	result.Dataset = dataset.New(s.columns, events)

	log.Info().
		Int("files", len(files)).
		Int("failed", len(result.Failed)).
		Int("events", len(events)).
		Msg("Merge complete")
	return result, nil
}

// processFile runs one source file through the per-file pipeline.
func (s *shoreline) processFile(ctx context.Context, path string) (dataset.Events, reconcile.Stats, error) {
	raw, err := sheet.Load(path)
	if err != nil {
		return nil, reconcile.Stats{}, err
	}
	oriented := sheet.Orient(raw)

	result, err := reconcile.Reconcile(ctx, oriented, s.columns)
	if err != nil {
		return nil, reconcile.Stats{}, err
	}

	events := sites.Canonicalize(result.Events, s.rules, s.coords)
	return events, result.Stats, nil
}

// sourceFiles lists the yearly workbooks, excluding the coordinate
// reference workbook that shares the directory.
func (s *shoreline) sourceFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.config.dataDir, "*.xlsx"))
	if err != nil {
		return nil, errors.NewIOError("glob", s.config.dataDir, err)
	}
	out := files[:0]
	for _, file := range files {
		if strings.HasSuffix(file, "Coordinates.xlsx") {
			continue
		}
		out = append(out, file)
	}
	sort.Strings(out)
	return out, nil
}
