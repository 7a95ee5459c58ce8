package shoreline

import (
	"context"
	"os"

	"github.com/cleanupdata/shoreline/pkg/dataset"
	"github.com/cleanupdata/shoreline/pkg/logging"
)

// Save persists the merged dataset and the finalized column table next to
// the source files. The dataset write is atomic; a failed run never leaves
// a partial merged CSV behind.
func (s *shoreline) Save(d *dataset.Dataset) error {
	if err := d.WriteCSV(s.config.path(MergedDataFile)); err != nil {
		return err
	}
	return d.Columns.WriteCSV(s.config.path(ColumnInfoFile))
}

// Dataset returns the merged dataset extended with the derived total
// columns. A persisted merged CSV is used when present so repeat runs skip
// reconciliation entirely; otherwise the sources are merged and persisted
// first. When a geocoder is configured, events lacking coordinates are
// annotated before the totals are derived.
func (s *shoreline) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	ctx = logging.WithLogger(ctx, s.config.logger)
	log := s.config.logger

	var d *dataset.Dataset
	mergedPath := s.config.path(MergedDataFile)
	if _, err := os.Stat(mergedPath); err == nil {
		log.Debug().Str("path", mergedPath).Msg("Loading persisted merged dataset")
		d, err = dataset.ReadCSV(mergedPath, s.columns)
		if err != nil {
			return nil, err
		}
	} else {
		result, err := s.Merge(ctx)
		if err != nil {
			return nil, err
		}
		d = result.Dataset
		if err := s.Save(d); err != nil {
			return nil, err
		}
	}

	if s.config.geocoder != nil {
		annotated, n, err := d.AnnotateCoordinates(ctx, s.config.geocoder)
		if err != nil {
			return nil, err
		}
		log.Info().Int("annotated", n).Msg("Annotated event coordinates")
		d = annotated
	}

	return d.WithTotals(), nil
}
