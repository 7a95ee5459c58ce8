// Package reconcile maps arbitrary source column names onto the registry's
// destination columns. It resolves aliases, coerces mixed numeric/string
// cells, buckets unrecognized numeric columns into the Other total, and
// emits one CleanedEvent per surviving row.
//
// Coercion is deliberately permissive: date cells that fail to parse drop
// their row (spreadsheet summary footers are expected to die this way) and
// numeric cells that fail to parse become 0, never an error. Schema
// assumption violations — a required column with zero or several matches, a
// string column that matches twice — are fatal for the sheet and surface as
// SchemaError.
package reconcile

import (
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cleanupdata/shoreline/pkg/dataset"
	"github.com/cleanupdata/shoreline/pkg/errors"
	"github.com/cleanupdata/shoreline/pkg/logging"
	"github.com/cleanupdata/shoreline/pkg/schema"
	"github.com/cleanupdata/shoreline/pkg/sheet"
)

// dateLayouts are tried in order when parsing date cells. The yearly
// workbooks are dominated by ISO dates; the rest are excelize renderings of
// date-styled cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06",
	"1/2/2006",
	"2006/01/02",
}

// Stats counts the permissive-coercion decisions made for one sheet, for
// auditing. Drops and zeroings are silent by design but never uncounted.
type Stats struct {
	RowsIn          int
	RowsDroppedDate int
	RowsDroppedSite int
	CellsCoerced    int
	OtherColumns    int
}

// Result is the outcome of reconciling one source sheet.
type Result struct {
	Events dataset.Events
	Stats  Stats
}

// Reconcile maps one oriented sheet onto the destination columns.
func Reconcile(ctx context.Context, s *sheet.Sheet, columns schema.Columns) (*Result, error) {
	log := logging.FromContext(ctx)
	stats := Stats{}

	// Case-only variants of the same header are one header.
	titler := cases.Title(language.English)
	work := make([]sheet.Column, len(s.Columns))
	for i, col := range s.Columns {
		work[i] = sheet.Column{Label: titler.String(col.Label), Cells: col.Cells}
	}

	dateSpec, _ := columns.Get(schema.DateColumn)
	dateMatches := dateSpec.Matches(labelsOf(work))
	if len(dateMatches) != 1 {
		return nil, errors.NewSchemaError(s.Source, schema.DateColumn,
			"missing required column", dateMatches)
	}

	dateCol, work := take(work, dateMatches)
	stats.RowsIn = len(dateCol[0].Cells)

	// Rows whose date cell fails to parse are dropped; summary/footer rows
	// are expected to be discarded this way.
	var dates []time.Time
	var keep []int
	for r, cell := range dateCol[0].Cells {
		t, ok := parseDate(cell)
		if !ok {
			stats.RowsDroppedDate++
			continue
		}
		dates = append(dates, t)
		keep = append(keep, r)
	}
	work = filterRows(work, keep)

	work, coerced := convertVolunteerHours(work)
	stats.CellsCoerced += coerced

	events := make(dataset.Events, len(keep))
	for i := range events {
		events[i] = dataset.Event{
			Date:    dates[i],
			Text:    map[string]string{},
			Times:   map[string]time.Time{},
			Numbers: map[string]float64{},
		}
	}

	for _, spec := range columns {
		if spec.Name == schema.DateColumn || spec.Name == schema.OtherColumn {
			continue
		}
		matched := spec.Matches(labelsOf(work))
		if spec.Required && len(matched) != 1 {
			return nil, errors.NewSchemaError(s.Source, spec.Name,
				"missing required column", matched)
		}

		switch spec.Type {
		case schema.TypeString, schema.TypeDateTime:
			// Re-checked at use time: string and datetime columns cannot
			// be summed, so two matches are unmergeable.
			if len(matched) > 1 {
				return nil, errors.NewSchemaError(s.Source, spec.Name,
					"can't merge columns of type "+spec.Type.String(), matched)
			}
			if len(matched) == 0 {
				continue
			}
			var src []sheet.Column
			src, work = take(work, matched)
			assignScalar(events, spec, src[0])
		default:
			var src []sheet.Column
			src, work = take(work, matched)
			stats.CellsCoerced += sumInto(events, spec.Name, src)
		}
	}

	// Everything left over is numeric-coerced into the Other bucket.
	stats.OtherColumns = len(work)
	stats.CellsCoerced += sumInto(events, schema.OtherColumn, work)

	// Floor-level validity filter: every event needs a date and a
	// non-numeric site.
	out := make(dataset.Events, 0, len(events))
	for _, event := range events {
		if event.Date.IsZero() {
			stats.RowsDroppedDate++
			continue
		}
		if _, numeric := sheet.ParseNumber(event.Site); numeric || event.Site == "" {
			stats.RowsDroppedSite++
			continue
		}
		out = append(out, event)
	}

	log.Debug().
		Str("file", s.Source).
		Int("rows_in", stats.RowsIn).
		Int("events", len(out)).
		Int("rows_dropped_date", stats.RowsDroppedDate).
		Int("rows_dropped_site", stats.RowsDroppedSite).
		Int("cells_coerced", stats.CellsCoerced).
		Int("other_columns", stats.OtherColumns).
		Msg("Reconciled sheet")

	return &Result{Events: out, Stats: stats}, nil
}

// parseDate parses one date cell.
func parseDate(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// labelsOf returns the current working labels.
func labelsOf(work []sheet.Column) []string {
	labels := make([]string, len(work))
	for i, col := range work {
		labels[i] = col.Label
	}
	return labels
}

// take consumes the columns with the given labels from the working set,
// returning them (in working order) and the remainder. Duplicate labels are
// all consumed.
func take(work []sheet.Column, labels []string) (taken, rest []sheet.Column) {
	wanted := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		wanted[label] = struct{}{}
	}
	for _, col := range work {
		if _, ok := wanted[col.Label]; ok {
			taken = append(taken, col)
		} else {
			rest = append(rest, col)
		}
	}
	return taken, rest
}

// filterRows keeps only the given row indices, re-indexing contiguously.
func filterRows(work []sheet.Column, keep []int) []sheet.Column {
	out := make([]sheet.Column, len(work))
	for i, col := range work {
		cells := make([]string, len(keep))
		for j, r := range keep {
			cells[j] = col.Cell(r)
		}
		out[i] = sheet.Column{Label: col.Label, Cells: cells}
	}
	return out
}

// convertVolunteerHours handles the legacy total person-hours column: old
// workbooks record Volunteer Hours (duration times volunteers) instead of a
// per-event duration. Dividing by the volunteer count recovers Duration
// (Hrs); zero or missing counts divide by 1.
func convertVolunteerHours(work []sheet.Column) ([]sheet.Column, int) {
	hoursIdx := indexOf(work, schema.VolunteerHoursColumn)
	if hoursIdx < 0 {
		return work, 0
	}
	countIdx := indexOf(work, schema.VolunteerCountColumn)

	coerced := 0
	hours := work[hoursIdx]
	duration := make([]string, len(hours.Cells))
	for r := range hours.Cells {
		h, ok := sheet.ParseNumber(hours.Cell(r))
		if !ok && hours.Cell(r) != "" {
			coerced++
		}
		count := 1.0
		if countIdx >= 0 {
			if c, ok := sheet.ParseNumber(work[countIdx].Cell(r)); ok && c != 0 {
				count = c
			}
		}
		duration[r] = strconv.FormatFloat(h/count, 'f', -1, 64)
	}

	out := make([]sheet.Column, 0, len(work))
	replaced := false
	for i, col := range work {
		if i == hoursIdx {
			continue
		}
		if col.Label == schema.DurationColumn {
			// Overwrite a coexisting duration column, as the source data
			// never has meaningful values in both.
			out = append(out, sheet.Column{Label: schema.DurationColumn, Cells: duration})
			replaced = true
			continue
		}
		out = append(out, col)
	}
	if !replaced {
		out = append(out, sheet.Column{Label: schema.DurationColumn, Cells: duration})
	}
	return out, coerced
}

// indexOf returns the index of the first column with the given label.
func indexOf(work []sheet.Column, label string) int {
	for i, col := range work {
		if col.Label == label {
			return i
		}
	}
	return -1
}

// assignScalar moves one string/datetime source column into the events.
func assignScalar(events dataset.Events, spec schema.ColumnSpec, col sheet.Column) {
	for r := range events {
		cell := col.Cell(r)
		switch {
		case spec.Name == schema.SiteColumn:
			events[r].Site = cell
		case spec.Type == schema.TypeDateTime:
			if t, ok := parseDate(cell); ok {
				events[r].Times[spec.Name] = t
			}
		default:
			events[r].Text[spec.Name] = cell
		}
	}
}

// sumInto adds the matched source columns elementwise into the named
// destination, coercing non-numeric cells to 0. The destination is always
// set, so it defaults to 0 when nothing matched. Returns the number of
// non-empty cells coerced to 0.
func sumInto(events dataset.Events, name string, cols []sheet.Column) int {
	coerced := 0
	for r := range events {
		total := 0.0
		for _, col := range cols {
			v, ok := sheet.ParseNumber(col.Cell(r))
			if !ok && col.Cell(r) != "" {
				coerced++
			}
			total += v
		}
		events[r].Numbers[name] += total
	}
	return coerced
}
