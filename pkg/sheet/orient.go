package sheet

import (
	"strconv"
	"strings"
)

// unnamedMarker flags a sheet as transposed: properly oriented yearly sheets
// have a full header row, while row-item sheets have one labeled key column
// and blank (auto-labeled) headers for every event column.
const unnamedMarker = "Unnamed"

// catchAllLabels mark the start of the long tail of one-off write-in item
// rows in transposed sheets. Everything from the marker on is summed into a
// single Other Sum column so hundreds of ad-hoc names don't flood the schema.
var catchAllLabels = []string{
	"Other:",
	"Other (Write-In):",
}

// OtherSumColumn is the destination of the collapsed catch-all segment.
// It is deliberately not in any spec's alias list, so the reconciler folds
// it into the Other bucket with the rest of the unmatched numeric columns.
const OtherSumColumn = "Other Sum"

// Orient detects and fixes row/column transposition. Sheets with events as
// columns are transposed to item-per-column orientation and their catch-all
// segment collapsed; already-oriented sheets are returned unchanged, which
// makes Orient idempotent.
func Orient(s *Sheet) *Sheet {
	if !transposed(s) {
		return s
	}
	t := transpose(s)
	return collapseCatchAll(t)
}

// transposed reports whether any column label carries the blank-header
// marker.
func transposed(s *Sheet) bool {
	for _, col := range s.Columns {
		if strings.Contains(col.Label, unnamedMarker) {
			return true
		}
	}
	return false
}

// transpose flips a row-item sheet: the first column's cells become the new
// column labels, and each remaining original column becomes one event row.
// Columns with no label and rows with no values are dropped.
func transpose(s *Sheet) *Sheet {
	if len(s.Columns) == 0 {
		return s
	}
	key := s.Columns[0]
	events := s.Columns[1:]

	columns := make([]Column, 0, len(key.Cells))
	for r := range key.Cells {
		label := strings.TrimSpace(key.Cells[r])
		if label == "" {
			// NaN label introduced by the transposition's index.
			continue
		}
		cells := make([]string, len(events))
		for j, event := range events {
			cells[j] = event.Cell(r)
		}
		columns = append(columns, Column{Label: label, Cells: cells})
	}

	return New(s.Source, dropEmptyRows(columns))
}

// dropEmptyRows removes rows that are entirely absent of values.
func dropEmptyRows(columns []Column) []Column {
	if len(columns) == 0 {
		return columns
	}
	rows := len(columns[0].Cells)
	keep := make([]int, 0, rows)
	for r := 0; r < rows; r++ {
		for _, col := range columns {
			if col.Cell(r) != "" {
				keep = append(keep, r)
				break
			}
		}
	}
	if len(keep) == rows {
		return columns
	}
	out := make([]Column, len(columns))
	for i, col := range columns {
		cells := make([]string, len(keep))
		for j, r := range keep {
			cells[j] = col.Cell(r)
		}
		out[i] = Column{Label: col.Label, Cells: cells}
	}
	return out
}

// collapseCatchAll sums all columns from the first catch-all marker to the
// end into one Other Sum column, dropping the summed originals.
func collapseCatchAll(s *Sheet) *Sheet {
	start := -1
	for i, col := range s.Columns {
		for _, marker := range catchAllLabels {
			if strings.TrimSpace(col.Label) == marker {
				start = i
				break
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return s
	}

	rows := s.Rows()
	sums := make([]string, rows)
	for r := 0; r < rows; r++ {
		total := 0.0
		for _, col := range s.Columns[start:] {
			if v, ok := ParseNumber(col.Cell(r)); ok {
				total += v
			}
		}
		sums[r] = strconv.FormatFloat(total, 'f', -1, 64)
	}

	columns := make([]Column, 0, start+1)
	columns = append(columns, s.Columns[:start]...)
	columns = append(columns, Column{Label: OtherSumColumn, Cells: sums})
	return New(s.Source, columns)
}
