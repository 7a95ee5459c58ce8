// Package sheet models one source workbook's tabular content and fixes its
// orientation. A Sheet is created by reading one file, consumed by the
// reconciler, and never persisted. Stages never mutate their input: each
// returns a new Sheet.
package sheet

import (
	"strconv"
	"strings"
)

// Column is one labeled column of cell values. Labels may be duplicated or
// garbled; cells are the formatted strings the workbook presented.
type Column struct {
	Label string
	Cells []string
}

// Sheet is one source file's tabular content after load.
type Sheet struct {
	Source  string
	Columns []Column
}

// New creates a Sheet from pre-built columns.
func New(source string, columns []Column) *Sheet {
	return &Sheet{Source: source, Columns: columns}
}

// Labels returns the column labels in sheet order.
func (s *Sheet) Labels() []string {
	labels := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		labels[i] = col.Label
	}
	return labels
}

// Rows returns the number of data rows.
func (s *Sheet) Rows() int {
	rows := 0
	for _, col := range s.Columns {
		if len(col.Cells) > rows {
			rows = len(col.Cells)
		}
	}
	return rows
}

// Cell returns the value at the given column and row, or "" when the column
// is ragged.
func (c Column) Cell(row int) string {
	if row < 0 || row >= len(c.Cells) {
		return ""
	}
	return c.Cells[row]
}

// Clone returns a deep copy of the sheet.
func (s *Sheet) Clone() *Sheet {
	columns := make([]Column, len(s.Columns))
	for i, col := range s.Columns {
		cells := make([]string, len(col.Cells))
		copy(cells, col.Cells)
		columns[i] = Column{Label: col.Label, Cells: cells}
	}
	return &Sheet{Source: s.Source, Columns: columns}
}

// ParseNumber parses a cell as a number. Spreadsheets mix free text into
// numeric columns, so callers coerce failures to 0 rather than erroring.
func ParseNumber(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	cell = strings.ReplaceAll(cell, ",", "")
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
