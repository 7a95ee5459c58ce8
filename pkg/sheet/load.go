package sheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cleanupdata/shoreline/pkg/errors"
)

// naTokens are cell values the yearly workbooks use for "unknown"; they are
// read as empty cells.
var naTokens = map[string]struct{}{
	"UNK":   {},
	"Unk":   {},
	"-":     {},
	"#REF!": {},
}

// unnamedLabel is the label synthesized for a blank header cell. Transposed
// workbooks have a single labeled key column followed by blank headers, so
// this marker is what the orientation heuristic keys on.
func unnamedLabel(idx int) string {
	return fmt.Sprintf("Unnamed: %d", idx)
}

// Load reads the first worksheet of an xlsx file into a Sheet. The first row
// is the header; blank header cells get synthesized Unnamed labels.
func Load(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParseError("xlsx", path, "workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.WrapParse("xlsx", path, err)
	}
	if len(rows) < 2 {
		return nil, errors.NewParseError("xlsx", path, "sheet has no data rows", nil)
	}

	// Rows can be ragged; the sheet is as wide as its widest row.
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	header := rows[0]
	columns := make([]Column, width)
	for c := 0; c < width; c++ {
		label := ""
		if c < len(header) {
			label = strings.TrimSpace(header[c])
		}
		if label == "" {
			label = unnamedLabel(c)
		}
		cells := make([]string, len(rows)-1)
		for r := 1; r < len(rows); r++ {
			cell := ""
			if c < len(rows[r]) {
				cell = strings.TrimSpace(rows[r][c])
			}
			if _, na := naTokens[cell]; na {
				cell = ""
			}
			cells[r-1] = cell
		}
		columns[c] = Column{Label: label, Cells: cells}
	}

	return New(filepath.Base(path), columns), nil
}
