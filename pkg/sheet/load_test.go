package sheet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook writes rows into a throwaway xlsx file and returns its path.
func writeWorkbook(t *testing.T, name string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheetName, cell, &row))
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadReadsHeaderAndCells(t *testing.T) {
	path := writeWorkbook(t, "2019.xlsx", [][]any{
		{"Date", "Cleanup Site", "Cans"},
		{"2019-05-01", "Cowell Beach", 3},
		{"2019-06-01", "Sunny Cove", 5},
	})

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2019.xlsx", s.Source)
	assert.Equal(t, []string{"Date", "Cleanup Site", "Cans"}, s.Labels())
	require.Equal(t, 2, s.Rows())
	assert.Equal(t, "Cowell Beach", s.Columns[1].Cell(0))
	assert.Equal(t, "5", s.Columns[2].Cell(1))
}

func TestLoadSynthesizesUnnamedLabels(t *testing.T) {
	path := writeWorkbook(t, "2012.xlsx", [][]any{
		{"Items", "", ""},
		{"Date", "2012-07-05", "2012-08-02"},
		{"Cans", 3, 5},
	})

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Items", "Unnamed: 1", "Unnamed: 2"}, s.Labels())
}

func TestLoadTreatsNATokensAsEmpty(t *testing.T) {
	path := writeWorkbook(t, "2015.xlsx", [][]any{
		{"Date", "Cleanup Site", "Cans"},
		{"2015-05-01", "Cowell Beach", "UNK"},
		{"2015-06-01", "Sunny Cove", "#REF!"},
		{"2015-07-01", "Main Beach", "-"},
	})

	s, err := Load(path)
	require.NoError(t, err)
	for r := 0; r < 3; r++ {
		assert.Equal(t, "", s.Columns[2].Cell(r), "row %d", r)
	}
}

func TestLoadPadsRaggedRows(t *testing.T) {
	path := writeWorkbook(t, "2016.xlsx", [][]any{
		{"Date", "Cleanup Site", "Cans"},
		{"2016-05-01"},
		{"2016-06-01", "Sunny Cove", 5, "spillover"},
	})

	s, err := Load(path)
	require.NoError(t, err)
	// The widest row defines the sheet width; missing trailing cells are "".
	assert.Len(t, s.Columns, 4)
	assert.Equal(t, "Unnamed: 3", s.Columns[3].Label)
	assert.Equal(t, "", s.Columns[1].Cell(0))
	assert.Equal(t, "spillover", s.Columns[3].Cell(1))
}

func TestLoadRejectsHeaderOnlySheet(t *testing.T) {
	path := writeWorkbook(t, "empty.xlsx", [][]any{
		{"Date", "Cleanup Site"},
	})

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
