package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanupdata/shoreline/pkg/errors"
	"github.com/cleanupdata/shoreline/pkg/reconcile"
	"github.com/cleanupdata/shoreline/pkg/schema"
	"github.com/cleanupdata/shoreline/pkg/sheet"
)

func testColumns(t *testing.T) schema.Columns {
	t.Helper()
	config := `
Date:
  sources: ['Date Of Cleanup Event/Fecha', 'Cleanup Date']
  type: datetime
  required: True
Cleanup Site:
  sources: ['Cleanup Site/Sitio De Limpieza', 'Site']
  type: str
  required: True
County/City:
  type: str
Duration (Hrs):
  type: float
Adult Volunteers:
  sources: ['# Of Volunteers']
Cans:
  sources: ['Beverage Cans', 'Beer Cans']
  material: Metal
`
	columns, err := schema.LoadColumns([]byte(config))
	require.NoError(t, err)
	return columns
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestReconcileMergesAliasedColumns(t *testing.T) {
	s := sheet.New("2019.xlsx", []sheet.Column{
		{Label: "Date Of Cleanup Event/Fecha", Cells: []string{"2019-05-01"}},
		{Label: "Cleanup Site", Cells: []string{"Cowell Beach"}},
		{Label: "Beverage Cans", Cells: []string{"3"}},
		{Label: "Beer Cans", Cells: []string{"2"}},
	})

	result, err := reconcile.Reconcile(context.Background(), s, testColumns(t))
	require.NoError(t, err)
	require.Len(t, result.Events, 1)

	event := result.Events[0]
	assert.Equal(t, date("2019-05-01"), event.Date)
	assert.Equal(t, "Cowell Beach", event.Site)
	assert.Equal(t, 5.0, event.Number("Cans"))
	assert.Equal(t, 0.0, event.Number(schema.OtherColumn))
}

func TestReconcileTitleCasesLabels(t *testing.T) {
	s := sheet.New("2017.xlsx", []sheet.Column{
		{Label: "CLEANUP DATE", Cells: []string{"2017-04-22"}},
		{Label: "cleanup site", Cells: []string{"Seabright"}},
		{Label: "beer cans", Cells: []string{"4"}},
	})

	result, err := reconcile.Reconcile(context.Background(), s, testColumns(t))
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, 4.0, result.Events[0].Number("Cans"))
}

func TestReconcileMissingDateColumn(t *testing.T) {
	s := sheet.New("2011.xlsx", []sheet.Column{
		{Label: "When", Cells: []string{"2011-05-01"}},
		{Label: "Cleanup Site", Cells: []string{"Cowell Beach"}},
	})

	_, err := reconcile.Reconcile(context.Background(), s, testColumns(t))
	require.Error(t, err)
	assert.True(t, errors.IsSchemaViolation(err))
}

func TestReconcileAmbiguousStringColumn(t *testing.T) {
	config := `
Date:
  type: datetime
  required: True
Cleanup Site:
  sources: ['Cleanup Date', 'Cleanup Date Verified']
  type: str
  required: True
`
	columns, err := schema.LoadColumns([]byte(config))
	require.NoError(t, err)

	s := sheet.New("2014.xlsx", []sheet.Column{
		{Label: "Date", Cells: []string{"2014-05-01", "2014-06-01"}},
		{Label: "Cleanup Date", Cells: []string{"a", "b"}},
		{Label: "Cleanup Date Verified", Cells: []string{"c", "d"}},
	})

	_, err = reconcile.Reconcile(context.Background(), s, columns)
	require.Error(t, err)
	assert.True(t, errors.IsSchemaViolation(err))

	var schemaErr *errors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "2014.xlsx", schemaErr.File)
	assert.ElementsMatch(t, []string{"Cleanup Date", "Cleanup Date Verified"}, schemaErr.Matches)
}

func TestReconcileDropsUnparseableDateRows(t *testing.T) {
	s := sheet.New("2016.xlsx", []sheet.Column{
		{Label: "Cleanup Date", Cells: []string{"2016-05-01", "Grand Total", "2016-06-01"}},
		{Label: "Cleanup Site", Cells: []string{"Cowell Beach", "", "Sunny Cove"}},
		{Label: "Cans", Cells: []string{"1", "99", "2"}},
	})

	result, err := reconcile.Reconcile(context.Background(), s, testColumns(t))
	require.NoError(t, err)
	require.Len(t, result.Events, 2)
	assert.Equal(t, 1, result.Stats.RowsDroppedDate)
	assert.Equal(t, 1.0, result.Events[0].Number("Cans"))
	assert.Equal(t, 2.0, result.Events[1].Number("Cans"))
}

func TestReconcileDropsNumericSiteRows(t *testing.T) {
	s := sheet.New("2015.xlsx", []sheet.Column{
		{Label: "Cleanup Date", Cells: []string{"2015-05-01", "2015-06-01"}},
		{Label: "Cleanup Site", Cells: []string{"0", "Sunny Cove"}},
	})

	result, err := reconcile.Reconcile(context.Background(), s, testColumns(t))
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "Sunny Cove", result.Events[0].Site)
	assert.Equal(t, 1, result.Stats.RowsDroppedSite)
}

func TestReconcileVolunteerHoursConversion(t *testing.T) {
	s := sheet.New("2013.xlsx", []sheet.Column{
		{Label: "Cleanup Date", Cells: []string{"2013-05-01", "2013-06-01", "2013-07-01"}},
		{Label: "Cleanup Site", Cells: []string{"Cowell Beach", "Sunny Cove", "Seabright"}},
		{Label: "Volunteer Hours", Cells: []string{"20", "9", "6"}},
		{Label: "# Of Volunteers", Cells: []string{"10", "0", ""}},
	})

	result, err := reconcile.Reconcile(context.Background(), s, testColumns(t))
	require.NoError(t, err)
	require.Len(t, result.Events, 3)

	assert.Equal(t, 2.0, result.Events[0].Number(schema.DurationColumn))
	// Zero and missing volunteer counts divide by 1.
	assert.Equal(t, 9.0, result.Events[1].Number(schema.DurationColumn))
	assert.Equal(t, 6.0, result.Events[2].Number(schema.DurationColumn))
	// The volunteer count column still reconciles into Adult Volunteers.
	assert.Equal(t, 10.0, result.Events[0].Number("Adult Volunteers"))
}

func TestReconcileBucketsUnknownColumnsIntoOther(t *testing.T) {
	s := sheet.New("2018.xlsx", []sheet.Column{
		{Label: "Cleanup Date", Cells: []string{"2018-05-01"}},
		{Label: "Cleanup Site", Cells: []string{"Cowell Beach"}},
		{Label: "Mystery Item", Cells: []string{"7"}},
		{Label: "Another Oddity", Cells: []string{"2"}},
		{Label: "Notes", Cells: []string{"windy day"}},
	})

	result, err := reconcile.Reconcile(context.Background(), s, testColumns(t))
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, 9.0, result.Events[0].Number(schema.OtherColumn))
	assert.Equal(t, 1, result.Stats.CellsCoerced) // "windy day"
}

// The totals invariant: per row, the sum over all destination numeric
// columns (including Other) equals the sum over all numeric-valued source
// cells. No numeric value is lost outside the Other bucket.
func TestReconcileTotalsInvariant(t *testing.T) {
	s := sheet.New("2019.xlsx", []sheet.Column{
		{Label: "Cleanup Date", Cells: []string{"2019-05-01", "2019-06-01"}},
		{Label: "Cleanup Site", Cells: []string{"Cowell Beach", "Sunny Cove"}},
		{Label: "Beverage Cans", Cells: []string{"3", "1"}},
		{Label: "Beer Cans", Cells: []string{"2", "0"}},
		{Label: "# Of Volunteers", Cells: []string{"12", "5"}},
		{Label: "Mystery Item", Cells: []string{"4", "not a number"}},
		{Label: "Stray Count", Cells: []string{"1", "8"}},
	})
	columns := testColumns(t)

	sourceTotals := make([]float64, 2)
	for _, col := range s.Columns[2:] {
		for r, cell := range col.Cells {
			if v, ok := sheet.ParseNumber(cell); ok {
				sourceTotals[r] += v
			}
		}
	}

	result, err := reconcile.Reconcile(context.Background(), s, columns)
	require.NoError(t, err)
	require.Len(t, result.Events, 2)

	for r, event := range result.Events {
		got := 0.0
		for _, spec := range columns.Numeric() {
			got += event.Number(spec.Name)
		}
		assert.Equal(t, sourceTotals[r], got, "row %d", r)
	}
}

func TestReconcileNumericColumnsDefaultToZero(t *testing.T) {
	s := sheet.New("2019.xlsx", []sheet.Column{
		{Label: "Cleanup Date", Cells: []string{"2019-05-01"}},
		{Label: "Cleanup Site", Cells: []string{"Cowell Beach"}},
	})

	result, err := reconcile.Reconcile(context.Background(), s, testColumns(t))
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, 0.0, result.Events[0].Number("Cans"))
	assert.Equal(t, 0.0, result.Events[0].Number("Adult Volunteers"))
}

func TestReconcileStringColumnCarriedThrough(t *testing.T) {
	s := sheet.New("2019.xlsx", []sheet.Column{
		{Label: "Cleanup Date", Cells: []string{"2019-05-01"}},
		{Label: "Cleanup Site", Cells: []string{"Cowell Beach"}},
		{Label: "County/City", Cells: []string{"Santa Cruz"}},
	})

	result, err := reconcile.Reconcile(context.Background(), s, testColumns(t))
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "Santa Cruz", result.Events[0].Text["County/City"])
	// Consumed string columns must not leak into Other.
	assert.Equal(t, 0.0, result.Events[0].Number(schema.OtherColumn))
}
