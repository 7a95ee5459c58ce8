package schema

import (
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/cleanupdata/shoreline/pkg/errors"
)

// sourceSeparator joins alias lists in the finalized column table.
const sourceSeparator = "; "

// columnRecord is the CSV shape of one finalized ColumnSpec.
type columnRecord struct {
	Name     string `csv:"name"`
	Sources  string `csv:"sources"`
	Type     string `csv:"type"`
	Required bool   `csv:"required"`
	Material string `csv:"material"`
	Activity string `csv:"activity"`
}

// WriteCSV persists the finalized column table for downstream consumers.
func (c Columns) WriteCSV(path string) error {
	records := make([]columnRecord, len(c))
	for i, spec := range c {
		records[i] = columnRecord{
			Name:     spec.Name,
			Sources:  strings.Join(spec.Sources, sourceSeparator),
			Type:     spec.Type.String(),
			Required: spec.Required,
			Material: spec.Material,
			Activity: spec.Activity,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&records, f); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// ReadCSV loads a previously persisted column table.
func ReadCSV(path string) (Columns, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	var records []columnRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, errors.WrapParse("csv", path, err)
	}

	columns := make(Columns, len(records))
	for i, rec := range records {
		colType, _ := ParseType(rec.Type)
		columns[i] = ColumnSpec{
			Name:     rec.Name,
			Sources:  strings.Split(rec.Sources, sourceSeparator),
			Type:     colType,
			Required: rec.Required,
			Material: rec.Material,
			Activity: rec.Activity,
		}
	}
	return columns, nil
}
