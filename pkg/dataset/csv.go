package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cleanupdata/shoreline/pkg/errors"
	"github.com/cleanupdata/shoreline/pkg/schema"
)

// WriteCSV persists the merged dataset. The write is all-or-nothing: rows go
// to a temp file in the target directory which is renamed into place only
// after every row has been written.
func (d *Dataset) WriteCSV(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".merged-*.csv")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	w := csv.NewWriter(tmp)
	header := d.Columns.Names()
	if err := w.Write(header); err != nil {
		tmp.Close()
		return errors.WrapIO("write", path, err)
	}
	for _, event := range d.Events {
		record := make([]string, len(d.Columns))
		for i, spec := range d.Columns {
			record[i] = formatCell(event, spec)
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return errors.WrapIO("write", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// formatCell renders one event value for the given spec.
func formatCell(event Event, spec schema.ColumnSpec) string {
	switch spec.Name {
	case schema.DateColumn:
		return event.Date.Format(DateLayout)
	case schema.SiteColumn:
		return event.Site
	}
	switch spec.Type {
	case schema.TypeString:
		return event.Text[spec.Name]
	case schema.TypeDateTime:
		t, ok := event.Times[spec.Name]
		if !ok || t.IsZero() {
			return ""
		}
		return t.Format(DateLayout)
	default:
		return formatNumber(event.Numbers[spec.Name], spec.Type)
	}
}

// formatNumber renders int-typed whole values without a decimal point.
func formatNumber(v float64, t schema.Type) string {
	if t == schema.TypeInt && v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadCSV loads a previously merged dataset, e.g. the cached result of an
// earlier run. Rows whose Date fails to parse are dropped, mirroring the
// permissive-coercion policy of the pipeline itself.
func ReadCSV(path string, columns schema.Columns) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", path, err)
	}
	if len(records) == 0 {
		return New(columns, nil), nil
	}

	header := records[0]
	events := make(Events, 0, len(records)-1)
	for _, record := range records[1:] {
		event, ok := parseEvent(header, record, columns)
		if ok {
			events = append(events, event)
		}
	}
	return New(columns, events), nil
}

// parseEvent builds one event from a CSV record; ok is false when the Date
// cell does not parse.
func parseEvent(header, record []string, columns schema.Columns) (Event, bool) {
	event := Event{
		Text:    map[string]string{},
		Times:   map[string]time.Time{},
		Numbers: map[string]float64{},
	}
	for i, name := range header {
		if i >= len(record) {
			break
		}
		cell := record[i]
		switch name {
		case schema.DateColumn:
			t, err := time.Parse(DateLayout, cell)
			if err != nil {
				return Event{}, false
			}
			event.Date = t
		case schema.SiteColumn:
			event.Site = cell
		default:
			spec, known := columns.Get(name)
			switch {
			case known && spec.Type == schema.TypeString:
				event.Text[name] = cell
			case known && spec.Type == schema.TypeDateTime:
				if t, err := time.Parse(DateLayout, cell); err == nil {
					event.Times[name] = t
				}
			default:
				// Numeric specs and derived columns appended after the
				// original merge.
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					event.Numbers[name] = v
				}
			}
		}
	}
	return event, true
}
