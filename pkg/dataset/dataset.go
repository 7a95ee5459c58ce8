// Package dataset holds the reconciled cleanup-event records and their
// persistence. A CleanedEvent is constructed row-by-row during
// reconciliation of one source file, concatenated into the aggregate
// dataset, and immutable thereafter.
package dataset

import (
	"sort"
	"time"

	"github.com/cleanupdata/shoreline/pkg/schema"
)

// DateLayout is the calendar date format of the merged dataset.
const DateLayout = "2006-01-02"

// Derived and annotation column names.
const (
	TotalVolunteersColumn = "Total Volunteers"
	TotalItemsColumn      = "Total Items"
	AdultVolunteersColumn = "Adult Volunteers"
	YouthVolunteersColumn = "Youth Volunteers"
	LatitudeColumn        = "Latitude"
	LongitudeColumn       = "Longitude"
	CountyColumn          = "County/City"
)

// Event is one fully reconciled cleanup-event record. Date and Site are
// structural; everything else is keyed by destination column name.
type Event struct {
	Date    time.Time
	Site    string
	Text    map[string]string
	Times   map[string]time.Time
	Numbers map[string]float64
}

// Number returns the named numeric value, defaulting to 0 when absent.
func (e Event) Number(name string) float64 {
	return e.Numbers[name]
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	out := Event{Date: e.Date, Site: e.Site}
	if e.Text != nil {
		out.Text = make(map[string]string, len(e.Text))
		for k, v := range e.Text {
			out.Text[k] = v
		}
	}
	if e.Times != nil {
		out.Times = make(map[string]time.Time, len(e.Times))
		for k, v := range e.Times {
			out.Times[k] = v
		}
	}
	if e.Numbers != nil {
		out.Numbers = make(map[string]float64, len(e.Numbers))
		for k, v := range e.Numbers {
			out.Numbers[k] = v
		}
	}
	return out
}

// Events is a sequence of cleanup events.
type Events []Event

// SortByDate orders events by date ascending. The sort is stable so events
// from one source file keep their relative order.
func (ev Events) SortByDate() {
	sort.SliceStable(ev, func(i, j int) bool {
		return ev[i].Date.Before(ev[j].Date)
	})
}

// Dataset is the merged multi-year table plus the finalized column specs
// that describe it.
type Dataset struct {
	Columns schema.Columns
	Events  Events
}

// New creates a dataset over the given columns.
func New(columns schema.Columns, events Events) *Dataset {
	return &Dataset{Columns: columns, Events: events}
}

// SortByDate orders the dataset by date ascending.
func (d *Dataset) SortByDate() {
	d.Events.SortByDate()
}
