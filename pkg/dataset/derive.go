package dataset

import (
	"context"
	"sort"

	"github.com/cleanupdata/shoreline/pkg/logging"
	"github.com/cleanupdata/shoreline/pkg/schema"
)

// WithTotals returns a copy of the dataset extended with two derived
// columns: Total Volunteers (adults plus half-weighted youth) and Total
// Items (row-sum of the material-tagged item columns). The matching
// ColumnSpec rows are appended so downstream consumers see them in the
// finalized column table.
func (d *Dataset) WithTotals() *Dataset {
	items := d.Columns.Items()

	columns := make(schema.Columns, len(d.Columns), len(d.Columns)+2)
	copy(columns, d.Columns)
	columns = append(columns,
		schema.ColumnSpec{
			Name:    TotalVolunteersColumn,
			Sources: []string{"Adult + 0.5*Youth"},
			Type:    schema.TypeFloat,
		},
		schema.ColumnSpec{
			Name:    TotalItemsColumn,
			Sources: []string{"Sum of items per event"},
			Type:    schema.TypeInt,
		},
	)

	events := make(Events, len(d.Events))
	for i, src := range d.Events {
		event := src.Clone()
		if event.Numbers == nil {
			event.Numbers = map[string]float64{}
		}
		total := 0.0
		for _, spec := range items {
			total += event.Number(spec.Name)
		}
		event.Numbers[TotalItemsColumn] = total
		event.Numbers[TotalVolunteersColumn] =
			event.Number(AdultVolunteersColumn) + 0.5*event.Number(YouthVolunteersColumn)
		events[i] = event
	}
	return New(columns, events)
}

// Annual is the dataset grouped by calendar year: one row per year, one
// column per numeric destination column, ordered by descending grand total
// so the dominant items come first.
type Annual struct {
	Years   []int
	Columns []string
	Totals  map[int]map[string]float64
}

// GroupByYear buckets the dataset by the year of each event's date and sums
// the numeric columns within each bucket.
func (d *Dataset) GroupByYear() *Annual {
	numeric := d.Columns.Numeric()

	totals := map[int]map[string]float64{}
	for _, event := range d.Events {
		year := event.Date.Year()
		row, ok := totals[year]
		if !ok {
			row = map[string]float64{}
			totals[year] = row
		}
		for _, spec := range numeric {
			row[spec.Name] += event.Number(spec.Name)
		}
	}

	years := make([]int, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Ints(years)

	grand := map[string]float64{}
	for _, row := range totals {
		for name, v := range row {
			grand[name] += v
		}
	}
	columns := make([]string, len(numeric))
	for i, spec := range numeric {
		columns[i] = spec.Name
	}
	sort.SliceStable(columns, func(i, j int) bool {
		return grand[columns[i]] > grand[columns[j]]
	})

	return &Annual{Years: years, Columns: columns, Totals: totals}
}

// Geocoder resolves a free-text place query to coordinates. Lookups are
// expected to be slow, rate-limited and unreliable; a miss must surface as
// an error, never a panic.
type Geocoder interface {
	Forward(ctx context.Context, query string) (lat, lon float64, err error)
}

// Coordinate sanity bounds: the cleanup sites all sit in coastal
// California, so anything outside these is a geocoding mishit.
const (
	minLatitude  = 30.0
	maxLongitude = -100.0
)

// AnnotateCoordinates fills Latitude/Longitude for events that lack them by
// forward-geocoding "<site>, <county>, CA". Misses and timeouts leave the
// event unannotated. Returns a dataset copy plus the number of events
// annotated; the input is never mutated.
func (d *Dataset) AnnotateCoordinates(ctx context.Context, geocoder Geocoder) (*Dataset, int, error) {
	log := logging.FromContext(ctx)

	columns := d.Columns
	if _, ok := columns.Get(LatitudeColumn); !ok {
		columns = make(schema.Columns, len(d.Columns), len(d.Columns)+2)
		copy(columns, d.Columns)
		columns = append(columns,
			schema.ColumnSpec{Name: LatitudeColumn, Sources: []string{LatitudeColumn}, Type: schema.TypeFloat},
			schema.ColumnSpec{Name: LongitudeColumn, Sources: []string{LongitudeColumn}, Type: schema.TypeFloat},
		)
	}

	annotated := 0
	events := make(Events, len(d.Events))
	for i, src := range d.Events {
		event := src.Clone()
		if event.Numbers == nil {
			event.Numbers = map[string]float64{}
		}
		events[i] = event
		if _, ok := event.Numbers[LatitudeColumn]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, annotated, err
		}

		query := event.Site
		if county := event.Text[CountyColumn]; county != "" {
			query += ", " + county
		}
		query += ", CA"

		lat, lon, err := geocoder.Forward(ctx, query)
		if err != nil {
			log.Debug().Err(err).Str("site", event.Site).Msg("Geocoding miss")
			continue
		}
		if lat <= minLatitude || lon >= maxLongitude {
			log.Debug().
				Float64("lat", lat).
				Float64("lon", lon).
				Str("site", event.Site).
				Msg("Geocoding result outside sanity bounds")
			continue
		}
		event.Numbers[LatitudeColumn] = lat
		event.Numbers[LongitudeColumn] = lon
		annotated++
	}
	return New(columns, events), annotated, nil
}
