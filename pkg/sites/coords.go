package sites

import (
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/umahmood/haversine"

	"github.com/cleanupdata/shoreline/pkg/errors"
)

// DefaultThreshold is the maximum distance, in kilometers, at which a
// decoded coordinate pair is considered to be at a known site.
const DefaultThreshold = 1.0

// Site is one known cleanup location with surveyed coordinates.
type Site struct {
	Name      string  `csv:"Cleanup Site"`
	Latitude  float64 `csv:"Latitude"`
	Longitude float64 `csv:"Longitude"`
}

// Table is the reference table of known coordinate sites. The zero value
// resolves nothing.
type Table struct {
	Sites     []Site
	Threshold float64 // km; DefaultThreshold when zero
}

// LoadTable reads the coordinate-site reference CSV.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	var sites []Site
	if err := gocsv.UnmarshalFile(f, &sites); err != nil {
		return Table{}, errors.WrapParse("csv", path, err)
	}
	return Table{Sites: sites}, nil
}

// Resolve maps a coordinate-pair site string to the nearest known site's
// name, if one lies within the distance threshold. Non-coordinate strings
// and out-of-threshold coordinates return ok=false.
func (t Table) Resolve(site string) (string, bool) {
	lat, lon, ok := DecodeCoordinates(site)
	if !ok || len(t.Sites) == 0 {
		return "", false
	}

	threshold := t.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	point := haversine.Coord{Lat: lat, Lon: lon}
	minDist := -1.0
	minName := ""
	for _, s := range t.Sites {
		_, km := haversine.Distance(point, haversine.Coord{Lat: s.Latitude, Lon: s.Longitude})
		if minDist < 0 || km < minDist {
			minDist = km
			minName = s.Name
		}
	}
	if minDist < 0 || minDist >= threshold {
		return "", false
	}
	return minName, true
}

// DecodeCoordinates recognizes the spreadsheets' degenerate coordinate
// encoding: "<digits>, -<digits>", two decimal fractions with the leading
// "0." dropped, scaled back into coastal-California latitude/longitude
// ranges. Returns ok=false for anything else.
func DecodeCoordinates(site string) (lat, lon float64, ok bool) {
	parts := strings.Split(site, ", ")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "-") {
		return 0, 0, false
	}
	latFrag, lonFrag := parts[0], parts[1][1:]
	if !allDigits(latFrag) || !allDigits(lonFrag) {
		return 0, 0, false
	}

	latVal, err := strconv.ParseFloat("0."+latFrag, 64)
	if err != nil {
		return 0, 0, false
	}
	lonVal, err := strconv.ParseFloat("0."+lonFrag, 64)
	if err != nil {
		return 0, 0, false
	}
	return latVal * 100, -lonVal * 1000, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
