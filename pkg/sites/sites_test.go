package sites_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanupdata/shoreline/pkg/dataset"
	"github.com/cleanupdata/shoreline/pkg/schema"
	"github.com/cleanupdata/shoreline/pkg/sites"
)

func TestCanonicalNameScrubs(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  cowell beach ", "Cowell Beach"},
		{"Main Beach.", "Main Beach"},
		{"Seabright to Twin Lakes", "Seabright - Twin Lakes"},
		{"slr at felker street", "SLR @ Felker"},
		{"San Lorenzo River: Laurel", "SLR @ Laurel"},
		{"SLR cleanup", "SLR"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sites.CanonicalName(tt.raw, nil), tt.raw)
	}
}

func TestCanonicalNameAliasRules(t *testing.T) {
	rules := schema.AliasRules{
		{Canonical: "Cowell/Main Beach", Keys: []string{"Cowell", "Main Beach"}},
		{Canonical: "Sunny Cove", Keys: []string{"Sunny"}},
	}

	assert.Equal(t, "Cowell/Main Beach", sites.CanonicalName("cowell beach ", rules))
	assert.Equal(t, "Sunny Cove", sites.CanonicalName("Sunny Cove Beach", rules))
	assert.Equal(t, "Seabright", sites.CanonicalName("Seabright", rules))
}

// A name may be rewritten into an intermediate form that a later, broader
// rule then claims.
func TestCanonicalNameMultiStepRewrite(t *testing.T) {
	rules := schema.AliasRules{
		{Canonical: "Main Beach", Keys: []string{"Main"}},
		{Canonical: "Cowell/Main Beach", Keys: []string{"Main Beach"}},
	}
	assert.Equal(t, "Cowell/Main Beach", sites.CanonicalName("Main St Access", rules))
}

func TestCanonicalizeConvergence(t *testing.T) {
	rules := schema.AliasRules{
		{Canonical: "Cowell/Main Beach", Keys: []string{"Cowell"}},
		{Canonical: "SLR @ Felker", Keys: []string{"Felker"}},
	}
	events := dataset.Events{
		{Site: " cowell beach"},
		{Site: "slr at felker street"},
		{Site: "Seabright"},
	}

	once := sites.Canonicalize(events, rules, sites.Table{})
	twice := sites.Canonicalize(once, rules, sites.Table{})
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("canonicalize not convergent (-once +twice):\n%s", diff)
	}
}

func TestDecodeCoordinates(t *testing.T) {
	lat, lon, ok := sites.DecodeCoordinates("36961, -1220267")
	require.True(t, ok)
	assert.InDelta(t, 36.961, lat, 1e-9)
	assert.InDelta(t, -122.0267, lon, 1e-9)

	_, _, ok = sites.DecodeCoordinates("Cowell Beach")
	assert.False(t, ok)
	_, _, ok = sites.DecodeCoordinates("36, 122")
	assert.False(t, ok)
	_, _, ok = sites.DecodeCoordinates("Twin Lakes, Santa Cruz")
	assert.False(t, ok)
}

func TestResolveThreshold(t *testing.T) {
	// "36, -122" decodes to (36.0, -122.0). Near site ~0.4 km away, far
	// site ~5 km away.
	table := sites.Table{Sites: []sites.Site{
		{Name: "Near Beach", Latitude: 36.004, Longitude: -122.0},
		{Name: "Far Beach", Latitude: 36.045, Longitude: -122.0},
	}}

	table.Threshold = 1.5
	name, ok := table.Resolve("36, -122")
	require.True(t, ok)
	assert.Equal(t, "Near Beach", name)

	table.Threshold = 0.1
	_, ok = table.Resolve("36, -122")
	assert.False(t, ok)
}

func TestResolveIgnoresNames(t *testing.T) {
	table := sites.Table{Sites: []sites.Site{
		{Name: "Near Beach", Latitude: 36.0, Longitude: -122.0},
	}}
	_, ok := table.Resolve("Cowell Beach")
	assert.False(t, ok)
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleanup_site_coordinates.csv")
	csv := "Cleanup Site,Latitude,Longitude\nCowell/Main Beach,36.9622,-122.0242\nSunny Cove,36.9605,-121.9874\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	table, err := sites.LoadTable(path)
	require.NoError(t, err)
	require.Len(t, table.Sites, 2)
	assert.Equal(t, "Cowell/Main Beach", table.Sites[0].Name)
	assert.Equal(t, 36.9622, table.Sites[0].Latitude)

	_, err = sites.LoadTable(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestCanonicalizeResolvesCoordinates(t *testing.T) {
	table := sites.Table{Sites: []sites.Site{
		{Name: "Cowell/Main Beach", Latitude: 36.961, Longitude: -122.025},
	}}
	events := dataset.Events{{Site: "36961, -1220267"}}

	got := sites.Canonicalize(events, nil, table)
	require.Len(t, got, 1)
	assert.Equal(t, "Cowell/Main Beach", got[0].Site)
}
