// Package schema implements the schema registry for the shoreline pipeline.
// It loads and validates the column mapping configuration (destination column
// to source aliases, type, required flag, material, activity) and the
// site-name canonicalization rules. The registry is pure data: it is built
// once at startup and is immutable for the duration of a run.
package schema

import (
	"strings"
)

// Well-known destination column names. Date and Cleanup Site are structural:
// every reconciled event must carry both.
const (
	DateColumn     = "Date"
	SiteColumn     = "Cleanup Site"
	OtherColumn    = "Other"
	DurationColumn = "Duration (Hrs)"

	// Legacy total person-hours column, converted to DurationColumn
	// by the reconciler.
	VolunteerHoursColumn = "Volunteer Hours"
	VolunteerCountColumn = "# Of Volunteers"
)

// Type is the closed set of destination column types.
type Type int

// Column types. Int is the default for item-count columns.
const (
	TypeInt Type = iota
	TypeFloat
	TypeString
	TypeDateTime
)

// String returns the configuration literal for the type.
func (t Type) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeString:
		return "str"
	case TypeDateTime:
		return "datetime"
	default:
		return "int"
	}
}

// Numeric reports whether values of this type can be summed.
func (t Type) Numeric() bool {
	return t == TypeInt || t == TypeFloat
}

// ParseType parses a configuration type literal. The second return value is
// false for unrecognized literals.
func ParseType(s string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int":
		return TypeInt, true
	case "float":
		return TypeFloat, true
	case "str", "string":
		return TypeString, true
	case "datetime":
		return TypeDateTime, true
	default:
		return TypeInt, false
	}
}

// Materials recognized for item columns.
const (
	MaterialWood    = "Wood"
	MaterialPlastic = "Plastic"
	MaterialGlass   = "Glass"
	MaterialMetal   = "Metal"
	MaterialMixed   = "Mixed"
	MaterialCloth   = "Cloth"
)

// Defaults applied when a configuration field is omitted.
const (
	DefaultMaterial = MaterialMixed
	DefaultActivity = "Various"
)

// ColumnSpec describes one destination column: its accepted source aliases,
// type, and descriptive metadata. Material and activity are carried through
// for downstream aggregation and never affect reconciliation.
type ColumnSpec struct {
	Name     string
	Sources  []string
	Type     Type
	Required bool
	Material string
	Activity string
}

// Matches returns the source labels that this spec claims, preserving the
// label order of the sheet.
func (s ColumnSpec) Matches(labels []string) []string {
	var matched []string
	for _, label := range labels {
		for _, alias := range s.Sources {
			if label == alias {
				matched = append(matched, label)
				break
			}
		}
	}
	return matched
}

// Columns is an ordered set of ColumnSpecs. Order follows the configuration
// file and determines the column order of the merged dataset.
type Columns []ColumnSpec

// Get returns the spec with the given name.
func (c Columns) Get(name string) (ColumnSpec, bool) {
	for _, spec := range c {
		if spec.Name == name {
			return spec, true
		}
	}
	return ColumnSpec{}, false
}

// Names returns the destination column names in configuration order.
func (c Columns) Names() []string {
	names := make([]string, len(c))
	for i, spec := range c {
		names[i] = spec.Name
	}
	return names
}

// Numeric returns the specs whose values can be summed, in order.
func (c Columns) Numeric() Columns {
	var out Columns
	for _, spec := range c {
		if spec.Type.Numeric() {
			out = append(out, spec)
		}
	}
	return out
}

// Items returns the numeric specs that describe debris items: those carrying
// a material tag. Volunteer counts, duration and the like have none.
func (c Columns) Items() Columns {
	var out Columns
	for _, spec := range c {
		if spec.Type.Numeric() && spec.Material != "" {
			out = append(out, spec)
		}
	}
	return out
}

// AliasRule rewrites a raw site name to a canonical one. If the current site
// string contains any of the keys as a substring, it is replaced wholesale
// with the canonical name. Rules apply in configuration order and each rule
// sees the already-possibly-rewritten value.
type AliasRule struct {
	Canonical string
	Keys      []string
}

// AliasRules is the ordered site rename rule list.
type AliasRules []AliasRule
