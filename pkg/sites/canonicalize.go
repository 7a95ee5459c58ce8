// Package sites normalizes free-text cleanup site names to a fixed
// vocabulary. Years of hand-entered spreadsheets spell the same beach a
// dozen ways; this package folds them together with literal scrubs, ordered
// substring rules, and a nearest-known-coordinate lookup for sites recorded
// as raw coordinate pairs.
package sites

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cleanupdata/shoreline/pkg/dataset"
	"github.com/cleanupdata/shoreline/pkg/schema"
)

// scrubs are literal replacements applied to every site name, in order,
// before the alias rules run. Mostly punctuation cleanup plus folding the
// many San Lorenzo River spellings into "SLR @" forms the alias rules can
// match.
var scrubs = [][2]string{
	{".", ""},
	{" To ", " - "},
	{" Street", ""},
	{" Ave", ""},
	{"Slr", "SLR"},
	{"Sl River -", "SLR @"},
	{"San Lorenzo River", "SLR"},
	{"San Lorenzo R", "SLR"},
	{"SLR:", "SLR @"},
	{"SLR-", "SLR @"},
	{"SLR At", "SLR @"},
	{"SLR -", "SLR @"},
	{"SLR Cleanup", "SLR"},
}

var titler = cases.Title(language.English)

// CanonicalName normalizes one raw site name: trim, title-case, scrub, then
// walk every alias rule in configured order. Each rule rewrites the
// already-possibly-rewritten value, so a name can pass through an
// intermediate form before a later, broader rule claims it. The full
// transform reaches a fixed point after one pass for non-cyclic rule sets.
func CanonicalName(raw string, rules schema.AliasRules) string {
	name := titler.String(strings.TrimSpace(raw))
	for _, scrub := range scrubs {
		name = strings.ReplaceAll(name, scrub[0], scrub[1])
	}
	for _, rule := range rules {
		for _, key := range rule.Keys {
			if strings.Contains(name, key) {
				name = rule.Canonical
				break
			}
		}
	}
	return name
}

// Canonicalize rewrites every event's site name per CanonicalName and, when
// a coordinate table is available, resolves coordinate-pair site strings to
// the nearest known site. The input events are not mutated.
func Canonicalize(events dataset.Events, rules schema.AliasRules, coords Table) dataset.Events {
	out := make(dataset.Events, len(events))
	for i, src := range events {
		event := src.Clone()
		event.Site = CanonicalName(event.Site, rules)
		if name, ok := coords.Resolve(event.Site); ok {
			event.Site = name
		}
		out[i] = event
	}
	return out
}
