package schema

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/cleanupdata/shoreline/pkg/errors"
)

// OtherSources is the placeholder alias list of the synthetic Other spec.
// It documents intent in the finalized column table; nothing matches it.
var OtherSources = []string{"Any items not in config"}

// Load parses both configuration sources and returns the finalized registry.
func Load(columnYAML, siteYAML []byte) (Columns, AliasRules, error) {
	columns, err := LoadColumns(columnYAML)
	if err != nil {
		return nil, nil, err
	}
	rules, err := LoadAliasRules(siteYAML)
	if err != nil {
		return nil, nil, err
	}
	return columns, rules, nil
}

// LoadFiles reads and parses the column and site configuration files.
func LoadFiles(columnPath, sitePath string) (Columns, AliasRules, error) {
	columnYAML, err := os.ReadFile(columnPath)
	if err != nil {
		return nil, nil, errors.WrapIO("read", columnPath, err)
	}
	siteYAML, err := os.ReadFile(sitePath)
	if err != nil {
		return nil, nil, errors.WrapIO("read", sitePath, err)
	}
	return Load(columnYAML, siteYAML)
}

// LoadColumns parses the column configuration into ColumnSpecs.
//
// Each top-level key names a destination column; its (optional) body holds
// sources, type, required, material and activity. Omitted fields default to
// type=int, required=false, material=Mixed, activity=Various, and the
// destination name is always its own first alias. A synthetic Other spec is
// appended to catch unmatched numeric source columns.
func LoadColumns(data []byte) (Columns, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewConfigError("columns", "unparseable column configuration", err)
	}

	columns := make(Columns, 0, len(doc)+1)
	for _, item := range doc {
		name, ok := item.Key.(string)
		if !ok {
			return nil, errors.NewConfigError("columns",
				fmt.Sprintf("column name %v is not a string", item.Key), nil)
		}
		spec, err := parseColumnSpec(name, item.Value)
		if err != nil {
			return nil, err
		}
		columns = append(columns, spec)
	}

	if err := validateColumns(columns); err != nil {
		return nil, err
	}

	columns = append(columns, ColumnSpec{
		Name:     OtherColumn,
		Sources:  OtherSources,
		Type:     TypeInt,
		Required: false,
		Material: DefaultMaterial,
		Activity: DefaultActivity,
	})
	return columns, nil
}

// parseColumnSpec builds one ColumnSpec from a config entry body, which may
// be nil for an all-defaults item column.
func parseColumnSpec(name string, body any) (ColumnSpec, error) {
	spec := ColumnSpec{
		Name:     name,
		Sources:  []string{name},
		Type:     TypeInt,
		Required: false,
		Material: DefaultMaterial,
		Activity: DefaultActivity,
	}
	if body == nil {
		return spec, nil
	}

	fields, ok := body.(map[string]any)
	if !ok {
		return ColumnSpec{}, errors.NewConfigError("columns",
			fmt.Sprintf("entry %q is not a mapping", name), nil)
	}

	if raw, ok := fields["sources"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return ColumnSpec{}, errors.NewConfigError("columns",
				fmt.Sprintf("sources of %q is not a list", name), nil)
		}
		for _, v := range list {
			s, ok := v.(string)
			if !ok {
				return ColumnSpec{}, errors.NewConfigError("columns",
					fmt.Sprintf("source %v of %q is not a string", v, name), nil)
			}
			spec.Sources = append(spec.Sources, s)
		}
	}
	if raw, ok := fields["required"]; ok {
		if b, ok := raw.(bool); ok {
			spec.Required = b
		}
	}
	if raw, ok := fields["material"]; ok {
		if s, ok := raw.(string); ok {
			spec.Material = s
		}
	}
	if raw, ok := fields["activity"]; ok {
		if s, ok := raw.(string); ok {
			spec.Activity = s
		}
	}
	if raw, ok := fields["type"]; ok {
		literal, ok := raw.(string)
		if !ok {
			return ColumnSpec{}, errors.NewConfigError("columns",
				fmt.Sprintf("type of %q is not a string", name), nil)
		}
		parsed, recognized := ParseType(literal)
		if recognized {
			spec.Type = parsed
		} else if spec.Required {
			// A required column with a garbled type would fail every
			// sheet; refuse the configuration instead.
			return ColumnSpec{}, errors.NewConfigError("columns",
				fmt.Sprintf("required column %q has unrecognized type %q", name, literal), nil)
		}
	}
	return spec, nil
}

// validateColumns enforces the structural registry invariants.
func validateColumns(columns Columns) error {
	date, ok := columns.Get(DateColumn)
	if !ok {
		return errors.NewConfigError("columns", "Date has to be included in the config", nil)
	}
	if date.Type != TypeDateTime || !date.Required {
		return errors.NewConfigError("columns",
			"Date must be a required datetime column", nil)
	}

	site, ok := columns.Get(SiteColumn)
	if !ok {
		return errors.NewConfigError("columns",
			fmt.Sprintf("%s has to be included in the config", SiteColumn), nil)
	}
	if site.Type != TypeString {
		return errors.NewConfigError("columns",
			fmt.Sprintf("%s must be a str column", SiteColumn), nil)
	}

	seen := make(map[string]struct{}, len(columns))
	for _, spec := range columns {
		if _, dup := seen[spec.Name]; dup {
			return errors.NewConfigError("columns",
				fmt.Sprintf("duplicate column %q", spec.Name), nil)
		}
		seen[spec.Name] = struct{}{}
	}
	return nil
}

// LoadAliasRules parses the site configuration into the ordered rename rule
// list, normalizing single-key and multi-key entries into a uniform
// list-of-keys form.
func LoadAliasRules(data []byte) (AliasRules, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewConfigError("sites", "unparseable site configuration", err)
	}

	rules := make(AliasRules, 0, len(doc))
	for _, item := range doc {
		canonical, ok := item.Key.(string)
		if !ok {
			return nil, errors.NewConfigError("sites",
				fmt.Sprintf("site name %v is not a string", item.Key), nil)
		}
		rule := AliasRule{Canonical: canonical}
		switch v := item.Value.(type) {
		case string:
			rule.Keys = []string{v}
		case []any:
			for _, key := range v {
				s, ok := key.(string)
				if !ok {
					return nil, errors.NewConfigError("sites",
						fmt.Sprintf("key %v of site %q is not a string", key, canonical), nil)
				}
				rule.Keys = append(rule.Keys, s)
			}
		case nil:
			rule.Keys = []string{canonical}
		default:
			return nil, errors.NewConfigError("sites",
				fmt.Sprintf("keys of site %q must be a string or list of strings", canonical), nil)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
