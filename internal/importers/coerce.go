package importers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/portfolio/internal/entities"
)

// Cell values arrive as strings from spreadsheets and as decoded JSON from
// the API, so every field goes through one of the coercions below and
// nothing past this file inspects a cell's shape.

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

// coerceString renders any scalar as trimmed text.
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("2006-01-02")
	case []byte:
		return strings.TrimSpace(string(t))
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// optionalString maps blank values to nil so they persist as NULL.
func optionalString(v any) *string {
	s := coerceString(v)
	if s == "" {
		return nil
	}
	return &s
}

// splitList splits delimited text on commas, pipes and newlines.
func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// coerceList accepts a structured list, a JSON array encoded as text, or
// delimited text. The result never contains blank entries.
func coerceList(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		return compactStrings(t)
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			items = append(items, coerceString(item))
		}
		return compactStrings(items)
	case string:
		s := strings.TrimSpace(t)
		if strings.HasPrefix(s, "[") {
			var decoded []any
			if err := json.Unmarshal([]byte(s), &decoded); err == nil {
				return coerceList(decoded)
			}
		}
		return splitList(s)
	}
	return splitList(coerceString(v))
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Configurations holds unit configurations in one of two shapes. Structured
// input fills Units; text that is not valid JSON degrades to Flat.
type Configurations struct {
	Units []entities.UnitConfiguration
	Flat  []string
}

// Degraded reports whether the input could only be kept as plain strings.
func (c Configurations) Degraded() bool {
	return len(c.Units) == 0 && len(c.Flat) > 0
}

func (c Configurations) Len() int {
	return len(c.Units) + len(c.Flat)
}

func (c Configurations) MarshalJSON() ([]byte, error) {
	switch {
	case len(c.Units) > 0:
		return json.Marshal(c.Units)
	case len(c.Flat) > 0:
		return json.Marshal(c.Flat)
	}
	return []byte("[]"), nil
}

var (
	unitTypeKeys  = []string{"type", "bhk", "unit", "unit_type", "configuration", "name"}
	unitSizeKeys  = []string{"size", "size_range", "area", "carpet_area", "sqft"}
	unitPriceKeys = []string{"price", "price_range", "cost"}
)

// coerceConfigurations never fails: a JSON object or array becomes
// structured records, anything else is split like any other list.
func coerceConfigurations(v any) Configurations {
	switch t := v.(type) {
	case nil:
		return Configurations{}
	case map[string]any:
		return Configurations{Units: []entities.UnitConfiguration{unitFromMap(t)}}
	case []any:
		return Configurations{Units: unitsFromSlice(t)}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return Configurations{}
		}
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err == nil {
			switch d := decoded.(type) {
			case map[string]any:
				return Configurations{Units: []entities.UnitConfiguration{unitFromMap(d)}}
			case []any:
				return Configurations{Units: unitsFromSlice(d)}
			}
		}
		return Configurations{Flat: splitList(s)}
	}
	return Configurations{Flat: coerceList(v)}
}

func unitsFromSlice(items []any) []entities.UnitConfiguration {
	units := make([]entities.UnitConfiguration, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case map[string]any:
			units = append(units, unitFromMap(t))
		default:
			if s := coerceString(t); s != "" {
				units = append(units, entities.UnitConfiguration{Type: s})
			}
		}
	}
	return units
}

func unitFromMap(m map[string]any) entities.UnitConfiguration {
	row := NewRawRow(m)
	return entities.UnitConfiguration{
		Type:  coerceString(row.lookup(unitTypeKeys...)),
		Size:  coerceString(row.lookup(unitSizeKeys...)),
		Price: coerceString(row.lookup(unitPriceKeys...)),
	}
}
