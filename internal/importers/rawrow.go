package importers

import (
	"regexp"
	"strings"
)

// RawRow is one spreadsheet record keyed by normalized column name.
type RawRow map[string]any

var keySeparators = regexp.MustCompile(`[\s\-]+`)

// NormalizeKey canonicalizes a column header: trimmed, lowercase, with runs
// of whitespace and hyphens collapsed to "_" ("Price Range" -> "price_range").
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return keySeparators.ReplaceAllString(key, "_")
}

// NewRawRow builds a row from arbitrary keys. When two keys normalize to the
// same name a non-blank value is kept over a blank one.
func NewRawRow(cells map[string]any) RawRow {
	row := make(RawRow, len(cells))
	for k, v := range cells {
		row.set(NormalizeKey(k), v)
	}
	return row
}

func (r RawRow) set(key string, value any) {
	if key == "" {
		return
	}
	if existing, ok := r[key]; ok && !isBlank(existing) {
		return
	}
	r[key] = value
}

// lookup returns the first non-blank value among the candidate keys.
func (r RawRow) lookup(keys ...string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && !isBlank(v) {
			return v
		}
	}
	return nil
}

// Blank reports whether every cell in the row is empty.
func (r RawRow) Blank() bool {
	for _, v := range r {
		if !isBlank(v) {
			return false
		}
	}
	return true
}
