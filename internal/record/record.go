// Package record holds a single parsed export record and its field lookups.
package record

import "strings"

// Row is one record from a play activity or library export, keyed by column
// header. A key that is missing from the map is absent; a key mapped to "" is
// present but empty.
type Row map[string]string

// Get returns the value for field and whether the field is present.
func (r Row) Get(field string) (string, bool) {
	v, ok := r[field]
	return v, ok
}

// First returns the first non-empty value among fields, tried in order, or ""
// if none of them has one. Values are trimmed.
func (r Row) First(fields ...string) string {
	for _, f := range fields {
		if v := strings.TrimSpace(r[f]); v != "" {
			return v
		}
	}
	return ""
}
