// Package record resolves entity fields regardless of the naming convention they arrive in:
// "plain" (`status`) or suffixed by the hosted backend (`status_c`).
package record

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// Suffix is appended to custom field names by the hosted records backend.
	Suffix = "_c"
	// IDField is the identifier field; it is never suffixed.
	IDField = "Id"

	DateLayout = "2006-01-02"
)

// Raw is a record as decoded from any data source.
type Raw map[string]interface{}

// SuffixedName returns the backend name of a canonical field.
func SuffixedName(field string) string {
	if field == IDField || strings.HasSuffix(field, Suffix) {
		return field
	}
	return field + Suffix
}

// CanonicalName strips the backend suffix from a field name.
func CanonicalName(field string) string {
	return strings.TrimSuffix(field, Suffix)
}

// Get returns the value stored under the canonical name if present, else under the suffixed name.
func (r Raw) Get(field string) (interface{}, bool) {
	field = CanonicalName(field)
	if v, ok := r[field]; ok && v != nil {
		return v, true
	}
	if v, ok := r[SuffixedName(field)]; ok && v != nil {
		return v, true
	}
	return nil, false
}

// Has reports whether field is present under either name.
func (r Raw) Has(field string) bool {
	_, ok := r.Get(field)
	return ok
}

func (r Raw) String(field string) (string, bool) {
	v, ok := r.Get(field)
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case map[string]interface{}: // lookup: {"Id": 1, "Name": "..."}
		if name, ok := val["Name"].(string); ok {
			return name, true
		}
	}
	return "", false
}

func (r Raw) Float(field string) (float64, bool) {
	v, ok := r.Get(field)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func (r Raw) Int(field string) (int, bool) {
	v, ok := r.Get(field)
	if !ok {
		return 0, false
	}
	if lookup, ok := v.(map[string]interface{}); ok {
		id, ok := lookup[IDField]
		if !ok {
			return 0, false
		}
		v = id
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// ID returns the record identifier.
func (r Raw) ID() (int, bool) {
	return r.Int(IDField)
}

// Date parses a calendar date (YYYY-MM-DD); full timestamps are truncated to their date.
func (r Raw) Date(field string) (time.Time, bool) {
	s, ok := r.String(field)
	if !ok || s == "" {
		return time.Time{}, false
	}
	if len(s) >= len(DateLayout) {
		if d, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// Time parses an RFC 3339 timestamp, falling back to a calendar date.
func (r Raw) Time(field string) (time.Time, bool) {
	s, ok := r.String(field)
	if !ok || s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	return r.Date(field)
}

// Canonical returns a new record holding the given fields (all fields when none is given) under their canonical names.
func Canonical(r Raw, fields ...string) Raw {
	out := make(Raw, len(r))
	if len(fields) == 0 {
		for k := range r {
			fields = append(fields, k)
		}
	}
	for _, f := range fields {
		if v, ok := r.Get(f); ok {
			out[CanonicalName(f)] = v
		}
	}
	return out
}

// Suffixed returns a new record with every field but the identifier under its backend name.
func Suffixed(r Raw) Raw {
	out := make(Raw, len(r))
	for k, v := range r {
		out[SuffixedName(k)] = v
	}
	return out
}

func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	}
	return 0, false
}
