package types

import (
	"encoding/json"
	"maps"
	"math"
)

// Fields is the flat body of a record: field name to string, number, or
// boolean value.
type Fields map[string]any

// Clone returns a shallow copy of f. A nil Fields clones to an empty map.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	maps.Copy(out, f)
	return out
}

// String returns the field as a string and whether it held one.
func (f Fields) String(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}

// Float returns the field as a float64 for any numeric representation.
func (f Fields) Float(key string) (float64, bool) {
	return toFloat(f[key])
}

// Int returns the field as an int for any integral numeric representation.
func (f Fields) Int(key string) (int, bool) {
	v, ok := toFloat(f[key])
	if !ok || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

// Document is a stored record together with its store-assigned eid.
type Document struct {
	EID    int    `json:"eid"`
	Fields Fields `json:"fields"`
}

// Filter selects documents whose fields equal every entry of the filter.
type Filter map[string]any

// Matches reports whether every entry of filter equals the corresponding
// field of f. All entries are tested against the same record, so a match
// never combines fields from two different documents.
func (filter Filter) Matches(f Fields) bool {
	for key, want := range filter {
		got, ok := f[key]
		if !ok || !ValuesEqual(got, want) {
			return false
		}
	}
	return true
}

// KeyFilter builds a Filter over the named key fields of f. It returns
// ErrMissingKey when any key is absent, not a string, or empty.
func KeyFilter(f Fields, keys []string) (Filter, error) {
	filter := make(Filter, len(keys))
	for _, k := range keys {
		s, ok := f.String(k)
		if !ok || s == "" {
			return nil, ErrMissingKey
		}
		filter[k] = s
	}
	return filter, nil
}

// ValuesEqual compares two field values. Numbers compare by value whatever
// their Go type, so an int written before a reload equals the float64 read
// back from JSON afterwards.
func ValuesEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
