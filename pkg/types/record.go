package types

import (
	"fmt"
	"strconv"
	"time"
)

// Record is one entity instance (model, dataset, policy, task, risk or
// evidence item) as a field keyed value mapping. The pipeline never assumes a
// shape; fields are reached through an Accessor supplied per table.
type Record map[string]any

// Accessor resolves a field on a record. ok is false when the field is absent
// or holds nil.
type Accessor func(r Record, field string) (any, bool)

// MapAccessor is the default accessor for plain map records.
func MapAccessor(r Record, field string) (any, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Id returns the record identifier as a string, tolerating numeric ids from
// upstream json. Empty string when the record carries no id.
func (r Record) Id() string {
	v, ok := r["id"]
	if !ok || v == nil {
		return ""
	}
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		return fmt.Sprintf("%v", id)
	}
}

// AsNumber coerces a field value into a float64. Dates parse to unix seconds
// so missing dates sort as epoch.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
		if ts, ok := AsTime(n); ok {
			return float64(ts.Unix()), true
		}
	case time.Time:
		return float64(n.Unix()), true
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// AsTime parses the date formats the upstream api emits.
func AsTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// AsString renders a field value the way it is shown in a table cell.
func AsString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
