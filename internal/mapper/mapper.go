package mapper

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Row is a decoded JSON object whose field naming may be snake_case or
// camelCase depending on which client (or schema era) produced it. The
// accessors try each candidate key in order and return the first value
// present. Persistence always writes snake_case; this tolerance exists
// only on the read side to guard against schema drift.
type Row map[string]json.RawMessage

// Decode parses raw JSON into a Row.
func Decode(data []byte) (Row, error) {
	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// String returns the first present candidate as a string.
func (r Row) String(keys ...string) string {
	raw, ok := r.lookup(keys)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}

// StringSlice returns the first present candidate as a string slice. A
// missing or malformed value yields nil.
func (r Row) StringSlice(keys ...string) []string {
	raw, ok := r.lookup(keys)
	if !ok {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}

// Int returns the first present candidate as an int, coercing numeric
// strings and defaulting to zero for anything non-numeric.
func (r Row) Int(keys ...string) int {
	return int(r.Float(keys...))
}

// Float returns the first present candidate as a float64. Missing or
// non-numeric values coerce to zero.
func (r Row) Float(keys ...string) float64 {
	raw, ok := r.lookup(keys)
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return parsed
		}
	}
	return 0
}

// Bool returns the first present candidate as a bool, defaulting to false.
func (r Row) Bool(keys ...string) bool {
	raw, ok := r.lookup(keys)
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	return false
}

// Has reports whether any candidate key is present with a non-null value.
func (r Row) Has(keys ...string) bool {
	_, ok := r.lookup(keys)
	return ok
}

// Time returns the first present candidate parsed as a date. Both plain
// dates and RFC3339 timestamps are accepted.
func (r Row) Time(keys ...string) *time.Time {
	value := r.String(keys...)
	if value == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed
		}
	}
	return nil
}

func (r Row) lookup(keys []string) (json.RawMessage, bool) {
	for _, key := range keys {
		if raw, ok := r[key]; ok && string(raw) != "null" {
			return raw, true
		}
	}
	return nil, false
}
