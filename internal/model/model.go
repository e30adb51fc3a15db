package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is an opaque backend object. The client never validates its shape; it only reads
// optional display fields.
type Record map[string]any

// ID returns the record id in canonical string form ("" when absent).
//
// The backend uses numeric ids for some resources and uuid strings for others, so both
// {"id": 7} and {"id": "7"} yield "7".
func (r Record) ID() string {
	return FormatID(r["id"])
}

// FormatID renders an id value the same way Record.ID does.
func FormatID(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if float64(int64(t)) == t {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// String returns a display string for a (possibly dotted) key, or "" when missing.
func (r Record) String(key string) string {
	v, ok := r.Lookup(key)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64, int, int64, json.Number:
		return FormatID(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// Bool reads a boolean field; missing or non-bool values are false.
func (r Record) Bool(key string) bool {
	v, ok := r.Lookup(key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Lookup walks a dot-separated path into nested objects ("role.name").
func (r Record) Lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Date parses a date-ish field and formats it as YYYY-MM-DD. Unparseable values are returned
// as-is; missing values yield "".
func (r Record) Date(key string) string {
	s := strings.TrimSpace(r.String(key))
	if s == "" {
		return ""
	}
	if t, ok := ParseDate(s); ok {
		return t.Format("2006-01-02")
	}
	return s
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate accepts the date shapes the backend and admins commonly use.
// Values without a zone are treated as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Truncate shortens s to n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n]) + "..."
}
