// Package form describes create forms: which draft fields exist, how they are validated before
// submission, and how raw draft strings become an API payload.
package form

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"sportadmin/internal/model"

	"github.com/google/uuid"
)

type Kind string

const (
	KindString Kind = "string"
	KindURL    Kind = "url"
	KindNumber Kind = "number"
	KindInt    Kind = "int"
	KindDate   Kind = "date"
	KindBool   Kind = "bool"
	// KindChoice takes one of Options (by value or label). Values that are uuids are also
	// accepted so new categories work before the option list is updated.
	KindChoice Kind = "choice"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Field struct {
	// Name is the draft (form) name, camelCase as the dashboard used it.
	Name string `json:"name"`
	// APIName is the payload key. Dots create nested objects ("contact_info.email").
	APIName  string   `json:"apiName"`
	Label    string   `json:"label"`
	Kind     Kind     `json:"kind"`
	Required bool     `json:"required"`
	Message  string   `json:"message,omitempty"`
	Options  []Option `json:"options,omitempty"`
}

// BodyFormat is how the rich-text body is submitted.
type BodyFormat string

const (
	BodyPlain BodyFormat = "text"
	BodyHTML  BodyFormat = "html"
)

type Body struct {
	APIName string     `json:"apiName"`
	Label   string     `json:"label"`
	Format  BodyFormat `json:"format"`
}

type Schema struct {
	Fields []Field `json:"fields"`
	Body   Body    `json:"body"`
	// Constants are merged into every payload (e.g. content_type).
	Constants map[string]any `json:"constants,omitempty"`
}

// Values is a Draft Record: raw input strings keyed by Field.Name.
type Values map[string]string

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate runs the structural pass. It returns nil when every field passes.
func (s Schema) Validate(v Values) *ValidationError {
	var errs []FieldError
	for _, f := range s.Fields {
		raw := strings.TrimSpace(v[f.Name])
		if raw == "" {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Name, Message: f.requiredMessage()})
			}
			continue
		}
		if msg := f.check(raw); msg != "" {
			errs = append(errs, FieldError{Field: f.Name, Message: msg})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// Unknown lists value keys that are not fields of the schema.
func (s Schema) Unknown(v Values) []string {
	var out []string
	for k := range v {
		if _, ok := s.Field(k); !ok {
			out = append(out, k)
		}
	}
	return out
}

func (f Field) requiredMessage() string {
	if f.Message != "" {
		return f.Message
	}
	return "Required"
}

func (f Field) check(raw string) string {
	switch f.Kind {
	case KindURL:
		if !isURL(raw) {
			return "Invalid URL"
		}
	case KindNumber:
		if _, err := parseNumber(raw); err != nil {
			return "Must be a number"
		}
	case KindInt:
		if _, err := parseNumber(raw); err != nil {
			return "Must be a number"
		}
		if _, err := parseInt(raw); err != nil {
			return "Must be a whole number in range"
		}
	case KindDate:
		if _, ok := model.ParseDate(raw); !ok {
			return "Invalid date"
		}
	case KindBool:
		if _, err := strconv.ParseBool(raw); err != nil {
			return "Must be true or false"
		}
	case KindChoice:
		if _, ok := f.resolveChoice(raw); !ok {
			return "Unknown option"
		}
	}
	return ""
}

func (f Field) resolveChoice(raw string) (string, bool) {
	for _, o := range f.Options {
		if o.Value == raw || strings.EqualFold(o.Label, raw) {
			return o.Value, true
		}
	}
	if _, err := uuid.Parse(raw); err == nil {
		return raw, true
	}
	return "", false
}

func isURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
	default:
		return false
	}
	return u.Host != ""
}

func parseNumber(raw string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	return n, nil
}

// parseInt truncates a number toward zero. Values outside int64 are rejected rather than
// wrapped.
func parseInt(raw string) (int64, error) {
	n, err := parseNumber(raw)
	if err != nil {
		return 0, err
	}
	n = math.Trunc(n)
	// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
	if n < math.MinInt64 || n >= math.MaxInt64 {
		return 0, fmt.Errorf("out of int64 range: %q", raw)
	}
	return int64(n), nil
}

// isoMillis matches JavaScript's Date.toISOString, which the backend was written against.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Payload builds the request body from validated values plus the normalized rich-text body.
// Callers must run Validate first; Payload reports the first coercion failure it meets.
//
// Empty optional strings are sent as "" (the dashboard always sent every field); empty optional
// numbers, dates and choices are omitted; an empty bool is false.
func (s Schema) Payload(v Values, body string) (map[string]any, error) {
	out := map[string]any{}
	for k, c := range s.Constants {
		out[k] = c
	}
	for _, f := range s.Fields {
		raw := strings.TrimSpace(v[f.Name])
		val, ok, err := f.coerce(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		if !ok {
			continue
		}
		setPath(out, f.apiName(), val)
	}
	if s.Body.APIName != "" {
		setPath(out, s.Body.APIName, body)
	}
	return out, nil
}

func (f Field) apiName() string {
	if f.APIName != "" {
		return f.APIName
	}
	return f.Name
}

// coerce converts raw to its payload value. ok=false means "omit the key".
func (f Field) coerce(raw string) (any, bool, error) {
	switch f.Kind {
	case KindNumber:
		if raw == "" {
			return nil, false, nil
		}
		n, err := parseNumber(raw)
		return n, err == nil, err
	case KindInt:
		if raw == "" {
			return nil, false, nil
		}
		n, err := parseInt(raw)
		return n, err == nil, err
	case KindDate:
		if raw == "" {
			return nil, false, nil
		}
		t, ok := model.ParseDate(raw)
		if !ok {
			return nil, false, fmt.Errorf("invalid date %q", raw)
		}
		return t.UTC().Format(isoMillis), true, nil
	case KindBool:
		if raw == "" {
			return false, true, nil
		}
		b, err := strconv.ParseBool(raw)
		return b, err == nil, err
	case KindChoice:
		if raw == "" {
			return nil, false, nil
		}
		val, ok := f.resolveChoice(raw)
		if !ok {
			return nil, false, fmt.Errorf("unknown option %q", raw)
		}
		return val, true, nil
	default:
		return raw, true, nil
	}
}

func setPath(m map[string]any, path string, v any) {
	parts := strings.Split(path, ".")
	cur := m
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}
