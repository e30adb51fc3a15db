package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
)

// Options selects the output encoding.
//
// Supported formats:
// - json (default)
// - edn
// - yaml
// - table (values implementing Tabular; anything else falls back to yaml)
type Options struct {
	Format string
	Pretty bool
	// JQ is applied to the JSON form of the value before encoding. Each result is written
	// separately.
	JQ string
}

func Valid(format string) bool {
	switch format {
	case "", "json", "edn", "yaml", "table":
		return true
	}
	return false
}

// Write encodes v to w according to opts.
func Write(w io.Writer, v any, opts Options) error {
	if q := strings.TrimSpace(opts.JQ); q != "" {
		results, err := RunJQ(q, v)
		if err != nil {
			return err
		}
		for _, r := range results {
			if err := encode(w, r, opts); err != nil {
				return err
			}
		}
		return nil
	}
	return encode(w, v, opts)
}

func encode(w io.Writer, v any, opts Options) error {
	switch opts.Format {
	case "", "json":
		return WriteJSON(w, v, opts.Pretty)
	case "edn":
		return WriteEDN(w, v, opts.Pretty)
	case "yaml":
		return WriteYAML(w, v)
	case "table":
		if t, ok := v.(Tabular); ok {
			return WriteTable(w, t)
		}
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unknown format: %s", opts.Format)
	}
}

// WriteJSON writes strict JSON. Hints about fetching more data belong in a `meta` object.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteYAML writes the JSON form of v as YAML, so json tags decide field names.
func WriteYAML(w io.Writer, v any) error {
	x, err := plain(v)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(x); err != nil {
		return err
	}
	return enc.Close()
}

// RunJQ evaluates query against the JSON form of v.
func RunJQ(query string, v any) ([]any, error) {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("jq: invalid query %q: %w", query, err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("jq: compile %q: %w", query, err)
	}
	x, err := plain(v)
	if err != nil {
		return nil, err
	}
	var out []any
	iter := code.Run(x)
	for {
		r, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := r.(error); isErr {
			return nil, fmt.Errorf("jq: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

// plain round-trips v through JSON so structs become maps gojq and the encoders understand.
func plain(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return nil, err
	}
	return x, nil
}
