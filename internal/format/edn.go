package format

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes the JSON form of v as EDN: maps, vectors, strings, numbers, booleans and nil.
// Object keys become keywords when they are valid keyword names and strings otherwise.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := plain(v)
	if err != nil {
		return err
	}
	var b strings.Builder
	e := ednWriter{b: &b, pretty: pretty}
	e.value(x, 0)
	b.WriteByte('\n')
	_, err = io.WriteString(w, b.String())
	return err
}

var ednKeywordRe = regexp.MustCompile(`^[A-Za-z*+!_?<>=-][A-Za-z0-9*+!_?<>=.-]*$`)

type ednWriter struct {
	b      *strings.Builder
	pretty bool
}

func (e ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.b.WriteString("nil")
	case bool:
		e.b.WriteString(strconv.FormatBool(t))
	case string:
		e.b.WriteString(strconv.Quote(t))
	case float64:
		if t == float64(int64(t)) {
			e.b.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			e.b.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		e.seq('[', ']', len(t), depth, func(i int) { e.value(t[i], depth+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.seq('{', '}', len(keys), depth, func(i int) {
			k := keys[i]
			if ednKeywordRe.MatchString(k) {
				e.b.WriteString(":" + k)
			} else {
				e.b.WriteString(strconv.Quote(k))
			}
			e.b.WriteByte(' ')
			e.value(t[k], depth+1)
		})
	default:
		e.b.WriteString(strconv.Quote(fmt.Sprint(t)))
	}
}

func (e ednWriter) seq(open, close byte, n, depth int, item func(i int)) {
	e.b.WriteByte(open)
	if n == 0 {
		e.b.WriteByte(close)
		return
	}
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			e.b.WriteByte('\n')
			e.b.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			e.b.WriteByte(' ')
		}
		item(i)
	}
	if e.pretty {
		e.b.WriteByte('\n')
		e.b.WriteString(strings.Repeat("  ", depth))
	}
	e.b.WriteByte(close)
}
