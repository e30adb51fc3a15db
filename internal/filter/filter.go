// Package filter compiles --where expressions into record predicates.
//
// Expressions use the expr language with the record's top-level fields as variables, e.g.
//
//	content_type == "news" && !is_draft
//	ticket_price < 10
//	title contains "Cup"
package filter

import (
	"fmt"
	"strings"

	"sportadmin/internal/model"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type Predicate struct {
	src  string
	prog *vm.Program
}

// Compile parses src. Unknown fields evaluate to nil rather than failing compilation, since
// records have no fixed shape.
func Compile(src string) (*Predicate, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("empty expression")
	}
	prog, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	return &Predicate{src: src, prog: prog}, nil
}

func (p *Predicate) String() string { return p.src }

// Match evaluates the predicate against r.
func (p *Predicate) Match(r model.Record) (bool, error) {
	out, err := expr.Run(p.prog, map[string]any(r))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.src, err)
	}
	b, _ := out.(bool)
	return b, nil
}

// And combines optional predicates; a nil func is skipped. The result treats an evaluation
// error as "no match".
func And(fns ...func(model.Record) bool) func(model.Record) bool {
	var active []func(model.Record) bool
	for _, fn := range fns {
		if fn != nil {
			active = append(active, fn)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(r model.Record) bool {
		for _, fn := range active {
			if !fn(r) {
				return false
			}
		}
		return true
	}
}

// Func adapts p for api.LoadOptions.Filter.
func (p *Predicate) Func() func(model.Record) bool {
	if p == nil {
		return nil
	}
	return func(r model.Record) bool {
		ok, err := p.Match(r)
		return err == nil && ok
	}
}
