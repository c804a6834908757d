// Package render drives the template lexer and expression evaluator to
// produce rendered SQL text from a template and a set of parameter bindings
// (spec.md §4.3).
//
// Rendering is two passes over the parsed node tree: first, every
// {DEFAULT @name = literal} declaration anywhere in the tree (including
// inside conditional bodies) is collected into a default table and removed
// from the emitted output; second, the tree is walked to produce text,
// with explicit bindings taking precedence over defaults and unresolved
// parameters substituting as the empty string (spec.md §3, §4.3).
package render

import (
	"strings"

	"github.com/sqlxlate/sqlxlate/pkg/expr"
	"github.com/sqlxlate/sqlxlate/pkg/template"
	"github.com/sqlxlate/sqlxlate/pkg/value"
)

// Render parses templateSrc and renders it against bindings.
func Render(templateSrc string, bindings map[string]value.Value) (string, error) {
	nodes, err := template.Lex(templateSrc)
	if err != nil {
		return "", err
	}

	defaults := make(map[string]value.Value)
	collectDefaults(nodes, defaults)

	resolve := func(name string) (value.Value, bool) {
		if v, ok := bindings[name]; ok {
			return v, true
		}
		if v, ok := defaults[name]; ok {
			return v, true
		}
		return value.Value{}, false
	}

	var buf strings.Builder
	if err := emit(nodes, resolve, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func collectDefaults(nodes []template.Node, out map[string]value.Value) {
	for _, n := range nodes {
		switch d := n.(type) {
		case template.Default:
			out[d.Name] = value.FromLiteral(d.Literal)
		case template.Cond:
			collectDefaults(d.Then, out)
			collectDefaults(d.Else, out)
		}
	}
}

func emit(nodes []template.Node, resolve expr.Resolver, buf *strings.Builder) error {
	for _, n := range nodes {
		switch t := n.(type) {
		case template.Text:
			buf.WriteString(t.Value)

		case template.Param:
			v, ok := resolve(t.Name)
			if !ok {
				v = value.String("")
			}
			buf.WriteString(value.Stringify(v))

		case template.Default:
			// Collected and dropped from output by collectDefaults.

		case template.Cond:
			ok, err := expr.Evaluate(t.Expr, resolve)
			if err != nil {
				return err
			}
			if ok {
				if err := emit(t.Then, resolve, buf); err != nil {
					return err
				}
			} else if t.Else != nil {
				if err := emit(t.Else, resolve, buf); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
