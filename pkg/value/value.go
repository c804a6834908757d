// Package value provides the tagged-variant binding value used throughout
// the templating engine: a parameter binding is one of integer, real,
// boolean, string, or an ordered sequence of scalars (spec.md §3).
//
// Grounded on the teacher's small result-value shapes in
// tsqlruntime/interpreter.go (ExecutionResult/ResultSet/ProcedureParam) and
// generalized into a single stringify function per the spec's design note
// (§9: "keep the renderer generic over scalar vs sequence via a single
// stringify function").
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies which variant of Value is populated.
type Kind int

const (
	KindInt Kind = iota
	KindReal
	KindBool
	KindString
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Value is a tagged-variant binding value: integer, real, boolean, string,
// or an ordered sequence of any of the above (scalars only — sequences do
// not nest, per spec.md §3).
type Value struct {
	kind  Kind
	i     int64
	r     decimal.Decimal
	b     bool
	s     string
	items []Value
}

// Int creates an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Real creates a real (decimal) Value.
func Real(r decimal.Decimal) Value { return Value{kind: KindReal, r: r} }

// RealFromFloat creates a real Value from a float64.
func RealFromFloat(f float64) Value {
	return Value{kind: KindReal, r: decimal.NewFromFloat(f)}
}

// Bool creates a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String creates a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Sequence creates an ordered-sequence Value from scalar items.
func Sequence(items ...Value) Value { return Value{kind: KindSequence, items: items} }

// Kind reports which variant is populated.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether v equals the zero Value. Int(0) has the same
// representation as the zero Value, so it reports true as well.
func (v Value) IsZero() bool { return v.kind == KindInt && v.i == 0 && v.r.IsZero() && !v.b && v.s == "" && v.items == nil }

// AsInt returns the int64 payload (valid only when Kind() == KindInt).
func (v Value) AsInt() int64 { return v.i }

// AsReal returns the decimal payload (valid only when Kind() == KindReal).
func (v Value) AsReal() decimal.Decimal { return v.r }

// AsBool returns the bool payload (valid only when Kind() == KindBool).
func (v Value) AsBool() bool { return v.b }

// AsString returns the string payload (valid only when Kind() == KindString).
func (v Value) AsString() string { return v.s }

// AsSequence returns the sequence payload (valid only when Kind() == KindSequence).
func (v Value) AsSequence() []Value { return v.items }

// Stringify renders v in substitution context: the verbatim text that
// replaces a @param reference in rendered SQL (spec.md §3, §4.3).
//
//   - Int/Real render as their decimal text.
//   - Bool renders as "TRUE"/"FALSE" (literal substitution context, not
//     expression-truthiness context).
//   - String renders bare (unquoted) — the template author is responsible
//     for quoting where SQL syntax requires it, exactly as in
//     `render("SELECT * FROM @x ...", {x:"my_table"})`.
//   - Sequence renders as a comma-separated list, quoting string elements
//     and leaving non-string elements bare (spec.md §3, scenario 2).
func Stringify(v Value) string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return v.r.String()
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindString:
		return v.s
	case KindSequence:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = stringifySequenceElement(item)
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

func stringifySequenceElement(v Value) string {
	if v.kind == KindString {
		return "'" + strings.ReplaceAll(v.s, "'", "''") + "'"
	}
	return Stringify(v)
}

// Truthy reports whether v is truthy in expression context (spec.md §4.2):
// a nonzero number, a non-empty string other than "FALSE"/"0", or TRUE.
func Truthy(v Value) bool {
	switch v.kind {
	case KindInt:
		return v.i != 0
	case KindReal:
		return !v.r.IsZero()
	case KindBool:
		return v.b
	case KindString:
		switch v.s {
		case "", "FALSE", "0":
			return false
		default:
			return true
		}
	case KindSequence:
		return len(v.items) > 0
	default:
		return false
	}
}

// GoValue converts a plain Go value (Value, int, int64, float64,
// decimal.Decimal, bool, string, []interface{}, []int or []string) into a
// Value. Unrecognized types, including other slice types, render as their
// fmt.Sprintf("%v", ...) string form — this mirrors the spec's "open
// parameter bags" design note (§9): callers bind from dynamically typed
// data, and the engine never rejects a binding outright.
func GoValue(v interface{}) Value {
	switch x := v.(type) {
	case Value:
		return x
	case int:
		return Int(int64(x))
	case int64:
		return Int(x)
	case float64:
		return RealFromFloat(x)
	case decimal.Decimal:
		return Real(x)
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case []interface{}:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = GoValue(e)
		}
		return Sequence(items...)
	case []int:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = Int(int64(e))
		}
		return Sequence(items...)
	case []string:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = String(e)
		}
		return Sequence(items...)
	default:
		return String(fmt.Sprintf("%v", x))
	}
}

// FromLiteral parses a default-declaration or expression literal per
// spec.md §3/§4.2: integer, real, single-quoted string, bare identifier
// (treated as string), or TRUE/FALSE.
func FromLiteral(lit string) Value {
	lit = strings.TrimSpace(lit)
	switch strings.ToUpper(lit) {
	case "TRUE":
		return Bool(true)
	case "FALSE":
		return Bool(false)
	}
	if len(lit) >= 2 && lit[0] == '\'' && lit[len(lit)-1] == '\'' {
		return String(strings.ReplaceAll(lit[1:len(lit)-1], "''", "'"))
	}
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return Int(i)
	}
	if d, err := decimal.NewFromString(lit); err == nil {
		return Real(d)
	}
	return String(lit)
}
