// Package expr evaluates the boolean expressions that guard conditional
// template blocks (spec.md §4.2).
//
// Evaluation first substitutes @name references with their bound value (or
// default, or the empty string) and then parses/evaluates the resulting
// text against the grammar:
//
//	expr    := or
//	or      := and ( '|' and )*
//	and     := cmp ( '&' cmp )*
//	cmp     := atom ( ('=='|'!='|'<'|'<='|'>'|'>=') atom | 'IN' '(' atomList ')' )?
//	atom    := '!' atom | '(' expr ')' | literal
//	literal := integer | real | single-quoted string | TRUE | FALSE
//
// (The grammar's "paramRef" alternative for atom is resolved away by the
// substitution pass before parsing — see Substitute — matching the design
// note in spec.md §4.2/§9 that substitution happens first.)
package expr

import (
	"strings"

	apperrors "github.com/sqlxlate/sqlxlate/pkg/errors"
	"github.com/sqlxlate/sqlxlate/pkg/value"
)

// Resolver resolves a parameter name to its effective value within an
// expression: an explicit binding, a declared default, or not-found (which
// substitutes as the empty string, per spec.md §4.3).
type Resolver func(name string) (value.Value, bool)

// Evaluate substitutes @name references in exprText via resolve, then
// parses and evaluates the boolean expression grammar above. Malformed
// expressions fail with an ExpressionError (spec.md §4.2, §7).
func Evaluate(exprText string, resolve Resolver) (bool, error) {
	substituted := Substitute(exprText, resolve)
	p := &parser{toks: tokenize(substituted), exprText: exprText}
	v, err := p.parseOr()
	if err != nil {
		return false, err
	}
	if !p.atEnd() {
		return false, p.errorf("unexpected trailing input")
	}
	return v, nil
}

// Substitute replaces every @name reference in exprText with the literal
// text form of its resolved value: bare for numbers/booleans, a
// single-quoted (escaped) literal for strings, and a comma-joined,
// per-element-quoted list for sequences (mirroring value.Stringify's
// sequence handling). Occurrences inside single-quoted string literals are
// left untouched (spec.md §3 invariant: "Literal @ inside string literals
// is preserved").
func Substitute(exprText string, resolve Resolver) string {
	var buf strings.Builder
	i := 0
	for i < len(exprText) {
		c := exprText[i]
		switch {
		case c == '\'':
			j := i + 1
			for j < len(exprText) {
				if exprText[j] == '\'' {
					if j+1 < len(exprText) && exprText[j+1] == '\'' {
						j += 2
						continue
					}
					j++
					break
				}
				j++
			}
			buf.WriteString(exprText[i:j])
			i = j

		case c == '@':
			j := i + 1
			if j < len(exprText) && isIdentStart(exprText[j]) {
				k := j + 1
				for k < len(exprText) && isIdentCont(exprText[k]) {
					k++
				}
				name := exprText[j:k]
				v, ok := resolve(name)
				if !ok {
					v = value.String("")
				}
				buf.WriteString(literalFormOf(v))
				i = k
			} else {
				buf.WriteByte(c)
				i++
			}

		default:
			buf.WriteByte(c)
			i++
		}
	}
	return buf.String()
}

// literalFormOf renders v as re-parseable literal text for substitution
// into an expression, per Substitute's doc comment.
func literalFormOf(v value.Value) string {
	switch v.Kind() {
	case value.KindString:
		return "'" + strings.ReplaceAll(v.AsString(), "'", "''") + "'"
	case value.KindSequence:
		items := v.AsSequence()
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = literalFormOf(item)
		}
		return strings.Join(parts, ",")
	default:
		return value.Stringify(v)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func exprError(exprText, msg string) error {
	return apperrors.Newf(apperrors.ErrCodeExprMalformed, "%s: %q", msg, exprText).
		WithOp("expr.Evaluate").
		Err()
}
