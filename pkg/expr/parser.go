package expr

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sqlxlate/sqlxlate/pkg/value"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokNot
	tokAnd
	tokOr
	tokEq
	tokNe
	tokLt
	tokLe
	tokGt
	tokGe
	tokIn
	tokComma
	tokLiteral
)

type token struct {
	kind tokenKind
	lit  value.Value // populated for tokLiteral
}

// tokenize scans a (post-substitution) expression string into tokens.
// An unrecognized character yields a tokEOF token in place, which no
// grammar rule accepts, so the parse fails — reported as "expected a
// value" or "unexpected trailing input" by the parser.
func tokenize(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '(':
			toks = append(toks, token{kind: tokLParen})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma})
			i++
		case c == '!':
			if i+1 < len(s) && s[i+1] == '=' {
				toks = append(toks, token{kind: tokNe})
				i += 2
			} else {
				toks = append(toks, token{kind: tokNot})
				i++
			}
		case c == '&':
			toks = append(toks, token{kind: tokAnd})
			i++
		case c == '|':
			toks = append(toks, token{kind: tokOr})
			i++
		case c == '=':
			if i+1 < len(s) && s[i+1] == '=' {
				toks = append(toks, token{kind: tokEq})
				i += 2
			} else {
				toks = append(toks, token{kind: tokEq})
				i++
			}
		case c == '<':
			if i+1 < len(s) && s[i+1] == '=' {
				toks = append(toks, token{kind: tokLe})
				i += 2
			} else {
				toks = append(toks, token{kind: tokLt})
				i++
			}
		case c == '>':
			if i+1 < len(s) && s[i+1] == '=' {
				toks = append(toks, token{kind: tokGe})
				i += 2
			} else {
				toks = append(toks, token{kind: tokGt})
				i++
			}
		case c == '\'':
			j := i + 1
			for j < len(s) {
				if s[j] == '\'' {
					if j+1 < len(s) && s[j+1] == '\'' {
						j += 2
						continue
					}
					j++
					break
				}
				j++
			}
			toks = append(toks, token{kind: tokLiteral, lit: value.FromLiteral(s[i:j])})
			i = j

		case isDigitStart(s, i):
			j := i
			for j < len(s) && (isDigit(s[j]) || s[j] == '.') {
				j++
			}
			toks = append(toks, token{kind: tokLiteral, lit: value.FromLiteral(s[i:j])})
			i = j

		case isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentCont(s[j]) {
				j++
			}
			word := s[i:j]
			switch strings.ToUpper(word) {
			case "IN":
				toks = append(toks, token{kind: tokIn})
			case "TRUE":
				toks = append(toks, token{kind: tokLiteral, lit: value.Bool(true)})
			case "FALSE":
				toks = append(toks, token{kind: tokLiteral, lit: value.Bool(false)})
			default:
				toks = append(toks, token{kind: tokLiteral, lit: value.String(word)})
			}
			i = j

		default:
			toks = append(toks, token{kind: tokEOF})
			i++
		}
	}
	return toks
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigitStart(s string, i int) bool {
	if isDigit(s[i]) {
		return true
	}
	if s[i] == '-' && i+1 < len(s) && isDigit(s[i+1]) {
		return true
	}
	return false
}

type parser struct {
	toks     []token
	pos      int
	exprText string // original (pre-substitution) text, for error messages
}

func (p *parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token {
	if p.atEnd() {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) errorf(msg string) error {
	return exprError(p.exprText, msg)
}

// parseOr implements: or := and ( '|' and )*
func (p *parser) parseOr() (bool, error) {
	left, err := p.parseAnd()
	if err != nil {
		return false, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return false, err
		}
		left = left || right
	}
	return left, nil
}

// parseAnd implements: and := cmp ( '&' cmp )*
func (p *parser) parseAnd() (bool, error) {
	left, err := p.parseCmp()
	if err != nil {
		return false, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseCmp()
		if err != nil {
			return false, err
		}
		left = left && right
	}
	return left, nil
}

// parseCmp implements:
//
//	cmp := atom ( ('=='|'!='|'<'|'<='|'>'|'>=') atom | 'IN' '(' atomList ')' )?
func (p *parser) parseCmp() (bool, error) {
	left, err := p.parseAtom()
	if err != nil {
		return false, err
	}

	switch p.peek().kind {
	case tokEq, tokNe, tokLt, tokLe, tokGt, tokGe:
		op := p.next().kind
		right, err := p.parseAtom()
		if err != nil {
			return false, err
		}
		return compare(left, op, right), nil

	case tokIn:
		p.next()
		if p.next().kind != tokLParen {
			return false, p.errorf("expected '(' after IN")
		}
		var list []value.Value
		if p.peek().kind != tokRParen {
			for {
				item, err := p.parseAtom()
				if err != nil {
					return false, err
				}
				list = append(list, item)
				if p.peek().kind == tokComma {
					p.next()
					continue
				}
				break
			}
		}
		if p.next().kind != tokRParen {
			return false, p.errorf("expected ')' to close IN list")
		}
		for _, item := range list {
			if equalValues(left, item) {
				return true, nil
			}
		}
		return false, nil

	default:
		return value.Truthy(left), nil
	}
}

// parseAtom implements: atom := '!' atom | '(' expr ')' | literal
func (p *parser) parseAtom() (value.Value, error) {
	t := p.peek()
	switch t.kind {
	case tokNot:
		p.next()
		inner, err := p.parseAtom()
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(!value.Truthy(inner)), nil

	case tokLParen:
		p.next()
		result, err := p.parseOr()
		if err != nil {
			return value.Value{}, err
		}
		if p.next().kind != tokRParen {
			return value.Value{}, p.errorf("expected ')'")
		}
		return value.Bool(result), nil

	case tokLiteral:
		p.next()
		return t.lit, nil

	default:
		return value.Value{}, p.errorf("expected a value")
	}
}

// numeric attempts to view v as a decimal number: Int/Real directly, String
// only if it parses as a number. ok is false for Bool/Sequence and
// non-numeric strings.
func numeric(v value.Value) (decimal.Decimal, bool) {
	switch v.Kind() {
	case value.KindInt:
		return decimal.NewFromInt(v.AsInt()), true
	case value.KindReal:
		return v.AsReal(), true
	case value.KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(v.AsString()))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

// compare implements spec.md §4.2's coercion rule: numeric comparison when
// both sides parse as numbers, otherwise case-sensitive string comparison.
func compare(left value.Value, op tokenKind, right value.Value) bool {
	if ln, lok := numeric(left); lok {
		if rn, rok := numeric(right); rok {
			c := ln.Cmp(rn)
			return applyCmp(op, c)
		}
	}
	c := strings.Compare(value.Stringify(left), value.Stringify(right))
	return applyCmp(op, c)
}

func applyCmp(op tokenKind, c int) bool {
	switch op {
	case tokEq:
		return c == 0
	case tokNe:
		return c != 0
	case tokLt:
		return c < 0
	case tokLe:
		return c <= 0
	case tokGt:
		return c > 0
	case tokGe:
		return c >= 0
	default:
		return false
	}
}

func equalValues(a, b value.Value) bool {
	return compare(a, tokEq, b)
}
