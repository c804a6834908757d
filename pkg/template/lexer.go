package template

import (
	apperrors "github.com/sqlxlate/sqlxlate/pkg/errors"
)

// Lex scans template text into a sequence of Nodes (spec.md §4.1).
//
// Ambiguity is resolved in favor of literal text: a '{' that isn't a valid
// {DEFAULT ...} declaration and isn't followed by a balanced "}?{...}"
// conditional structure is emitted verbatim, braces included. A '{' with no
// matching '}' anywhere in the remaining input is a hard TemplateSyntaxError
// identifying its offset.
func Lex(src string) ([]Node, error) {
	p := &lexer{src: src}
	return p.parseNodes()
}

type lexer struct {
	src string
	pos int
}

func (p *lexer) parseNodes() ([]Node, error) {
	var nodes []Node
	textStart := p.pos

	flush := func(end int) {
		if end > textStart {
			nodes = append(nodes, Text{Value: p.src[textStart:end]})
		}
	}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\'':
			p.pos = skipStringLiteral(p.src, p.pos)

		case c == '@':
			if name, ok := tryParam(p.src, p.pos); ok {
				flush(p.pos)
				nodes = append(nodes, Param{Name: name, Offset: p.pos})
				p.pos += 1 + len(name)
				textStart = p.pos
			} else {
				p.pos++
			}

		case c == '{':
			start := p.pos
			if def, newPos, ok := tryDefault(p.src, p.pos); ok {
				flush(start)
				nodes = append(nodes, def)
				p.pos = newPos
				textStart = p.pos
				continue
			}

			cond, newPos, matched, err := tryCond(p.src, p.pos)
			if err != nil {
				return nil, err
			}
			if matched {
				flush(start)
				nodes = append(nodes, cond)
				p.pos = newPos
				textStart = p.pos
			} else {
				// Either a balanced-but-non-conditional {...} (literal,
				// braces included) or nothing matched at all — newPos
				// already accounts for both.
				p.pos = newPos
			}

		default:
			p.pos++
		}
	}

	flush(len(p.src))
	return nodes, nil
}

// skipStringLiteral advances past a single-quoted string literal starting
// at pos (src[pos] == '\''), honoring the '' escape (spec.md §4.1).
func skipStringLiteral(src string, pos int) int {
	i := pos + 1
	for i < len(src) {
		if src[i] == '\'' {
			if i+1 < len(src) && src[i+1] == '\'' {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return len(src)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func skipWS(src string, pos int) int {
	for pos < len(src) && isSpace(src[pos]) {
		pos++
	}
	return pos
}

// tryParam recognizes @identifier at pos (src[pos] == '@'). An '@' not
// immediately followed by an identifier character is literal text
// (spec.md §4.1).
func tryParam(src string, pos int) (string, bool) {
	i := pos + 1
	if i >= len(src) || !isIdentStart(src[i]) {
		return "", false
	}
	j := i + 1
	for j < len(src) && isIdentCont(src[j]) {
		j++
	}
	return src[i:j], true
}

// hasPrefixFold reports whether src[pos:] starts with an ASCII
// case-insensitive match of word.
func hasPrefixFold(src string, pos int, word string) bool {
	if pos+len(word) > len(src) {
		return false
	}
	for i := 0; i < len(word); i++ {
		a, b := src[pos+i], word[i]
		if a >= 'a' && a <= 'z' {
			a -= 'a' - 'A'
		}
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

// tryDefault recognizes "{DEFAULT @name = literal}" at pos greedily
// (spec.md §3, §4.1), consuming one trailing newline or space after the
// closing '}' to avoid leaving a blank line.
func tryDefault(src string, pos int) (Default, int, bool) {
	i := pos
	if !hasPrefixFold(src, i, "{DEFAULT") {
		return Default{}, pos, false
	}
	i += len("{DEFAULT")
	if i >= len(src) || !isSpace(src[i]) {
		return Default{}, pos, false
	}
	i = skipWS(src, i)
	if i >= len(src) || src[i] != '@' {
		return Default{}, pos, false
	}
	i++
	nameStart := i
	for i < len(src) && isIdentCont(src[i]) {
		i++
	}
	if i == nameStart {
		return Default{}, pos, false
	}
	name := src[nameStart:i]

	i = skipWS(src, i)
	if i >= len(src) || src[i] != '=' {
		return Default{}, pos, false
	}
	i++

	lit, newI, ok := parseDefaultLiteral(src, i)
	if !ok {
		return Default{}, pos, false
	}
	i = skipWS(src, newI)
	if i >= len(src) || src[i] != '}' {
		return Default{}, pos, false
	}
	i++

	end := i
	if end < len(src) && (src[end] == '\n' || src[end] == ' ') {
		end++
	}

	return Default{Name: name, Literal: lit, Offset: pos}, end, true
}

// parseDefaultLiteral parses the value half of a default declaration:
// a single-quoted string, or a bare run of non-whitespace/non-'}'
// characters (covers integer, real, and bare identifier literals —
// spec.md §3).
func parseDefaultLiteral(src string, pos int) (string, int, bool) {
	i := skipWS(src, pos)
	if i >= len(src) {
		return "", i, false
	}
	if src[i] == '\'' {
		end := skipStringLiteral(src, i)
		return src[i:end], end, true
	}
	j := i
	for j < len(src) && src[j] != '}' && !isSpace(src[j]) {
		j++
	}
	if j == i {
		return "", i, false
	}
	return src[i:j], j, true
}

// scanBalanced finds the index of the '}' matching the '{' at start,
// treating nested '{'/'}' as balanced and skipping over single-quoted
// string content (spec.md §4.1: "brace-balanced scanning that ignores
// braces appearing inside single-quoted strings"). Returns ok=false if no
// matching '}' exists before the end of src.
func scanBalanced(src string, start int) (int, bool) {
	depth := 0
	i := start
	for i < len(src) {
		switch src[i] {
		case '\'':
			i = skipStringLiteral(src, i)
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
		i++
	}
	return -1, false
}

// tryCond recognizes "{ expr } ? { then } : { else }" at pos. The returned
// bool reports whether a conditional was actually recognized; when false
// and err is nil, newPos points just past a balanced-but-non-conditional
// "{...}" span that should be treated as literal text.
func tryCond(src string, pos int) (Cond, int, bool, error) {
	closeIdx, ok := scanBalanced(src, pos)
	if !ok {
		return Cond{}, pos, false, unterminated(pos)
	}

	exprText := src[pos+1 : closeIdx]

	j := skipWS(src, closeIdx+1)
	if j >= len(src) || src[j] != '?' {
		return Cond{}, closeIdx + 1, false, nil
	}
	j = skipWS(src, j+1)
	if j >= len(src) || src[j] != '{' {
		return Cond{}, closeIdx + 1, false, nil
	}

	thenOpen := j
	thenClose, ok := scanBalanced(src, thenOpen)
	if !ok {
		return Cond{}, pos, false, unterminated(thenOpen)
	}
	thenNodes, err := Lex(src[thenOpen+1 : thenClose])
	if err != nil {
		return Cond{}, pos, false, err
	}

	k := thenClose + 1
	var elseNodes []Node

	k2 := skipWS(src, k)
	if k2 < len(src) && src[k2] == ':' {
		k3 := skipWS(src, k2+1)
		if k3 < len(src) && src[k3] == '{' {
			elseOpen := k3
			elseClose, ok := scanBalanced(src, elseOpen)
			if !ok {
				return Cond{}, pos, false, unterminated(elseOpen)
			}
			elseNodes, err = Lex(src[elseOpen+1 : elseClose])
			if err != nil {
				return Cond{}, pos, false, err
			}
			k = elseClose + 1
		}
	}

	return Cond{Expr: exprText, Then: thenNodes, Else: elseNodes, Offset: pos}, k, true, nil
}

func unterminated(offset int) error {
	return apperrors.Newf(apperrors.ErrCodeTemplateUnterminated,
		"unterminated conditional or brace starting at offset %d", offset).
		WithOffset(offset).
		WithOp("template.Lex").
		Err()
}
