// Package rules compiles and applies the pattern tables that drive
// dialect translation (spec.md §4.4): an ordered list of
// (pattern_search, pattern_replace) rows per target dialect, matched
// case-insensitively against whitespace-normalized SQL text and applied
// without ever touching content inside a single-quoted string literal.
//
// Wildcard captures in a pattern ("@@@", or named "@@@a", "@@@b", ...)
// compile to named regex capture groups rather than driving a parsed AST
// (spec.md's explicit non-goal (a)): this mirrors the teacher's own
// tsqlruntime.SQLNormalizer, which rewrites T-SQL with a fixed battery of
// regexp.MustCompile calls, generalized here into a data-driven compiler
// so the pattern table itself — not Go source — defines the rules.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/sqlxlate/sqlxlate/pkg/errors"
)

// Rule is one compiled (pattern_search -> pattern_replace) row.
type Rule struct {
	Search  string
	Replace string

	re          *regexp.Regexp
	replaceTmpl string // Go regexp Expand template, e.g. "foo ${a} bar"
}

// wildcardBody is the capture body for an unnamed or named "@@@" wildcard:
// a run of non-comma, non-paren text, optionally containing one level of
// nested parentheses. This approximates the "paren/comma-aware wildcard
// boundary" behavior described in spec.md §4.4 without true recursive
// matching, which Go's RE2-based regexp engine cannot express; patterns
// needing balance deeper than one level are out of scope for this
// regex-based engine (consistent with non-goal (a): no AST).
const wildcardBody = `(?:[^(),]|\([^()]*\))*`

// CompileRule compiles a pattern table row into a Rule. The same wildcard
// name may appear more than once in search; only its first occurrence
// captures, later occurrences match the same body without capturing (RE2
// has no backreferences, so equality across occurrences of one name is not
// enforced).
func CompileRule(search, replace string) (*Rule, error) {
	pattern, names, err := compileSearchPattern(search)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeRuleLoadBadPattern,
			"invalid pattern_search %q", search).WithOp("rules.CompileRule").Err()
	}

	tmpl, err := compileReplaceTemplate(replace, names)
	if err != nil {
		return nil, err
	}

	return &Rule{Search: search, Replace: replace, re: re, replaceTmpl: tmpl}, nil
}

// compileSearchPattern turns a pattern_search string into a regexp source
// and the ordered set of wildcard names it captured (first-occurrence
// only), case-insensitive and whitespace-run tolerant.
func compileSearchPattern(search string) (string, map[string]bool, error) {
	var buf strings.Builder
	buf.WriteString("(?i)")

	names := make(map[string]bool)
	anonCounter := 0

	var literal strings.Builder
	flushLiteral := func() {
		if literal.Len() == 0 {
			return
		}
		buf.WriteString(literalToPattern(literal.String()))
		literal.Reset()
	}

	i := 0
	for i < len(search) {
		if strings.HasPrefix(search[i:], "@@@") {
			flushLiteral()

			j := i + 3
			nameStart := j
			for j < len(search) && isWildcardNameChar(search[j]) {
				j++
			}
			name := search[nameStart:j]
			if name == "" {
				name = fmt.Sprintf("anon%d", anonCounter)
				anonCounter++
			}
			groupName := "w_" + sanitizeGroupName(name)

			if names[groupName] {
				buf.WriteString("(?:" + wildcardBody + ")")
			} else {
				names[groupName] = true
				buf.WriteString("(?P<" + groupName + ">" + wildcardBody + ")")
			}
			i = j
			continue
		}
		literal.WriteByte(search[i])
		i++
	}
	flushLiteral()

	return buf.String(), names, nil
}

func isWildcardNameChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func sanitizeGroupName(name string) string {
	var buf strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isWildcardNameChar(c) {
			buf.WriteByte(c)
		} else {
			buf.WriteByte('_')
		}
	}
	return buf.String()
}

// literalToPattern renders literal (non-wildcard) pattern_search text as a
// regex fragment: whitespace runs become \s+ (so rules match regardless of
// the exact spacing in the input SQL), everything else is quoted literal
// text.
func literalToPattern(s string) string {
	var buf strings.Builder
	i := 0
	for i < len(s) {
		if isPatternSpace(s[i]) {
			j := i
			for j < len(s) && isPatternSpace(s[j]) {
				j++
			}
			buf.WriteString(`\s+`)
			i = j
			continue
		}
		j := i
		for j < len(s) && !isPatternSpace(s[j]) {
			j++
		}
		buf.WriteString(regexp.QuoteMeta(s[i:j]))
		i = j
	}
	return buf.String()
}

func isPatternSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

// compileReplaceTemplate turns a pattern_replace string into a
// (*regexp.Regexp).Expand template: "@@@name" becomes "${w_name}", any
// other text passes through, with literal '$' doubled so Expand doesn't
// misinterpret it.
func compileReplaceTemplate(replace string, names map[string]bool) (string, error) {
	var buf strings.Builder
	i := 0
	for i < len(replace) {
		switch {
		case strings.HasPrefix(replace[i:], "@@@"):
			j := i + 3
			nameStart := j
			for j < len(replace) && isWildcardNameChar(replace[j]) {
				j++
			}
			name := replace[nameStart:j]
			groupName := "w_" + sanitizeGroupName(name)
			if name == "" {
				return "", apperrors.Newf(apperrors.ErrCodeRuleLoadBadPattern,
					"pattern_replace %q references an anonymous wildcard; anonymous wildcards can only be used in pattern_search", replace).
					WithOp("rules.CompileRule").Err()
			}
			if !names[groupName] {
				return "", apperrors.Newf(apperrors.ErrCodeRuleLoadBadPattern,
					"pattern_replace %q references @@@%s, which pattern_search never captures", replace, name).
					WithOp("rules.CompileRule").Err()
			}
			buf.WriteString("${" + groupName + "}")
			i = j

		case replace[i] == '$':
			buf.WriteString("$$")
			i++

		default:
			buf.WriteByte(replace[i])
			i++
		}
	}
	return buf.String(), nil
}
