// Package hints recognizes "--HINT ..." directive comments and expands
// them into MPP-specific distribution/sort clauses on the statement they
// precede (spec.md §4.6).
//
// Adapted from the teacher's pkg/annotations (a "-- @aul:key=value"
// contiguous-comment-block parser associating directives with the
// statement they precede): the same contiguous-block/blank-line-breaks
// scanning style is kept, generalized from a generic key/value annotation
// set to the two specific hint kinds this spec defines, and from
// "annotate the statement" to "rewrite the statement's text".
package hints

import (
	"strings"

	"github.com/sqlxlate/sqlxlate/pkg/dialect"
	"github.com/sqlxlate/sqlxlate/pkg/rules"
)

// Prefix identifies a hint comment line.
const Prefix = "--HINT "

// Kind identifies which hint directive a line carries.
type Kind int

const (
	KindUnknown Kind = iota
	KindDistributeOnKey
	KindSortOnKey
)

// Hint is one parsed "--HINT ..." line.
type Hint struct {
	Kind Kind
	Arg  string // column name, or "INTERLEAVED:column" for SORT_ON_KEY
}

// Expand rewrites every CREATE TABLE / SELECT ... INTO statement preceded
// by one or more contiguous "--HINT ..." lines, adding the target
// dialect's distribution/sort clause (spec.md §4.6). Dialects that don't
// support distribution hints (dialect.SupportsDistributionHint() == false)
// are returned unchanged; the hint comment lines are always preserved
// verbatim.
func Expand(sql string, target dialect.Dialect) string {
	if !target.SupportsDistributionHint() {
		return sql
	}

	mask := rules.ProtectedMask(sql)

	var out strings.Builder
	var pending []Hint
	pos := 0

	for pos < len(sql) {
		lineEnd := strings.IndexByte(sql[pos:], '\n')
		var line string
		var lineEndsAt int // exclusive of the newline, if any
		if lineEnd < 0 {
			line = sql[pos:]
			lineEndsAt = len(sql)
		} else {
			line = sql[pos : pos+lineEnd]
			lineEndsAt = pos + lineEnd
		}

		trimmed := strings.TrimSpace(line)

		if h, ok := parseHintLine(trimmed); ok {
			pending = append(pending, h)
			out.WriteString(sql[pos:lineEndsAt])
			if lineEnd >= 0 {
				out.WriteByte('\n')
			}
			pos = lineEndsAt
			if lineEnd >= 0 {
				pos++
			}
			continue
		}

		if trimmed == "" {
			pending = nil
			out.WriteString(sql[pos:lineEndsAt])
			if lineEnd >= 0 {
				out.WriteByte('\n')
			}
			pos = lineEndsAt
			if lineEnd >= 0 {
				pos++
			}
			continue
		}

		if len(pending) > 0 && isHintableStatement(trimmed) {
			// The statement may span multiple lines before its
			// terminating ';' (or run off the end of sql with none at
			// all), so stmtEnd can fall well past lineEndsAt. Write
			// everything up to stmtEnd, splice in the clause, and resume
			// the line scan from there instead of from lineEndsAt.
			stmtEnd := findStatementEnd(sql, pos, mask)
			out.WriteString(sql[pos:stmtEnd])
			out.WriteString(buildClauses(pending, target))
			pending = nil
			pos = stmtEnd
			continue
		}

		pending = nil
		out.WriteString(sql[pos:lineEndsAt])
		if lineEnd >= 0 {
			out.WriteByte('\n')
		}
		pos = lineEndsAt
		if lineEnd >= 0 {
			pos++
		}
	}

	return out.String()
}

func parseHintLine(trimmed string) (Hint, bool) {
	if !strings.HasPrefix(trimmed, Prefix) {
		return Hint{}, false
	}
	directive := strings.TrimSpace(strings.TrimPrefix(trimmed, Prefix))

	switch {
	case strings.HasPrefix(directive, "DISTRIBUTE_ON_KEY(") && strings.HasSuffix(directive, ")"):
		arg := directive[len("DISTRIBUTE_ON_KEY(") : len(directive)-1]
		return Hint{Kind: KindDistributeOnKey, Arg: strings.TrimSpace(arg)}, true
	case strings.HasPrefix(directive, "SORT_ON_KEY(") && strings.HasSuffix(directive, ")"):
		arg := directive[len("SORT_ON_KEY(") : len(directive)-1]
		return Hint{Kind: KindSortOnKey, Arg: strings.TrimSpace(arg)}, true
	default:
		return Hint{}, false
	}
}

func isHintableStatement(trimmed string) bool {
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "CREATE TABLE") {
		return true
	}
	if strings.HasPrefix(upper, "SELECT") && strings.Contains(upper, " INTO ") {
		return true
	}
	return false
}

// findStatementEnd returns the offset of the statement's terminating ';'
// (not inside a protected string literal) starting the scan at pos, or the
// end of sql if none is found.
func findStatementEnd(sql string, pos int, mask []bool) int {
	for i := pos; i < len(sql); i++ {
		if sql[i] == ';' && !rules.AnyProtected(mask, i, i+1) {
			return i
		}
	}
	return len(sql)
}

func buildClauses(hints []Hint, target dialect.Dialect) string {
	var parts []string
	for _, h := range hints {
		switch h.Kind {
		case KindDistributeOnKey:
			parts = append(parts, distributeClause(h.Arg, target))
		case KindSortOnKey:
			if clause := sortClause(h.Arg, target); clause != "" {
				parts = append(parts, clause)
			}
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func distributeClause(column string, target dialect.Dialect) string {
	switch target {
	case dialect.Redshift:
		return "DISTSTYLE KEY DISTKEY(" + column + ")"
	default: // PDW, Synapse
		return "WITH (DISTRIBUTION = HASH(" + column + "))"
	}
}

// sortClause returns the Redshift SORTKEY clause for arg, which is either
// "column" or "INTERLEAVED:column". Other distribution-hint dialects have
// no sort-key concept, so this returns "" for them.
func sortClause(arg string, target dialect.Dialect) string {
	if target != dialect.Redshift {
		return ""
	}
	if rest, ok := strings.CutPrefix(arg, "INTERLEAVED:"); ok {
		return "INTERLEAVED SORTKEY(" + rest + ")"
	}
	return "SORTKEY(" + arg + ")"
}
