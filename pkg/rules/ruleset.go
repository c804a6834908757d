package rules

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/sqlxlate/sqlxlate/pkg/errors"
	"github.com/sqlxlate/sqlxlate/pkg/dialect"
)

// RuleSet is an immutable, compiled pattern table: an ordered rule list per
// target dialect (spec.md §4.4). A *RuleSet is safe for concurrent read
// access from any number of goroutines; callers obtain new versions via
// Load/LoadReader and swap them in (see Watcher for hot reload).
type RuleSet struct {
	byTarget map[dialect.Dialect][]*Rule
}

// RulesFor returns the ordered rule list compiled for target, or nil if the
// table has no rows for that dialect (translation is then a no-op for that
// stage, per spec.md §4.7).
func (rs *RuleSet) RulesFor(target dialect.Dialect) []*Rule {
	if rs == nil {
		return nil
	}
	return rs.byTarget[target]
}

// csv columns, in order.
const (
	colSourceDialect = iota
	colTargetDialect
	colPatternSearch
	colPatternReplace
	numColumns
)

// LoadReader parses a pattern table in the
// source_dialect,target_dialect,pattern_search,pattern_replace CSV format
// (spec.md §4.4, §6). A header row is required and is skipped by name
// match; row order is preserved per target dialect, since rule order is
// significant. An unknown target_dialect is silently ignored (forward
// compatible with newer tables); an unknown source_dialect is a load
// error, since every row is meant to apply against this engine's one
// canonical source dialect.
func LoadReader(r io.Reader, source dialect.Dialect) (*RuleSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numColumns
	cr.TrimLeadingSpace = false

	rs := &RuleSet{byTarget: make(map[dialect.Dialect][]*Rule)}

	first := true
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeRuleLoadParse,
				"parsing pattern table at row %d", row).WithOp("rules.LoadReader").Err()
		}
		row++
		if first {
			first = false
			if !looksLikeHeader(rec) {
				return nil, apperrors.New(apperrors.ErrCodeRuleLoadParse,
					"pattern table is missing its source_dialect,target_dialect,... header row").
					WithOp("rules.LoadReader").Err()
			}
			continue
		}

		srcName := strings.TrimSpace(rec[colSourceDialect])
		srcDialect, ok := dialect.Parse(srcName)
		if !ok {
			return nil, apperrors.Newf(apperrors.ErrCodeRuleLoadBadDialect,
				"row %d: unknown source_dialect %q", row, srcName).
				WithOp("rules.LoadReader").Err()
		}
		if srcDialect != source {
			continue
		}

		tgtName := strings.TrimSpace(rec[colTargetDialect])
		tgt, ok := dialect.Parse(tgtName)
		if !ok {
			// Unknown target: forward-compatible no-op, not an error.
			continue
		}

		rule, err := CompileRule(rec[colPatternSearch], rec[colPatternReplace])
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeRuleLoadBadPattern,
				"row %d", row).WithOp("rules.LoadReader").Err()
		}
		rs.byTarget[tgt] = append(rs.byTarget[tgt], rule)
	}

	return rs, nil
}

func looksLikeHeader(rec []string) bool {
	if len(rec) != numColumns {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(rec[colSourceDialect]), "source_dialect") &&
		strings.EqualFold(strings.TrimSpace(rec[colTargetDialect]), "target_dialect")
}

// Merge combines rule sets, with later sets' rules appended after earlier
// ones for each target dialect. LoadRuleSet and WatchRuleSet do not call
// it: they replace the process-wide rule set rather than layering onto it.
func Merge(sets ...*RuleSet) *RuleSet {
	out := &RuleSet{byTarget: make(map[dialect.Dialect][]*Rule)}
	for _, rs := range sets {
		if rs == nil {
			continue
		}
		for d, rules := range rs.byTarget {
			out.byTarget[d] = append(out.byTarget[d], rules...)
		}
	}
	return out
}

func (rs *RuleSet) String() string {
	total := 0
	for _, rules := range rs.byTarget {
		total += len(rules)
	}
	return fmt.Sprintf("RuleSet{%d rules across %d targets}", total, len(rs.byTarget))
}
