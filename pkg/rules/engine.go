package rules

import "strings"

// Apply rewrites sql by running each rule in order, once each, skipping any
// match that overlaps a protected (single-quoted string literal) span.
//
// This is an explicit cursor loop rather than (*regexp.Regexp).ReplaceAll,
// specifically so each candidate match can be checked against the
// string-protection mask before being rewritten (spec.md §4.4: "rules
// never rewrite inside a string literal"). Within one rule, matching
// resumes immediately after a replacement's *output* text — the
// replacement is not rescanned by the same rule — giving each rule a
// single pass with implicit per-match fixpoint but no cross-rule looping.
func Apply(sql string, ruleList []*Rule) string {
	mask := protectedMask(sql)
	for _, r := range ruleList {
		sql = applyRule(sql, r, mask)
		mask = protectedMask(sql)
	}
	return sql
}

func applyRule(sql string, r *Rule, mask []bool) string {
	var buf strings.Builder
	pos := 0
	for pos <= len(sql) {
		loc := r.re.FindStringSubmatchIndex(sql[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		if anyProtected(mask, start, end) {
			// Overlaps a string literal: leave it untouched and keep
			// scanning just past the match's start so we don't loop
			// forever on the same protected span.
			buf.WriteString(sql[pos : start+1])
			pos = start + 1
			continue
		}

		buf.WriteString(sql[pos:start])

		adjusted := make([]int, len(loc))
		for i, v := range loc {
			if v < 0 {
				adjusted[i] = -1
			} else {
				adjusted[i] = v + pos
			}
		}
		buf.Write(r.re.ExpandString(nil, r.replaceTmpl, sql, adjusted))

		pos = end
		if end == start {
			// Zero-width match: force forward progress.
			if pos < len(sql) {
				buf.WriteByte(sql[pos])
			}
			pos++
		}
	}
	buf.WriteString(sql[pos:])
	return buf.String()
}
