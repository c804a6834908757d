package rules

// ProtectedMask marks every byte offset of sql that falls inside a
// single-quoted string literal. Exported so pkg/tempemul and pkg/hints can
// share the same quote-aware scanning instead of re-implementing it.
func ProtectedMask(sql string) []bool {
	return protectedMask(sql)
}

// protectedMask marks every byte offset of sql that falls inside a
// single-quoted string literal (including the quotes themselves), so the
// rule engine can refuse to rewrite text inside string content (spec.md
// §4.4's "rules never rewrite inside a string literal" invariant).
//
// Grounded on the same '' escape handling as pkg/template's lexer, applied
// here as a standalone pre-pass rather than an inline scan, since the rule
// engine consults it repeatedly across many rules on the same input.
func protectedMask(sql string) []bool {
	mask := make([]bool, len(sql))
	i := 0
	for i < len(sql) {
		if sql[i] != '\'' {
			i++
			continue
		}
		start := i
		i++
		for i < len(sql) {
			if sql[i] == '\'' {
				if i+1 < len(sql) && sql[i+1] == '\'' {
					i += 2
					continue
				}
				i++
				break
			}
			i++
		}
		for j := start; j < i && j < len(mask); j++ {
			mask[j] = true
		}
	}
	return mask
}

// AnyProtected reports whether any byte in [start, end) of a mask produced
// by ProtectedMask is marked protected.
func AnyProtected(mask []bool, start, end int) bool {
	return anyProtected(mask, start, end)
}

// anyProtected reports whether any byte in [start, end) is marked
// protected.
func anyProtected(mask []bool, start, end int) bool {
	if end > len(mask) {
		end = len(mask)
	}
	for i := start; i < end; i++ {
		if mask[i] {
			return true
		}
	}
	return false
}
