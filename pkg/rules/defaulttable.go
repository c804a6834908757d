package rules

import (
	"bytes"
	_ "embed"

	"github.com/sqlxlate/sqlxlate/pkg/dialect"
)

//go:embed defaulttable.csv
var defaultTableCSV []byte

// DefaultRuleSet compiles and returns the bundled default pattern table
// (spec.md §9: "bundle the default table as a resource; allow replacement
// for testing"). It panics on malformed embedded data, which would be a
// build-time defect, not a runtime condition callers should handle.
func DefaultRuleSet() *RuleSet {
	rs, err := LoadReader(bytes.NewReader(defaultTableCSV), dialect.SQLServer)
	if err != nil {
		panic("rules: embedded default table failed to compile: " + err.Error())
	}
	return rs
}
