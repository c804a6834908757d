// Package translate orchestrates dialect translation end to end
// (spec.md §4.7): pattern-table rule application, temp-table emulation,
// and MPP hint expansion, run in a fixed order against one input string.
//
// The stages form a pipeline — INIT, pattern-rule application, temp-table
// emulation, hint expansion, DONE — each stage computing its own
// string-protection mask (pkg/rules.ProtectedMask) rather than sharing one
// across stages, since rule application can change the string's length and
// quoting positions between stages.
package translate

import (
	"github.com/sqlxlate/sqlxlate/pkg/dialect"
	"github.com/sqlxlate/sqlxlate/pkg/hints"
	"github.com/sqlxlate/sqlxlate/pkg/rules"
	"github.com/sqlxlate/sqlxlate/pkg/tempemul"
)

// Options configures a Translate call.
type Options struct {
	TempEmulationSchema string
}

// Option configures Options.
type Option func(*Options)

// WithTempEmulationSchema sets the schema used to qualify emulated
// temp-table names. The empty schema (the default) emits bare
// name_<salt> identifiers with no schema qualification.
func WithTempEmulationSchema(schema string) Option {
	return func(o *Options) { o.TempEmulationSchema = schema }
}

// Translate rewrites sql from the canonical "sql server" dialect into
// target, applying ruleSet's rules for target, then temp-table emulation,
// then MPP hint expansion.
//
// For target == dialect.SQLServer, sql is returned unchanged, even when
// ruleSet holds rows targeting "sql server", which satisfies the "identity
// under canonical dialect" invariant.
func Translate(sql string, target dialect.Dialect, ruleSet *rules.RuleSet, opts ...Option) (string, error) {
	if target == dialect.SQLServer {
		return sql, nil
	}

	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	result := rules.Apply(sql, ruleSet.RulesFor(target))

	result, err := tempemul.New(o.TempEmulationSchema).Rewrite(result, target)
	if err != nil {
		return "", err
	}

	result = hints.Expand(result, target)

	return result, nil
}
