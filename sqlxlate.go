// Package sqlxlate renders SQL-Server-flavored SQL templates and
// translates the canonical SQL into other dialects via a data-driven
// pattern table (spec.md §1-§2).
//
// The package-level functions operate against a process-wide rule set
// (the bundled default, or whatever was last loaded via LoadRuleSet/
// WatchRuleSet) held in an atomic.Pointer so concurrent renders/
// translations never observe a torn update (spec.md §5). Callers needing
// independent rule sets — e.g. tests running different tables in
// parallel — should use pkg/rules, pkg/render, and pkg/translate
// directly instead of this facade.
package sqlxlate

import (
	"sync/atomic"

	"github.com/sqlxlate/sqlxlate/pkg/dialect"
	"github.com/sqlxlate/sqlxlate/pkg/log"
	"github.com/sqlxlate/sqlxlate/pkg/render"
	"github.com/sqlxlate/sqlxlate/pkg/rules"
	"github.com/sqlxlate/sqlxlate/pkg/translate"
	"github.com/sqlxlate/sqlxlate/pkg/value"
)

var currentRuleSet atomic.Pointer[rules.RuleSet]

var tempSchema atomic.Pointer[string]

func init() {
	currentRuleSet.Store(rules.DefaultRuleSet())
}

// TranslateOption configures a Translate/RenderTranslate call.
type TranslateOption = translate.Option

// WithTempEmulationSchema is TranslateOption form of SetTempEmulationSchema,
// scoped to a single call rather than the whole process.
func WithTempEmulationSchema(schema string) TranslateOption {
	return translate.WithTempEmulationSchema(schema)
}

// Render parses template and renders it against bindings (spec.md §4.1-§4.3).
func Render(template string, bindings map[string]value.Value) (string, error) {
	return render.Render(template, bindings)
}

// Translate rewrites sql from the canonical dialect into target using the
// process-wide rule set (spec.md §4.4-§4.7). If opts doesn't specify a
// temp-emulation schema, the schema set by SetTempEmulationSchema (if any)
// applies.
func Translate(sql string, target dialect.Dialect, opts ...TranslateOption) (string, error) {
	if len(opts) == 0 {
		if s := tempSchema.Load(); s != nil {
			opts = []TranslateOption{translate.WithTempEmulationSchema(*s)}
		}
	}
	return translate.Translate(sql, target, currentRuleSet.Load(), opts...)
}

// RenderTranslate renders template against bindings, then translates the
// result into target — the common end-to-end entry point.
func RenderTranslate(template string, target dialect.Dialect, bindings map[string]value.Value, opts ...TranslateOption) (string, error) {
	rendered, err := Render(template, bindings)
	if err != nil {
		return "", err
	}
	return Translate(rendered, target, opts...)
}

// SetTempEmulationSchema sets the process-wide default temp-emulation
// schema used by Translate/RenderTranslate calls that don't pass
// WithTempEmulationSchema explicitly.
func SetTempEmulationSchema(schema string) {
	tempSchema.Store(&schema)
}

// LoadRuleSet replaces the process-wide rule set with the pattern table at
// path, compiled against the canonical "sql server" source dialect.
func LoadRuleSet(path string) error {
	rs, err := rules.Load(path, dialect.SQLServer)
	if err != nil {
		return err
	}
	currentRuleSet.Store(rs)
	return nil
}

// WatchRuleSet loads the pattern table at path and then watches it for
// changes, hot-swapping the process-wide rule set on every edit. The
// returned stop function stops watching; it does not revert the rule set.
func WatchRuleSet(path string, logger *log.Logger) (stop func(), err error) {
	rs, err := rules.Load(path, dialect.SQLServer)
	if err != nil {
		return nil, err
	}
	currentRuleSet.Store(rs)

	w, err := rules.NewWatcher(path, dialect.SQLServer, &currentRuleSet, logger)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return func() { _ = w.Stop() }, nil
}
