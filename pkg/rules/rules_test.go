package rules

import (
	"strings"
	"testing"

	"github.com/sqlxlate/sqlxlate/pkg/dialect"
)

func compileOrFatal(t *testing.T, search, replace string) *Rule {
	t.Helper()
	r, err := CompileRule(search, replace)
	if err != nil {
		t.Fatalf("CompileRule(%q, %q) error: %v", search, replace, err)
	}
	return r
}

func TestApplySingleArgWildcard(t *testing.T) {
	r := compileOrFatal(t, "LEN(@@@a)", "LENGTH(@@@a)")
	got := Apply("SELECT LEN(name) FROM t", []*Rule{r})
	want := "SELECT LENGTH(name) FROM t"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplyMultiArgWildcard(t *testing.T) {
	r := compileOrFatal(t, "ISNULL(@@@a,@@@b)", "COALESCE(@@@a,@@@b)")
	got := Apply("SELECT ISNULL(x, 0) FROM t", []*Rule{r})
	want := "SELECT COALESCE(x, 0) FROM t"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplyCaseInsensitive(t *testing.T) {
	r := compileOrFatal(t, "GETDATE()", "NOW()")
	got := Apply("SELECT getdate()", []*Rule{r})
	want := "SELECT NOW()"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplyWhitespaceRunMatchesAnyWhitespace(t *testing.T) {
	r := compileOrFatal(t, "SELECT TOP @@@n", "SELECT @@@n")
	got := Apply("SELECT   TOP  10 * FROM t", []*Rule{r})
	want := "SELECT 10 * FROM t"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplyDoesNotRewriteInsideStringLiteral(t *testing.T) {
	r := compileOrFatal(t, "GETDATE()", "NOW()")
	sql := "SELECT 'call GETDATE() here' AS note"
	got := Apply(sql, []*Rule{r})
	if got != sql {
		t.Errorf("expected string literal untouched, got %q", got)
	}
}

func TestApplyAdvancesPastReplacementNoInfiniteLoop(t *testing.T) {
	// Replacement re-introduces the search pattern's literal text; a naive
	// re-scan-from-zero loop would recurse forever.
	r := compileOrFatal(t, "FOO", "FOO_FOO")
	got := Apply("FOO bar", []*Rule{r})
	if got != "FOO_FOO bar" {
		t.Errorf("got %q", got)
	}
}

func TestDefaultRuleSetIdentityForSQLServer(t *testing.T) {
	rs := DefaultRuleSet()
	if rules := rs.RulesFor(dialect.SQLServer); len(rules) != 0 {
		t.Errorf("expected no rules for canonical dialect, got %d", len(rules))
	}
}

func TestDefaultRuleSetDateDiffOracle(t *testing.T) {
	rs := DefaultRuleSet()
	got := Apply("SELECT DATEDIFF(dd,a,b) FROM table", rs.RulesFor(dialect.Oracle))
	if strings.Contains(strings.ToUpper(got), "DATEDIFF") {
		t.Errorf("expected DATEDIFF to be rewritten, got %q", got)
	}
	if !strings.Contains(got, "b - a") {
		t.Errorf("expected date-subtraction form, got %q", got)
	}
}

func TestLoadReaderUnknownTargetIgnored(t *testing.T) {
	csv := "source_dialect,target_dialect,pattern_search,pattern_replace\n" +
		"sql server,nonsense-dialect,FOO,BAR\n"
	rs, err := LoadReader(strings.NewReader(csv), dialect.SQLServer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total := 0
	for _, d := range dialect.All() {
		total += len(rs.RulesFor(d))
	}
	if total != 0 {
		t.Errorf("expected unknown target to be ignored, got %d rules", total)
	}
}

func TestLoadReaderUnknownSourceIsError(t *testing.T) {
	csv := "source_dialect,target_dialect,pattern_search,pattern_replace\n" +
		"nonsense-dialect,oracle,FOO,BAR\n"
	_, err := LoadReader(strings.NewReader(csv), dialect.SQLServer)
	if err == nil {
		t.Fatal("expected error for unknown source_dialect")
	}
}

func TestCompileRuleRejectsUnboundReplaceWildcard(t *testing.T) {
	_, err := CompileRule("FOO(@@@a)", "BAR(@@@b)")
	if err == nil {
		t.Fatal("expected error for replace referencing an uncaptured wildcard")
	}
}
