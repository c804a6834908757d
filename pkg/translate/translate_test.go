package translate

import (
	"strings"
	"testing"

	"github.com/sqlxlate/sqlxlate/pkg/dialect"
	"github.com/sqlxlate/sqlxlate/pkg/rules"
)

func TestTranslateIdentityForCanonicalDialect(t *testing.T) {
	sql := "SELECT * FROM #children WHERE x = ISNULL(a, b)"
	got, err := Translate(sql, dialect.SQLServer, rules.DefaultRuleSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != sql {
		t.Errorf("expected identity translation, got %q", got)
	}
}

func TestTranslateAppliesRulesThenTempEmulation(t *testing.T) {
	sql := "SELECT * FROM #children WHERE x = ISNULL(a, b)"
	got, err := Translate(sql, dialect.Oracle, rules.DefaultRuleSet(), WithTempEmulationSchema("temp_schema"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "#") {
		t.Errorf("expected # rewritten, got %q", got)
	}
	if strings.Contains(strings.ToUpper(got), "ISNULL") {
		t.Errorf("expected ISNULL rewritten, got %q", got)
	}
	if !strings.Contains(got, "temp_schema.children_") {
		t.Errorf("expected schema-qualified emulated name, got %q", got)
	}
}

func TestTranslateExpandsHintsAfterRules(t *testing.T) {
	sql := "--HINT DISTRIBUTE_ON_KEY(person_id)\nSELECT * INTO one_table FROM other_table;"
	got, err := Translate(sql, dialect.PDW, rules.DefaultRuleSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "DISTRIBUTION = HASH(person_id)") {
		t.Errorf("expected distribution clause, got %q", got)
	}
}

func TestTranslateIdentifierTooLongPropagatesError(t *testing.T) {
	longName := strings.Repeat("x", 23)
	_, err := Translate("SELECT * FROM #"+longName, dialect.Oracle, rules.DefaultRuleSet())
	if err == nil {
		t.Fatal("expected error for over-long Oracle temp table name")
	}
}
