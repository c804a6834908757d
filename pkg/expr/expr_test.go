package expr

import (
	"testing"

	"github.com/sqlxlate/sqlxlate/pkg/value"
)

func resolverFrom(bindings map[string]value.Value) Resolver {
	return func(name string) (value.Value, bool) {
		v, ok := bindings[name]
		return v, ok
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		bindings map[string]value.Value
		want     bool
	}{
		{"bare true literal", "TRUE", nil, true},
		{"bare false literal", "FALSE", nil, false},
		{"numeric equality", "1 == 1", nil, true},
		{"numeric inequality", "1 != 2", nil, true},
		{"string equality", "'abc' == 'abc'", nil, true},
		{"numeric less than", "2 < 10", nil, true},
		{"numeric-looking strings coerce numerically", "'2' < '10'", nil, true},
		{"non-numeric strings compare lexically", "'b' < 'a'", nil, false},
		{"not", "!FALSE", nil, true},
		{"and short circuit false", "FALSE & (1 == 1)", nil, false},
		{"or", "FALSE | TRUE", nil, true},
		{"parens", "(1 == 1) & (2 == 2)", nil, true},
		{"param bound truthy", "@flag", map[string]value.Value{"flag": value.Bool(true)}, true},
		{"param unbound falls to empty string", "@missing", nil, false},
		{"param numeric compare", "@n > 5", map[string]value.Value{"n": value.Int(10)}, true},
		{"in list numeric", "@n IN (1,2,3)", map[string]value.Value{"n": value.Int(2)}, true},
		{"in list miss", "@n IN (1,2,3)", map[string]value.Value{"n": value.Int(9)}, false},
		{"in list strings", "@s IN ('a','b')", map[string]value.Value{"s": value.String("b")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr, resolverFrom(tt.bindings))
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateMalformed(t *testing.T) {
	_, err := Evaluate("1 ==", resolverFrom(nil))
	if err == nil {
		t.Fatal("expected error for malformed expression")
	}
}

func TestSubstitutePreservesQuotedAt(t *testing.T) {
	out := Substitute("'@literal' == @x", resolverFrom(map[string]value.Value{"x": value.String("@literal")}))
	want := "'@literal' == '@literal'"
	if out != want {
		t.Errorf("Substitute = %q, want %q", out, want)
	}
}
