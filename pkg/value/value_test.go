package value

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"int", Int(42), "42"},
		{"real", RealFromFloat(3.5), "3.5"},
		{"bool true", Bool(true), "TRUE"},
		{"bool false", Bool(false), "FALSE"},
		{"string", String("my_table"), "my_table"},
		{"sequence mixed", Sequence(Int(1), String("a")), "1,'a'"},
		{"sequence quotes escaped", Sequence(String("a'b")), "'a''b'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.v); got != tt.want {
				t.Errorf("Stringify(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"int zero", Int(0), false},
		{"int nonzero", Int(1), true},
		{"bool false", Bool(false), false},
		{"bool true", Bool(true), true},
		{"string empty", String(""), false},
		{"string FALSE", String("FALSE"), false},
		{"string 0", String("0"), false},
		{"string other", String("anything"), true},
		{"sequence empty", Sequence(), false},
		{"sequence non-empty", Sequence(Int(1)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.v); got != tt.want {
				t.Errorf("Truthy(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestFromLiteral(t *testing.T) {
	if v := FromLiteral("TRUE"); v.Kind() != KindBool || !v.AsBool() {
		t.Errorf("FromLiteral(TRUE) = %v", v)
	}
	if v := FromLiteral("'it''s'"); v.Kind() != KindString || v.AsString() != "it's" {
		t.Errorf("FromLiteral('it''s') = %v", v)
	}
	if v := FromLiteral("42"); v.Kind() != KindInt || v.AsInt() != 42 {
		t.Errorf("FromLiteral(42) = %v", v)
	}
	if v := FromLiteral("3.14"); v.Kind() != KindReal || !v.AsReal().Equal(decimal.NewFromFloat(3.14)) {
		t.Errorf("FromLiteral(3.14) = %v", v)
	}
	if v := FromLiteral("bare"); v.Kind() != KindString || v.AsString() != "bare" {
		t.Errorf("FromLiteral(bare) = %v", v)
	}
}

func TestGoValue(t *testing.T) {
	if v := GoValue([]int{1, 2, 3}); v.Kind() != KindSequence || len(v.AsSequence()) != 3 {
		t.Errorf("GoValue([]int) = %v", v)
	}
	if v := GoValue("hi"); v.Kind() != KindString || v.AsString() != "hi" {
		t.Errorf("GoValue(string) = %v", v)
	}
}
