package render

import (
	"testing"

	"github.com/sqlxlate/sqlxlate/pkg/value"
)

func TestRenderPlainText(t *testing.T) {
	out, err := Render("SELECT * FROM t", nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "SELECT * FROM t" {
		t.Errorf("got %q", out)
	}
}

func TestRenderParamSubstitution(t *testing.T) {
	out, err := Render("SELECT * FROM @table", map[string]value.Value{
		"table": value.String("person"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if out != "SELECT * FROM person" {
		t.Errorf("got %q", out)
	}
}

func TestRenderParamSequence(t *testing.T) {
	out, err := Render("SELECT * FROM t WHERE id IN (@ids)", map[string]value.Value{
		"ids": value.Sequence(value.Int(1), value.Int(2), value.Int(3)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if out != "SELECT * FROM t WHERE id IN (1,2,3)" {
		t.Errorf("got %q", out)
	}
}

func TestRenderDefaultUsedWhenUnbound(t *testing.T) {
	out, err := Render("{DEFAULT @x = 'abc'}\nSELECT @x", nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "SELECT abc" {
		t.Errorf("got %q", out)
	}
}

func TestRenderBindingOverridesDefault(t *testing.T) {
	out, err := Render("{DEFAULT @x = 'abc'}\nSELECT @x", map[string]value.Value{
		"x": value.String("def"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if out != "SELECT def" {
		t.Errorf("got %q", out)
	}
}

func TestRenderConditional(t *testing.T) {
	tpl := "SELECT * FROM t{@usePK}?{ WHERE pk = 1}:{}"
	out, err := Render(tpl, map[string]value.Value{"usePK": value.Bool(true)})
	if err != nil {
		t.Fatal(err)
	}
	if out != "SELECT * FROM t WHERE pk = 1" {
		t.Errorf("got %q", out)
	}

	out, err = Render(tpl, map[string]value.Value{"usePK": value.Bool(false)})
	if err != nil {
		t.Fatal(err)
	}
	if out != "SELECT * FROM t" {
		t.Errorf("got %q", out)
	}
}

func TestRenderNestedDefaultInsideConditional(t *testing.T) {
	tpl := "{@flag}?{{DEFAULT @x = 'inner'}\n@x}:{none}"
	out, err := Render(tpl, map[string]value.Value{"flag": value.Bool(true)})
	if err != nil {
		t.Fatal(err)
	}
	if out != "inner" {
		t.Errorf("got %q", out)
	}
}

func TestRenderUnboundParamIsEmptyString(t *testing.T) {
	out, err := Render("x=[@missing]", nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "x=[]" {
		t.Errorf("got %q", out)
	}
}

func TestRenderIdempotentOnPlainSQL(t *testing.T) {
	sql := "SELECT id, name FROM person WHERE active = 1"
	out1, err := Render(sql, nil)
	if err != nil {
		t.Fatal(err)
	}
	out2, err := Render(out1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out1 != out2 || out1 != sql {
		t.Errorf("render not idempotent: %q vs %q", out1, out2)
	}
}
