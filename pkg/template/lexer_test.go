package template

import "testing"

func nodeKinds(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		switch n.(type) {
		case Text:
			out[i] = "text"
		case Param:
			out[i] = "param"
		case Default:
			out[i] = "default"
		case Cond:
			out[i] = "cond"
		default:
			out[i] = "unknown"
		}
	}
	return out
}

func TestLexPlainText(t *testing.T) {
	nodes, err := Lex("SELECT * FROM t")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if txt, ok := nodes[0].(Text); !ok || txt.Value != "SELECT * FROM t" {
		t.Errorf("unexpected node: %#v", nodes[0])
	}
}

func TestLexParam(t *testing.T) {
	nodes, err := Lex("SELECT * FROM @table WHERE x = 1")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"text", "param", "text"}
	got := nodeKinds(nodes)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("node %d = %s, want %s", i, got[i], want[i])
		}
	}
	if p := nodes[1].(Param); p.Name != "table" {
		t.Errorf("param name = %q, want table", p.Name)
	}
}

func TestLexParamIgnoredInsideStringLiteral(t *testing.T) {
	nodes, err := Lex("SELECT '@notaparam' AS x")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected single text node, got %d: %#v", len(nodes), nodes)
	}
}

func TestLexDefault(t *testing.T) {
	nodes, err := Lex("{DEFAULT @x = 'abc'}\nSELECT @x")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d: %#v", len(nodes), nodes)
	}
	def, ok := nodes[0].(Default)
	if !ok {
		t.Fatalf("node 0 = %#v, want Default", nodes[0])
	}
	if def.Name != "x" || def.Literal != "'abc'" {
		t.Errorf("default = %+v", def)
	}
}

func TestLexConditional(t *testing.T) {
	nodes, err := Lex("{@x == 1}?{yes}:{no}")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d: %#v", len(nodes), nodes)
	}
	cond, ok := nodes[0].(Cond)
	if !ok {
		t.Fatalf("node 0 = %#v, want Cond", nodes[0])
	}
	if cond.Expr != "@x == 1" {
		t.Errorf("cond expr = %q", cond.Expr)
	}
	if len(cond.Then) != 1 || cond.Then[0].(Text).Value != "yes" {
		t.Errorf("cond then = %#v", cond.Then)
	}
	if len(cond.Else) != 1 || cond.Else[0].(Text).Value != "no" {
		t.Errorf("cond else = %#v", cond.Else)
	}
}

func TestLexConditionalWithoutElse(t *testing.T) {
	nodes, err := Lex("{@x}?{yes}")
	if err != nil {
		t.Fatal(err)
	}
	cond := nodes[0].(Cond)
	if cond.Else != nil {
		t.Errorf("expected nil Else, got %#v", cond.Else)
	}
}

func TestLexBalancedNonConditionalIsLiteral(t *testing.T) {
	nodes, err := Lex("this {is just text}")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 text node, got %#v", nodes)
	}
	if nodes[0].(Text).Value != "this {is just text}" {
		t.Errorf("unexpected text: %q", nodes[0].(Text).Value)
	}
}

func TestLexUnterminatedBraceIsError(t *testing.T) {
	_, err := Lex("select {1 from t")
	if err == nil {
		t.Fatal("expected error for unterminated brace")
	}
}
