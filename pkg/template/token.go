// Package template implements the single-pass scanner for the templating
// mini-language embedded in SQL text (spec.md §4.1): literal text, string
// literals, @parameter references, {DEFAULT ...} declarations, and
// { expr } ? { then } : { else } conditional blocks.
//
// Grounded on the teacher's line/offset-tracking directive scanner in
// pkg/annotations/annotations.go (Parser.Extract) and its "contiguous run,
// blank line breaks it" scanning style, adapted here to brace-balanced,
// quote-aware scanning of a single input string rather than line-oriented
// SQL comments.
package template

// Node is one element of a parsed template: literal text, a parameter
// reference, a (collected, then removed) default declaration, or a
// conditional block.
type Node interface {
	isNode()
}

// Text is literal SQL content, emitted verbatim.
type Text struct {
	Value string
}

func (Text) isNode() {}

// Param is a @name parameter reference.
type Param struct {
	Name   string
	Offset int // offset of the '@' in the source, for diagnostics
}

func (Param) isNode() {}

// Default is a {DEFAULT @name = literal} declaration. Defaults are
// collected by the renderer and removed from the emitted output
// (spec.md §3, §4.3).
type Default struct {
	Name    string
	Literal string // raw literal text, as written (quotes kept for strings)
	Offset  int
}

func (Default) isNode() {}

// Cond is a { expr } ? { then } : { else } conditional block. Else is nil
// when the template omitted the ": { else-body }" clause.
type Cond struct {
	Expr   string
	Then   []Node
	Else   []Node // nil if absent
	Offset int
}

func (Cond) isNode() {}
