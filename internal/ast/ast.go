// Package ast defines the typed abstract tree produced by the parser:
// declarations, types, expressions, and patterns, each carrying a source
// span so later phases can map any node back to a contiguous source range.
package ast

import "fmt"

// Pos is a single point in a source file.
type Pos struct {
	Line   int
	Column int
	Offset int // byte offset
	File   string
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open [Start,End) range. Spans strictly nest: a child
// node's span is always contained within its parent's.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.Start, s.End.Line, s.End.Column)
}

// Node is the base interface implemented by every AST node.
type Node interface {
	Span() Span
}

// Program is an ordered list of top-level declarations. The parser never
// reorders declarations; ordering is validated later by the canonical-form
// validator (internal/canon).
type Program struct {
	Decls    []Decl
	SpanVal  Span
	FilePath string
}

func (p *Program) Span() Span { return p.SpanVal }

// DeclCategory classifies a declaration for canonical-form ordering.
type DeclCategory int

const (
	CategoryType DeclCategory = iota
	CategoryExtern
	CategoryImport
	CategoryConst
	CategoryFunction
	CategoryTest
)

func (c DeclCategory) String() string {
	switch c {
	case CategoryType:
		return "type"
	case CategoryExtern:
		return "extern"
	case CategoryImport:
		return "import"
	case CategoryConst:
		return "const"
	case CategoryFunction:
		return "function"
	case CategoryTest:
		return "test"
	default:
		return "unknown"
	}
}

// Decl is any top-level declaration.
type Decl interface {
	Node
	Category() DeclCategory
	declNode()
}

// TypeDecl declares a sum type, product type, or type alias.
type TypeDecl struct {
	Name       string // upper-initial
	Exported   bool
	TypeParams []string
	Def        TypeDef
	SpanVal    Span
}

func (d *TypeDecl) Span() Span            { return d.SpanVal }
func (d *TypeDecl) Category() DeclCategory { return CategoryType }
func (d *TypeDecl) declNode()             {}

// ImportDecl resolves a canonical `src/...` or `stdlib/...` module path.
type ImportDecl struct {
	Segments []string // e.g. ["src", "foo", "bar"]
	SpanVal  Span
}

func (d *ImportDecl) Span() Span            { return d.SpanVal }
func (d *ImportDecl) Category() DeclCategory { return CategoryImport }
func (d *ImportDecl) declNode()             {}

// Path joins the segments with the canonical "/" separator.
func (d *ImportDecl) Path() string {
	out := ""
	for i, s := range d.Segments {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}

// ExternMember is one named, typed member of an extern declaration.
type ExternMember struct {
	Name string
	Type Type
}

// ExternDecl declares a foreign namespace whose members the compiler does
// not validate beyond with_mock arity at emission time (§6.3).
type ExternDecl struct {
	Segments []string
	Members  []ExternMember // alphabetised, unique
	SpanVal  Span
}

func (d *ExternDecl) Span() Span            { return d.SpanVal }
func (d *ExternDecl) Category() DeclCategory { return CategoryExtern }
func (d *ExternDecl) declNode()             {}

func (d *ExternDecl) Path() string {
	out := ""
	for i, s := range d.Segments {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}

// ConstDecl binds a lower-initial name to an always-annotated value.
type ConstDecl struct {
	Name     string
	Exported bool
	TypeAnn  Type
	Value    Expr
	SpanVal  Span
}

func (d *ConstDecl) Span() Span            { return d.SpanVal }
func (d *ConstDecl) Category() DeclCategory { return CategoryConst }
func (d *ConstDecl) declNode()             {}

// Param is a function or lambda parameter.
type Param struct {
	Name string
	Type Type
	Mut  bool
}

// FunctionDecl declares a top-level function. Effects are alphabetised
// labels; ReturnType and every parameter's Type are mandatory.
type FunctionDecl struct {
	Name       string
	Exported   bool
	Mockable   bool
	Params     []Param
	Effects    []string
	ReturnType Type
	Body       Expr
	SpanVal    Span
}

func (d *FunctionDecl) Span() Span            { return d.SpanVal }
func (d *FunctionDecl) Category() DeclCategory { return CategoryFunction }
func (d *FunctionDecl) declNode()             {}

// TestDecl is only valid under the project's tests/ subtree.
type TestDecl struct {
	Description string
	Effects     []string
	Body        Expr
	SpanVal     Span
}

func (d *TestDecl) Span() Span            { return d.SpanVal }
func (d *TestDecl) Category() DeclCategory { return CategoryTest }
func (d *TestDecl) declNode()             {}
