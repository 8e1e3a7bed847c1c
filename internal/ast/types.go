package ast

// Type is any type-level node: primitives, lists, tuples, maps, functions,
// named constructors, type variables, and qualified references.
type Type interface {
	Node
	typeNode()
}

// PrimKind enumerates the closed set of primitive types.
type PrimKind int

const (
	PrimInt PrimKind = iota
	PrimFloat
	PrimBool
	PrimString
	PrimChar
	PrimUnit
)

func (k PrimKind) String() string {
	switch k {
	case PrimInt:
		return "ℤ"
	case PrimFloat:
		return "ℝ"
	case PrimBool:
		return "𝔹"
	case PrimString:
		return "𝕊"
	case PrimChar:
		return "ℂ"
	case PrimUnit:
		return "𝕌"
	default:
		return "?"
	}
}

// PrimitiveType is one of Int, Float, Bool, String, Char, Unit.
type PrimitiveType struct {
	Kind    PrimKind
	SpanVal Span
}

func (t *PrimitiveType) Span() Span { return t.SpanVal }
func (t *PrimitiveType) typeNode()  {}

// ListType is `[T]`.
type ListType struct {
	Elem    Type
	SpanVal Span
}

func (t *ListType) Span() Span { return t.SpanVal }
func (t *ListType) typeNode()  {}

// TupleType is `(T...)`.
type TupleType struct {
	Elems   []Type
	SpanVal Span
}

func (t *TupleType) Span() Span { return t.SpanVal }
func (t *TupleType) typeNode()  {}

// MapType is `{K:V}`.
type MapType struct {
	Key, Value Type
	SpanVal    Span
}

func (t *MapType) Span() Span { return t.SpanVal }
func (t *MapType) typeNode()  {}

// FuncType is `λ(T...)→!E... R`.
type FuncType struct {
	Params  []Type
	Effects []string
	Result  Type
	SpanVal Span
}

func (t *FuncType) Span() Span { return t.SpanVal }
func (t *FuncType) typeNode()  {}

// NamedType is a user-declared constructor `Name[T...]`, unqualified
// (resolved within the current module).
type NamedType struct {
	Name    string
	Args    []Type
	SpanVal Span
}

func (t *NamedType) Span() Span { return t.SpanVal }
func (t *NamedType) typeNode()  {}

// TypeVar is a lowercase type parameter in scope of its declaring
// TypeDecl/FunctionDecl.
type TypeVar struct {
	Name    string
	SpanVal Span
}

func (t *TypeVar) Span() Span { return t.SpanVal }
func (t *TypeVar) typeNode()  {}

// QualifiedType is `mod⋅Name[T...]`, produced either directly by the parser
// or by the cross-module qualification pass (§4.6.2).
type QualifiedType struct {
	Module  string
	Name    string
	Args    []Type
	SpanVal Span
}

func (t *QualifiedType) Span() Span { return t.SpanVal }
func (t *QualifiedType) typeNode()  {}

// TypeDef is the right-hand side of a TypeDecl: a sum type, product type,
// or alias.
type TypeDef interface {
	Node
	typeDefNode()
}

// Variant is one named alternative of a SumType.
type Variant struct {
	Name  string
	Types []Type
}

// SumType is an ordered list of named variants.
type SumType struct {
	Variants []Variant
	SpanVal  Span
}

func (t *SumType) Span() Span { return t.SpanVal }
func (t *SumType) typeDefNode() {}

// Field is one named field of a ProductType.
type Field struct {
	Name string
	Type Type
}

// ProductType is an ordered list of named, typed fields.
type ProductType struct {
	Fields  []Field
	SpanVal Span
}

func (t *ProductType) Span() Span { return t.SpanVal }
func (t *ProductType) typeDefNode() {}

// TypeAlias names an existing type.
type TypeAlias struct {
	Aliased Type
	SpanVal Span
}

func (t *TypeAlias) Span() Span { return t.SpanVal }
func (t *TypeAlias) typeDefNode() {}
