package types

import (
	"fmt"
	"strings"

	"github.com/sigil-lang/sigilc/internal/ast"
)

// resolveAlias unfolds a chain of NamedType references to TypeAlias
// definitions, stopping at the first non-alias shape. A depth limit guards
// against a (canonically forbidden, but not yet rejected at this layer)
// alias cycle.
func resolveAlias(reg *TypeRegistry, t ast.Type) ast.Type {
	for depth := 0; depth < 32; depth++ {
		nt, ok := t.(*ast.NamedType)
		if !ok {
			return t
		}
		decl, ok := reg.Lookup(nt.Name)
		if !ok {
			return t
		}
		alias, ok := decl.Def.(*ast.TypeAlias)
		if !ok {
			return t
		}
		t = alias.Aliased
	}
	return t
}

// Equal reports whether two types are structurally (or, for user-declared
// sum/product types, nominally) equivalent.
func Equal(reg *TypeRegistry, a, b ast.Type) bool {
	a = resolveAlias(reg, a)
	b = resolveAlias(reg, b)

	switch x := a.(type) {
	case *ast.PrimitiveType:
		y, ok := b.(*ast.PrimitiveType)
		return ok && x.Kind == y.Kind
	case *ast.ListType:
		y, ok := b.(*ast.ListType)
		return ok && Equal(reg, x.Elem, y.Elem)
	case *ast.TupleType:
		y, ok := b.(*ast.TupleType)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(reg, x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *ast.MapType:
		y, ok := b.(*ast.MapType)
		return ok && Equal(reg, x.Key, y.Key) && Equal(reg, x.Value, y.Value)
	case *ast.FuncType:
		y, ok := b.(*ast.FuncType)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !Equal(reg, x.Params[i], y.Params[i]) {
				return false
			}
		}
		return Equal(reg, x.Result, y.Result) && sameEffects(x.Effects, y.Effects)
	case *ast.NamedType:
		y, ok := b.(*ast.NamedType)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(reg, x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *ast.TypeVar:
		y, ok := b.(*ast.TypeVar)
		return ok && x.Name == y.Name
	case *ast.QualifiedType:
		y, ok := b.(*ast.QualifiedType)
		if !ok || x.Module != y.Module || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(reg, x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func sameEffects(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsNumeric reports whether t is ℤ or ℝ.
func IsNumeric(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && (p.Kind == ast.PrimInt || p.Kind == ast.PrimFloat)
}

// IsBool reports whether t is 𝔹.
func IsBool(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Kind == ast.PrimBool
}

// IsString reports whether t is 𝕊.
func IsString(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Kind == ast.PrimString
}

// HasOrder reports whether t supports <, ≤, >, ≥: the four ordered
// primitives (ℤ, ℝ, 𝕊, ℂ).
func HasOrder(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	if !ok {
		return false
	}
	switch p.Kind {
	case ast.PrimInt, ast.PrimFloat, ast.PrimString, ast.PrimChar:
		return true
	default:
		return false
	}
}

// String renders t for diagnostic messages.
func String(t ast.Type) string {
	if t == nil {
		return "?"
	}
	switch n := t.(type) {
	case *ast.PrimitiveType:
		return n.Kind.String()
	case *ast.ListType:
		return "[" + String(n.Elem) + "]"
	case *ast.TupleType:
		parts := make([]string, len(n.Elems))
		for i, e := range n.Elems {
			parts[i] = String(e)
		}
		return "(" + strings.Join(parts, ",") + ")"
	case *ast.MapType:
		return "{" + String(n.Key) + ":" + String(n.Value) + "}"
	case *ast.FuncType:
		parts := make([]string, len(n.Params))
		for i, p := range n.Params {
			parts[i] = String(p)
		}
		effects := ""
		if len(n.Effects) > 0 {
			effects = "!" + strings.Join(n.Effects, ",") + " "
		}
		return fmt.Sprintf("λ(%s)%s→%s", strings.Join(parts, ","), effects, String(n.Result))
	case *ast.NamedType:
		if len(n.Args) == 0 {
			return n.Name
		}
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = String(a)
		}
		return n.Name + "[" + strings.Join(parts, ",") + "]"
	case *ast.TypeVar:
		return n.Name
	case *ast.QualifiedType:
		base := n.Module + "⋅" + n.Name
		if len(n.Args) == 0 {
			return base
		}
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = String(a)
		}
		return base + "[" + strings.Join(parts, ",") + "]"
	default:
		return "?"
	}
}
