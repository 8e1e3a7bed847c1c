package types

import "github.com/sigil-lang/sigilc/internal/ast"

// Qualify rewrites every locally-resolved NamedType reference inside t to
// its mod⋅Name QualifiedType form (§4.6.2). Primitives, type variables, and
// already-qualified references pass through unchanged; composite shapes are
// rewritten recursively.
func Qualify(reg *TypeRegistry, modulePath string, t ast.Type) ast.Type {
	if t == nil {
		return nil
	}
	switch n := t.(type) {
	case *ast.PrimitiveType, *ast.TypeVar:
		return t

	case *ast.ListType:
		return &ast.ListType{Elem: Qualify(reg, modulePath, n.Elem), SpanVal: n.SpanVal}

	case *ast.TupleType:
		elems := make([]ast.Type, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = Qualify(reg, modulePath, e)
		}
		return &ast.TupleType{Elems: elems, SpanVal: n.SpanVal}

	case *ast.MapType:
		return &ast.MapType{
			Key:     Qualify(reg, modulePath, n.Key),
			Value:   Qualify(reg, modulePath, n.Value),
			SpanVal: n.SpanVal,
		}

	case *ast.FuncType:
		params := make([]ast.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = Qualify(reg, modulePath, p)
		}
		return &ast.FuncType{Params: params, Effects: n.Effects, Result: Qualify(reg, modulePath, n.Result), SpanVal: n.SpanVal}

	case *ast.QualifiedType:
		args := make([]ast.Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = Qualify(reg, modulePath, a)
		}
		return &ast.QualifiedType{Module: n.Module, Name: n.Name, Args: args, SpanVal: n.SpanVal}

	case *ast.NamedType:
		args := make([]ast.Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = Qualify(reg, modulePath, a)
		}
		if _, ok := reg.Lookup(n.Name); ok {
			return &ast.QualifiedType{Module: modulePath, Name: n.Name, Args: args, SpanVal: n.SpanVal}
		}
		return &ast.NamedType{Name: n.Name, Args: args, SpanVal: n.SpanVal}

	default:
		return t
	}
}

// QualifyExports builds the Namespace another module sees when it imports
// modulePath: every exported function, const, and type, with locally-
// resolved type references rewritten to qualified form.
func QualifyExports(reg *TypeRegistry, modulePath string, prog *ast.Program) Namespace {
	ns := Namespace{}
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			if !decl.Exported {
				continue
			}
			params := make([]ast.Type, len(decl.Params))
			for i, p := range decl.Params {
				params[i] = Qualify(reg, modulePath, p.Type)
			}
			ns[decl.Name] = &ast.FuncType{
				Params: params, Effects: decl.Effects,
				Result: Qualify(reg, modulePath, decl.ReturnType),
			}
		case *ast.ConstDecl:
			if !decl.Exported {
				continue
			}
			ns[decl.Name] = Qualify(reg, modulePath, decl.TypeAnn)
		case *ast.TypeDecl:
			if !decl.Exported {
				continue
			}
			ns[decl.Name] = Qualify(reg, modulePath, &ast.NamedType{Name: decl.Name, SpanVal: decl.SpanVal})
		}
	}
	return ns
}
