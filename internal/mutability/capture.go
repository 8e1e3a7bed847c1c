package mutability

import "github.com/sigil-lang/sigilc/internal/ast"

// collectFree walks e collecting every identifier name referenced that is
// not bound by shadow, writing each into free. Nested binders (lambda
// params, let patterns, match arm patterns) extend shadow for their own
// subtree only; this mirrors Env.Extend's child-scope-without-mutating-
// parent discipline from internal/types.
func collectFree(e ast.Expr, shadow map[string]bool, free map[string]bool) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Literal:

	case *ast.Ident:
		if !shadow[n.Name] {
			free[n.Name] = true
		}

	case *ast.Lambda:
		inner := extend(shadow)
		for _, p := range n.Params {
			inner[p.Name] = true
		}
		collectFree(n.Body, inner, free)

	case *ast.App:
		collectFree(n.Fn, shadow, free)
		for _, a := range n.Args {
			collectFree(a, shadow, free)
		}

	case *ast.Binary:
		collectFree(n.Left, shadow, free)
		collectFree(n.Right, shadow, free)

	case *ast.Unary:
		collectFree(n.Operand, shadow, free)

	case *ast.Match:
		collectFree(n.Scrutinee, shadow, free)
		for _, a := range n.Arms {
			inner := extend(shadow)
			bindPatternNames(a.Pattern, func(name string) { inner[name] = true })
			collectFree(a.Guard, inner, free)
			collectFree(a.Body, inner, free)
		}

	case *ast.Let:
		collectFree(n.Value, shadow, free)
		inner := extend(shadow)
		bindPatternNames(n.Pattern, func(name string) { inner[name] = true })
		collectFree(n.Body, inner, free)

	case *ast.If:
		collectFree(n.Cond, shadow, free)
		collectFree(n.Then, shadow, free)
		collectFree(n.Else, shadow, free)

	case *ast.ListLit:
		for _, el := range n.Elems {
			collectFree(el, shadow, free)
		}

	case *ast.RecordLit:
		for _, f := range n.Fields {
			collectFree(f.Value, shadow, free)
		}

	case *ast.TupleLit:
		for _, el := range n.Elems {
			collectFree(el, shadow, free)
		}

	case *ast.FieldAccess:
		collectFree(n.Receiver, shadow, free)

	case *ast.IndexAccess:
		collectFree(n.Receiver, shadow, free)
		collectFree(n.Index, shadow, free)

	case *ast.Pipeline:
		collectFree(n.Left, shadow, free)
		collectFree(n.Right, shadow, free)

	case *ast.MapExpr:
		collectFree(n.List, shadow, free)
		collectFree(n.Fn, shadow, free)

	case *ast.FilterExpr:
		collectFree(n.List, shadow, free)
		collectFree(n.Pred, shadow, free)

	case *ast.FoldExpr:
		collectFree(n.List, shadow, free)
		collectFree(n.Fn, shadow, free)
		collectFree(n.Init, shadow, free)

	case *ast.MemberAccess:

	case *ast.WithMock:
		collectFree(n.Replacement, shadow, free)
		collectFree(n.Body, shadow, free)
	}
}

func extend(shadow map[string]bool) map[string]bool {
	out := make(map[string]bool, len(shadow)+1)
	for k, v := range shadow {
		out[k] = v
	}
	return out
}
