package canon

import "github.com/sigil-lang/sigilc/internal/ast"

// walkExpr visits e and every sub-expression in pre-order, calling visit on
// each. It stops and returns the first error visit produces.
func walkExpr(e ast.Expr, visit func(ast.Expr) error) error {
	if e == nil {
		return nil
	}
	if err := visit(e); err != nil {
		return err
	}
	switch n := e.(type) {
	case *ast.Literal, *ast.Ident, *ast.MemberAccess:
		// leaves
	case *ast.Lambda:
		return walkExpr(n.Body, visit)
	case *ast.App:
		if err := walkExpr(n.Fn, visit); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := walkExpr(a, visit); err != nil {
				return err
			}
		}
	case *ast.Binary:
		if err := walkExpr(n.Left, visit); err != nil {
			return err
		}
		return walkExpr(n.Right, visit)
	case *ast.Unary:
		return walkExpr(n.Operand, visit)
	case *ast.Match:
		if err := walkExpr(n.Scrutinee, visit); err != nil {
			return err
		}
		for _, arm := range n.Arms {
			if err := walkExpr(arm.Guard, visit); err != nil {
				return err
			}
			if err := walkExpr(arm.Body, visit); err != nil {
				return err
			}
		}
	case *ast.Let:
		if err := walkExpr(n.Value, visit); err != nil {
			return err
		}
		return walkExpr(n.Body, visit)
	case *ast.If:
		if err := walkExpr(n.Cond, visit); err != nil {
			return err
		}
		if err := walkExpr(n.Then, visit); err != nil {
			return err
		}
		return walkExpr(n.Else, visit)
	case *ast.ListLit:
		for _, el := range n.Elems {
			if err := walkExpr(el, visit); err != nil {
				return err
			}
		}
	case *ast.RecordLit:
		for _, f := range n.Fields {
			if err := walkExpr(f.Value, visit); err != nil {
				return err
			}
		}
	case *ast.TupleLit:
		for _, el := range n.Elems {
			if err := walkExpr(el, visit); err != nil {
				return err
			}
		}
	case *ast.FieldAccess:
		return walkExpr(n.Receiver, visit)
	case *ast.IndexAccess:
		if err := walkExpr(n.Receiver, visit); err != nil {
			return err
		}
		return walkExpr(n.Index, visit)
	case *ast.Pipeline:
		if err := walkExpr(n.Left, visit); err != nil {
			return err
		}
		return walkExpr(n.Right, visit)
	case *ast.MapExpr:
		if err := walkExpr(n.List, visit); err != nil {
			return err
		}
		return walkExpr(n.Fn, visit)
	case *ast.FilterExpr:
		if err := walkExpr(n.List, visit); err != nil {
			return err
		}
		return walkExpr(n.Pred, visit)
	case *ast.FoldExpr:
		if err := walkExpr(n.List, visit); err != nil {
			return err
		}
		if err := walkExpr(n.Fn, visit); err != nil {
			return err
		}
		return walkExpr(n.Init, visit)
	case *ast.WithMock:
		if err := walkExpr(n.Replacement, visit); err != nil {
			return err
		}
		return walkExpr(n.Body, visit)
	}
	return nil
}

// referencesIdent reports whether name appears anywhere in e as a bare
// identifier reference.
func referencesIdent(e ast.Expr, name string) bool {
	found := false
	_ = walkExpr(e, func(n ast.Expr) error {
		if id, ok := n.(*ast.Ident); ok && id.Name == name {
			found = true
		}
		return nil
	})
	return found
}
