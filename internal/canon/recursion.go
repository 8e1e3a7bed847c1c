package canon

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

type argRole int

const (
	roleStructural argRole = iota
	roleQuery
	roleAccumulator
)

func leftIsParam(bin *ast.Binary, name string) bool {
	id, ok := bin.Left.(*ast.Ident)
	return ok && id.Name == name
}

func (r argRole) String() string {
	switch r {
	case roleQuery:
		return "query"
	case roleAccumulator:
		return "accumulator"
	default:
		return "structural"
	}
}

// paramRole is one row of the parameter-role table attached to a
// CANON-RECURSION-ACCUMULATOR diagnostic's details (§8 scenario 2): how
// each parameter of the offending call relates to the recursive
// function's own parameter of the same position.
type paramRole struct {
	Param string `json:"param"`
	Role  string `json:"role"`
}

func paramRoleTable(fn *ast.FunctionDecl, call *ast.App) []paramRole {
	table := make([]paramRole, 0, len(call.Args))
	for i, arg := range call.Args {
		if i >= len(fn.Params) {
			break
		}
		table = append(table, paramRole{Param: fn.Params[i].Name, Role: classifyArg(arg, fn.Params[i].Name).String()})
	}
	return table
}

// classifyArg classifies how an argument passed to a self-recursive call
// relates to the parameter occupying that position: unchanged (query),
// decomposed (structural — a decremented integer, a%b, or a destructured
// sub-binding), or grown (accumulator — combined with another value via +
// or *, or collected into a list/record).
func classifyArg(arg ast.Expr, paramName string) argRole {
	switch n := arg.(type) {
	case *ast.Ident:
		if n.Name == paramName {
			return roleQuery
		}
		return roleStructural
	case *ast.Binary:
		switch n.Op {
		case ast.OpSub, ast.OpMod:
			if leftIsParam(n, paramName) {
				return roleStructural
			}
		case ast.OpAdd, ast.OpMul:
			if referencesIdent(n, paramName) {
				return roleAccumulator
			}
		}
		if referencesIdent(n, paramName) {
			return roleAccumulator
		}
		return roleStructural
	case *ast.ListLit:
		if referencesIdent(n, paramName) {
			return roleAccumulator
		}
		return roleStructural
	case *ast.RecordLit:
		if referencesIdent(n, paramName) {
			return roleAccumulator
		}
		return roleStructural
	default:
		return roleStructural
	}
}

// validateRecursion enforces the recursion discipline of §4.5: a
// self-recursive function may not grow an accumulator parameter, and may
// not return a function type (no continuation-passing style).
func validateRecursion(fn *ast.FunctionDecl) error {
	var calls []*ast.App
	_ = walkExpr(fn.Body, func(e ast.Expr) error {
		if app, ok := e.(*ast.App); ok {
			if id, ok := app.Fn.(*ast.Ident); ok && id.Name == fn.Name {
				calls = append(calls, app)
			}
		}
		return nil
	})
	if len(calls) == 0 {
		return nil
	}

	if _, ok := fn.ReturnType.(*ast.FuncType); ok {
		return diag.Wrap(diag.New(diag.CanonRecursionCPS, diag.PhaseCanon,
			"recursive function '"+fn.Name+"' returns a function type").
			WithLocation(locOf(fn.SpanVal)))
	}

	for _, call := range calls {
		for i, arg := range call.Args {
			if i >= len(fn.Params) {
				break
			}
			if classifyArg(arg, fn.Params[i].Name) == roleAccumulator {
				return diag.Wrap(diag.New(diag.CanonRecursionAccumulator, diag.PhaseCanon,
					"recursive function '"+fn.Name+"' grows parameter '"+fn.Params[i].Name+"' instead of decomposing it").
					WithLocation(locOf(call.SpanVal)).
					WithDetails(paramRoleTable(fn, call)))
			}
		}
	}
	return nil
}
