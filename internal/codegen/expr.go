package codegen

import (
	"fmt"
	"strings"

	"github.com/sigil-lang/sigilc/internal/ast"
)

// emitExpr lowers e to a single TypeScript expression string. Every
// user-defined call is awaited at its call site (§4.9's async-everywhere
// discipline); literals, records, tuples, and lists lower to their direct
// target-language equivalents.
func (g *generator) emitExpr(e ast.Expr) (string, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return g.emitLiteral(n)

	case *ast.Ident:
		return n.Name, nil

	case *ast.Lambda:
		return g.emitLambda(n)

	case *ast.App:
		return g.emitApp(n)

	case *ast.Binary:
		return g.emitBinary(n)

	case *ast.Unary:
		return g.emitUnary(n)

	case *ast.Match:
		return g.emitMatch(n)

	case *ast.Let:
		return g.emitLet(n)

	case *ast.If:
		return g.emitIf(n)

	case *ast.ListLit:
		parts := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			s, err := g.emitExpr(el)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil

	case *ast.RecordLit:
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			v, err := g.emitExpr(f.Value)
			if err != nil {
				return "", err
			}
			parts[i] = fmt.Sprintf("%s: %s", f.Name, v)
		}
		return "{" + strings.Join(parts, ", ") + "}", nil

	case *ast.TupleLit:
		parts := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			s, err := g.emitExpr(el)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil

	case *ast.FieldAccess:
		recv, err := g.emitExpr(n.Receiver)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s", recv, n.Field), nil

	case *ast.IndexAccess:
		recv, err := g.emitExpr(n.Receiver)
		if err != nil {
			return "", err
		}
		idx, err := g.emitExpr(n.Index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s]", recv, idx), nil

	case *ast.Pipeline:
		return g.emitPipeline(n)

	case *ast.MapExpr:
		list, err := g.emitExpr(n.List)
		if err != nil {
			return "", err
		}
		fn, err := g.emitExpr(n.Fn)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(await __sigilMap(%s, %s))", list, fn), nil

	case *ast.FilterExpr:
		list, err := g.emitExpr(n.List)
		if err != nil {
			return "", err
		}
		pred, err := g.emitExpr(n.Pred)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(await __sigilFilter(%s, %s))", list, pred), nil

	case *ast.FoldExpr:
		list, err := g.emitExpr(n.List)
		if err != nil {
			return "", err
		}
		fn, err := g.emitExpr(n.Fn)
		if err != nil {
			return "", err
		}
		init, err := g.emitExpr(n.Init)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(await __sigilFold(%s, %s, %s))", list, fn, init), nil

	case *ast.MemberAccess:
		return fmt.Sprintf("%s.%s", n.Namespace, n.Name), nil

	case *ast.WithMock:
		repl, err := g.emitExpr(n.Replacement)
		if err != nil {
			return "", err
		}
		body, err := g.emitExpr(n.Body)
		if err != nil {
			return "", err
		}
		key := runtimeExternKey(n.Key)
		actual, err := g.emitExternRef(n.Key, n.SpanVal)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(await with_mock(%s, %s, %s, (async () => %s)))", quoteString(key), repl, actual, body), nil

	default:
		return "", unreachable(e.Span())
	}
}

func (g *generator) emitLiteral(n *ast.Literal) (string, error) {
	switch n.Kind {
	case ast.LitInt:
		return fmt.Sprintf("%v", n.Value), nil
	case ast.LitFloat:
		return fmt.Sprintf("%v", n.Value), nil
	case ast.LitString:
		return quoteString(fmt.Sprintf("%v", n.Value)), nil
	case ast.LitChar:
		return quoteString(fmt.Sprintf("%v", n.Value)), nil
	case ast.LitBool:
		if b, ok := n.Value.(bool); ok && b {
			return "true", nil
		}
		return "false", nil
	case ast.LitUnit:
		return "undefined", nil
	default:
		return "", unreachable(n.SpanVal)
	}
}

func (g *generator) emitLambda(n *ast.Lambda) (string, error) {
	body, err := g.emitExpr(n.Body)
	if err != nil {
		return "", err
	}
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("(async (%s) => %s)", strings.Join(names, ", "), body), nil
}

// emitApp lowers a call. A callee naming this module's own mockable
// function, or an extern member bound into this module, routes through
// call(key, actual, args) so with_mock installation takes effect;
// anything else is a direct await.
func (g *generator) emitApp(n *ast.App) (string, error) {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		s, err := g.emitExpr(a)
		if err != nil {
			return "", err
		}
		args[i] = s
	}
	argList := strings.Join(args, ", ")

	if ident, ok := n.Fn.(*ast.Ident); ok {
		if g.mockable[ident.Name] {
			key := mockableKey(g.moduleID, ident.Name)
			return fmt.Sprintf("(await call(%s, %s, [%s]))", quoteString(key), ident.Name, argList), nil
		}
		if path, ok := g.externs[ident.Name]; ok {
			actual, err := g.emitExternRef(path, n.SpanVal)
			if err != nil {
				return "", err
			}
			key := runtimeExternKey(path)
			return fmt.Sprintf("(await call(%s, %s, [%s]))", quoteString(key), actual, argList), nil
		}
	}

	fn, err := g.emitExpr(n.Fn)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(await %s(%s))", fn, argList), nil
}

func (g *generator) emitBinary(n *ast.Binary) (string, error) {
	left, err := g.emitExpr(n.Left)
	if err != nil {
		return "", err
	}
	right, err := g.emitExpr(n.Right)
	if err != nil {
		return "", err
	}
	switch n.Op {
	case ast.OpAdd:
		return fmt.Sprintf("(%s + %s)", left, right), nil
	case ast.OpSub:
		return fmt.Sprintf("(%s - %s)", left, right), nil
	case ast.OpMul:
		return fmt.Sprintf("(%s * %s)", left, right), nil
	case ast.OpDiv:
		return fmt.Sprintf("(%s / %s)", left, right), nil
	case ast.OpMod:
		return fmt.Sprintf("(%s %% %s)", left, right), nil
	case ast.OpEq:
		return fmt.Sprintf("__sigilEq(%s, %s)", left, right), nil
	case ast.OpNeq:
		return fmt.Sprintf("(!__sigilEq(%s, %s))", left, right), nil
	case ast.OpLt:
		return fmt.Sprintf("(%s < %s)", left, right), nil
	case ast.OpLte:
		return fmt.Sprintf("(%s <= %s)", left, right), nil
	case ast.OpGt:
		return fmt.Sprintf("(%s > %s)", left, right), nil
	case ast.OpGte:
		return fmt.Sprintf("(%s >= %s)", left, right), nil
	case ast.OpAnd:
		return fmt.Sprintf("(%s && %s)", left, right), nil
	case ast.OpOr:
		return fmt.Sprintf("(%s || %s)", left, right), nil
	case ast.OpConcat:
		return fmt.Sprintf("__sigilConcat(%s, %s)", left, right), nil
	default:
		return "", unreachable(n.SpanVal)
	}
}

func (g *generator) emitUnary(n *ast.Unary) (string, error) {
	operand, err := g.emitExpr(n.Operand)
	if err != nil {
		return "", err
	}
	switch n.Op {
	case ast.OpNot:
		return fmt.Sprintf("(!%s)", operand), nil
	case ast.OpNeg:
		return fmt.Sprintf("(-%s)", operand), nil
	case ast.OpLen:
		return fmt.Sprintf("(%s.length)", operand), nil
	default:
		return "", unreachable(n.SpanVal)
	}
}

func (g *generator) emitLet(n *ast.Let) (string, error) {
	value, err := g.emitExpr(n.Value)
	if err != nil {
		return "", err
	}
	body, err := g.emitExpr(n.Body)
	if err != nil {
		return "", err
	}
	target, err := g.emitPatternTarget(n.Pattern)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(await (async () => { const %s = %s; return %s; })())", target, value, body), nil
}

func (g *generator) emitIf(n *ast.If) (string, error) {
	cond, err := g.emitExpr(n.Cond)
	if err != nil {
		return "", err
	}
	then, err := g.emitExpr(n.Then)
	if err != nil {
		return "", err
	}
	if n.Else == nil {
		return fmt.Sprintf("(await (async () => { if (%s) { return %s; } return undefined; })())", cond, then), nil
	}
	els, err := g.emitExpr(n.Else)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s ? %s : %s)", cond, then, els), nil
}

func (g *generator) emitPipeline(n *ast.Pipeline) (string, error) {
	left, err := g.emitExpr(n.Left)
	if err != nil {
		return "", err
	}
	right, err := g.emitExpr(n.Right)
	if err != nil {
		return "", err
	}
	switch n.Kind {
	case ast.PipeForward:
		return fmt.Sprintf("(await %s(%s))", right, left), nil
	case ast.PipeCompose:
		return fmt.Sprintf("(async (...__a) => await %s(await %s(...__a)))", right, left), nil
	case ast.PipeComposeRev:
		return fmt.Sprintf("(async (...__a) => await %s(await %s(...__a)))", left, right), nil
	default:
		return "", unreachable(n.SpanVal)
	}
}
