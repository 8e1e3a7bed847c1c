// Package mutability implements the mutability checker (§4.7): a checker-
// as-visitor pass over internal/ast, following the shape internal/types
// established for the bidirectional type checker. Every let binding, const
// declaration, and function parameter is immutable unless it carries mut;
// this package enforces the alias and capture rules that follow from that,
// not the type rules themselves (those belong to internal/types).
package mutability

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// scope is the set of names currently bound mut, visible at some point in a
// function body. It never mutates in place; with returns a new scope so
// sibling branches (match arms, if branches) never see each other's
// bindings, mirroring internal/types/env.go's Extend discipline.
type scope map[string]bool

func (s scope) with(name string, mut bool) scope {
	out := s.copy()
	if mut {
		out[name] = true
	} else {
		delete(out, name)
	}
	return out
}

func (s scope) copy() scope {
	out := make(scope, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Checker walks function and test bodies enforcing §4.7. funcs maps a
// top-level function's name to its declaration so call sites can compare
// the mut-ness of an argument against the mut-ness of the callee's
// matching parameter (MUTABILITY-PARAM-ALIAS).
type Checker struct {
	funcs map[string]*ast.FunctionDecl
}

// NewChecker builds a Checker over every top-level function declared in
// prog.
func NewChecker(prog *ast.Program) *Checker {
	c := &Checker{funcs: map[string]*ast.FunctionDecl{}}
	for _, d := range prog.Decls {
		if fn, ok := d.(*ast.FunctionDecl); ok {
			c.funcs[fn.Name] = fn
		}
	}
	return c
}

func locOf(sp ast.Span) diag.Location {
	return diag.Location{
		File: sp.Start.File,
		Line: sp.Start.Line, Column: sp.Start.Column, Offset: sp.Start.Offset,
		EndLine: sp.End.Line, EndColumn: sp.End.Column, EndOffset: sp.End.Offset,
	}
}

func paramAlias(sp ast.Span, argName, fnName string) error {
	return diag.Wrap(diag.New(diag.MutabilityParamAlias, diag.PhaseMutability,
		"mut argument '"+argName+"' passed to non-mut parameter of '"+fnName+"'").
		WithLocation(locOf(sp)))
}

func aliasDup(sp ast.Span, name string) error {
	return diag.Wrap(diag.New(diag.MutabilityAlias, diag.PhaseMutability,
		"mut name '"+name+"' aliased to itself across two arguments of the same call").
		WithLocation(locOf(sp)))
}

func captureEscape(sp ast.Span, name string) error {
	return diag.Wrap(diag.New(diag.MutabilityCaptureEscape, diag.PhaseMutability,
		"mut binding '"+name+"' captured by a closure that escapes its owning scope").
		WithLocation(locOf(sp)))
}

// CheckProgram runs the mutability checker over every function and test
// body in prog, short-circuiting on the first diagnostic (§4.1, §7).
func (c *Checker) CheckProgram(prog *ast.Program) error {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			s := scope{}
			for _, p := range decl.Params {
				s = s.with(p.Name, p.Mut)
			}
			if err := c.checkExpr(decl.Body, s, false); err != nil {
				return err
			}
		case *ast.TestDecl:
			if err := c.checkExpr(decl.Body, scope{}, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkExpr walks e looking for the mutability violations of §4.7. s is
// the set of mut-bound names visible at e. immediate marks that e is
// evaluated synchronously as part of evaluating its parent (the callee of
// an application, the transform argument of ↦/⊳/⊕, the right side of a
// pipeline, a with_mock replacement) rather than stored or returned for
// later use: a lambda literal in such a position never outlives its
// owning scope, so a mut capture there is not an escape.
func (c *Checker) checkExpr(e ast.Expr, s scope, immediate bool) error {
	if e == nil {
		return nil
	}
	if lam, ok := e.(*ast.Lambda); ok && !immediate {
		if name, isMut := capturesMut(lam, s); isMut {
			return captureEscape(lam.SpanVal, name)
		}
	}

	switch n := e.(type) {
	case *ast.Literal, *ast.Ident:
		return nil

	case *ast.Lambda:
		inner := s.copy()
		for _, p := range n.Params {
			inner = inner.with(p.Name, p.Mut)
		}
		return c.checkExpr(n.Body, inner, false)

	case *ast.App:
		if err := c.checkExpr(n.Fn, s, true); err != nil {
			return err
		}
		if err := c.checkArgsAlias(n, s); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := c.checkExpr(a, s, false); err != nil {
				return err
			}
		}
		return nil

	case *ast.Binary:
		if err := c.checkExpr(n.Left, s, false); err != nil {
			return err
		}
		return c.checkExpr(n.Right, s, false)

	case *ast.Unary:
		return c.checkExpr(n.Operand, s, false)

	case *ast.Match:
		if err := c.checkExpr(n.Scrutinee, s, false); err != nil {
			return err
		}
		for _, a := range n.Arms {
			armScope := s.copy()
			bindPatternNames(a.Pattern, func(name string) { armScope = armScope.with(name, false) })
			if err := c.checkExpr(a.Guard, armScope, false); err != nil {
				return err
			}
			if err := c.checkExpr(a.Body, armScope, false); err != nil {
				return err
			}
		}
		return nil

	case *ast.Let:
		if err := c.checkExpr(n.Value, s, false); err != nil {
			return err
		}
		bodyScope := s.copy()
		bindPatternNames(n.Pattern, func(name string) { bodyScope = bodyScope.with(name, false) })
		return c.checkExpr(n.Body, bodyScope, false)

	case *ast.If:
		if err := c.checkExpr(n.Cond, s, false); err != nil {
			return err
		}
		if err := c.checkExpr(n.Then, s, false); err != nil {
			return err
		}
		return c.checkExpr(n.Else, s, false)

	case *ast.ListLit:
		for _, el := range n.Elems {
			if err := c.checkExpr(el, s, false); err != nil {
				return err
			}
		}
		return nil

	case *ast.RecordLit:
		for _, f := range n.Fields {
			if err := c.checkExpr(f.Value, s, false); err != nil {
				return err
			}
		}
		return nil

	case *ast.TupleLit:
		for _, el := range n.Elems {
			if err := c.checkExpr(el, s, false); err != nil {
				return err
			}
		}
		return nil

	case *ast.FieldAccess:
		return c.checkExpr(n.Receiver, s, false)

	case *ast.IndexAccess:
		if err := c.checkExpr(n.Receiver, s, false); err != nil {
			return err
		}
		return c.checkExpr(n.Index, s, false)

	case *ast.Pipeline:
		if err := c.checkExpr(n.Left, s, false); err != nil {
			return err
		}
		return c.checkExpr(n.Right, s, true)

	case *ast.MapExpr:
		if err := c.checkExpr(n.List, s, false); err != nil {
			return err
		}
		return c.checkExpr(n.Fn, s, true)

	case *ast.FilterExpr:
		if err := c.checkExpr(n.List, s, false); err != nil {
			return err
		}
		return c.checkExpr(n.Pred, s, true)

	case *ast.FoldExpr:
		if err := c.checkExpr(n.List, s, false); err != nil {
			return err
		}
		if err := c.checkExpr(n.Fn, s, true); err != nil {
			return err
		}
		return c.checkExpr(n.Init, s, false)

	case *ast.MemberAccess:
		return nil

	case *ast.WithMock:
		if err := c.checkExpr(n.Replacement, s, true); err != nil {
			return err
		}
		return c.checkExpr(n.Body, s, false)

	default:
		return nil
	}
}

// checkArgsAlias implements MUTABILITY-PARAM-ALIAS and MUTABILITY-ALIAS for
// a direct call to a known top-level function: an argument that names a
// mut binding must land on a mut parameter, and no mut name may fill two
// parameter slots of the same call.
func (c *Checker) checkArgsAlias(app *ast.App, s scope) error {
	fnIdent, ok := app.Fn.(*ast.Ident)
	if !ok {
		return nil
	}
	fn, ok := c.funcs[fnIdent.Name]
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	for i, arg := range app.Args {
		argIdent, ok := arg.(*ast.Ident)
		if !ok || !s[argIdent.Name] {
			continue
		}
		if seen[argIdent.Name] {
			return aliasDup(app.SpanVal, argIdent.Name)
		}
		seen[argIdent.Name] = true
		if i < len(fn.Params) && !fn.Params[i].Mut {
			return paramAlias(arg.Span(), argIdent.Name, fn.Name)
		}
	}
	return nil
}

// capturesMut reports the first mut name in s that lam's body references
// as a free identifier (not shadowed by lam's own parameters).
func capturesMut(lam *ast.Lambda, s scope) (string, bool) {
	shadow := map[string]bool{}
	for _, p := range lam.Params {
		shadow[p.Name] = true
	}
	names := map[string]bool{}
	collectFree(lam.Body, shadow, names)
	for name := range names {
		if s[name] {
			return name, true
		}
	}
	return "", false
}

// bindPatternNames invokes bind for every name a pattern introduces.
func bindPatternNames(p ast.Pattern, bind func(string)) {
	switch n := p.(type) {
	case *ast.IdentPattern:
		bind(n.Name)
	case *ast.WildcardPattern, *ast.LitPattern:
	case *ast.CtorPattern:
		for _, a := range n.Args {
			bindPatternNames(a, bind)
		}
	case *ast.ListPattern:
		for _, el := range n.Elems {
			bindPatternNames(el, bind)
		}
		if n.Rest != nil {
			bindPatternNames(n.Rest, bind)
		}
	case *ast.RecordPattern:
		for _, f := range n.Fields {
			bindPatternNames(f.Pattern, bind)
		}
	case *ast.TuplePattern:
		for _, el := range n.Elems {
			bindPatternNames(el, bind)
		}
	}
}
