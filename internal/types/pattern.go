package types

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// bindPattern checks that p can match a value of type t and returns env
// extended with every name p binds.
func (c *Checker) bindPattern(env *Env, p ast.Pattern, t ast.Type) (*Env, error) {
	switch n := p.(type) {
	case *ast.IdentPattern:
		return env.Extend(n.Name, t), nil

	case *ast.WildcardPattern:
		return env, nil

	case *ast.LitPattern:
		if !litKindMatches(n.Kind, t) {
			return nil, mismatch(locOf(n.SpanVal), litPatternType(n.Kind), t)
		}
		return env, nil

	case *ast.ListPattern:
		lt, ok := resolveAlias(c.Types, t).(*ast.ListType)
		if !ok {
			return nil, mismatch(locOf(n.SpanVal), t, &ast.ListType{})
		}
		cur := env
		var err error
		for _, el := range n.Elems {
			cur, err = c.bindPattern(cur, el, lt.Elem)
			if err != nil {
				return nil, err
			}
		}
		if n.Rest != nil {
			cur, err = c.bindPattern(cur, n.Rest, lt)
			if err != nil {
				return nil, err
			}
		}
		return cur, nil

	case *ast.TuplePattern:
		tt, ok := resolveAlias(c.Types, t).(*ast.TupleType)
		if !ok || len(tt.Elems) != len(n.Elems) {
			return nil, mismatch(locOf(n.SpanVal), t, &ast.TupleType{})
		}
		cur := env
		var err error
		for i, el := range n.Elems {
			cur, err = c.bindPattern(cur, el, tt.Elems[i])
			if err != nil {
				return nil, err
			}
		}
		return cur, nil

	case *ast.RecordPattern:
		named, ok := resolveAlias(c.Types, t).(*ast.NamedType)
		if !ok {
			return nil, mismatch(locOf(n.SpanVal), t, &ast.NamedType{})
		}
		decl, ok := c.Types.Lookup(named.Name)
		if !ok {
			return nil, diag.Wrap(diag.New(diag.TypeUnknownCrossModule, diag.PhaseType,
				"unknown type "+named.Name).WithLocation(locOf(n.SpanVal)))
		}
		prod, ok := decl.Def.(*ast.ProductType)
		if !ok {
			return nil, mismatch(locOf(n.SpanVal), t, &ast.NamedType{})
		}
		fieldType := map[string]ast.Type{}
		for _, f := range prod.Fields {
			fieldType[f.Name] = f.Type
		}
		cur := env
		var err error
		for _, fp := range n.Fields {
			ft, ok := fieldType[fp.Name]
			if !ok {
				return nil, diag.Wrap(diag.New(diag.TypeFieldUnknown, diag.PhaseType,
					"unknown field "+fp.Name+" on "+named.Name).WithLocation(locOf(n.SpanVal)))
			}
			cur, err = c.bindPattern(cur, fp.Pattern, ft)
			if err != nil {
				return nil, err
			}
		}
		return cur, nil

	case *ast.CtorPattern:
		named, ok := resolveAlias(c.Types, t).(*ast.NamedType)
		if !ok {
			return nil, mismatch(locOf(n.SpanVal), t, &ast.NamedType{})
		}
		decl, ok := c.Types.Lookup(named.Name)
		if !ok {
			return nil, diag.Wrap(diag.New(diag.TypeUnknownCrossModule, diag.PhaseType,
				"unknown type "+named.Name).WithLocation(locOf(n.SpanVal)))
		}
		sum, ok := decl.Def.(*ast.SumType)
		if !ok {
			return nil, mismatch(locOf(n.SpanVal), t, &ast.NamedType{})
		}
		for _, v := range sum.Variants {
			if v.Name != n.Name {
				continue
			}
			if len(v.Types) != len(n.Args) {
				return nil, diag.Wrap(diag.New(diag.TypeArityMismatch, diag.PhaseType,
					"variant "+n.Name+" arity mismatch").WithLocation(locOf(n.SpanVal)))
			}
			cur := env
			var err error
			for i, a := range n.Args {
				cur, err = c.bindPattern(cur, a, v.Types[i])
				if err != nil {
					return nil, err
				}
			}
			return cur, nil
		}
		return nil, diag.Wrap(diag.New(diag.TypeUnknownCrossModule, diag.PhaseType,
			"unknown variant "+n.Name+" of "+named.Name).WithLocation(locOf(n.SpanVal)))

	default:
		return nil, diag.Wrap(diag.New(diag.TypeMismatch, diag.PhaseType,
			"unsupported pattern shape").WithLocation(locOf(p.Span())))
	}
}

func litKindMatches(k ast.LitKind, t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	if !ok {
		return false
	}
	switch k {
	case ast.LitInt:
		return p.Kind == ast.PrimInt
	case ast.LitFloat:
		return p.Kind == ast.PrimFloat
	case ast.LitString:
		return p.Kind == ast.PrimString
	case ast.LitChar:
		return p.Kind == ast.PrimChar
	case ast.LitBool:
		return p.Kind == ast.PrimBool
	default:
		return p.Kind == ast.PrimUnit
	}
}

func litPatternType(k ast.LitKind) ast.Type {
	switch k {
	case ast.LitInt:
		return &ast.PrimitiveType{Kind: ast.PrimInt}
	case ast.LitFloat:
		return &ast.PrimitiveType{Kind: ast.PrimFloat}
	case ast.LitString:
		return &ast.PrimitiveType{Kind: ast.PrimString}
	case ast.LitChar:
		return &ast.PrimitiveType{Kind: ast.PrimChar}
	case ast.LitBool:
		return &ast.PrimitiveType{Kind: ast.PrimBool}
	default:
		return &ast.PrimitiveType{Kind: ast.PrimUnit}
	}
}

func (c *Checker) synthMatch(env *Env, n *ast.Match) (ast.Type, error) {
	scrutType, err := c.Synth(env, n.Scrutinee)
	if err != nil {
		return nil, err
	}
	var resultType ast.Type
	for i, arm := range n.Arms {
		armEnv, err := c.bindPattern(env, arm.Pattern, scrutType)
		if err != nil {
			return nil, err
		}
		if arm.Guard != nil {
			if err := c.Check(armEnv, arm.Guard, boolType); err != nil {
				return nil, err
			}
		}
		if i == 0 {
			resultType, err = c.Synth(armEnv, arm.Body)
			if err != nil {
				return nil, err
			}
			continue
		}
		if err := c.Check(armEnv, arm.Body, resultType); err != nil {
			return nil, err
		}
	}
	if err := c.checkExhaustive(scrutType, n); err != nil {
		return nil, err
	}
	return resultType, nil
}
