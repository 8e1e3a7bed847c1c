package types

import (
	"strings"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

func isCatchAll(p ast.Pattern) bool {
	switch p.(type) {
	case *ast.WildcardPattern, *ast.IdentPattern:
		return true
	}
	return false
}

// checkExhaustive implements §4.6.1: wildcard/catch-all coverage, list
// []/head-tail coverage, sum-type variant coverage, and single-pattern
// coverage for products, tuples, and records. Boolean scrutinees are also
// rejected as a canonical-form violation (internal/canon); for a 𝔹
// scrutinee this pass still checks that both ⊤ and ⊥ are covered.
func (c *Checker) checkExhaustive(scrutType ast.Type, m *ast.Match) error {
	var unguarded []ast.Pattern
	for _, a := range m.Arms {
		if a.Guard == nil {
			unguarded = append(unguarded, a.Pattern)
		}
	}
	for _, p := range unguarded {
		if isCatchAll(p) {
			return nil
		}
	}

	switch t := resolveAlias(c.Types, scrutType).(type) {
	case *ast.ListType:
		hasEmpty, hasRest := false, false
		for _, p := range unguarded {
			lp, ok := p.(*ast.ListPattern)
			if !ok {
				continue
			}
			if len(lp.Elems) == 0 && lp.Rest == nil {
				hasEmpty = true
			}
			if lp.Rest != nil {
				hasRest = true
			}
		}
		if hasEmpty && hasRest {
			return nil
		}
		var missing []string
		if !hasEmpty {
			missing = append(missing, "[]")
		}
		if !hasRest {
			missing = append(missing, "[head, ...rest]")
		}
		return c.nonexhaustive(m, "missing '[]' and/or a rest pattern covering non-empty lists", missing)

	case *ast.NamedType:
		decl, ok := c.Types.Lookup(t.Name)
		if !ok {
			return nil
		}
		switch def := decl.Def.(type) {
		case *ast.SumType:
			covered := map[string]bool{}
			for _, p := range unguarded {
				if cp, ok := p.(*ast.CtorPattern); ok {
					covered[cp.Name] = true
				}
			}
			var missing []string
			for _, v := range def.Variants {
				if !covered[v.Name] {
					missing = append(missing, v.Name)
				}
			}
			if len(missing) == 0 {
				return nil
			}
			return c.nonexhaustive(m, "missing variants: "+strings.Join(missing, ", "), missing)

		case *ast.ProductType:
			for _, p := range unguarded {
				switch p.(type) {
				case *ast.RecordPattern, *ast.TuplePattern:
					return nil
				}
			}
			return c.nonexhaustive(m, "missing a record pattern covering "+t.Name, []string{t.Name})

		default:
			return nil
		}

	case *ast.TupleType:
		for _, p := range unguarded {
			if _, ok := p.(*ast.TuplePattern); ok {
				return nil
			}
		}
		return c.nonexhaustive(m, "missing a tuple pattern", []string{"(_, ...)"})

	case *ast.PrimitiveType:
		if t.Kind == ast.PrimBool {
			hasTrue, hasFalse := false, false
			for _, p := range unguarded {
				lp, ok := p.(*ast.LitPattern)
				if !ok || lp.Kind != ast.LitBool {
					continue
				}
				if b, _ := lp.Value.(bool); b {
					hasTrue = true
				} else {
					hasFalse = true
				}
			}
			if hasTrue && hasFalse {
				return nil
			}
			var missing []string
			if !hasTrue {
				missing = append(missing, "⊤")
			}
			if !hasFalse {
				missing = append(missing, "⊥")
			}
			return c.nonexhaustive(m, "missing a catch-all arm", missing)
		}
		return c.nonexhaustive(m, "missing a catch-all arm", nil)

	default:
		return nil
	}
}

// nonexhaustive builds a TYPE-NONEXHAUSTIVE diagnostic. missing lists the
// concrete shapes (variant names, literal values, or pattern kinds) the
// match fails to cover (§8 scenario 6), attached as the diagnostic's
// details so a caller doesn't have to re-derive it from the message text.
func (c *Checker) nonexhaustive(m *ast.Match, detail string, missing []string) error {
	d := diag.New(diag.TypeNonexhaustive, diag.PhaseType,
		"match is not exhaustive: "+detail).WithLocation(locOf(m.SpanVal))
	if len(missing) > 0 {
		d = d.WithDetails(missing)
	}
	return diag.Wrap(d)
}
