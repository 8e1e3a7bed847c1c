package canon

import (
	"fmt"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

func looksBoolean(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Kind == ast.LitBool
	case *ast.Binary:
		switch n.Op {
		case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte, ast.OpAnd, ast.OpOr:
			return true
		}
	case *ast.Unary:
		return n.Op == ast.OpNot
	}
	return false
}

// armsAreBoolean reports whether every arm's pattern is a boolean literal
// (or a catch-all), the syntactic signature of matching on 𝔹.
func armsAreBoolean(arms []ast.MatchArm) bool {
	sawBoolLit := false
	for _, a := range arms {
		switch p := a.Pattern.(type) {
		case *ast.LitPattern:
			if p.Kind != ast.LitBool {
				return false
			}
			sawBoolLit = true
		case *ast.WildcardPattern, *ast.IdentPattern:
			continue
		default:
			return false
		}
	}
	return sawBoolLit
}

func hasConsecutiveWildcards(lp *ast.ListPattern) bool {
	prevWildcard := false
	for _, el := range lp.Elems {
		_, isWild := el.(*ast.WildcardPattern)
		if isWild && prevWildcard {
			return true
		}
		prevWildcard = isWild
	}
	return false
}

func findListPattern(p ast.Pattern) *ast.ListPattern {
	switch n := p.(type) {
	case *ast.ListPattern:
		return n
	case *ast.CtorPattern:
		for _, a := range n.Args {
			if lp := findListPattern(a); lp != nil {
				return lp
			}
		}
	case *ast.TuplePattern:
		for _, e := range n.Elems {
			if lp := findListPattern(e); lp != nil {
				return lp
			}
		}
	case *ast.RecordPattern:
		for _, f := range n.Fields {
			if lp := findListPattern(f.Pattern); lp != nil {
				return lp
			}
		}
	}
	return nil
}

// patternKey renders a pattern into a comparable string; used only to spot
// literal duplicate match arms, not for exhaustiveness reasoning (that is
// internal/types' job, §4.6.1).
func patternKey(p ast.Pattern) string {
	switch n := p.(type) {
	case *ast.LitPattern:
		return fmt.Sprintf("lit(%v)", n.Value)
	case *ast.IdentPattern:
		return "ident(" + n.Name + ")"
	case *ast.WildcardPattern:
		return "_"
	case *ast.CtorPattern:
		s := "ctor(" + n.Name
		for _, a := range n.Args {
			s += "," + patternKey(a)
		}
		return s + ")"
	case *ast.ListPattern:
		s := "list("
		for _, e := range n.Elems {
			s += patternKey(e) + ","
		}
		if n.Rest != nil {
			s += "⧺" + patternKey(n.Rest)
		}
		return s + ")"
	case *ast.RecordPattern:
		s := "record("
		for _, f := range n.Fields {
			s += f.Name + ":" + patternKey(f.Pattern) + ","
		}
		return s + ")"
	case *ast.TuplePattern:
		s := "tuple("
		for _, e := range n.Elems {
			s += patternKey(e) + ","
		}
		return s + ")"
	default:
		return "?"
	}
}

func exprKey(e ast.Expr) string {
	if e == nil {
		return ""
	}
	switch n := e.(type) {
	case *ast.Literal:
		return fmt.Sprintf("lit(%v)", n.Value)
	case *ast.Ident:
		return "ident(" + n.Name + ")"
	case *ast.Binary:
		return fmt.Sprintf("bin(%d,%s,%s)", n.Op, exprKey(n.Left), exprKey(n.Right))
	case *ast.Unary:
		return fmt.Sprintf("un(%d,%s)", n.Op, exprKey(n.Operand))
	case *ast.App:
		s := "app(" + exprKey(n.Fn)
		for _, a := range n.Args {
			s += "," + exprKey(a)
		}
		return s + ")"
	case *ast.MemberAccess:
		return "mem(" + n.Namespace + "." + n.Name + ")"
	case *ast.FieldAccess:
		return "field(" + exprKey(n.Receiver) + "." + n.Field + ")"
	default:
		return fmt.Sprintf("%p", n)
	}
}

// validateMatchDiscipline enforces §4.5's pattern-match rules: no boolean
// scrutinees, no consecutive list-pattern wildcards, no duplicate arms.
func validateMatchDiscipline(body ast.Expr) error {
	return walkExpr(body, func(e ast.Expr) error {
		m, ok := e.(*ast.Match)
		if !ok {
			return nil
		}
		if looksBoolean(m.Scrutinee) || armsAreBoolean(m.Arms) {
			return diag.Wrap(diag.New(diag.CanonMatchBoolean, diag.PhaseCanon,
				"match scrutinee has boolean type; use an if-style conditional instead").
				WithLocation(locOf(m.SpanVal)))
		}
		seen := map[string]bool{}
		for _, arm := range m.Arms {
			if lp := findListPattern(arm.Pattern); lp != nil && hasConsecutiveWildcards(lp) {
				return diag.Wrap(diag.New(diag.CanonMatchDupWildcard, diag.PhaseCanon,
					"consecutive wildcards in list pattern; use a '⧺' rest pattern instead").
					WithLocation(locOf(lp.SpanVal)))
			}
			key := patternKey(arm.Pattern) + "|" + exprKey(arm.Guard)
			if seen[key] {
				return diag.Wrap(diag.New(diag.CanonMatchDupArm, diag.PhaseCanon,
					"duplicate match arm").
					WithLocation(locOf(arm.Body.Span())))
			}
			seen[key] = true
		}
		return nil
	})
}
