package canon

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// validateParamOrder enforces ascending alphabetical order of parameter
// names.
func validateParamOrder(params []ast.Param, span ast.Span) error {
	prev := ""
	for _, p := range params {
		if p.Name < prev {
			return diag.Wrap(diag.New(diag.CanonParamOrder, diag.PhaseCanon,
				"parameter '"+p.Name+"' is out of alphabetical order").
				WithLocation(locOf(span)))
		}
		prev = p.Name
	}
	return nil
}

// validateEffectOrder enforces ascending alphabetical order of effect
// labels.
func validateEffectOrder(effects []string, span ast.Span) error {
	prev := ""
	for _, e := range effects {
		if e < prev {
			return diag.Wrap(diag.New(diag.CanonEffectOrder, diag.PhaseCanon,
				"effect label '"+e+"' is out of alphabetical order").
				WithLocation(locOf(span)))
		}
		prev = e
	}
	return nil
}

// validateLetTyping is a backstop for the parser's own enforcement: every
// let binding must carry a type annotation. It also covers nested lambda
// expressions, whose own parameters and effects must be alphabetised the
// same way a top-level function's are.
func validateLetTyping(body ast.Expr) error {
	return walkExpr(body, func(e ast.Expr) error {
		switch n := e.(type) {
		case *ast.Let:
			if n.TypeAnn == nil {
				return diag.Wrap(diag.New(diag.CanonLetUntyped, diag.PhaseCanon,
					"let binding is missing a type annotation").
					WithLocation(locOf(n.SpanVal)))
			}
		case *ast.Lambda:
			if err := validateParamOrder(n.Params, n.SpanVal); err != nil {
				return err
			}
			if err := validateEffectOrder(n.Effects, n.SpanVal); err != nil {
				return err
			}
		}
		return nil
	})
}
