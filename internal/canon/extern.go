package canon

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// validateExternMembers enforces that an extern's members are unique and
// alphabetised.
func validateExternMembers(d *ast.ExternDecl) error {
	seen := map[string]bool{}
	prev := ""
	for _, m := range d.Members {
		if seen[m.Name] {
			return diag.Wrap(diag.New(diag.CanonDupExternMember, diag.PhaseCanon,
				"duplicate extern member '"+m.Name+"'").
				WithLocation(locOf(d.SpanVal)))
		}
		seen[m.Name] = true
		if m.Name < prev {
			return diag.Wrap(diag.New(diag.CanonDupExternMember, diag.PhaseCanon,
				"extern member '"+m.Name+"' is out of alphabetical order").
				WithLocation(locOf(d.SpanVal)))
		}
		prev = m.Name
	}
	return nil
}
