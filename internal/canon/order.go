package canon

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

func declExported(d ast.Decl) bool {
	switch v := d.(type) {
	case *ast.TypeDecl:
		return v.Exported
	case *ast.ConstDecl:
		return v.Exported
	case *ast.FunctionDecl:
		return v.Exported
	default:
		return false
	}
}

func declName(d ast.Decl) string {
	switch v := d.(type) {
	case *ast.TypeDecl:
		return v.Name
	case *ast.ImportDecl:
		return v.Path()
	case *ast.ExternDecl:
		return v.Path()
	case *ast.ConstDecl:
		return v.Name
	case *ast.FunctionDecl:
		return v.Name
	case *ast.TestDecl:
		return v.Description
	default:
		return ""
	}
}

// validateOrder enforces the category → export-status → alphabetical
// ordering of top-level declarations within a file.
func validateOrder(prog *ast.Program) error {
	floor := ast.DeclCategory(-1)
	groupExported := true
	groupStarted := false
	prevName := ""

	for _, d := range prog.Decls {
		cat := d.Category()
		exported := declExported(d)
		name := declName(d)

		if cat < floor {
			return diag.Wrap(diag.New(diag.CanonOrderCategory, diag.PhaseCanon,
				"declaration '"+name+"' ("+cat.String()+") follows a later category ("+floor.String()+")").
				WithLocation(locOf(d.Span())))
		}
		if cat > floor {
			floor = cat
			groupExported = true
			groupStarted = false
			prevName = ""
		}

		if groupExported && !exported {
			groupExported = false
			groupStarted = false
			prevName = ""
		} else if !groupExported && exported {
			return diag.Wrap(diag.New(diag.CanonOrderExport, diag.PhaseCanon,
				"exported declaration '"+name+"' must precede non-exported declarations in the "+cat.String()+" category").
				WithLocation(locOf(d.Span())))
		}

		if groupStarted && name < prevName {
			return diag.Wrap(diag.New(diag.CanonOrderAlpha, diag.PhaseCanon,
				"declaration '"+name+"' is out of alphabetical order, following '"+prevName+"'").
				WithLocation(locOf(d.Span())))
		}
		prevName = name
		groupStarted = true
	}
	return nil
}

// validateUniqueness enforces that no two declarations in the same category
// share a name (imports are unique by their canonical path).
func validateUniqueness(prog *ast.Program) error {
	seen := map[ast.DeclCategory]map[string]bool{}
	for _, d := range prog.Decls {
		cat := d.Category()
		name := declName(d)
		if seen[cat] == nil {
			seen[cat] = map[string]bool{}
		}
		if seen[cat][name] {
			code := diag.CanonDupDecl
			if cat == ast.CategoryImport {
				code = diag.CanonDupImport
			}
			return diag.Wrap(diag.New(code, diag.PhaseCanon,
				"duplicate "+cat.String()+" declaration '"+name+"'").
				WithLocation(locOf(d.Span())))
		}
		seen[cat][name] = true
	}
	return nil
}
