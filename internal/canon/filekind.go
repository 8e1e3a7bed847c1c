package canon

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

func findMain(prog *ast.Program) (*ast.FunctionDecl, bool) {
	for _, d := range prog.Decls {
		if fn, ok := d.(*ast.FunctionDecl); ok && fn.Name == "main" {
			return fn, true
		}
	}
	return nil, false
}

func isUnitType(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Kind == ast.PrimUnit
}

// validateFileKind enforces §4.5's main-presence rules: executable and test
// files must define `main()→𝕌`; library files must not.
func validateFileKind(prog *ast.Program, kind FileKind) error {
	main, has := findMain(prog)
	switch kind {
	case FileExecutable, FileTest:
		if !has {
			return diag.Wrap(diag.New(diag.CanonFilekindMainMissing, diag.PhaseCanon,
				"file must define 'λmain()→𝕌'").
				WithLocation(locOf(prog.SpanVal)).
				WithFixits(diag.Fixit{File: prog.FilePath, Note: "add a 'λmain()→𝕌=...' declaration"}))
		}
		if len(main.Params) != 0 || !isUnitType(main.ReturnType) {
			return diag.Wrap(diag.New(diag.CanonFilekindMainMissing, diag.PhaseCanon,
				"main must have signature '()→𝕌'").
				WithLocation(locOf(main.SpanVal)))
		}
	case FileLibrary:
		if has {
			return diag.Wrap(diag.New(diag.CanonFilekindMainForbidden, diag.PhaseCanon,
				"library file must not define main").
				WithLocation(locOf(main.SpanVal)))
		}
	}
	return nil
}

// validateTestPlacement enforces that `test` declarations only appear in
// files under the project's tests/ subtree.
func validateTestPlacement(prog *ast.Program, kind FileKind) error {
	if kind == FileTest {
		return nil
	}
	for _, d := range prog.Decls {
		if td, ok := d.(*ast.TestDecl); ok {
			return diag.Wrap(diag.New(diag.CanonTestPlacement, diag.PhaseCanon,
				"test declaration outside the project's tests/ directory").
				WithLocation(locOf(td.SpanVal)))
		}
	}
	return nil
}
