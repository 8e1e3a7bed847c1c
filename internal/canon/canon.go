// Package canon validates a parsed Program against the canonical-form
// rules: declaration ordering and uniqueness, file-kind/main placement,
// test placement, recursion discipline, pattern-match discipline, and
// parameter/effect alphabetisation (§4.5). It runs after internal/parser
// and before internal/types; like every other phase it returns on the
// first violation found rather than accumulating a list.
package canon

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// FileKind classifies a source file for the main-presence and
// test-placement rules.
type FileKind int

const (
	FileExecutable FileKind = iota
	FileLibrary
	FileTest
)

// Validate runs every canonical-form check against prog, which was parsed
// from a file of the given kind.
func Validate(prog *ast.Program, kind FileKind) error {
	if err := validateOrder(prog); err != nil {
		return err
	}
	if err := validateUniqueness(prog); err != nil {
		return err
	}
	if err := validateFileKind(prog, kind); err != nil {
		return err
	}
	if err := validateTestPlacement(prog, kind); err != nil {
		return err
	}
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.ExternDecl:
			if err := validateExternMembers(decl); err != nil {
				return err
			}
		case *ast.ConstDecl:
			if decl.TypeAnn == nil {
				return diag.Wrap(diag.New(diag.CanonConstUntyped, diag.PhaseCanon,
					"const '"+decl.Name+"' is missing a type annotation").
					WithLocation(locOf(decl.SpanVal)))
			}
			if err := validateLetTyping(decl.Value); err != nil {
				return err
			}
			if err := validateMatchDiscipline(decl.Value); err != nil {
				return err
			}
		case *ast.FunctionDecl:
			if err := validateParamOrder(decl.Params, decl.SpanVal); err != nil {
				return err
			}
			if err := validateEffectOrder(decl.Effects, decl.SpanVal); err != nil {
				return err
			}
			if err := validateRecursion(decl); err != nil {
				return err
			}
			if err := validateLetTyping(decl.Body); err != nil {
				return err
			}
			if err := validateMatchDiscipline(decl.Body); err != nil {
				return err
			}
		case *ast.TestDecl:
			if err := validateEffectOrder(decl.Effects, decl.SpanVal); err != nil {
				return err
			}
			if err := validateLetTyping(decl.Body); err != nil {
				return err
			}
			if err := validateMatchDiscipline(decl.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

func locOf(span ast.Span) diag.Location {
	return diag.Location{
		File:      span.Start.File,
		Line:      span.Start.Line,
		Column:    span.Start.Column,
		Offset:    span.Start.Offset,
		EndLine:   span.End.Line,
		EndColumn: span.End.Column,
		EndOffset: span.End.Offset,
	}
}
