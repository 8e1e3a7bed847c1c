// Package codegen implements the code generator (C9, §4.9): deterministic
// text emission of a checked module to a TypeScript-shaped scripting
// target with first-class functions, async, and object literals. Every
// user-defined function becomes async; every application awaits its
// callee; pattern matches lower to immediately-invoked async expressions;
// map/filter/fold lower to sequential, order-preserving helpers in the
// per-module preamble alongside the mock registry.
//
// Grounded on no direct teacher analogue (the teacher interprets via
// internal/eval rather than emitting text); the determinism discipline —
// build the whole document with a single strings.Builder, no map
// iteration without an explicit sort — follows internal/ast/print.go's
// discipline for PrintProgram.
package codegen

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/module"
)

// generator carries the per-module context emission needs: the module's
// own canonical id (for mockable-function key computation), its extern
// member bindings (bare name -> "path.member", for extern mock keys), and
// its import aliases (bare name -> imported module id, for import
// specifier lowering).
type generator struct {
	moduleID  string
	externs   map[string]string // bare member name -> "path.member"
	mockable  map[string]bool   // bare function name -> true
	importIDs map[string]string // alias ("m") -> canonical id ("src/m")
	buf       strings.Builder
}

// Generate emits mod's program as TypeScript-shaped text. Import
// specifiers are computed from mod's canonical id and each imported
// module's canonical id, relative to mod's own generated location (§4.9
// Import lowering, §6.6 generated output layout mirrors the source tree
// one-for-one).
func Generate(mod *module.Module) (string, error) {
	g := &generator{
		moduleID:  mod.ID,
		externs:   map[string]string{},
		mockable:  map[string]bool{},
		importIDs: map[string]string{},
	}
	for _, d := range mod.Program.Decls {
		switch decl := d.(type) {
		case *ast.ExternDecl:
			for _, m := range decl.Members {
				g.externs[m.Name] = decl.Path() + "." + m.Name
			}
		case *ast.FunctionDecl:
			if decl.Mockable {
				g.mockable[decl.Name] = true
			}
		case *ast.ImportDecl:
			g.importIDs[importAlias(decl.Path())] = decl.Path()
		}
	}

	g.writeImports(mod.Program)
	g.buf.WriteString(preamble)

	for _, d := range mod.Program.Decls {
		switch decl := d.(type) {
		case *ast.ConstDecl:
			if err := g.emitConst(decl); err != nil {
				return "", err
			}
		case *ast.FunctionDecl:
			if err := g.emitFunction(decl); err != nil {
				return "", err
			}
		case *ast.TestDecl:
			if err := g.emitTest(decl); err != nil {
				return "", err
			}
		}
	}

	g.emitTestMetadata(mod.Program)
	return g.buf.String(), nil
}

func importAlias(canonicalID string) string {
	parts := strings.Split(canonicalID, "/")
	return parts[len(parts)-1]
}

// writeImports emits one ES namespace import per `i src/…`/`i stdlib/…`
// declaration and one per distinct extern path, with specifiers computed
// relative to this module's own generated location (both trees mirror
// their canonical ids one-for-one, so the relative path between two
// generated files is the relative path between their canonical ids).
func (g *generator) writeImports(prog *ast.Program) {
	var externPaths []string
	seen := map[string]bool{}
	for _, d := range prog.Decls {
		if ext, ok := d.(*ast.ExternDecl); ok {
			p := ext.Path()
			if !seen[p] {
				seen[p] = true
				externPaths = append(externPaths, p)
			}
		}
	}
	sort.Strings(externPaths)

	var aliases []string
	for alias := range g.importIDs {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	for _, alias := range aliases {
		spec := RelativeSpecifier(g.moduleID, g.importIDs[alias])
		fmt.Fprintf(&g.buf, "import * as %s from %q;\n", alias, spec)
	}
	for _, p := range externPaths {
		spec := RelativeSpecifier(g.moduleID, p)
		fmt.Fprintf(&g.buf, "import * as %s from %q;\n", externAlias(p), spec)
	}
	if len(aliases) > 0 || len(externPaths) > 0 {
		g.buf.WriteString("\n")
	}
}

func externAlias(externPath string) string {
	return "__extern_" + strings.ReplaceAll(externPath, "/", "_")
}

// emitExternRef resolves a with_mock surface key ("path.member", the same
// form internal/types.Checker.Externs is keyed by) to the JS expression
// referencing the actual bound extern function, so with_mock's runtime
// arity check (§4.9) compares the replacement against the real callable
// rather than only a previously installed mock.
func (g *generator) emitExternRef(surfaceKey string, span ast.Span) (string, error) {
	idx := strings.LastIndex(surfaceKey, ".")
	if idx < 0 {
		return "", unreachable(span)
	}
	path, member := surfaceKey[:idx], surfaceKey[idx+1:]
	return externAlias(path) + "." + member, nil
}

// RelativeSpecifier computes the module specifier fromID's generated file
// uses to import toID's generated file, given both trees mirror their
// canonical ids one-for-one under the project's out directory.
func RelativeSpecifier(fromID, toID string) string {
	fromDir := path.Dir(fromID)
	rel, err := relPath(fromDir, toID)
	if err != nil {
		rel = "./" + toID
	}
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// relPath is a minimal '/'-separated relative-path computation (no
// filesystem access; canonical ids are already '/'-joined logical paths,
// never OS paths).
func relPath(from, to string) (string, error) {
	fromParts := splitClean(from)
	toParts := splitClean(to)

	i := 0
	for i < len(fromParts) && i < len(toParts) && fromParts[i] == toParts[i] {
		i++
	}
	var up []string
	for range fromParts[i:] {
		up = append(up, "..")
	}
	rel := append(up, toParts[i:]...)
	if len(rel) == 0 {
		return ".", nil
	}
	return strings.Join(rel, "/"), nil
}

func splitClean(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part != "" && part != "." {
			out = append(out, part)
		}
	}
	return out
}

func (g *generator) emitConst(decl *ast.ConstDecl) error {
	val, err := g.emitExpr(decl.Value)
	if err != nil {
		return err
	}
	export := ""
	if decl.Exported {
		export = "export "
	}
	fmt.Fprintf(&g.buf, "%sconst %s = %s;\n", export, decl.Name, val)
	return nil
}

func (g *generator) emitFunction(decl *ast.FunctionDecl) error {
	body, err := g.emitExpr(decl.Body)
	if err != nil {
		return err
	}
	export := ""
	if decl.Exported {
		export = "export "
	}
	names := make([]string, len(decl.Params))
	for i, p := range decl.Params {
		names[i] = p.Name
	}
	fmt.Fprintf(&g.buf, "%sasync function %s(%s) {\n  return %s;\n}\n", export, decl.Name, strings.Join(names, ", "), body)

	if decl.Mockable {
		key := mockableKey(g.moduleID, decl.Name)
		fmt.Fprintf(&g.buf, "const __mockkey_%s = %q;\n", decl.Name, key)
	}
	return nil
}

func mockableKey(moduleID, name string) string {
	return "fn:" + moduleID + ":" + name
}

// runtimeExternKey bridges the surface with_mock key (validated by
// internal/types against the bare "path.member" Externs map) to the
// spec'd runtime mock-registry key shape, `extern:<path>.<member>`.
func runtimeExternKey(surfaceKey string) string {
	return "extern:" + surfaceKey
}

func (g *generator) emitTest(decl *ast.TestDecl) error {
	body, err := g.emitExpr(decl.Body)
	if err != nil {
		return err
	}
	fmt.Fprintf(&g.buf, "export async function %s() {\n  return %s;\n}\n", testFnName(decl), body)
	return nil
}

func testFnName(decl *ast.TestDecl) string {
	return "__test_" + sanitizeIdent(decl.Description)
}

func sanitizeIdent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func unreachable(span ast.Span) error {
	return diag.Wrap(diag.New(diag.CodegenUnreachable, diag.PhaseCodegen,
		"codegen encountered a node the checker should have ruled out").
		WithLocation(diag.Location{
			File: span.Start.File, Line: span.Start.Line, Column: span.Start.Column, Offset: span.Start.Offset,
			EndLine: span.End.Line, EndColumn: span.End.Column, EndOffset: span.End.Offset,
		}))
}

func quoteString(s string) string {
	return strconv.Quote(s)
}
