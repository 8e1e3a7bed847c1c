package codegen

import (
	"fmt"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/schema"
)

// emitTestMetadata emits the module-level test metadata list (§4.9): one
// entry per test declaration naming its generated function, source
// location, declared effects, and — when the body is a top-level binary
// comparison — enough detail for an external runner to render a diff
// without re-parsing the source.
func (g *generator) emitTestMetadata(prog *ast.Program) {
	var entries []string
	for i, d := range prog.Decls {
		test, ok := d.(*ast.TestDecl)
		if !ok {
			continue
		}
		id := fmt.Sprintf("%s:%d", g.moduleID, i)
		entry := fmt.Sprintf(
			"{id: %s, name: %s, fn: %s, location: %s, declaredEffects: %s, assertion: %s}",
			quoteString(id),
			quoteString(test.Description),
			testFnName(test),
			spanJS(test.SpanVal),
			stringListJS(test.Effects),
			assertionJS(test.Body),
		)
		entries = append(entries, entry)
	}

	fmt.Fprintf(&g.buf, "export const __tests__ = [\n")
	for _, e := range entries {
		fmt.Fprintf(&g.buf, "  %s,\n", e)
	}
	fmt.Fprintf(&g.buf, "];\n")
	fmt.Fprintf(&g.buf, "export const __testSchemaVersion = %s;\n", quoteString(schema.TestV1))
}

func spanJS(s ast.Span) string {
	return fmt.Sprintf(
		"{file: %s, line: %d, column: %d, offset: %d, endLine: %d, endColumn: %d, endOffset: %d}",
		quoteString(s.Start.File), s.Start.Line, s.Start.Column, s.Start.Offset,
		s.End.Line, s.End.Column, s.End.Offset,
	)
}

func stringListJS(ss []string) string {
	out := "["
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += quoteString(s)
	}
	return out + "]"
}

// assertionJS captures comparison metadata when body is a top-level binary
// comparison, and null otherwise.
func assertionJS(body ast.Expr) string {
	bin, ok := body.(*ast.Binary)
	if !ok {
		return "null"
	}
	op, ok := comparisonOperator(bin.Op)
	if !ok {
		return "null"
	}
	return fmt.Sprintf(
		"{kind: %s, operator: %s, leftSpan: %s, rightSpan: %s}",
		quoteString("comparison"), quoteString(op), spanJS(bin.Left.Span()), spanJS(bin.Right.Span()),
	)
}

func comparisonOperator(op ast.BinOp) (string, bool) {
	switch op {
	case ast.OpEq:
		return "==", true
	case ast.OpNeq:
		return "!=", true
	case ast.OpLt:
		return "<", true
	case ast.OpLte:
		return "<=", true
	case ast.OpGt:
		return ">", true
	case ast.OpGte:
		return ">=", true
	default:
		return "", false
	}
}
