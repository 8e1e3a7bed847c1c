package codegen

import (
	"fmt"
	"strings"

	"github.com/sigil-lang/sigilc/internal/ast"
)

// emitMatch lowers a match expression to an immediately-invoked async
// function that tests each arm's pattern against the scrutinee in source
// order, binding pattern variables with const declarations before testing
// that arm's guard (if any), and throwing if every arm's pattern (the
// checker has already proven this unreachable for a checked program, so
// this is a safety net, not a real exit path) fails.
//
// Sum-type values are produced only by extern (foreign) code and consumed
// only through pattern matching — the grammar has no expression-level
// constructor syntax (see DESIGN.md) — so CtorPattern tests assume the
// conventional `{tag, args}` shape any extern bridge is expected to use.
func (g *generator) emitMatch(n *ast.Match) (string, error) {
	scrutinee, err := g.emitExpr(n.Scrutinee)
	if err != nil {
		return "", err
	}

	var body strings.Builder
	fmt.Fprintf(&body, "(await (async () => { const __scrutinee = %s;\n", scrutinee)
	for _, arm := range n.Arms {
		test, binds := patternTestAndBindings(arm.Pattern, "__scrutinee")
		armBody, err := g.emitExpr(arm.Body)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&body, "  if (%s) {\n", test)
		for _, b := range binds {
			fmt.Fprintf(&body, "    %s\n", b)
		}
		if arm.Guard != nil {
			guard, err := g.emitExpr(arm.Guard)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&body, "    if (%s) { return %s; }\n", guard, armBody)
		} else {
			fmt.Fprintf(&body, "    return %s;\n", armBody)
		}
		body.WriteString("  }\n")
	}
	body.WriteString("  throw new Error(\"no match\");\n})())")
	return body.String(), nil
}

// patternTestAndBindings returns a boolean test expression for whether the
// value reachable via path matches p, plus the const declarations needed
// to bind p's identifiers before the arm body (or guard) runs.
func patternTestAndBindings(p ast.Pattern, path string) (string, []string) {
	switch n := p.(type) {
	case *ast.IdentPattern:
		return "true", []string{fmt.Sprintf("const %s = %s;", n.Name, path)}

	case *ast.WildcardPattern:
		return "true", nil

	case *ast.LitPattern:
		return fmt.Sprintf("__sigilEq(%s, %s)", path, litPatternJS(n)), nil

	case *ast.CtorPattern:
		tests := []string{fmt.Sprintf("(%s != null)", path), fmt.Sprintf("%s.tag === %s", path, quoteString(n.Name))}
		var binds []string
		for i, sub := range n.Args {
			subPath := fmt.Sprintf("%s.args[%d]", path, i)
			t, b := patternTestAndBindings(sub, subPath)
			if t != "true" {
				tests = append(tests, t)
			}
			binds = append(binds, b...)
		}
		return joinTests(tests), binds

	case *ast.ListPattern:
		var tests []string
		if n.Rest == nil {
			tests = append(tests, fmt.Sprintf("Array.isArray(%s)", path), fmt.Sprintf("%s.length === %d", path, len(n.Elems)))
		} else {
			tests = append(tests, fmt.Sprintf("Array.isArray(%s)", path), fmt.Sprintf("%s.length >= %d", path, len(n.Elems)))
		}
		var binds []string
		for i, el := range n.Elems {
			subPath := fmt.Sprintf("%s[%d]", path, i)
			t, b := patternTestAndBindings(el, subPath)
			if t != "true" {
				tests = append(tests, t)
			}
			binds = append(binds, b...)
		}
		if n.Rest != nil {
			subPath := fmt.Sprintf("%s.slice(%d)", path, len(n.Elems))
			t, b := patternTestAndBindings(n.Rest, subPath)
			if t != "true" {
				tests = append(tests, t)
			}
			binds = append(binds, b...)
		}
		return joinTests(tests), binds

	case *ast.RecordPattern:
		var tests []string
		var binds []string
		for _, f := range n.Fields {
			subPath := fmt.Sprintf("%s.%s", path, f.Name)
			t, b := patternTestAndBindings(f.Pattern, subPath)
			if t != "true" {
				tests = append(tests, t)
			}
			binds = append(binds, b...)
		}
		return joinTests(tests), binds

	case *ast.TuplePattern:
		tests := []string{fmt.Sprintf("Array.isArray(%s)", path), fmt.Sprintf("%s.length === %d", path, len(n.Elems))}
		var binds []string
		for i, el := range n.Elems {
			subPath := fmt.Sprintf("%s[%d]", path, i)
			t, b := patternTestAndBindings(el, subPath)
			if t != "true" {
				tests = append(tests, t)
			}
			binds = append(binds, b...)
		}
		return joinTests(tests), binds

	default:
		return "false", nil
	}
}

func joinTests(tests []string) string {
	var kept []string
	for _, t := range tests {
		if t != "true" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return "true"
	}
	return strings.Join(kept, " && ")
}

func litPatternJS(n *ast.LitPattern) string {
	switch n.Kind {
	case ast.LitInt, ast.LitFloat:
		return fmt.Sprintf("%v", n.Value)
	case ast.LitString, ast.LitChar:
		return quoteString(fmt.Sprintf("%v", n.Value))
	case ast.LitBool:
		if b, ok := n.Value.(bool); ok && b {
			return "true"
		}
		return "false"
	case ast.LitUnit:
		return "undefined"
	default:
		return "undefined"
	}
}

// emitPatternTarget renders p as a JavaScript binding target for a `let`
// (destructuring assignment), since let patterns are always irrefutable by
// construction (the checker rejects a refutable let pattern).
func (g *generator) emitPatternTarget(p ast.Pattern) (string, error) {
	switch n := p.(type) {
	case *ast.IdentPattern:
		return n.Name, nil
	case *ast.WildcardPattern:
		return "_", nil
	case *ast.TuplePattern:
		parts := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			s, err := g.emitPatternTarget(el)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case *ast.ListPattern:
		parts := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			s, err := g.emitPatternTarget(el)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		if n.Rest != nil {
			rest, err := g.emitPatternTarget(n.Rest)
			if err != nil {
				return "", err
			}
			parts = append(parts, "..."+rest)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case *ast.RecordPattern:
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			s, err := g.emitPatternTarget(f.Pattern)
			if err != nil {
				return "", err
			}
			parts[i] = fmt.Sprintf("%s: %s", f.Name, s)
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	default:
		return "", unreachable(p.Span())
	}
}
