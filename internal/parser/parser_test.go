package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/lexer"
)

func parseSrc(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.New(src, "t.sigil").Tokenize()
	require.NoError(t, err, "lex error")
	prog, err := New(toks, "t.sigil").ParseProgram()
	require.NoError(t, err, "parse error")
	return prog
}

func TestParseFactorial(t *testing.T) {
	src := "λfactorial(n:ℤ)→ℤ≡n{0→1|1→1|n→n*factorial(n-1)}λmain()→ℤ=factorial(5)"
	prog := parseSrc(t, src)
	require.Len(t, prog.Decls, 2)

	fact, ok := prog.Decls[0].(*ast.FunctionDecl)
	require.True(t, ok, "decl 0 is %T, want *ast.FunctionDecl", prog.Decls[0])
	assert.Equal(t, "factorial", fact.Name)
	assert.Len(t, fact.Params, 1)

	m, ok := fact.Body.(*ast.Match)
	require.True(t, ok, "body is %T, want *ast.Match", fact.Body)
	assert.Len(t, m.Arms, 3)

	main, ok := prog.Decls[1].(*ast.FunctionDecl)
	require.True(t, ok, "decl 1 is %T, want *ast.FunctionDecl", prog.Decls[1])
	_, ok = main.Body.(*ast.App)
	assert.True(t, ok, "main body is %T, want *ast.App", main.Body)
}

func TestParseAccumulatorShapeStillParses(t *testing.T) {
	// Canonical-form rejection of this shape is internal/canon's job; the
	// parser must still accept it structurally.
	src := "λfactorial(acc:ℤ,n:ℤ)→ℤ≡n{0→acc|n→factorial(n*acc,n-1)}"
	prog := parseSrc(t, src)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	assert.Len(t, fn.Params, 2)
}

func TestParseImportAndMemberAccess(t *testing.T) {
	src := "i src⋅m;λmain()→ℤ=m⋅add(2,3)"
	prog := parseSrc(t, src)
	imp, ok := prog.Decls[0].(*ast.ImportDecl)
	require.True(t, ok, "decl 0 is %T, want *ast.ImportDecl", prog.Decls[0])
	assert.Equal(t, "src/m", imp.Path())

	main := prog.Decls[1].(*ast.FunctionDecl)
	app, ok := main.Body.(*ast.App)
	require.True(t, ok, "body is %T, want *ast.App", main.Body)
	_, ok = app.Fn.(*ast.MemberAccess)
	assert.True(t, ok, "callee is %T, want *ast.MemberAccess", app.Fn)
}

func TestParseExportedConstAndFunction(t *testing.T) {
	src := "export c limit=(100:ℤ);export λadd(a:ℤ,b:ℤ)→ℤ=a+b"
	prog := parseSrc(t, src)
	c := prog.Decls[0].(*ast.ConstDecl)
	assert.True(t, c.Exported)
	assert.Equal(t, "limit", c.Name)

	fn := prog.Decls[1].(*ast.FunctionDecl)
	assert.True(t, fn.Exported)
	assert.Equal(t, "add", fn.Name)
}

func TestParseSumTypeDecl(t *testing.T) {
	src := "t Option[a]≡{Some(a)|None};"
	prog := parseSrc(t, src)
	td := prog.Decls[0].(*ast.TypeDecl)
	sum, ok := td.Def.(*ast.SumType)
	require.True(t, ok, "def is %T, want *ast.SumType", td.Def)
	require.Len(t, sum.Variants, 2)
	assert.Equal(t, "Some", sum.Variants[0].Name)
}

func TestParseProductTypeDecl(t *testing.T) {
	src := "t Point≡{x:ℤ,y:ℤ};"
	prog := parseSrc(t, src)
	td := prog.Decls[0].(*ast.TypeDecl)
	prod, ok := td.Def.(*ast.ProductType)
	require.True(t, ok, "def is %T, want *ast.ProductType", td.Def)
	assert.Len(t, prod.Fields, 2)
}

func TestParseListPatternWithRest(t *testing.T) {
	src := "λf(xs:[ℤ])→ℤ≡xs{[]→0|[x⧺rest]→x}"
	prog := parseSrc(t, src)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	m := fn.Body.(*ast.Match)
	lp, ok := m.Arms[1].Pattern.(*ast.ListPattern)
	require.True(t, ok, "pattern is %T, want *ast.ListPattern", m.Arms[1].Pattern)
	assert.NotNil(t, lp.Rest, "expected a rest pattern bound by ⧺")
}

func TestParsePipelineAndTransforms(t *testing.T) {
	src := "λmain()→[ℤ]=[1,2,3]↦double⊳isEven⊕add⊕0|>wrap"
	prog := parseSrc(t, src)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	pipe, ok := fn.Body.(*ast.Pipeline)
	require.True(t, ok, "body is %T, want *ast.Pipeline", fn.Body)
	fold, ok := pipe.Left.(*ast.FoldExpr)
	require.True(t, ok, "pipeline left is %T, want *ast.FoldExpr", pipe.Left)
	filt, ok := fold.List.(*ast.FilterExpr)
	require.True(t, ok, "fold list is %T, want *ast.FilterExpr", fold.List)
	_, ok = filt.List.(*ast.MapExpr)
	assert.True(t, ok, "filter list is %T, want *ast.MapExpr", filt.List)
}

func TestParseWithMock(t *testing.T) {
	src := `λmain()→ℤ=with_mock("extern:stdlib/io.read",λ()→ℤ=42){read()}`
	prog := parseSrc(t, src)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	wm, ok := fn.Body.(*ast.WithMock)
	require.True(t, ok, "body is %T, want *ast.WithMock", fn.Body)
	assert.Equal(t, "extern:stdlib/io.read", wm.Key)
}

func TestParseBadNamespaceSeparatorIsDiagnostic(t *testing.T) {
	toks, err := lexer.New("i src.m;", "t.sigil").Tokenize()
	require.NoError(t, err, "lex error")
	_, perr := New(toks, "t.sigil").ParseProgram()
	d, ok := diag.AsDiagnostic(perr)
	require.True(t, ok)
	assert.Equal(t, diag.ParseBadNamespaceSep, d.Code)
}

func TestParseUntypedConstIsDiagnostic(t *testing.T) {
	toks, err := lexer.New("c limit=100;", "t.sigil").Tokenize()
	require.NoError(t, err, "lex error")
	_, perr := New(toks, "t.sigil").ParseProgram()
	d, ok := diag.AsDiagnostic(perr)
	require.True(t, ok)
	assert.Equal(t, diag.ParseBadConstSyntax, d.Code)
}

func TestParseIfExpression(t *testing.T) {
	src := "λmain()→ℤ=when a>b{a}|{b}"
	prog := parseSrc(t, src)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	ifExpr, ok := fn.Body.(*ast.If)
	require.True(t, ok, "body is %T, want *ast.If", fn.Body)
	assert.NotNil(t, ifExpr.Else, "expected an else branch")
}

func TestParseMutParam(t *testing.T) {
	src := "λset(mut x:ℤ)→𝕌=()"
	prog := parseSrc(t, src)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	assert.True(t, fn.Params[0].Mut, "expected param to be mut")
}
