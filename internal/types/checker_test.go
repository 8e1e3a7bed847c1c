package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/lexer"
	"github.com/sigil-lang/sigilc/internal/parser"
)

func parseSrc(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.New(src, "t.sigil").Tokenize()
	require.NoError(t, err, "lex error")
	prog, err := parser.New(toks, "t.sigil").ParseProgram()
	require.NoError(t, err, "parse error")
	return prog
}

func checkSrc(t *testing.T, src string) error {
	t.Helper()
	prog := parseSrc(t, src)
	reg := NewTypeRegistry(prog)
	c := NewChecker(reg)
	return c.CheckProgram(prog)
}

func wantOK(t *testing.T, err error) {
	t.Helper()
	assert.NoError(t, err)
}

func wantCode(t *testing.T, err error, want string) {
	t.Helper()
	require.Error(t, err, "want code %s", want)
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok, "expected a diagnostic error, got %v", err)
	assert.Equal(t, want, d.Code)
}

func TestCheckProgramArithmeticOK(t *testing.T) {
	wantOK(t, checkSrc(t, "λadd(a:ℤ,b:ℤ)→ℤ=a+b"))
}

func TestCheckProgramUnboundName(t *testing.T) {
	err := checkSrc(t, "λf()→ℤ=y")
	wantCode(t, err, diag.TypeUnboundName)
}

func TestCheckProgramArityMismatch(t *testing.T) {
	err := checkSrc(t, "λadd(a:ℤ,b:ℤ)→ℤ=a+b λg()→ℤ=add(1)")
	wantCode(t, err, diag.TypeArityMismatch)
}

func TestCheckProgramReturnTypeMismatch(t *testing.T) {
	err := checkSrc(t, `λf()→ℤ="x"`)
	wantCode(t, err, diag.TypeMismatch)
}

func TestCheckProgramStringCoercionOK(t *testing.T) {
	wantOK(t, checkSrc(t, `λf()→𝕊="count:"+1`))
}

func TestCheckProgramBadCoercion(t *testing.T) {
	err := checkSrc(t, `λf()→𝔹=⊤+1`)
	wantCode(t, err, diag.TypeBadCoercion)
}

func TestCheckProgramIfUnitNoElseOK(t *testing.T) {
	wantOK(t, checkSrc(t, "λf()→𝕌=when ⊤{()}"))
}

func TestCheckProgramIfNoElseRequiresUnit(t *testing.T) {
	err := checkSrc(t, "λf()→ℤ=when ⊤{1}")
	wantCode(t, err, diag.TypeIfBranchMismatch)
}

func TestCheckProgramIfBranchMismatch(t *testing.T) {
	err := checkSrc(t, `λf()→ℤ=when ⊤{1}|{"x"}`)
	wantCode(t, err, diag.TypeIfBranchMismatch)
}

func TestCheckProgramMatchSumExhaustiveOK(t *testing.T) {
	src := "t Shape≡{Circle(ℝ)|Square(ℝ)};" +
		"λarea(s:Shape)→ℝ≡s{Circle(r)→r*r|Square(side)→side*side}"
	wantOK(t, checkSrc(t, src))
}

func TestCheckProgramMatchSumNonexhaustive(t *testing.T) {
	src := "t Shape≡{Circle(ℝ)|Square(ℝ)};" +
		"λarea(s:Shape)→ℝ≡s{Circle(r)→r*r}"
	err := checkSrc(t, src)
	wantCode(t, err, diag.TypeNonexhaustive)

	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	if diff := cmp.Diff([]string{"Square"}, d.Details); diff != "" {
		t.Errorf("missing-shapes details mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckProgramListPatternExhaustiveOK(t *testing.T) {
	src := "λlen(xs:[ℤ])→ℤ≡xs{[]→0|[x⧺rest]→1+len(rest)}"
	wantOK(t, checkSrc(t, src))
}

func TestCheckProgramListPatternNonexhaustive(t *testing.T) {
	src := "λlen(xs:[ℤ])→ℤ≡xs{[]→0}"
	err := checkSrc(t, src)
	wantCode(t, err, diag.TypeNonexhaustive)
}

func TestCheckProgramRecordLitOK(t *testing.T) {
	src := "t Point≡{x:ℤ,y:ℤ};λmk()→Point={x=1,y=2}"
	wantOK(t, checkSrc(t, src))
}

func TestCheckProgramRecordLitUnknownField(t *testing.T) {
	src := "t Point≡{x:ℤ,y:ℤ};λmk()→Point={x=1,y=2,z=3}"
	err := checkSrc(t, src)
	wantCode(t, err, diag.TypeFieldUnknown)
}

func TestCheckProgramRecordLitMissingField(t *testing.T) {
	src := "t Point≡{x:ℤ,y:ℤ};λmk()→Point={x=1}"
	err := checkSrc(t, src)
	wantCode(t, err, diag.TypeFieldUnknown)
}

func TestCheckProgramPipelineForwardOK(t *testing.T) {
	src := "λinc(n:ℤ)→ℤ=n+1 λf()→ℤ=1|>inc"
	wantOK(t, checkSrc(t, src))
}

func TestCheckProgramMapExprOK(t *testing.T) {
	src := "λf()→[ℤ]=[1,2,3]↦λ(x:ℤ)→ℤ=x+1"
	wantOK(t, checkSrc(t, src))
}

func TestCheckProgramFoldExprOK(t *testing.T) {
	src := "λf()→ℤ=[1,2,3]⊕(λ(acc:ℤ,x:ℤ)→ℤ=acc+x)⊕0"
	wantOK(t, checkSrc(t, src))
}

func TestCheckProgramIndexNotList(t *testing.T) {
	err := checkSrc(t, "λf()→ℤ=(1)[0]")
	wantCode(t, err, diag.TypeIndexNotList)
}

func TestCheckProgramWithMockArityMismatch(t *testing.T) {
	src := `e stdlib⋅io{read:λ()→ℤ};` +
		`λf()!io→ℤ=with_mock("stdlib/io.read", λ(x:ℤ)→ℤ=x){read()}`
	err := checkSrc(t, src)
	wantCode(t, err, diag.ExternArityMismatch)
}

func TestCheckProgramWithMockOK(t *testing.T) {
	src := `e stdlib⋅io{read:λ()→ℤ};` +
		`λf()!io→ℤ=with_mock("stdlib/io.read", λ()→ℤ=7){read()}`
	wantOK(t, checkSrc(t, src))
}

func TestEqualResolvesAlias(t *testing.T) {
	prog := parseSrc(t, "t Age≡ℤ;")
	reg := NewTypeRegistry(prog)
	assert.True(t, Equal(reg, &ast.NamedType{Name: "Age"}, &ast.PrimitiveType{Kind: ast.PrimInt}),
		"expected Age to resolve structurally equal to ℤ")
}

func TestQualifyRewritesLocalNamedType(t *testing.T) {
	prog := parseSrc(t, "t Point≡{x:ℤ,y:ℤ};")
	reg := NewTypeRegistry(prog)
	q := Qualify(reg, "src/shapes", &ast.ListType{Elem: &ast.NamedType{Name: "Point"}})
	lt, ok := q.(*ast.ListType)
	require.True(t, ok, "expected list type, got %T", q)
	qt, ok := lt.Elem.(*ast.QualifiedType)
	require.True(t, ok, "expected qualified type, got %#v", lt.Elem)
	assert.Equal(t, "src/shapes", qt.Module)
	assert.Equal(t, "Point", qt.Name)
}
