package canon

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

func wantCode(t *testing.T, err error, want string) {
	t.Helper()
	require.Error(t, err, "want code %s", want)
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok, "expected a diagnostic error, got %v", err)
	assert.Equal(t, want, d.Code)
}

func TestValidateOrderCategoryViolation(t *testing.T) {
	prog := parseSrc(t, "λmain()→𝕌=();i src⋅m;")
	err := Validate(prog, FileExecutable)
	wantCode(t, err, diag.CanonOrderCategory)
}

func TestValidateOrderAlphaViolation(t *testing.T) {
	prog := parseSrc(t, "λzebra()→𝕌=()λapple()→𝕌=()")
	err := Validate(prog, FileLibrary)
	wantCode(t, err, diag.CanonOrderAlpha)
}

func TestValidateOrderExportViolation(t *testing.T) {
	prog := parseSrc(t, "λapple()→𝕌=()export λzebra()→𝕌=()")
	err := Validate(prog, FileLibrary)
	wantCode(t, err, diag.CanonOrderExport)
}

func TestValidateUniquenessDuplicateFunction(t *testing.T) {
	prog := parseSrc(t, "λadd(a:ℤ,b:ℤ)→ℤ=a+b λadd(c:ℤ,d:ℤ)→ℤ=c+d")
	err := Validate(prog, FileLibrary)
	wantCode(t, err, diag.CanonDupDecl)
}

func TestValidateUniquenessDuplicateImport(t *testing.T) {
	prog := parseSrc(t, "i src⋅m;i src⋅m;")
	err := Validate(prog, FileLibrary)
	wantCode(t, err, diag.CanonDupImport)
}

func TestValidateFileKindMainMissing(t *testing.T) {
	prog := parseSrc(t, "λadd(a:ℤ,b:ℤ)→ℤ=a+b")
	err := Validate(prog, FileExecutable)
	wantCode(t, err, diag.CanonFilekindMainMissing)
}

func TestValidateFileKindMainForbidden(t *testing.T) {
	prog := parseSrc(t, "λmain()→𝕌=()")
	err := Validate(prog, FileLibrary)
	wantCode(t, err, diag.CanonFilekindMainForbidden)
}

func TestValidateFileKindExecutableOK(t *testing.T) {
	prog := parseSrc(t, "λmain()→𝕌=()")
	assert.NoError(t, Validate(prog, FileExecutable))
}

func TestValidateTestPlacementOutsideTestsDir(t *testing.T) {
	prog := parseSrc(t, `λmain()→𝕌=();test "it adds"=1;`)
	err := Validate(prog, FileExecutable)
	wantCode(t, err, diag.CanonTestPlacement)
}

func TestValidateTestPlacementInsideTestsDirOK(t *testing.T) {
	prog := parseSrc(t, `λmain()→𝕌=();test "it adds"=1;`)
	assert.NoError(t, Validate(prog, FileTest))
}

func TestValidateExternMemberOrder(t *testing.T) {
	prog := parseSrc(t, "e stdlib⋅io{zread:ℤ,aread:ℤ};")
	err := Validate(prog, FileLibrary)
	wantCode(t, err, diag.CanonDupExternMember)
}

func TestValidateParamOrderViolation(t *testing.T) {
	prog := parseSrc(t, "λf(z:ℤ,a:ℤ)→ℤ=z+a")
	err := Validate(prog, FileLibrary)
	wantCode(t, err, diag.CanonParamOrder)
}

func TestValidateEffectOrderViolation(t *testing.T) {
	prog := parseSrc(t, "λf()!zeta,alpha→ℤ=1")
	err := Validate(prog, FileLibrary)
	wantCode(t, err, diag.CanonEffectOrder)
}

func TestValidateLetUntypedIsCaughtAsBackstop(t *testing.T) {
	// Construct a Let node by hand: the parser itself enforces the
	// annotation, so canon's backstop is exercised directly here.
	fn := &ast.FunctionDecl{
		Name: "f",
		Body: &ast.Let{
			Pattern: &ast.IdentPattern{Name: "x"},
			TypeAnn: nil,
			Value:   &ast.Literal{Kind: ast.LitInt, Value: int64(1)},
			Body:    &ast.Ident{Name: "x"},
		},
		ReturnType: &ast.PrimitiveType{Kind: ast.PrimInt},
	}
	err := validateLetTyping(fn.Body)
	wantCode(t, err, diag.CanonLetUntyped)
}

func TestValidateRecursionAccumulatorRejected(t *testing.T) {
	prog := parseSrc(t, "λfactorial(acc:ℤ,n:ℤ)→ℤ≡n{0→acc|n→factorial(n*acc,n-1)}")
	fn := prog.Decls[0].(*ast.FunctionDecl)
	err := validateRecursion(fn)
	wantCode(t, err, diag.CanonRecursionAccumulator)

	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	want := []paramRole{
		{Param: "acc", Role: "accumulator"},
		{Param: "n", Role: "structural"},
	}
	if diff := cmp.Diff(want, d.Details); diff != "" {
		t.Errorf("parameter-role table mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRecursionStructuralAllowed(t *testing.T) {
	prog := parseSrc(t, "λfactorial(n:ℤ)→ℤ≡n{0→1|1→1|n→n*factorial(n-1)}")
	fn := prog.Decls[0].(*ast.FunctionDecl)
	assert.NoError(t, validateRecursion(fn))
}

func TestValidateRecursionCPSRejected(t *testing.T) {
	fn := &ast.FunctionDecl{
		Name:       "f",
		Params:     []ast.Param{{Name: "n", Type: &ast.PrimitiveType{Kind: ast.PrimInt}}},
		ReturnType: &ast.FuncType{Params: []ast.Type{&ast.PrimitiveType{Kind: ast.PrimInt}}, Result: &ast.PrimitiveType{Kind: ast.PrimInt}},
		Body: &ast.App{
			Fn:   &ast.Ident{Name: "f"},
			Args: []ast.Expr{&ast.Ident{Name: "n"}},
		},
	}
	err := validateRecursion(fn)
	wantCode(t, err, diag.CanonRecursionCPS)
}

func TestValidateMatchBooleanScrutineeRejected(t *testing.T) {
	src := "λf(a:ℤ,b:ℤ)→ℤ≡a>b{⊤→1|⊥→0}"
	prog := parseSrc(t, src)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	err := validateMatchDiscipline(fn.Body)
	wantCode(t, err, diag.CanonMatchBoolean)
}

func TestValidateMatchDuplicateArmRejected(t *testing.T) {
	src := "λf(n:ℤ)→ℤ≡n{0→1|0→2|n→n}"
	prog := parseSrc(t, src)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	err := validateMatchDiscipline(fn.Body)
	wantCode(t, err, diag.CanonMatchDupArm)
}

func TestValidateMatchConsecutiveWildcardsRejected(t *testing.T) {
	src := "λf(xs:[ℤ])→ℤ≡xs{[_,_]→0|[x⧺rest]→x}"
	prog := parseSrc(t, src)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	err := validateMatchDiscipline(fn.Body)
	wantCode(t, err, diag.CanonMatchDupWildcard)
}

func TestValidateCleanProgramPasses(t *testing.T) {
	src := "λfactorial(n:ℤ)→ℤ≡n{0→1|1→1|n→n*factorial(n-1)}λmain()→𝕌=()"
	prog := parseSrc(t, src)
	assert.NoError(t, Validate(prog, FileExecutable))
}
