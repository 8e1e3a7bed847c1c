package mutability

import (
	"testing"

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
	return NewChecker(prog).CheckProgram(prog)
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

func TestCheckProgramPlainParamsOK(t *testing.T) {
	wantOK(t, checkSrc(t, "λadd(a:ℤ,b:ℤ)→ℤ=a+b"))
}

func TestCheckProgramMutParamPassedToMutOK(t *testing.T) {
	src := "λbump(mut n:ℤ)→ℤ=n+1 λf(mut x:ℤ)→ℤ=bump(x)"
	wantOK(t, checkSrc(t, src))
}

func TestCheckProgramMutParamPassedToNonMut(t *testing.T) {
	src := "λread(n:ℤ)→ℤ=n+1 λf(mut x:ℤ)→ℤ=read(x)"
	err := checkSrc(t, src)
	wantCode(t, err, diag.MutabilityParamAlias)
}

func TestCheckProgramMutAliasedTwice(t *testing.T) {
	src := "λboth(mut a:ℤ,mut b:ℤ)→ℤ=a+b λf(mut x:ℤ)→ℤ=both(x,x)"
	err := checkSrc(t, src)
	wantCode(t, err, diag.MutabilityAlias)
}

func TestCheckProgramCaptureEscapeInList(t *testing.T) {
	src := "λf(mut x:ℤ)→[λ()→ℤ]=[λ()→ℤ=x]"
	err := checkSrc(t, src)
	wantCode(t, err, diag.MutabilityCaptureEscape)
}

func TestCheckProgramCaptureAppliedInlineOK(t *testing.T) {
	src := "λf(mut x:ℤ)→ℤ=([1,2,3]↦(λ(y:ℤ)→ℤ=x+y))|>(λ(xs:[ℤ])→ℤ=#xs)"
	wantOK(t, checkSrc(t, src))
}

func TestCheckProgramCaptureShadowedByLambdaParamOK(t *testing.T) {
	src := "λf(mut x:ℤ)→[λ(ℤ)→ℤ]=[λ(x:ℤ)→ℤ=x]"
	wantOK(t, checkSrc(t, src))
}

func TestCheckProgramCaptureReturnedEscapes(t *testing.T) {
	src := "λf(mut x:ℤ)→λ()→ℤ=λ()→ℤ=x"
	err := checkSrc(t, src)
	wantCode(t, err, diag.MutabilityCaptureEscape)
}
