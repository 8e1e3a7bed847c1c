package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-lang/sigilc/internal/diag"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := New(src, "t.sigil").Tokenize()
	require.NoError(t, err, "unexpected lex error")
	return toks
}

func tokenTypes(toks []Token) []TokenType {
	kinds := make([]TokenType, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Type
	}
	return kinds
}

func TestLexGlyphs(t *testing.T) {
	toks := scanAll(t, "λx:ℤ→ℤ↦x")
	want := []TokenType{LAMBDA, IDENT_LOWER, COLON, TY_INT, ARROW, TY_INT, MAPSTO, IDENT_LOWER, EOF}
	assert.Equal(t, want, tokenTypes(toks))
}

func TestLexArithmeticIsASCII(t *testing.T) {
	toks := scanAll(t, "n*acc")
	want := []TokenType{IDENT_LOWER, STAR, IDENT_LOWER, EOF}
	assert.Equal(t, want, tokenTypes(toks))
}

func TestLexComparisonGlyphs(t *testing.T) {
	toks := scanAll(t, "a≠b∧c≤d∨e≥f")
	want := []TokenType{IDENT_LOWER, NEQ, IDENT_LOWER, AND, IDENT_LOWER, LTE, IDENT_LOWER, OR, IDENT_LOWER, GTE, IDENT_LOWER, EOF}
	assert.Equal(t, want, tokenTypes(toks))
}

func TestLexPipelines(t *testing.T) {
	toks := scanAll(t, "xs |> f >> g << h")
	want := []TokenType{IDENT_LOWER, PIPE_FWD, IDENT_LOWER, COMPOSE, IDENT_LOWER, COMPOSE_REV, IDENT_LOWER, EOF}
	assert.Equal(t, want, tokenTypes(toks))
}

func TestLexNamespacedCall(t *testing.T) {
	toks := scanAll(t, "mod⋅Name")
	want := []TokenType{IDENT_LOWER, NSDOT, IDENT_UPPER, EOF}
	assert.Equal(t, want, tokenTypes(toks))
}

func TestLexStringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb\tc\\d\"e"`)
	require.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, "a\nb\tc\\d\"e", toks[0].Text)
}

func TestLexUnterminatedStringIsDiagnostic(t *testing.T) {
	_, err := New(`"abc`, "t.sigil").Tokenize()
	require.Error(t, err)
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, diag.LexUnterminatedString, d.Code)
}

func TestLexEmptyCharIsDiagnostic(t *testing.T) {
	_, err := New(`''`, "t.sigil").Tokenize()
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, diag.LexEmptyChar, d.Code)
}

func TestLexMultiCodepointCharIsDiagnostic(t *testing.T) {
	_, err := New(`'ab'`, "t.sigil").Tokenize()
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, diag.LexMultiCodepointChar, d.Code)
}

func TestLexUnknownEscapeIsDiagnostic(t *testing.T) {
	_, err := New(`"a\zb"`, "t.sigil").Tokenize()
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, diag.LexUnknownEscape, d.Code)
}

func TestLexNumbers(t *testing.T) {
	toks := scanAll(t, "42 3.14")
	assert.Equal(t, INT, toks[0].Type)
	assert.Equal(t, "42", toks[0].Text)
	assert.Equal(t, FLOAT, toks[1].Type)
	assert.Equal(t, "3.14", toks[1].Text)
}

func TestLexCommentStripped(t *testing.T) {
	toks := scanAll(t, "⟦ a comment ⟧x")
	assert.Equal(t, IDENT_LOWER, toks[0].Type, "expected comment to be fully stripped")
	assert.Equal(t, "x", toks[0].Text)
}

func TestLexNestedComment(t *testing.T) {
	toks := scanAll(t, "⟦ outer ⟦ inner ⟧ still outer ⟧x")
	assert.Equal(t, IDENT_LOWER, toks[0].Type, "expected nested comment to be fully stripped")
	assert.Equal(t, "x", toks[0].Text)
}

func TestLexUnterminatedCommentIsDiagnostic(t *testing.T) {
	_, err := New("⟦ never closes", "t.sigil").Tokenize()
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, diag.LexUnterminatedComment, d.Code)
}

func TestLexKeywords(t *testing.T) {
	toks := scanAll(t, "t i e l c mut mockable with_mock when test export")
	want := []TokenType{
		KW_TYPE, KW_IMPORT, KW_EXTERN, KW_LET, KW_CONST, KW_MUT,
		KW_MOCKABLE, KW_WITH_MOCK, KW_WHEN, KW_TEST, KW_EXPORT, EOF,
	}
	assert.Equal(t, want, tokenTypes(toks))
}

func TestLexBooleanLiterals(t *testing.T) {
	toks := scanAll(t, "true false ⊤ ⊥")
	want := []TokenType{TRUE, FALSE, TOPLIT, BOTLIT, EOF}
	assert.Equal(t, want, tokenTypes(toks))
}

func TestLexUnknownCodepointIsDiagnostic(t *testing.T) {
	_, err := New("x@y", "t.sigil").Tokenize()
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, diag.LexUnknownCodepoint, d.Code)
}

func TestLexUnderscoreWildcard(t *testing.T) {
	toks := scanAll(t, "_ foo_bar _x")
	assert.Equal(t, UNDERSCORE, toks[0].Type)
	assert.Equal(t, IDENT_LOWER, toks[1].Type)
	assert.Equal(t, "foo_bar", toks[1].Text)
	assert.Equal(t, IDENT_LOWER, toks[2].Type)
	assert.Equal(t, "_x", toks[2].Text)
}

func TestLexPositions(t *testing.T) {
	toks := scanAll(t, "a\nb")
	assert.Equal(t, 1, toks[0].Start.Line)
	assert.Equal(t, 2, toks[1].Start.Line)
}
