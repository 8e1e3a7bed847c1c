package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-lang/sigilc/internal/canon"
	"github.com/sigil-lang/sigilc/internal/lexer"
	"github.com/sigil-lang/sigilc/internal/module"
	"github.com/sigil-lang/sigilc/internal/parser"
)

func parseModule(t *testing.T, id, src string, kind canon.FileKind) *module.Module {
	t.Helper()
	normalized := lexer.Normalize([]byte(src))
	toks, err := lexer.New(string(normalized), id+".sigil").Tokenize()
	require.NoError(t, err, "lex error")
	prog, err := parser.New(toks, id+".sigil").ParseProgram()
	require.NoError(t, err, "parse error")
	require.NoError(t, canon.Validate(prog, kind), "canon validate error")
	return &module.Module{ID: id, Program: prog}
}

func TestGenerateSimpleFunction(t *testing.T) {
	mod := parseModule(t, "src/app", "λmain()→𝕌=()", canon.FileExecutable)

	out, err := Generate(mod)
	require.NoError(t, err)
	assert.Contains(t, out, "async function main()", "expected an async main function")
	assert.Contains(t, out, "__mockRegistry", "expected the mock-registry preamble")
	assert.Contains(t, out, "export const __tests__ = [", "expected a test metadata list")
}

func TestGenerateImportsAreRelative(t *testing.T) {
	mod := parseModule(t, "src/app",
		"i src⋅m;λmain()→𝕌=l r=(m⋅add(2,3):ℤ);()", canon.FileExecutable)

	out, err := Generate(mod)
	require.NoError(t, err)
	assert.Contains(t, out, `import * as m from "./m";`, "expected a relative namespace import of m")
	assert.Contains(t, out, "m.add", "expected the namespace call m.add")
}

func TestGenerateMockableFunctionEmitsKey(t *testing.T) {
	mod := parseModule(t, "src/app",
		"mockable λgreet()→ℤ=1 λmain()→𝕌=l r=(greet():ℤ);()", canon.FileExecutable)

	out, err := Generate(mod)
	require.NoError(t, err)
	assert.Contains(t, out, `const __mockkey_greet = "fn:src/app:greet";`, "expected a mock key constant for greet")
	assert.Contains(t, out, `await call("fn:src/app:greet"`, "expected the call to greet to route through call()")
}

func TestGenerateTestDeclarationEmitsAssertionMetadata(t *testing.T) {
	mod := parseModule(t, "src/app_test",
		`λmain()→𝕌=() test "one equals one" = 1==1;`, canon.FileTest)

	out, err := Generate(mod)
	require.NoError(t, err)
	assert.Contains(t, out, "export async function __test_one_equals_one()", "expected a generated test function")
	assert.Contains(t, out, `kind: "comparison"`, "expected comparison assertion metadata")
	assert.Contains(t, out, `operator: "=="`, "expected the == operator recorded")
}

func TestGenerateWithMockChecksActualExternArity(t *testing.T) {
	mod := parseModule(t, "src/app",
		`e stdlib⋅io{read:λ()→ℤ};λmain()!io→𝕌=l r=(with_mock("stdlib/io.read", λ()→ℤ=7){read()}:ℤ);()`,
		canon.FileExecutable)

	out, err := Generate(mod)
	require.NoError(t, err)
	assert.Contains(t, out, `import * as __extern_stdlib_io from "../stdlib/io";`, "expected the extern import")
	assert.Contains(t, out, `await with_mock("extern:stdlib/io.read", `, "expected the runtime mock key")
	assert.Contains(t, out, `, __extern_stdlib_io.read, `, "expected the actual extern callable threaded through for the runtime arity check")
}

func TestRelativeSpecifierAcrossDirectories(t *testing.T) {
	assert.Equal(t, "./util/strings", RelativeSpecifier("src/app", "src/util/strings"))
	assert.Equal(t, "../other", RelativeSpecifier("src/pkg/app", "src/other"))
}
