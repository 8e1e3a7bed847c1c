package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSourceFile(t *testing.T, path, src string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}

func TestTokenizeReportsTokenCount(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.sigil")
	writeSourceFile(t, file, "λmain()→𝕌=()\n")

	env := Tokenize(file)
	require.True(t, env.OK, "expected ok envelope, got error: %+v", env.Error)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok, "expected map data, got %T", env.Data)
	assert.Equal(t, file, data["file"])
	summary, ok := data["summary"].(map[string]interface{})
	require.True(t, ok, "expected a summary map")
	assert.NotZero(t, summary["tokens"], "expected a non-zero token count")
}

func TestTokenizeMissingFileReturnsErrorEnvelope(t *testing.T) {
	env := Tokenize(filepath.Join(t.TempDir(), "missing.sigil"))
	assert.False(t, env.OK, "expected a failed envelope for a missing file")
	require.NotNil(t, env.Error, "expected a diagnostic on the failed envelope")
	assert.NotEmpty(t, env.Error.Code)
}

func TestParseReportsDeclarationCount(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.sigil")
	writeSourceFile(t, file, "λmain()→𝕌=()\n")

	env := Parse(file)
	require.True(t, env.OK, "expected ok envelope, got error: %+v", env.Error)
	data := env.Data.(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, 1, summary["declarations"])
	assert.NotNil(t, data["ast"])
}

func TestParseDoesNotEnforceCanonicalOrdering(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.sigil")
	// Non-canonical declaration order (an exported function after a
	// non-exported one) is a canon-form error, not a grammar error, so
	// Parse still succeeds here.
	writeSourceFile(t, file, "λmain()→𝕌=() export λhelper()→𝕌=()\n")

	env := Parse(file)
	assert.True(t, env.OK, "expected parse to succeed despite canonical-form ordering issues: %+v", env.Error)
}

func setupProject(t *testing.T) (root, entry string) {
	t.Helper()
	root = t.TempDir()
	writeSourceFile(t, filepath.Join(root, "sigil.yaml"), "name: demo\nsrc: src\ntests: tests\nout: .local\n")
	writeSourceFile(t, filepath.Join(root, "src", "util.sigil"), "export λdouble(x:ℤ)→ℤ=x+x\n")
	entry = filepath.Join(root, "src", "app.sigil")
	writeSourceFile(t, entry, "i src⋅util;λmain()→𝕌=l r=(util⋅double(21):ℤ);()\n")
	return root, entry
}

func TestCompileWritesEveryModuleInTheGraph(t *testing.T) {
	_, entry := setupProject(t)

	env := Compile(entry)
	require.True(t, env.OK, "expected ok envelope, got error: %+v", env.Error)
	data := env.Data.(map[string]interface{})
	outputs := data["outputs"].(map[string]interface{})
	rootTs := outputs["rootTs"].(string)
	_, err := os.Stat(rootTs)
	assert.NoError(t, err, "expected rootTs to be written to disk")

	allModules := outputs["allModules"].([]moduleOutput)
	assert.Len(t, allModules, 2, "expected both src/app and src/util to be generated")
	for _, m := range allModules {
		_, err := os.Stat(m.OutputFile)
		assert.NoError(t, err, "expected %s to exist on disk", m.OutputFile)
	}

	typecheck := data["typecheck"].(map[string]interface{})
	assert.Equal(t, true, typecheck["ok"])

	semanticMap := data["semanticMap"].(map[string]interface{})
	assert.Equal(t, false, semanticMap["generated"], "expected the semantic map hook to report ungenerated")
}

func TestCompileAndRunEmitsRunnerStub(t *testing.T) {
	_, entry := setupProject(t)

	env := CompileAndRun(entry)
	require.True(t, env.OK, "expected ok envelope, got error: %+v", env.Error)
	data := env.Data.(map[string]interface{})
	runnerPath := data["runner"].(string)
	contents, err := os.ReadFile(runnerPath)
	require.NoError(t, err, "expected the runner stub to exist")
	assert.Contains(t, string(contents), "await entry.main();", "expected the runner stub to await main()")
}

func TestCompileTestsCompilesEveryTestFile(t *testing.T) {
	root, _ := setupProject(t)
	writeSourceFile(t, filepath.Join(root, "tests", "util-double.sigil"),
		"λmain()→𝕌=()\ntest \"double doubles\" = 4==4;\n")

	env := CompileTests(root)
	require.True(t, env.OK, "expected ok envelope, got error: %+v", env.Error)
	data := env.Data.(map[string]interface{})
	files := data["files"].([]testFileCompile)
	require.Len(t, files, 1, "expected exactly one discovered test file")
	assert.True(t, files[0].OK, "expected the test file to compile, got error: %+v", files[0].Error)
}

func TestCompileTestsWithNoTestsDirSucceedsEmpty(t *testing.T) {
	root := t.TempDir()
	writeSourceFile(t, filepath.Join(root, "sigil.yaml"), "name: demo\nsrc: src\ntests: tests\nout: .local\n")
	writeSourceFile(t, filepath.Join(root, "src", "app.sigil"), "λmain()→𝕌=()\n")

	env := CompileTests(root)
	require.True(t, env.OK, "expected ok envelope even with no tests directory, got error: %+v", env.Error)
	data := env.Data.(map[string]interface{})
	assert.Empty(t, data["files"].([]testFileCompile), "expected no discovered test files")
}
