package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-lang/sigilc/internal/diag"
)

func TestValidateAcceptsCleanSource(t *testing.T) {
	src := "λmain()→𝕌≡()\n"
	assert.NoError(t, Validate([]byte(src), "main.sigil"))
}

func TestValidateRejectsTab(t *testing.T) {
	err := Validate([]byte("l\tx=1;\n"), "m.sigil")
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, diag.CanonSurfaceTab, d.Code)
}

func TestValidateRejectsCR(t *testing.T) {
	err := Validate([]byte("x\r\n"), "m.sigil")
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, diag.CanonSurfaceCRLF, d.Code)
}

func TestValidateRejectsTrailingWhitespace(t *testing.T) {
	err := Validate([]byte("x \n"), "m.sigil")
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, diag.CanonSurfaceTrailingWS, d.Code)
}

func TestValidateRejectsConsecutiveBlankLines(t *testing.T) {
	err := Validate([]byte("a\n\n\nb\n"), "m.sigil")
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, diag.CanonSurfaceBlankLines, d.Code)
}

func TestValidateRejectsMissingTerminalNewline(t *testing.T) {
	err := Validate([]byte("x=1"), "m.sigil")
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, diag.CanonSurfaceMissingNewline, d.Code)
}

func TestValidateFilenameRejectsUppercase(t *testing.T) {
	err := ValidateFilename("MyFile.sigil")
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, diag.CanonSurfaceFilename, d.Code)
}

func TestValidateFilenameRejectsUnderscore(t *testing.T) {
	assert.Error(t, ValidateFilename("my_file.sigil"), "expected error for underscore in filename")
}

func TestValidateFilenameRejectsEdgeHyphen(t *testing.T) {
	assert.Error(t, ValidateFilename("-my-file.sigil"), "expected error for leading hyphen")
	assert.Error(t, ValidateFilename("my-file-.sigil"), "expected error for trailing hyphen")
}

func TestValidateFilenameRejectsDoubleHyphen(t *testing.T) {
	assert.Error(t, ValidateFilename("my--file.sigil"), "expected error for consecutive hyphens")
}

func TestValidateFilenameAcceptsCanonical(t *testing.T) {
	assert.NoError(t, ValidateFilename("string-ops.sigil"))
}

func TestTestFileKind(t *testing.T) {
	assert.True(t, TestFileKind("tests/foo.sigil", "tests"), "expected tests/foo.sigil to be recognized as under tests/")
	assert.False(t, TestFileKind("src/foo.sigil", "tests"), "expected src/foo.sigil to not be recognized as under tests/")
}
