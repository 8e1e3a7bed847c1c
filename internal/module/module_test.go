package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-lang/sigilc/internal/canon"
	"github.com/sigil-lang/sigilc/internal/config"
	"github.com/sigil-lang/sigilc/internal/diag"
)

func writeFile(t *testing.T, path, src string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}

func TestLoadSingleFileNoImports(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "app.sigil"), "λmain()→𝕌=()\n")

	proj := config.Project{Root: root, Src: "src", Tests: "tests", Out: ".local"}
	g, err := Load(proj, filepath.Join(root, "src", "app.sigil"))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app"}, g.Order)
	mod := g.Modules["src/app"]
	assert.Equal(t, canon.FileExecutable, mod.Kind, "expected root file to be classified executable")
}

func TestLoadThreadsExportsAcrossImport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "m.sigil"), "export λadd(a:ℤ,b:ℤ)→ℤ=a+b\n")
	writeFile(t, filepath.Join(root, "src", "app.sigil"), "i src⋅m;λmain()→𝕌=l r=(m⋅add(2,3):ℤ);()\n")

	proj := config.Project{Root: root, Src: "src", Tests: "tests", Out: ".local"}
	g, err := Load(proj, filepath.Join(root, "src", "app.sigil"))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/m", "src/app"}, g.Order, "expected m before app in topo order")
	mIface := g.Modules["src/m"].Iface
	require.NotNil(t, mIface, "expected src/m to have a computed interface")
	assert.NotEmpty(t, mIface.Digest)
}

func TestLoadDetectsImportCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.sigil"), "i src⋅b;λmain()→𝕌=()\n")
	writeFile(t, filepath.Join(root, "src", "b.sigil"), "i src⋅a;export λnoop()→𝕌=()\n")

	proj := config.Project{Root: root, Src: "src", Tests: "tests", Out: ".local"}
	_, err := Load(proj, filepath.Join(root, "src", "a.sigil"))
	require.Error(t, err, "expected a cycle error")
	d, ok := diag.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, diag.CLIImportCycle, d.Code)
}

func TestCanonicalIDStripsRootAndExtension(t *testing.T) {
	proj := config.Project{Root: "/proj", Src: "src", Tests: "tests", Out: ".local"}
	got := CanonicalID(proj, "/proj/src/foo/bar.sigil")
	assert.Equal(t, "src/foo/bar", got)
}
