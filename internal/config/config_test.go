package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFindsMarkerInAncestor(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, markerFile), []byte("name: demo\nsrc: lib\n"), 0o644))
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	proj, err := Load(sub)
	require.NoError(t, err)
	assert.True(t, proj.HadMarker, "expected marker to be found")
	assert.Equal(t, "demo", proj.Name)
	assert.Equal(t, "lib", proj.Src)
	assert.Equal(t, "tests", proj.Tests, "expected defaults to survive partial marker")
	assert.Equal(t, ".local", proj.Out, "expected defaults to survive partial marker")
	assert.Equal(t, root, proj.Root)
}

func TestLoadFallsBackToAdHocProject(t *testing.T) {
	dir := t.TempDir()
	proj, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, proj.HadMarker, "expected no marker")
	assert.Equal(t, "src", proj.Src)
	assert.Equal(t, "tests", proj.Tests)
	assert.Equal(t, ".local", proj.Out)
}

func TestSrcDirJoinsRoot(t *testing.T) {
	proj := Project{Root: "/proj", Src: "src", Tests: "tests", Out: ".local"}
	assert.Equal(t, filepath.Join("/proj", "src"), proj.SrcDir())
	assert.Equal(t, filepath.Join("/proj", "stdlib"), proj.StdlibDir())
}
