package iface

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/types"
)

func TestBuildIsDeterministic(t *testing.T) {
	ns := types.Namespace{
		"inc": &ast.FuncType{Params: []ast.Type{&ast.PrimitiveType{Kind: ast.PrimInt}}, Result: &ast.PrimitiveType{Kind: ast.PrimInt}},
	}
	a := Build("src/math", ns, []string{"Age"})
	b := Build("src/math", ns, []string{"Age"})
	assert.NotEmpty(t, a.Digest)
	assert.Equal(t, a.Digest, b.Digest, "expected identical inputs to produce identical digests")
}

func TestBuildDigestChangesWithExports(t *testing.T) {
	a := Build("src/math", types.Namespace{"inc": &ast.PrimitiveType{Kind: ast.PrimInt}}, nil)
	b := Build("src/math", types.Namespace{"dec": &ast.PrimitiveType{Kind: ast.PrimInt}}, nil)
	assert.NotEqual(t, a.Digest, b.Digest, "expected different exports to produce different digests")
}

func TestBuildSortsTypeNames(t *testing.T) {
	i := Build("src/math", types.Namespace{}, []string{"Zebra", "Age"})
	assert.Equal(t, []string{"Age", "Zebra"}, i.Types)
}
