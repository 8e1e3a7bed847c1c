// Package iface builds and digests a module's interface: the exported
// value- and type-level names the module graph (§4.8) threads into
// dependent modules' checkers, and a deterministic content digest
// (supplemented feature 1; grounded on the teacher's internal/iface.go
// Digest field) so a downstream tool can detect when a re-check would be
// unnecessary. Nothing in this compiler skips work based on the digest —
// the spec's Non-goal on incremental recompilation means it is only
// computed and reported (§4, item 1 of SPEC_FULL.md).
package iface

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/sigil-lang/sigilc/internal/schema"
	"github.com/sigil-lang/sigilc/internal/types"
)

// Iface is a module's interface as seen from a dependent module: its
// exported value namespace, its exported type registry, and a digest of
// both.
type Iface struct {
	Module  string
	Exports types.Namespace
	Types   []string // exported type names, sorted
	Schema  string
	Digest  string
}

// Build computes the Iface for modulePath from the namespace QualifyExports
// produced (internal/types) and the exported type names TypeRegistry
// already knows about.
func Build(modulePath string, exports types.Namespace, exportedTypes []string) *Iface {
	sorted := append([]string(nil), exportedTypes...)
	sort.Strings(sorted)
	i := &Iface{
		Module:  modulePath,
		Exports: exports,
		Types:   sorted,
		Schema:  schema.IfaceV1,
	}
	i.Digest = computeDigest(i)
	return i
}

// normalized is the deterministic, sorted shape an Iface serialises to for
// digesting: map iteration order is not stable, so every field is
// flattened into sorted slices first (mirrors the teacher's
// ToNormalizedJSON sort-everything discipline).
type normalizedExport struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type normalized struct {
	Module  string             `json:"module"`
	Schema  string             `json:"schema"`
	Exports []normalizedExport `json:"exports"`
	Types   []string           `json:"types"`
}

func (i *Iface) normalize() normalized {
	names := make([]string, 0, len(i.Exports))
	for name := range i.Exports {
		names = append(names, name)
	}
	sort.Strings(names)
	exports := make([]normalizedExport, 0, len(names))
	for _, name := range names {
		exports = append(exports, normalizedExport{Name: name, Type: types.String(i.Exports[name])})
	}
	return normalized{Module: i.Module, Schema: i.Schema, Exports: exports, Types: i.Types}
}

func computeDigest(i *Iface) string {
	data, err := schema.MarshalDeterministic(i.normalize())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
