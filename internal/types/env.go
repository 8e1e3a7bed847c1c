// Package types implements the bidirectional type checker (C6, §4.6):
// synthesis (⇒) and checking (⇐) over the parsed tree, pattern
// exhaustiveness (§4.6.1), and cross-module type qualification (§4.6.2).
package types

import "github.com/sigil-lang/sigilc/internal/ast"

// Env maps names to types. A child environment adds bindings without
// mutating its parent (§4.6).
type Env struct {
	bindings map[string]ast.Type
	parent   *Env
}

// NewEnv returns an empty root environment.
func NewEnv() *Env {
	return &Env{bindings: map[string]ast.Type{}}
}

// Extend returns a new child environment with name bound to t. The
// receiver is left unmodified.
func (e *Env) Extend(name string, t ast.Type) *Env {
	return &Env{bindings: map[string]ast.Type{name: t}, parent: e}
}

// Lookup walks the environment chain for name.
func (e *Env) Lookup(name string) (ast.Type, bool) {
	for env := e; env != nil; env = env.parent {
		if t, ok := env.bindings[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// TypeRegistry maps a module's declared type names to their definitions,
// used to resolve NamedType references and to check structural equality
// of user-declared types (§4.6, §4.6.2).
type TypeRegistry struct {
	decls map[string]*ast.TypeDecl
}

// NewTypeRegistry builds a registry from a module's top-level type
// declarations.
func NewTypeRegistry(prog *ast.Program) *TypeRegistry {
	r := &TypeRegistry{decls: map[string]*ast.TypeDecl{}}
	for _, d := range prog.Decls {
		if td, ok := d.(*ast.TypeDecl); ok {
			r.decls[td.Name] = td
		}
	}
	return r
}

// Lookup returns the declaration for a locally-declared type name.
func (r *TypeRegistry) Lookup(name string) (*ast.TypeDecl, bool) {
	if r == nil {
		return nil, false
	}
	d, ok := r.decls[name]
	return d, ok
}

// Namespace is the exported value-level surface of an imported module: a
// record mapping exported names to their types.
type Namespace map[string]ast.Type
