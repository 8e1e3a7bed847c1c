package module

import (
	"sort"
	"strings"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/iface"
	"github.com/sigil-lang/sigilc/internal/mutability"
	"github.com/sigil-lang/sigilc/internal/types"
)

// importAlias is the bare name an import's canonical id is referred to by
// at use sites (`m⋅add`): the last path segment. The grammar has no
// explicit import-aliasing syntax (internal/parser's parseNamespacePath),
// so this is the only binding a MemberAccess can resolve against.
func importAlias(canonicalID string) string {
	parts := strings.Split(canonicalID, "/")
	return parts[len(parts)-1]
}

// topoSort returns modules' canonical ids in dependency-first order, the
// check order §4.8 step 4 requires: every module appears after every
// module it imports. Grounded on the teacher's internal/link/topo.go
// TopoSortFromRoot — a DFS from root whose post-order visit list already
// is the topological order, with no separate reversal step needed, and an
// in-path set that reconstructs the exact cycle on failure. Unlike the
// teacher's version this has no leftover debug logging.
func topoSort(modules map[string]*Module, root string) ([]string, error) {
	visited := map[string]bool{}
	inPath := map[string]bool{}
	var order []string
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		if visited[id] {
			return nil
		}
		if inPath[id] {
			return cycleError(append(append([]string{}, path...), id))
		}
		inPath[id] = true
		path = append(path, id)

		mod := modules[id]
		deps := append([]string(nil), mod.Imports...)
		sort.Strings(deps)
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		inPath[id] = false
		visited[id] = true
		order = append(order, id)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	// Modules reachable only as siblings of root (none today, since Load's
	// DFS only follows root's own import edges, but kept for robustness
	// against a future multi-root entry point) are appended deterministically.
	var rest []string
	for id := range modules {
		if !visited[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// checkAll runs the type checker and the mutability checker over every
// module in g.Order, threading each module's exported namespace and type
// registry into the modules that import it (§4.6.2, §4.8 steps 5–6) before
// computing its interface digest.
func checkAll(g *Graph) error {
	for _, id := range g.Order {
		mod := g.Modules[id]
		mod.Types = types.NewTypeRegistry(mod.Program)
		checker := types.NewChecker(mod.Types)

		for _, depID := range mod.Imports {
			dep := g.Modules[depID]
			alias := importAlias(depID)
			checker.ImportedNamespaces[alias] = dep.Exports
			checker.ImportedTypeRegistries[alias] = dep.Types
		}

		if err := checker.CheckProgram(mod.Program); err != nil {
			return err
		}
		if err := mutability.NewChecker(mod.Program).CheckProgram(mod.Program); err != nil {
			return err
		}

		mod.Checker = checker
		mod.Exports = types.QualifyExports(mod.Types, mod.ID, mod.Program)
		mod.Iface = iface.Build(mod.ID, mod.Exports, exportedTypeNames(mod.Program))
	}
	return nil
}

func exportedTypeNames(prog *ast.Program) []string {
	var names []string
	for _, d := range prog.Decls {
		if td, ok := d.(*ast.TypeDecl); ok && td.Exported {
			names = append(names, td.Name)
		}
	}
	return names
}
