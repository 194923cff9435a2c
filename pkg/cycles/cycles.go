// Package cycles detects circular import chains in a dependency graph.
package cycles

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/skoglund/feature-scan/pkg/model"
)

// ImportCycle is one group of files that import each other, directly
// or transitively.
type ImportCycle struct {
	Files []string `json:"files"`
}

// FindImportCycles mirrors the dependency graph into a gonum directed
// graph and returns every strongly connected component with more than
// one file. File lists are sorted so output is deterministic.
func FindImportCycles(g *model.DependencyGraph) []ImportCycle {
	if g == nil || len(g.Nodes) == 0 {
		return nil
	}

	dg := simple.NewDirectedGraph()
	idByPath := make(map[string]int64, len(g.Nodes))
	pathByID := make(map[int64]string, len(g.Nodes))

	paths := make([]string, 0, len(g.Nodes))
	for p := range g.Nodes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for i, p := range paths {
		id := int64(i)
		idByPath[p] = id
		pathByID[id] = p
		dg.AddNode(simple.Node(id))
	}

	for _, e := range g.Edges {
		from, okF := idByPath[e.Source]
		to, okT := idByPath[e.Target]
		if !okF || !okT || from == to {
			continue
		}
		dg.SetEdge(dg.NewEdge(simple.Node(from), simple.Node(to)))
	}

	sccs := newTarjan(dg).sccsOfSize2Plus()
	cycles := make([]ImportCycle, 0, len(sccs))
	for _, scc := range sccs {
		files := make([]string, 0, len(scc))
		for _, id := range scc {
			files = append(files, pathByID[id])
		}
		sort.Strings(files)
		cycles = append(cycles, ImportCycle{Files: files})
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i].Files[0] < cycles[j].Files[0] })
	return cycles
}
