// Package graph builds the file-level dependency graph from per-file
// extraction results.
package graph

import (
	"github.com/skoglund/feature-scan/pkg/model"
)

// Build constructs a DependencyGraph from the scanned files and their
// extraction results. Construction is two flat passes: one node per
// file, then one edge per resolved internal reference. Both adjacency
// sides of an edge are updated in the same step, so no edge ever
// exists with only one side recorded, and cyclic imports are plain
// pairs of edges rather than a traversal hazard.
func Build(files []model.FileRecord, deps map[string]*model.Dependencies) *model.DependencyGraph {
	g := model.NewDependencyGraph()

	for _, f := range files {
		g.Nodes[f.RelPath] = &model.GraphNode{
			ID:           f.RelPath,
			Category:     f.Category,
			Dependencies: []string{},
			Dependents:   []string{},
		}
	}

	for _, f := range files {
		d, ok := deps[f.RelPath]
		if !ok || d == nil {
			continue
		}
		for _, dep := range d.Internal {
			if !dep.Resolved {
				continue
			}
			kind := model.EdgeImport
			if dep.Kind == model.RefDynamic {
				// Lazy route-level imports still join the graph as
				// route edges so migration ordering sees them.
				kind = model.EdgeRoute
			}
			addEdge(g, f.RelPath, dep.ResolvedPath, kind)
		}
	}

	return g
}

// addEdge inserts a directed edge and updates both endpoints' adjacency
// in the same step. Edges to files outside the node set (stale deps
// map entries) are dropped to keep the node-count invariant.
func addEdge(g *model.DependencyGraph, source, target string, kind model.EdgeKind) {
	src, ok := g.Nodes[source]
	if !ok {
		return
	}
	dst, ok := g.Nodes[target]
	if !ok {
		return
	}

	for _, existing := range src.Dependencies {
		if existing == target {
			return // one edge per (source, target) pair
		}
	}

	src.Dependencies = append(src.Dependencies, target)
	dst.Dependents = append(dst.Dependents, source)
	g.Edges = append(g.Edges, model.GraphEdge{Source: source, Target: target, Kind: kind})
}
