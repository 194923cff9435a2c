package model

import (
	"encoding/json"
	"sort"
)

// EdgeKind is the type of relationship an edge represents.
type EdgeKind string

const (
	EdgeImport EdgeKind = "import"
	EdgeRoute  EdgeKind = "route"
	EdgeAPI    EdgeKind = "api"
)

// GraphNode is a vertex in the dependency graph, one per scanned file.
// Dependencies and Dependents are kept in sync: for every edge A->B,
// B is in A.Dependencies and A is in B.Dependents.
type GraphNode struct {
	ID           string   `json:"id"` // relative path
	Category     string   `json:"category"`
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
}

// GraphEdge is a directed connection between two files.
type GraphEdge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
}

// DependencyGraph holds the full file-level graph. Node count always
// equals the scanned-file count.
type DependencyGraph struct {
	Nodes map[string]*GraphNode
	Edges []GraphEdge
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		Nodes: make(map[string]*GraphNode),
		Edges: make([]GraphEdge, 0),
	}
}

// wireNode is the persisted form of a node: the map key is flattened
// into the object so nodes serialize as an array. Existing diff
// tooling depends on this exact shape.
type wireNode struct {
	Key          string   `json:"key"`
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
}

type wireGraph struct {
	Nodes []wireNode  `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// MarshalJSON flattens the node map into a key-sorted array so two
// runs over the same tree serialize identically.
func (g *DependencyGraph) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(g.Nodes))
	for k := range g.Nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	wire := wireGraph{
		Nodes: make([]wireNode, 0, len(keys)),
		Edges: g.Edges,
	}
	if wire.Edges == nil {
		wire.Edges = []GraphEdge{}
	}
	for _, k := range keys {
		n := g.Nodes[k]
		wire.Nodes = append(wire.Nodes, wireNode{
			Key:          k,
			ID:           n.ID,
			Category:     n.Category,
			Dependencies: emptyIfNil(n.Dependencies),
			Dependents:   emptyIfNil(n.Dependents),
		})
	}
	return json.Marshal(wire)
}

// UnmarshalJSON accepts the flattened array form produced by MarshalJSON.
func (g *DependencyGraph) UnmarshalJSON(data []byte) error {
	var wire wireGraph
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	g.Nodes = make(map[string]*GraphNode, len(wire.Nodes))
	for _, wn := range wire.Nodes {
		g.Nodes[wn.Key] = &GraphNode{
			ID:           wn.ID,
			Category:     wn.Category,
			Dependencies: emptyIfNil(wn.Dependencies),
			Dependents:   emptyIfNil(wn.Dependents),
		}
	}
	g.Edges = wire.Edges
	if g.Edges == nil {
		g.Edges = []GraphEdge{}
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
