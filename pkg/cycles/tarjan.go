package cycles

import (
	"gonum.org/v1/gonum/graph"
)

// tarjan runs Tarjan's strongly-connected-components algorithm over a
// directed graph. Only components with more than one member are kept;
// singletons are not cycles.
type tarjan struct {
	g       graph.Directed
	index   int
	stack   []int64
	onStack map[int64]bool
	indices map[int64]int
	lowLink map[int64]int
	sccs    [][]int64
}

func newTarjan(g graph.Directed) *tarjan {
	return &tarjan{
		g:       g,
		onStack: make(map[int64]bool),
		indices: make(map[int64]int),
		lowLink: make(map[int64]int),
	}
}

func (t *tarjan) sccsOfSize2Plus() [][]int64 {
	nodes := t.g.Nodes()
	for nodes.Next() {
		id := nodes.Node().ID()
		if _, visited := t.indices[id]; !visited {
			t.strongConnect(id)
		}
	}
	return t.sccs
}

func (t *tarjan) strongConnect(id int64) {
	t.indices[id] = t.index
	t.lowLink[id] = t.index
	t.index++

	t.stack = append(t.stack, id)
	t.onStack[id] = true

	succ := t.g.From(id)
	for succ.Next() {
		sid := succ.Node().ID()
		if _, visited := t.indices[sid]; !visited {
			t.strongConnect(sid)
			if t.lowLink[sid] < t.lowLink[id] {
				t.lowLink[id] = t.lowLink[sid]
			}
		} else if t.onStack[sid] {
			if t.indices[sid] < t.lowLink[id] {
				t.lowLink[id] = t.indices[sid]
			}
		}
	}

	if t.lowLink[id] == t.indices[id] {
		var scc []int64
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == id {
				break
			}
		}
		if len(scc) > 1 {
			t.sccs = append(t.sccs, scc)
		}
	}
}
