package ugraph

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Simple returns g as a gonum simple graph with node IDs 0..n-1. Self-loops
// are dropped and parallel edges merged, neither of which affects
// reachability.
func (g *Graph) Simple() *simple.UndirectedGraph {
	sg := simple.NewUndirectedGraph()
	for v := 0; v < g.n; v++ {
		sg.AddNode(simple.Node(v))
	}
	for _, e := range g.edges {
		if e.IsLoop() || sg.HasEdgeBetween(int64(e.From), int64(e.To)) {
			continue
		}
		sg.SetEdge(simple.Edge{F: simple.Node(e.From), T: simple.Node(e.To)})
	}
	return sg
}

// Components returns the connected components of the graph. Each component
// lists its vertices in ascending order; components are ordered by their
// smallest vertex. Isolated vertices form singleton components.
func (g *Graph) Components() [][]int {
	cc := topo.ConnectedComponents(g.Simple())
	out := make([][]int, 0, len(cc))
	for _, nodes := range cc {
		comp := make([]int, len(nodes))
		for i, nd := range nodes {
			comp[i] = int(nd.ID())
		}
		slices.Sort(comp)
		out = append(out, comp)
	}
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })
	return out
}

// ComponentIndex returns, for every vertex, the index of its connected
// component in [Graph.Components].
func (g *Graph) ComponentIndex() []int {
	idx := make([]int, g.n)
	for c, comp := range g.Components() {
		for _, v := range comp {
			idx[v] = c
		}
	}
	return idx
}

// IsConnected reports whether the graph has at most one component.
func (g *Graph) IsConnected() bool {
	return len(g.Components()) <= 1
}
