package ugraph

import (
	"errors"
	"slices"
)

var (
	// ErrVertexOutOfRange is returned by [Graph.AddEdge] when an endpoint is
	// not a vertex index of the graph.
	ErrVertexOutOfRange = errors.New("vertex index out of range")

	// ErrNegativeCount is returned by constructors given a negative vertex count.
	ErrNegativeCount = errors.New("vertex count must not be negative")

	// ErrOddPairList is returned by [FromPairs] when the flat edge list has an
	// odd number of entries.
	ErrOddPairList = errors.New("edge list must contain an even number of endpoints")
)

// Edge is an unordered pair of vertex indices. From and To keep the order in
// which the edge was added; algorithms treat the edge as undirected.
type Edge struct {
	From int
	To   int
}

// IsLoop reports whether the edge connects a vertex to itself.
func (e Edge) IsLoop() bool { return e.From == e.To }

// Other returns the endpoint opposite to v.
func (e Edge) Other(v int) int {
	if e.From == v {
		return e.To
	}
	return e.From
}

// Graph is an undirected multigraph over vertices 0..n-1.
//
// The zero value is an empty graph with no vertices and is ready to use.
type Graph struct {
	n     int
	edges []Edge
	adj   [][]int // vertex -> indices into edges
}

// New creates a graph with n isolated vertices. It panics if n is negative;
// use [FromPairs] for validated construction from external input.
func New(n int) *Graph {
	if n < 0 {
		panic(ErrNegativeCount)
	}
	return &Graph{n: n, adj: make([][]int, n)}
}

// AddVertex appends an isolated vertex and returns its index.
func (g *Graph) AddVertex() int {
	g.adj = append(g.adj, nil)
	g.n++
	return g.n - 1
}

// AddEdge adds an undirected edge between u and v.
// Returns ErrVertexOutOfRange if either endpoint is not in [0, n).
// Self-loops (u == v) and duplicates of existing edges are allowed.
func (g *Graph) AddEdge(u, v int) error {
	if u < 0 || u >= g.n || v < 0 || v >= g.n {
		return ErrVertexOutOfRange
	}
	idx := len(g.edges)
	g.edges = append(g.edges, Edge{From: u, To: v})
	g.adj[u] = append(g.adj[u], idx)
	if u != v {
		g.adj[v] = append(g.adj[v], idx)
	}
	return nil
}

// NodeCount returns the number of vertices.
func (g *Graph) NodeCount() int { return g.n }

// EdgeCount returns the number of edges, counting loops and parallel edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns a copy of all edges in insertion order. The position of an
// edge in this slice is its edge index.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Edge returns the edge with index i.
func (g *Graph) Edge(i int) Edge { return g.edges[i] }

// IncidentEdges returns the indices of edges incident to v. A loop at v is
// listed once. The returned slice must not be modified.
func (g *Graph) IncidentEdges(v int) []int { return g.adj[v] }

// Neighbors returns the distinct vertices adjacent to v, excluding v itself,
// in ascending order.
func (g *Graph) Neighbors(v int) []int {
	var out []int
	for _, ei := range g.adj[v] {
		e := g.edges[ei]
		if e.IsLoop() {
			continue
		}
		out = append(out, e.Other(v))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Degree returns the number of edge endpoints at v. A loop contributes two.
func (g *Graph) Degree(v int) int {
	d := 0
	for _, ei := range g.adj[v] {
		if g.edges[ei].IsLoop() {
			d += 2
		} else {
			d++
		}
	}
	return d
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		n:     g.n,
		edges: slices.Clone(g.edges),
		adj:   make([][]int, g.n),
	}
	for v, inc := range g.adj {
		c.adj[v] = slices.Clone(inc)
	}
	return c
}
