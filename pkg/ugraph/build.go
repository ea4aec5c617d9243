package ugraph

// FromPairs builds a graph with n vertices from a flat endpoint list
// "u0, v0, u1, v1, ...". It returns ErrNegativeCount, ErrOddPairList or
// ErrVertexOutOfRange for malformed input.
func FromPairs(n int, pairs ...int) (*Graph, error) {
	if n < 0 {
		return nil, ErrNegativeCount
	}
	if len(pairs)%2 != 0 {
		return nil, ErrOddPairList
	}
	g := New(n)
	for i := 0; i < len(pairs); i += 2 {
		if err := g.AddEdge(pairs[i], pairs[i+1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Full returns the complete graph on n vertices without loops.
// Edges are added in lexicographic order (0,1), (0,2), ..., (n-2,n-1).
func Full(n int) *Graph {
	g := New(n)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			_ = g.AddEdge(u, v)
		}
	}
	return g
}

// Ring returns the cycle graph on n vertices. For n < 3 it returns a path
// (n == 2) or an edgeless graph.
func Ring(n int) *Graph {
	g := New(n)
	if n < 2 {
		return g
	}
	for u := 0; u < n-1; u++ {
		_ = g.AddEdge(u, u+1)
	}
	if n > 2 {
		_ = g.AddEdge(n-1, 0)
	}
	return g
}

// Star returns the star graph with center 0 and n-1 leaves.
func Star(n int) *Graph {
	g := New(n)
	for v := 1; v < n; v++ {
		_ = g.AddEdge(0, v)
	}
	return g
}
