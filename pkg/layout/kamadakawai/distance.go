package kamadakawai

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/kklayout/pkg/errors"
	"github.com/matzehuels/kklayout/pkg/ugraph"
)

// DistanceMatrix returns the all-pairs shortest-path distances of g.
//
// Weights, when non-nil, hold one positive weight per edge in the order of
// [ugraph.Graph.Edges]; nil means every edge has weight 1 and hop counts are
// computed by breadth-first search. Self-loops are ignored and parallel edges
// contribute their smallest weight.
//
// Pairs in different components get a finite sentinel: the largest finite
// distance in the matrix, or the largest edge weight (1 without edges) when
// no two vertices are connected. The matrix is nil for an empty graph.
func DistanceMatrix(g *ugraph.Graph, weights []float64) (*mat.SymDense, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	if err := validateWeights(g, weights); err != nil {
		return nil, err
	}
	n := g.NodeCount()
	if n == 0 {
		return nil, nil
	}

	sg, maxWeight := collapse(g, weights)

	data := make([]float64, n*n)
	for i := range data {
		data[i] = math.Inf(1)
	}
	for u := 0; u < n; u++ {
		data[u*n+u] = 0
	}

	if weights == nil {
		for u := 0; u < n; u++ {
			var bf traverse.BreadthFirst
			bf.Walk(sg, simple.Node(u), func(nd graph.Node, depth int) bool {
				data[u*n+int(nd.ID())] = float64(depth)
				return false
			})
		}
	} else {
		for u := 0; u < n; u++ {
			sp := path.DijkstraFrom(simple.Node(u), sg)
			for v := u + 1; v < n; v++ {
				data[u*n+v] = sp.WeightTo(int64(v))
			}
		}
	}

	// Mirror the upper triangle and find the largest finite distance.
	diameter := 0.0
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			d := data[u*n+v]
			data[v*n+u] = d
			if !math.IsInf(d, 1) && d > diameter {
				diameter = d
			}
		}
	}

	sentinel := diameter
	if sentinel == 0 {
		sentinel = maxWeight
	}
	for i, d := range data {
		if math.IsInf(d, 1) {
			data[i] = sentinel
		}
	}
	return mat.NewSymDense(n, data), nil
}

// collapse builds a simple weighted graph from g, dropping loops and keeping
// the lightest of any parallel edges. It also returns the largest weight of
// any edge in g, loops included, or 1 when g has no edges.
func collapse(g *ugraph.Graph, weights []float64) (*simple.WeightedUndirectedGraph, float64) {
	n := g.NodeCount()
	sg := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < n; i++ {
		sg.AddNode(simple.Node(i))
	}

	maxWeight := 0.0
	for i, e := range g.Edges() {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		maxWeight = math.Max(maxWeight, w)
		if e.IsLoop() {
			continue
		}
		u, v := int64(e.From), int64(e.To)
		if cur := sg.WeightedEdge(u, v); cur != nil && cur.Weight() <= w {
			continue
		}
		sg.SetWeightedEdge(sg.NewWeightedEdge(simple.Node(u), simple.Node(v), w))
	}
	if maxWeight == 0 {
		maxWeight = 1
	}
	return sg, maxWeight
}
