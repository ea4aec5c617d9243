package graph

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/kklayout/pkg/errors"
	"github.com/matzehuels/kklayout/pkg/layout/kamadakawai"
	"github.com/matzehuels/kklayout/pkg/ugraph"
)

// Resolved is a [Graph] translated into the index-addressed inputs of the
// layout core.
type Resolved struct {
	Graph   *ugraph.Graph
	IDs     []string       // vertex index → node ID
	Index   map[string]int // node ID → vertex index
	Weights []float64      // nil when the graph is unweighted
	Bounds  kamadakawai.Bounds
	Seed    []r2.Vec // nil unless every node has a position
}

// HasSeed reports whether every node carries a seed position.
func (r Resolved) HasSeed() bool { return r.Seed != nil }

// =============================================================================
// Graph → ugraph
// =============================================================================

// Resolve validates g and converts it for layout.
//
// Node IDs must be valid and unique, edges must reference known nodes, and
// weights must be given on all edges or none. Seed positions are used only
// when every node has one; a partial set is an error, as is a bound side set
// on some nodes but not others.
func Resolve(g Graph) (Resolved, error) {
	n := len(g.Nodes)
	r := Resolved{
		Graph: ugraph.New(n),
		IDs:   make([]string, n),
		Index: make(map[string]int, n),
	}

	for i, nd := range g.Nodes {
		if err := errors.ValidateNodeID(nd.ID); err != nil {
			return Resolved{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
		}
		if _, dup := r.Index[nd.ID]; dup {
			return Resolved{}, errors.New(errors.ErrCodeInvalidInput, "duplicate node ID %q", nd.ID)
		}
		r.IDs[i] = nd.ID
		r.Index[nd.ID] = i
	}

	weighted := len(g.Edges) > 0 && g.Edges[0].Weight != nil
	if weighted {
		r.Weights = make([]float64, 0, len(g.Edges))
	}
	for i, e := range g.Edges {
		u, ok := r.Index[e.From]
		if !ok {
			return Resolved{}, errors.New(errors.ErrCodeInvalidInput, "edge %d: unknown node %q", i, e.From)
		}
		v, ok := r.Index[e.To]
		if !ok {
			return Resolved{}, errors.New(errors.ErrCodeInvalidInput, "edge %d: unknown node %q", i, e.To)
		}
		if (e.Weight != nil) != weighted {
			return Resolved{}, errors.New(errors.ErrCodeInvalidInput, "edge %d: weights must be set on all edges or none", i)
		}
		if weighted {
			r.Weights = append(r.Weights, *e.Weight)
		}
		if err := addEdge(r.Graph, i, u, v); err != nil {
			return Resolved{}, err
		}
	}
	if err := errors.ValidatePositive("weight", r.Weights); err != nil {
		return Resolved{}, err
	}

	seed, err := resolveSeed(g.Nodes)
	if err != nil {
		return Resolved{}, err
	}
	r.Seed = seed

	b, err := resolveBounds(g)
	if err != nil {
		return Resolved{}, err
	}
	r.Bounds = b
	return r, nil
}

func addEdge(g *ugraph.Graph, i, u, v int) error {
	if err := g.AddEdge(u, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "edge %d", i)
	}
	return nil
}

func resolveSeed(nodes []Node) ([]r2.Vec, error) {
	have := 0
	for _, nd := range nodes {
		if nd.Pos != nil {
			have++
		}
	}
	if have == 0 {
		return nil, nil
	}
	if have != len(nodes) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%d of %d nodes have positions; set all or none", have, len(nodes))
	}
	seed := make([]r2.Vec, len(nodes))
	for i, nd := range nodes {
		seed[i] = r2.Vec{X: nd.Pos.X, Y: nd.Pos.Y}
	}
	return seed, nil
}

// resolveBounds builds one vector per bound side that is set anywhere.
func resolveBounds(g Graph) (kamadakawai.Bounds, error) {
	n := len(g.Nodes)
	merged := make([]NodeBounds, n)
	for i := range g.Nodes {
		merged[i] = g.Nodes[i].Bounds.merge(g.Bounds)
	}

	side := func(name string, get func(NodeBounds) *float64) ([]float64, error) {
		var out []float64
		missing := ""
		for i, b := range merged {
			p := get(b)
			if p == nil {
				if missing == "" {
					missing = g.Nodes[i].ID
				}
				continue
			}
			if out == nil {
				out = make([]float64, n)
			}
			out[i] = *p
		}
		if out != nil && missing != "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "bound %s set on some nodes but not on %q", name, missing)
		}
		return out, nil
	}

	var b kamadakawai.Bounds
	var err error
	if b.MinX, err = side("min_x", func(nb NodeBounds) *float64 { return nb.MinX }); err != nil {
		return b, err
	}
	if b.MaxX, err = side("max_x", func(nb NodeBounds) *float64 { return nb.MaxX }); err != nil {
		return b, err
	}
	if b.MinY, err = side("min_y", func(nb NodeBounds) *float64 { return nb.MinY }); err != nil {
		return b, err
	}
	if b.MaxY, err = side("max_y", func(nb NodeBounds) *float64 { return nb.MaxY }); err != nil {
		return b, err
	}
	return b, nil
}

// =============================================================================
// ugraph → Graph
// =============================================================================

// FromUGraph converts an index-addressed graph to its serialization format.
// ids names the vertices; when nil, vertex i is named by its decimal index.
// weights, when non-nil, must be parallel to g.Edges().
func FromUGraph(g *ugraph.Graph, ids []string, weights []float64) Graph {
	n := g.NodeCount()
	out := Graph{
		Nodes: make([]Node, n),
		Edges: make([]Edge, g.EdgeCount()),
	}
	name := func(i int) string {
		if ids != nil {
			return ids[i]
		}
		return strconv.Itoa(i)
	}
	for i := range out.Nodes {
		out.Nodes[i] = Node{ID: name(i)}
	}
	for i, e := range g.Edges() {
		out.Edges[i] = Edge{From: name(e.From), To: name(e.To)}
		if weights != nil {
			w := weights[i]
			out.Edges[i].Weight = &w
		}
	}
	return out
}

// WithPositions returns a copy of g whose nodes carry the positions of l as
// seeds. Every node of g must appear in l.
func WithPositions(g Graph, l Layout) (Graph, error) {
	pos := l.PositionMap()
	out := Graph{Bounds: g.Bounds, Nodes: make([]Node, len(g.Nodes)), Edges: g.Edges}
	for i, nd := range g.Nodes {
		p, ok := pos[nd.ID]
		if !ok {
			return Graph{}, errors.New(errors.ErrCodeInvalidInput, "layout has no position for node %q", nd.ID)
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			return Graph{}, errors.New(errors.ErrCodeInvalidValue, "layout position for node %q is NaN", nd.ID)
		}
		nd.Meta = copyMeta(nd.Meta)
		nd.Pos = &p
		out.Nodes[i] = nd
	}
	return out, nil
}
