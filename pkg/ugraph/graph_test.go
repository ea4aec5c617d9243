package ugraph

import (
	"errors"
	"slices"
	"testing"
)

func TestAddEdge(t *testing.T) {
	g := New(3)
	if err := g.AddEdge(0, 1); err != nil {
		t.Fatalf("AddEdge(0,1) error: %v", err)
	}
	if err := g.AddEdge(1, 1); err != nil {
		t.Fatalf("AddEdge loop error: %v", err)
	}
	if err := g.AddEdge(0, 1); err != nil {
		t.Fatalf("AddEdge parallel error: %v", err)
	}

	tests := []struct {
		name string
		u, v int
	}{
		{"negative from", -1, 0},
		{"negative to", 0, -1},
		{"from too large", 3, 0},
		{"to too large", 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.u, tt.v); !errors.Is(err, ErrVertexOutOfRange) {
				t.Errorf("AddEdge(%d,%d) = %v, want ErrVertexOutOfRange", tt.u, tt.v, err)
			}
		})
	}

	if got := g.EdgeCount(); got != 3 {
		t.Errorf("EdgeCount() = %d, want 3", got)
	}
}

func TestEdgesInsertionOrder(t *testing.T) {
	g, err := FromPairs(4, 2, 3, 0, 1, 1, 1, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []Edge{{2, 3}, {0, 1}, {1, 1}, {3, 0}}
	got := g.Edges()
	if !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}

	got[0] = Edge{9, 9}
	if g.Edge(0) != (Edge{2, 3}) {
		t.Error("Edges() returned a slice aliasing internal state")
	}
}

func TestNeighborsAndDegree(t *testing.T) {
	g, _ := FromPairs(4, 0, 1, 0, 1, 0, 2, 0, 0, 3, 3)

	tests := []struct {
		v         int
		neighbors []int
		degree    int
	}{
		{0, []int{1, 2}, 5},
		{1, []int{0}, 2},
		{2, []int{0}, 1},
		{3, nil, 2},
	}
	for _, tt := range tests {
		if got := g.Neighbors(tt.v); !slices.Equal(got, tt.neighbors) {
			t.Errorf("Neighbors(%d) = %v, want %v", tt.v, got, tt.neighbors)
		}
		if got := g.Degree(tt.v); got != tt.degree {
			t.Errorf("Degree(%d) = %d, want %d", tt.v, got, tt.degree)
		}
	}
}

func TestAddVertex(t *testing.T) {
	var g Graph
	if g.NodeCount() != 0 {
		t.Fatalf("zero value NodeCount() = %d, want 0", g.NodeCount())
	}
	a := g.AddVertex()
	b := g.AddVertex()
	if a != 0 || b != 1 {
		t.Errorf("AddVertex() = %d, %d, want 0, 1", a, b)
	}
	if err := g.AddEdge(a, b); err != nil {
		t.Errorf("AddEdge on new vertices: %v", err)
	}
}

func TestClone(t *testing.T) {
	g := Ring(4)
	c := g.Clone()
	_ = c.AddEdge(0, 2)
	c.AddVertex()

	if g.EdgeCount() != 4 || g.NodeCount() != 4 {
		t.Errorf("original modified: n=%d m=%d", g.NodeCount(), g.EdgeCount())
	}
	if c.EdgeCount() != 5 || c.NodeCount() != 5 {
		t.Errorf("clone: n=%d m=%d, want 5, 5", c.NodeCount(), c.EdgeCount())
	}
	if slices.Contains(g.Neighbors(0), 2) {
		t.Error("clone shares adjacency with original")
	}
}

func TestNewPanicsOnNegative(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("New(-1) did not panic")
		}
	}()
	New(-1)
}

func TestFromPairsErrors(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		pairs []int
		want  error
	}{
		{"negative count", -1, nil, ErrNegativeCount},
		{"odd list", 3, []int{0, 1, 2}, ErrOddPairList},
		{"out of range", 2, []int{0, 2}, ErrVertexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromPairs(tt.n, tt.pairs...); !errors.Is(err, tt.want) {
				t.Errorf("FromPairs() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuilders(t *testing.T) {
	tests := []struct {
		name  string
		g     *Graph
		nodes int
		edges int
	}{
		{"full 0", Full(0), 0, 0},
		{"full 1", Full(1), 1, 0},
		{"full 5", Full(5), 5, 10},
		{"ring 1", Ring(1), 1, 0},
		{"ring 2", Ring(2), 2, 1},
		{"ring 10", Ring(10), 10, 10},
		{"star 1", Star(1), 1, 0},
		{"star 6", Star(6), 6, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.NodeCount(); got != tt.nodes {
				t.Errorf("NodeCount() = %d, want %d", got, tt.nodes)
			}
			if got := tt.g.EdgeCount(); got != tt.edges {
				t.Errorf("EdgeCount() = %d, want %d", got, tt.edges)
			}
		})
	}

	if got := Ring(10).Edge(9); got != (Edge{9, 0}) {
		t.Errorf("Ring(10) closing edge = %v, want {9 0}", got)
	}
	if d := Star(6).Degree(0); d != 5 {
		t.Errorf("Star(6) center degree = %d, want 5", d)
	}
}

func TestComponents(t *testing.T) {
	g, _ := FromPairs(7, 0, 1, 1, 2, 3, 4, 5, 5)
	want := [][]int{{0, 1, 2}, {3, 4}, {5}, {6}}
	got := g.Components()
	if len(got) != len(want) {
		t.Fatalf("Components() = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("component %d = %v, want %v", i, got[i], want[i])
		}
	}
	if g.IsConnected() {
		t.Error("IsConnected() = true, want false")
	}
	if !Ring(5).IsConnected() {
		t.Error("Ring(5).IsConnected() = false, want true")
	}
	if !New(0).IsConnected() {
		t.Error("empty graph IsConnected() = false, want true")
	}
}

func TestComponentIndexWithLoopsAndMultiEdges(t *testing.T) {
	g, _ := FromPairs(6, 4, 5, 5, 4, 4, 4, 0, 0, 1, 2, 2, 1)
	want := []int{0, 1, 1, 2, 3, 3}
	if got := g.ComponentIndex(); !slices.Equal(got, want) {
		t.Errorf("ComponentIndex() = %v, want %v", got, want)
	}

	sg := g.Simple()
	if n := sg.Nodes().Len(); n != 6 {
		t.Errorf("Simple() nodes = %d, want 6", n)
	}
	if e := sg.Edges().Len(); e != 2 {
		t.Errorf("Simple() edges = %d, want 2", e)
	}
	if sg.HasEdgeBetween(0, 0) {
		t.Error("Simple() kept a self-loop")
	}
}
