package graph

import (
	"maps"
)

// =============================================================================
// Constants
// =============================================================================

// AlgorithmKamadaKawai identifies layouts computed by pkg/layout/kamadakawai.
const AlgorithmKamadaKawai = "kamada-kawai"

// =============================================================================
// Graph - Layout Input
// =============================================================================

// Graph is the canonical serialization format for layout input.
// Node order is significant: node i becomes vertex i of the layout.
type Graph struct {
	Bounds *NodeBounds `json:"bounds,omitempty" bson:"bounds,omitempty"` // Defaults for every node
	Nodes  []Node      `json:"nodes" bson:"nodes"`
	Edges  []Edge      `json:"edges" bson:"edges"`
}

// =============================================================================
// Node
// =============================================================================

// Node is a vertex of the input graph.
type Node struct {
	ID     string         `json:"id" bson:"id"`
	Label  string         `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Pos    *Point         `json:"pos,omitempty" bson:"pos,omitempty"`     // Seed position
	Bounds *NodeBounds    `json:"bounds,omitempty" bson:"bounds,omitempty"`
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// NodeBounds is a bounding box with optional sides. A nil side is open.
type NodeBounds struct {
	MinX *float64 `json:"min_x,omitempty" bson:"min_x,omitempty"`
	MaxX *float64 `json:"max_x,omitempty" bson:"max_x,omitempty"`
	MinY *float64 `json:"min_y,omitempty" bson:"min_y,omitempty"`
	MaxY *float64 `json:"max_y,omitempty" bson:"max_y,omitempty"`
}

// Box returns bounds with all four sides set.
func Box(minX, maxX, minY, maxY float64) *NodeBounds {
	return &NodeBounds{MinX: &minX, MaxX: &maxX, MinY: &minY, MaxY: &maxY}
}

// merge returns b with unset sides taken from def.
func (b *NodeBounds) merge(def *NodeBounds) NodeBounds {
	var out NodeBounds
	if def != nil {
		out = *def
	}
	if b == nil {
		return out
	}
	if b.MinX != nil {
		out.MinX = b.MinX
	}
	if b.MaxX != nil {
		out.MaxX = b.MaxX
	}
	if b.MinY != nil {
		out.MinY = b.MinY
	}
	if b.MaxY != nil {
		out.MaxY = b.MaxY
	}
	return out
}

// =============================================================================
// Edge
// =============================================================================

// Edge is an undirected edge. Weight is optional; when any edge of a graph
// carries a weight, every edge must.
type Edge struct {
	From   string   `json:"from" bson:"from"`
	To     string   `json:"to" bson:"to"`
	Weight *float64 `json:"weight,omitempty" bson:"weight,omitempty"`
}

// Weighted returns an edge with the given weight.
func Weighted(from, to string, w float64) Edge {
	return Edge{From: from, To: to, Weight: &w}
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
