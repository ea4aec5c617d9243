package graph

import (
	"encoding/json"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/kklayout/pkg/errors"
)

// =============================================================================
// Layout - Computed Positions
// =============================================================================

// Layout is the serialization format for a computed layout.
//
// Nodes lists one position per input node, in input order. The remaining
// fields describe how the layout was produced so that a cached or archived
// result can be reproduced:
//   - Iterations, Converged, MaxGradient: solver termination state
//   - InitialEnergy, Energy: stress before and after optimisation
//   - Seed, Params: inputs that determine the result
type Layout struct {
	Algorithm string     `json:"algorithm" bson:"algorithm"`
	Nodes     []Position `json:"nodes" bson:"nodes"`

	// Solver statistics
	Iterations    int     `json:"iterations" bson:"iterations"`
	Converged     bool    `json:"converged" bson:"converged"`
	MaxGradient   float64 `json:"max_gradient" bson:"max_gradient"`
	InitialEnergy float64 `json:"initial_energy" bson:"initial_energy"`
	Energy        float64 `json:"energy" bson:"energy"`
	Components    int     `json:"components,omitempty" bson:"components,omitempty"`

	// Reproducibility
	Seed   uint64       `json:"seed" bson:"seed"`
	Params LayoutParams `json:"params" bson:"params"`
}

// LayoutParams records the solver parameters of a layout run.
type LayoutParams struct {
	MaxIterations int     `json:"max_iterations" bson:"max_iterations"`
	Epsilon       float64 `json:"epsilon" bson:"epsilon"`
	KKConst       float64 `json:"kkconst" bson:"kkconst"`
	UseSeed       bool    `json:"use_seed,omitempty" bson:"use_seed,omitempty"`
	Weighted      bool    `json:"weighted,omitempty" bson:"weighted,omitempty"`
	Bounded       bool    `json:"bounded,omitempty" bson:"bounded,omitempty"`
}

// Position is the computed coordinate of one node.
type Position struct {
	ID string  `json:"id" bson:"id"`
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`
}

// Positions pairs node IDs with coordinates. ids and pos must have equal length.
func Positions(ids []string, pos []r2.Vec) []Position {
	out := make([]Position, len(pos))
	for i, p := range pos {
		out[i] = Position{ID: ids[i], X: p.X, Y: p.Y}
	}
	return out
}

// PositionMap returns the layout's coordinates keyed by node ID.
func (l Layout) PositionMap() map[string]Point {
	m := make(map[string]Point, len(l.Nodes))
	for _, p := range l.Nodes {
		m[p.ID] = Point{X: p.X, Y: p.Y}
	}
	return m
}

// Extent returns the bounding rectangle of all positions. Both corners are
// zero for an empty layout.
func (l Layout) Extent() (lo, hi Point) {
	for i, p := range l.Nodes {
		if i == 0 {
			lo, hi = Point{p.X, p.Y}, Point{p.X, p.Y}
			continue
		}
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return lo, hi
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	if l.Nodes == nil {
		l.Nodes = []Position{}
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	return data, nil
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// A missing algorithm defaults to [AlgorithmKamadaKawai]; node IDs must be
// present and unique.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}

	if l.Algorithm == "" {
		l.Algorithm = AlgorithmKamadaKawai
	}
	if l.Algorithm != AlgorithmKamadaKawai {
		return Layout{}, errors.New(errors.ErrCodeUnsupported, "layout algorithm %q", l.Algorithm)
	}

	seen := make(map[string]struct{}, len(l.Nodes))
	for i, p := range l.Nodes {
		if p.ID == "" {
			return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout node %d has no id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "duplicate layout node %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return UnmarshalLayout(data)
}
