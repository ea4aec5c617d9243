package kamadakawai

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/kklayout/pkg/errors"
	"github.com/matzehuels/kklayout/pkg/ugraph"
)

// seedStream is the PCG stream selector used when a generator is built from
// Options.Seed.
const seedStream = 0x9e3779b97f4a7c15

// Options configures a layout run. The zero value is not valid: KKConst must
// be positive. [DefaultOptions] returns a usable starting point.
type Options struct {
	// UseSeed refines the caller's positions instead of generating a random
	// starting layout. The position buffer must then hold one entry per vertex.
	UseSeed bool

	// MaxIterations caps the number of single-vertex moves. Zero returns the
	// starting layout unchanged.
	MaxIterations int

	// Epsilon stops the run once the largest gradient magnitude is at or
	// below it. Zero disables early termination.
	Epsilon float64

	// KKConst scales every spring stiffness.
	KKConst float64

	// Weights holds one positive weight per edge, parallel to
	// [ugraph.Graph.Edges]. Nil means every edge has weight 1.
	Weights []float64

	// Bounds restricts each vertex to a rectangle.
	Bounds Bounds

	// Rand supplies the randomness for the starting layout. When nil a PCG
	// generator seeded from Seed is used.
	Rand *rand.Rand

	// Seed seeds the generator when Rand is nil.
	Seed uint64
}

// DefaultOptions returns the conventional parameters for a graph with n
// vertices: 50·n iterations, no early termination and KKConst = n.
func DefaultOptions(n int) Options {
	return Options{
		MaxIterations: 50 * n,
		KKConst:       math.Max(float64(n), 1),
	}
}

func (o Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewPCG(o.Seed, seedStream))
}

// validate checks every precondition of a layout call. It never modifies its
// inputs, so a failed call leaves the caller's buffer untouched.
func (o Options) validate(g *ugraph.Graph, pos []r2.Vec) error {
	if g == nil {
		return errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	n := g.NodeCount()

	if o.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidValue, "max iterations %d must not be negative", o.MaxIterations)
	}
	if o.Epsilon < 0 || math.IsNaN(o.Epsilon) || math.IsInf(o.Epsilon, 0) {
		return errors.New(errors.ErrCodeInvalidValue, "epsilon %v must be finite and non-negative", o.Epsilon)
	}
	if !(o.KKConst > 0) || math.IsInf(o.KKConst, 0) {
		return errors.New(errors.ErrCodeInvalidValue, "kkconst %v must be finite and positive", o.KKConst)
	}
	if err := validateWeights(g, o.Weights); err != nil {
		return err
	}
	if err := o.Bounds.validate(n); err != nil {
		return err
	}
	if o.UseSeed {
		if len(pos) != n {
			return errors.New(errors.ErrCodeInvalidSize, "seed layout: %d positions, want %d", len(pos), n)
		}
		for i, p := range pos {
			if !finite(p.X) || !finite(p.Y) {
				return errors.New(errors.ErrCodeInvalidValue, "seed layout[%d]: %v is not finite", i, p)
			}
		}
	}
	return nil
}

func validateWeights(g *ugraph.Graph, w []float64) error {
	if w == nil {
		return nil
	}
	if len(w) != g.EdgeCount() {
		return errors.New(errors.ErrCodeInvalidSize, "weights: length %d, want %d", len(w), g.EdgeCount())
	}
	return errors.ValidatePositive("weights", w)
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// Bounds restricts vertex i to [MinX[i], MaxX[i]] × [MinY[i], MaxY[i]].
// Each vector is optional; a nil vector leaves that side open for every vertex,
// and an infinite entry leaves it open for that vertex.
type Bounds struct {
	MinX, MaxX []float64
	MinY, MaxY []float64
}

// IsZero reports whether no bound is set.
func (b Bounds) IsZero() bool {
	return b.MinX == nil && b.MaxX == nil && b.MinY == nil && b.MaxY == nil
}

// open reports whether no vertex has a finite bound on any side.
func (b Bounds) open() bool {
	for _, v := range [][]float64{b.MinX, b.MaxX, b.MinY, b.MaxY} {
		for _, x := range v {
			if !math.IsInf(x, 0) {
				return false
			}
		}
	}
	return true
}

// validate accepts -Inf lower and +Inf upper bounds as open sides. NaN, a
// lower bound of +Inf and an upper bound of -Inf are rejected.
func (b Bounds) validate(n int) error {
	vecs := []struct {
		name  string
		v     []float64
		empty float64
	}{
		{"minx", b.MinX, math.Inf(1)}, {"maxx", b.MaxX, math.Inf(-1)},
		{"miny", b.MinY, math.Inf(1)}, {"maxy", b.MaxY, math.Inf(-1)},
	}
	for _, vec := range vecs {
		if err := errors.ValidateLength(vec.name, vec.v, n); err != nil {
			return err
		}
		if err := errors.ValidateNotNaN(vec.name, vec.v); err != nil {
			return err
		}
		for i, x := range vec.v {
			if x == vec.empty {
				return errors.New(errors.ErrCodeInvalidValue, "%s[%d]: %v leaves no room", vec.name, i, x)
			}
		}
	}
	if err := errors.ValidateOrdered("minx", "maxx", b.MinX, b.MaxX); err != nil {
		return err
	}
	return errors.ValidateOrdered("miny", "maxy", b.MinY, b.MaxY)
}

// Clamp returns p moved into the box of vertex i.
func (b Bounds) Clamp(i int, p r2.Vec) r2.Vec {
	return r2.Vec{
		X: clampAxis(p.X, b.MinX, b.MaxX, i),
		Y: clampAxis(p.Y, b.MinY, b.MaxY, i),
	}
}

// Contains reports whether p lies inside the box of vertex i.
func (b Bounds) Contains(i int, p r2.Vec) bool {
	return b.Clamp(i, p) == p
}

func (b Bounds) clampAll(pos []r2.Vec) {
	if b.IsZero() {
		return
	}
	for i := range pos {
		pos[i] = b.Clamp(i, pos[i])
	}
}

func clampAxis(v float64, lo, hi []float64, i int) float64 {
	if lo != nil && v < lo[i] {
		v = lo[i]
	}
	if hi != nil && v > hi[i] {
		v = hi[i]
	}
	return v
}
