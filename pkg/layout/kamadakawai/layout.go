package kamadakawai

import (
	"context"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/kklayout/pkg/errors"
	"github.com/matzehuels/kklayout/pkg/ugraph"
)

// Result is the outcome of [Run].
type Result struct {
	Pos   []r2.Vec // one position per vertex, in vertex order
	Stats Stats
}

// Layout computes positions for every vertex of g and returns them.
//
// With opts.UseSeed the entries of pos are the starting layout and are
// refined in place; pos must then have exactly one entry per vertex.
// Otherwise pos is only used as storage: it is resized to the vertex count
// (reusing its backing array when large enough) and overwritten.
//
// All inputs are validated before pos is touched. Errors carry the
// INVALID_SIZE or INVALID_VALUE codes from pkg/errors.
func Layout(g *ugraph.Graph, pos []r2.Vec, opts Options) ([]r2.Vec, error) {
	res, err := Run(g, pos, opts)
	return res.Pos, err
}

// Run is like [Layout] but also reports optimisation statistics.
func Run(g *ugraph.Graph, pos []r2.Vec, opts Options) (Result, error) {
	return RunContext(context.Background(), g, pos, opts)
}

// RunContext is like [Run] but stops early when ctx is cancelled. On
// cancellation the returned error is ctx.Err() and Result.Pos holds the
// partially refined layout.
func RunContext(ctx context.Context, g *ugraph.Graph, pos []r2.Vec, opts Options) (Result, error) {
	if err := opts.validate(g, pos); err != nil {
		return Result{}, err
	}
	n := g.NodeCount()

	if !opts.UseSeed {
		pos = resize(pos, n)
	}

	switch n {
	case 0:
		return Result{Pos: pos}, nil
	case 1:
		if opts.UseSeed {
			pos[0] = opts.Bounds.Clamp(0, pos[0])
		} else {
			pos[0] = defaultPosition(opts.Bounds, 0)
		}
		return Result{Pos: pos, Stats: Stats{Converged: true}}, nil
	}

	d, err := DistanceMatrix(g, opts.Weights)
	if err != nil {
		return Result{}, err
	}
	m := NewModel(d, opts.KKConst)

	if !opts.UseSeed {
		initialLayout(pos, opts.Bounds, opts.rng())
	}

	st := Stats{InitialEnergy: m.Energy(pos)}
	if opts.MaxIterations > 0 {
		run, err := newOptimizer(m, pos, opts.Bounds).run(ctx, opts.MaxIterations, opts.Epsilon)
		run.InitialEnergy = st.InitialEnergy
		st = run
		if err != nil {
			opts.Bounds.clampAll(pos)
			return Result{Pos: pos, Stats: st}, err
		}
	}

	opts.Bounds.clampAll(pos)
	st.FinalEnergy = m.Energy(pos)
	return Result{Pos: pos, Stats: st}, nil
}

// LayoutMatrix is the matrix form of [Run]. Row i of m holds the x and y
// coordinates of vertex i.
//
// With opts.UseSeed, m must be n×2 (or empty when g has no vertices) and is
// refined in place. Otherwise m is reset and reallocated to n×2; it is left
// empty when g has no vertices.
func LayoutMatrix(g *ugraph.Graph, m *mat.Dense, opts Options) (Stats, error) {
	if m == nil {
		return Stats{}, errors.New(errors.ErrCodeInvalidInput, "layout matrix is nil")
	}
	if g == nil {
		return Stats{}, errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	n := g.NodeCount()

	var pos []r2.Vec
	if opts.UseSeed {
		if !m.IsEmpty() {
			r, c := m.Dims()
			if r != n || c != 2 {
				return Stats{}, errors.New(errors.ErrCodeInvalidSize, "seed layout: %d×%d matrix, want %d×2", r, c, n)
			}
		} else if n != 0 {
			return Stats{}, errors.New(errors.ErrCodeInvalidSize, "seed layout: empty matrix, want %d×2", n)
		}
		pos = make([]r2.Vec, n)
		for i := range pos {
			pos[i] = r2.Vec{X: m.At(i, 0), Y: m.At(i, 1)}
		}
	}
	if err := opts.validate(g, pos); err != nil {
		return Stats{}, err
	}

	if !opts.UseSeed {
		m.Reset()
		if n > 0 {
			m.ReuseAs(n, 2)
		}
	}

	res, err := Run(g, pos, opts)
	for i, p := range res.Pos {
		m.Set(i, 0, p.X)
		m.Set(i, 1, p.Y)
	}
	return res.Stats, err
}

func resize(pos []r2.Vec, n int) []r2.Vec {
	if cap(pos) >= n {
		return pos[:n]
	}
	return make([]r2.Vec, n)
}
