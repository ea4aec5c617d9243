package kamadakawai

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/kklayout/pkg/ugraph"
)

// randomGraph builds a multigraph with n vertices and roughly density·n²/2
// edges, loops and parallel edges included, plus matching random weights.
func randomGraph(n int, density float64, seed uint64) (*ugraph.Graph, []float64) {
	rng := rand.New(rand.NewPCG(seed, 1))
	g := ugraph.New(n)
	m := int(density * float64(n*n) / 2)
	weights := make([]float64, 0, m)
	for i := 0; i < m; i++ {
		_ = g.AddEdge(rng.IntN(n), rng.IntN(n))
		weights = append(weights, 0.1+rng.Float64()*10)
	}
	return g, weights
}

// randomBounds returns per-vertex boxes centred anywhere in [-20, 20]² with
// half-widths up to maxHalf, leaving each side open with probability 1/4.
func randomBounds(n int, maxHalf float64, seed uint64) Bounds {
	rng := rand.New(rand.NewPCG(seed, 2))
	var b Bounds
	side := func() bool { return rng.IntN(4) != 0 }
	useMinX, useMaxX, useMinY, useMaxY := side(), side(), side(), side()
	if useMinX {
		b.MinX = make([]float64, n)
	}
	if useMaxX {
		b.MaxX = make([]float64, n)
	}
	if useMinY {
		b.MinY = make([]float64, n)
	}
	if useMaxY {
		b.MaxY = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		cx, cy := rng.Float64()*40-20, rng.Float64()*40-20
		hx, hy := rng.Float64()*maxHalf, rng.Float64()*maxHalf
		if useMinX {
			b.MinX[i] = cx - hx
		}
		if useMaxX {
			b.MaxX[i] = cx + hx
		}
		if useMinY {
			b.MinY[i] = cy - hy
		}
		if useMaxY {
			b.MaxY[i] = cy + hy
		}
	}
	return b
}

func TestLayoutProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("every vertex ends inside its box", prop.ForAll(
		func(n int, density float64, kk float64, weighted bool, seed uint64) bool {
			g, weights := randomGraph(n, density, seed)
			if !weighted {
				weights = nil
			}
			b := randomBounds(n, 3, seed)
			pos, err := Layout(g, nil, Options{
				MaxIterations: 20 * n,
				Epsilon:       1e-4,
				KKConst:       kk,
				Weights:       weights,
				Bounds:        b,
				Seed:          seed,
			})
			if err != nil || len(pos) != n {
				return false
			}
			for i, p := range pos {
				if !b.Contains(i, p) || !finite(p.X) || !finite(p.Y) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 12),
		gen.Float64Range(0, 1.5),
		gen.Float64Range(0.0001, 1000),
		gen.Bool(),
		gen.UInt64(),
	))

	properties.Property("seeded layouts stay inside the box", prop.ForAll(
		func(n int, kk float64, seed uint64) bool {
			g, weights := randomGraph(n, 0.5, seed)
			b := box(n, 1)
			rng := rand.New(rand.NewPCG(seed, 3))
			in := make([]r2.Vec, n)
			for i := range in {
				in[i] = r2.Vec{X: rng.Float64()*6 - 3, Y: rng.Float64()*6 - 3}
			}
			pos, err := Layout(g, in, Options{
				UseSeed:       true,
				MaxIterations: 50,
				KKConst:       kk,
				Weights:       weights,
				Bounds:        b,
			})
			if err != nil {
				return false
			}
			for i, p := range pos {
				if !b.Contains(i, p) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 10),
		gen.Float64Range(0.0001, 1000),
		gen.UInt64(),
	))

	properties.Property("equal seeds give equal layouts", prop.ForAll(
		func(n int, seed uint64) bool {
			g, _ := randomGraph(n, 0.4, seed)
			opts := Options{MaxIterations: 10 * n, KKConst: 1, Seed: seed}
			a, errA := Layout(g, nil, opts)
			b, errB := Layout(g, nil, opts)
			return errA == nil && errB == nil && slices.Equal(a, b)
		},
		gen.IntRange(0, 15),
		gen.UInt64(),
	))

	properties.Property("no iterations leave seeds unchanged", prop.ForAll(
		func(n int, seed uint64) bool {
			g, _ := randomGraph(n, 0.6, seed)
			rng := rand.New(rand.NewPCG(seed, 4))
			in := make([]r2.Vec, n)
			for i := range in {
				in[i] = r2.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64()}
			}
			want := slices.Clone(in)
			pos, err := Layout(g, in, Options{UseSeed: true, KKConst: 10, Epsilon: 1e-4})
			return err == nil && slices.Equal(pos, want)
		},
		gen.IntRange(2, 15),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
