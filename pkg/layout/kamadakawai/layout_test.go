package kamadakawai

import (
	"context"
	stderrors "errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/kklayout/pkg/errors"
	"github.com/matzehuels/kklayout/pkg/ugraph"
)

// seedLayout is the seed placement used by the seeded scenarios.
var seedLayout = []r2.Vec{
	{X: 0.1, Y: 0.2}, {X: 0.3, Y: 0.4}, {X: 0.5, Y: 0.6}, {X: 0.7, Y: 0.8}, {X: 0.9, Y: 1.0},
	{X: -0.1, Y: -0.2}, {X: -0.3, Y: -0.4}, {X: -0.5, Y: -0.6}, {X: -0.7, Y: -0.8}, {X: -0.9, Y: -1.0},
}

func box(n int, half float64) Bounds {
	return Bounds{MinX: fill(n, -half), MaxX: fill(n, half), MinY: fill(n, -half), MaxY: fill(n, half)}
}

func fill(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func assertWithin(t *testing.T, pos []r2.Vec, half float64) {
	t.Helper()
	for i, p := range pos {
		if math.Abs(p.X) > half || math.Abs(p.Y) > half {
			t.Errorf("pos[%d] = %v, want within ±%v", i, p, half)
		}
	}
}

func assertFinite(t *testing.T, pos []r2.Vec) {
	t.Helper()
	for i, p := range pos {
		if !finite(p.X) || !finite(p.Y) {
			t.Errorf("pos[%d] = %v is not finite", i, p)
		}
	}
}

func TestLayoutEmptyGraph(t *testing.T) {
	pos, err := Layout(ugraph.New(0), nil, Options{MaxIterations: 100, Epsilon: 1e-4, KKConst: 10})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if len(pos) != 0 {
		t.Errorf("len(pos) = %d, want 0", len(pos))
	}
}

func TestLayoutSingleton(t *testing.T) {
	tests := []struct {
		name    string
		bounds  Bounds
		useSeed bool
		seed    []r2.Vec
		want    r2.Vec
	}{
		{
			name: "unbounded",
			want: r2.Vec{},
		},
		{
			name:   "in a box",
			bounds: box(1, 1),
			want:   r2.Vec{},
		},
		{
			name:   "offset box",
			bounds: Bounds{MinX: []float64{2}, MaxX: []float64{4}, MinY: []float64{-3}, MaxY: []float64{-1}},
			want:   r2.Vec{X: 3, Y: -2},
		},
		{
			name:   "half-open axes",
			bounds: Bounds{MinX: []float64{5}, MaxY: []float64{-7}},
			want:   r2.Vec{X: 5, Y: -7},
		},
		{
			name:    "seed kept",
			useSeed: true,
			seed:    []r2.Vec{{X: 0.5, Y: -0.5}},
			bounds:  box(1, 1),
			want:    r2.Vec{X: 0.5, Y: -0.5},
		},
		{
			name:    "seed clamped",
			useSeed: true,
			seed:    []r2.Vec{{X: 3, Y: -9}},
			bounds:  box(1, 1),
			want:    r2.Vec{X: 1, Y: -1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{UseSeed: tt.useSeed, MaxIterations: 100, Epsilon: 1e-4, KKConst: 10, Bounds: tt.bounds}
			pos, err := Layout(ugraph.New(1), tt.seed, opts)
			if err != nil {
				t.Fatalf("Layout() error: %v", err)
			}
			if len(pos) != 1 || pos[0] != tt.want {
				t.Errorf("Layout() = %v, want [%v]", pos, tt.want)
			}
		})
	}
}

func TestLayoutTwoConnectedVertices(t *testing.T) {
	g := mustPairs(t, 2, 0, 1)
	opts := Options{MaxIterations: 1000, KKConst: 2, Seed: 42}

	pos, err := Layout(g, nil, opts)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	assertWithin(t, pos, 1)
	if d := r2.Norm(r2.Sub(pos[0], pos[1])); math.Abs(d-math.Sqrt2) > 1e-9 {
		t.Errorf("distance = %v, want sqrt(2)", d)
	}

	opts.Bounds = box(2, 1)
	pos, err = Layout(g, nil, opts)
	if err != nil {
		t.Fatalf("Layout(box) error: %v", err)
	}
	assertWithin(t, pos, 1)
}

func TestLayoutDisconnectedWithLoops(t *testing.T) {
	g := disconnectedWithLoops(t)
	weights := fill(g.EdgeCount(), 100)
	seed := func() []r2.Vec { return slices.Clone(seedLayout) }

	tests := []struct {
		name    string
		opts    Options
		seed    []r2.Vec
		withinB float64
	}{
		{
			name:    "without weights or bounds",
			opts:    Options{MaxIterations: 100, Epsilon: 1e-4, KKConst: 10},
			withinB: 50,
		},
		{
			name:    "with weights",
			opts:    Options{MaxIterations: 100, Epsilon: 1e-4, KKConst: 10, Weights: weights},
			withinB: 50,
		},
		{
			name:    "with weights, bounds and high kkconst",
			opts:    Options{MaxIterations: 100, Epsilon: 1e-4, KKConst: 1000, Weights: weights, Bounds: box(10, 1)},
			withinB: 1,
		},
		{
			name:    "with weights, bounds and low kkconst",
			opts:    Options{MaxIterations: 100, Epsilon: 1e-4, KKConst: 0.0001, Weights: weights, Bounds: box(10, 1)},
			withinB: 1,
		},
		{
			name:    "with weights, bounds, high kkconst and seed",
			opts:    Options{UseSeed: true, MaxIterations: 100, Epsilon: 1e-4, KKConst: 1000, Weights: weights, Bounds: box(10, 1)},
			seed:    seed(),
			withinB: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Seed = 42
			pos, err := Layout(g, tt.seed, tt.opts)
			if err != nil {
				t.Fatalf("Layout() error: %v", err)
			}
			if len(pos) != g.NodeCount() {
				t.Fatalf("len(pos) = %d, want %d", len(pos), g.NodeCount())
			}
			assertFinite(t, pos)
			assertWithin(t, pos, tt.withinB)
		})
	}
}

func TestLayoutWeightSensitivity(t *testing.T) {
	g := disconnectedWithLoops(t)
	base := Options{MaxIterations: 100, Epsilon: 1e-4, KKConst: 10, Bounds: box(10, 1), Seed: 42}

	plain, err := Layout(g, nil, base)
	if err != nil {
		t.Fatal(err)
	}
	weighted := base
	weighted.Weights = []float64{100, 1, 1, 100, 1, 1, 1, 1}
	heavy, err := Layout(g, nil, weighted)
	if err != nil {
		t.Fatal(err)
	}

	if slices.Equal(plain, heavy) {
		t.Error("weighted layout is identical to the unweighted one")
	}
	assertWithin(t, plain, 1)
	assertWithin(t, heavy, 1)
}

func TestLayoutNoIterationsIsIdentity(t *testing.T) {
	in := slices.Clone(seedLayout[:5])
	pos, err := Layout(ugraph.Full(5), in, Options{UseSeed: true, MaxIterations: 0, Epsilon: 1e-4, KKConst: 10})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if !slices.Equal(pos, seedLayout[:5]) {
		t.Errorf("Layout() = %v, want %v", pos, seedLayout[:5])
	}
	if &pos[0] != &in[0] {
		t.Error("seeded layout was not refined in place")
	}
}

func TestLayoutDeterminism(t *testing.T) {
	g := ugraph.Ring(12)
	opts := Options{MaxIterations: 200, KKConst: 12, Seed: 7}

	a, err := Layout(g, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Layout(g, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a, b) {
		t.Errorf("same seed gave different layouts:\n%v\n%v", a, b)
	}

	opts.Rand = rand.New(rand.NewPCG(7, seedStream))
	c, err := Layout(g, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a, c) {
		t.Error("explicit generator with the same state gave a different layout")
	}

	opts.Rand = nil
	opts.Seed = 8
	d, err := Layout(g, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if slices.Equal(a, d) {
		t.Error("different seeds gave identical layouts")
	}
}

func TestLayoutConverges(t *testing.T) {
	g := mustPairs(t, 3, 0, 1, 1, 2)
	res, err := Run(g, nil, Options{MaxIterations: 1000, Epsilon: 1e-6, KKConst: 1, Seed: 3})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Stats.Converged {
		t.Errorf("Converged = false after %d iterations, max gradient %v", res.Stats.Iterations, res.Stats.MaxGradient)
	}
	if res.Stats.MaxGradient > 1e-6 {
		t.Errorf("MaxGradient = %v, want <= 1e-6", res.Stats.MaxGradient)
	}
	if res.Stats.FinalEnergy > res.Stats.InitialEnergy {
		t.Errorf("FinalEnergy %v > InitialEnergy %v", res.Stats.FinalEnergy, res.Stats.InitialEnergy)
	}
}

func TestLayoutZeroEpsilonRunsAllIterations(t *testing.T) {
	res, err := Run(ugraph.Ring(6), nil, Options{MaxIterations: 37, KKConst: 6, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Iterations != 37 || res.Stats.Converged {
		t.Errorf("Stats = %+v, want 37 iterations without convergence", res.Stats)
	}
}

func TestLayoutReusesBuffer(t *testing.T) {
	buf := make([]r2.Vec, 2, 16)
	pos, err := Layout(ugraph.Star(8), buf, Options{MaxIterations: 10, KKConst: 8})
	if err != nil {
		t.Fatal(err)
	}
	if len(pos) != 8 {
		t.Fatalf("len(pos) = %d, want 8", len(pos))
	}
	if &pos[0] != &buf[0] {
		t.Error("buffer with enough capacity was not reused")
	}

	pos, err = Layout(ugraph.Star(3), make([]r2.Vec, 9), Options{MaxIterations: 10, KKConst: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(pos) != 3 {
		t.Errorf("len(pos) = %d, want 3", len(pos))
	}
}

func TestLayoutSeedOutsideBoundsIsClamped(t *testing.T) {
	b := box(3, 1)
	seed := []r2.Vec{{X: 5, Y: 5}, {X: -5, Y: 0}, {X: 0, Y: 0}}
	pos, err := Layout(ugraph.Ring(3), seed, Options{UseSeed: true, MaxIterations: 0, KKConst: 1, Bounds: b})
	if err != nil {
		t.Fatal(err)
	}
	want := []r2.Vec{{X: 1, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: 0}}
	if !slices.Equal(pos, want) {
		t.Errorf("Layout() = %v, want %v", pos, want)
	}
}

func TestLayoutHalfOpenBounds(t *testing.T) {
	g := ugraph.Ring(8)
	b := Bounds{MinX: fill(8, 10), MaxY: fill(8, -10)}
	pos, err := Layout(g, nil, Options{MaxIterations: 400, KKConst: 8, Bounds: b, Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range pos {
		if p.X < 10 || p.Y > -10 {
			t.Errorf("pos[%d] = %v, want x >= 10 and y <= -10", i, p)
		}
	}
}

func TestLayoutValidation(t *testing.T) {
	g := mustPairs(t, 3, 0, 1, 1, 2)
	valid := func() Options { return Options{MaxIterations: 10, KKConst: 1} }

	tests := []struct {
		name   string
		g      *ugraph.Graph
		modify func(*Options)
		seed   []r2.Vec
		code   errors.Code
	}{
		{"nil graph", nil, func(*Options) {}, nil, errors.ErrCodeInvalidInput},
		{"negative iterations", g, func(o *Options) { o.MaxIterations = -1 }, nil, errors.ErrCodeInvalidValue},
		{"negative epsilon", g, func(o *Options) { o.Epsilon = -1 }, nil, errors.ErrCodeInvalidValue},
		{"NaN epsilon", g, func(o *Options) { o.Epsilon = math.NaN() }, nil, errors.ErrCodeInvalidValue},
		{"zero kkconst", g, func(o *Options) { o.KKConst = 0 }, nil, errors.ErrCodeInvalidValue},
		{"infinite kkconst", g, func(o *Options) { o.KKConst = math.Inf(1) }, nil, errors.ErrCodeInvalidValue},
		{"weights length", g, func(o *Options) { o.Weights = []float64{1} }, nil, errors.ErrCodeInvalidSize},
		{"zero weight", g, func(o *Options) { o.Weights = []float64{1, 0} }, nil, errors.ErrCodeInvalidValue},
		{"bound length", g, func(o *Options) { o.Bounds.MinY = []float64{0, 0} }, nil, errors.ErrCodeInvalidSize},
		{"min above max", g, func(o *Options) {
			o.Bounds.MinX = []float64{0, 2, 0}
			o.Bounds.MaxX = []float64{1, 1, 1}
		}, nil, errors.ErrCodeInvalidValue},
		{"NaN bound", g, func(o *Options) { o.Bounds.MaxY = []float64{0, math.NaN(), 0} }, nil, errors.ErrCodeInvalidValue},
		{"min at +Inf", g, func(o *Options) { o.Bounds.MinX = []float64{0, math.Inf(1), 0} }, nil, errors.ErrCodeInvalidValue},
		{"max at -Inf", g, func(o *Options) { o.Bounds.MaxY = []float64{math.Inf(-1), 0, 0} }, nil, errors.ErrCodeInvalidValue},
		{"seed length", g, func(o *Options) { o.UseSeed = true }, []r2.Vec{{X: 1}, {X: 2}}, errors.ErrCodeInvalidSize},
		{"seed not finite", g, func(o *Options) { o.UseSeed = true }, []r2.Vec{{X: 1}, {X: math.Inf(-1)}, {}}, errors.ErrCodeInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid()
			tt.modify(&opts)
			before := slices.Clone(tt.seed)
			_, err := Layout(tt.g, tt.seed, opts)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Layout() error = %v, want code %s", err, tt.code)
			}
			for i := range before {
				if before[i] != tt.seed[i] {
					t.Errorf("seed[%d] modified on error: %v -> %v", i, before[i], tt.seed[i])
				}
			}
		})
	}
}

func TestLayoutStartsOnCircle(t *testing.T) {
	n := 7
	res, err := Run(ugraph.Ring(n), nil, Options{MaxIterations: 0, KKConst: 1, Seed: 9})
	if err != nil {
		t.Fatal(err)
	}
	r := math.Sqrt(float64(n)) / 2
	for i, p := range res.Pos {
		if got := r2.Norm(p); math.Abs(got-r) > 1e-12 {
			t.Errorf("|pos[%d]| = %v, want %v", i, got, r)
		}
	}
	side := r2.Norm(r2.Sub(res.Pos[0], res.Pos[1]))
	for i := range res.Pos {
		j := (i + 1) % n
		if got := r2.Norm(r2.Sub(res.Pos[i], res.Pos[j])); math.Abs(got-side) > 1e-12 {
			t.Errorf("|pos[%d]-pos[%d]| = %v, want %v", i, j, got, side)
		}
	}
}

func TestLayoutInfiniteBoundsAreOpen(t *testing.T) {
	n := 4
	inf := Bounds{
		MinX: fill(n, math.Inf(-1)), MaxX: fill(n, math.Inf(1)),
		MinY: fill(n, math.Inf(-1)), MaxY: fill(n, math.Inf(1)),
	}
	opts := Options{MaxIterations: 100, KKConst: 4, Seed: 11}

	open, err := Layout(ugraph.Ring(n), nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.Bounds = inf
	bounded, err := Layout(ugraph.Ring(n), nil, opts)
	if err != nil {
		t.Fatalf("Layout(infinite bounds) error: %v", err)
	}
	assertFinite(t, bounded)
	if !slices.Equal(open, bounded) {
		t.Errorf("infinite bounds changed the layout:\n%v\n%v", open, bounded)
	}

	// One finite side per vertex, the rest infinite.
	opts.Bounds = Bounds{MinX: []float64{0, math.Inf(-1), 0, math.Inf(-1)}, MaxY: fill(n, math.Inf(1))}
	pos, err := Layout(ugraph.Ring(n), nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	assertFinite(t, pos)
	if pos[0].X < 0 || pos[2].X < 0 {
		t.Errorf("pos = %v, want x >= 0 for vertices 0 and 2", pos)
	}

	lone, err := Layout(ugraph.New(1), nil, Options{KKConst: 1, Bounds: Bounds{MinX: []float64{math.Inf(-1)}, MaxX: []float64{2}}})
	if err != nil {
		t.Fatal(err)
	}
	if want := (r2.Vec{X: 2}); lone[0] != want {
		t.Errorf("Layout(singleton) = %v, want %v", lone[0], want)
	}
}

func TestRunContextCancelledClampsSeed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	seed := []r2.Vec{{X: 5, Y: -5}, {X: 0, Y: 0}, {X: -3, Y: 0.5}}
	res, err := RunContext(ctx, ugraph.Ring(3), seed, Options{UseSeed: true, MaxIterations: 100, KKConst: 3, Bounds: box(3, 1)})
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("RunContext() error = %v, want context.Canceled", err)
	}
	want := []r2.Vec{{X: 1, Y: -1}, {X: 0, Y: 0}, {X: -1, Y: 0.5}}
	if !slices.Equal(res.Pos, want) {
		t.Errorf("RunContext() = %v, want %v", res.Pos, want)
	}
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := RunContext(ctx, ugraph.Ring(5), nil, Options{MaxIterations: 100, KKConst: 5})
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("RunContext() error = %v, want context.Canceled", err)
	}
	if len(res.Pos) != 5 || res.Stats.Iterations != 0 {
		t.Errorf("RunContext() = %d positions, %d iterations", len(res.Pos), res.Stats.Iterations)
	}
}

func TestLayoutMatrix(t *testing.T) {
	t.Run("not seeded reallocates", func(t *testing.T) {
		m := mat.NewDense(3, 7, nil)
		if _, err := LayoutMatrix(ugraph.Ring(4), m, Options{MaxIterations: 20, KKConst: 4, Bounds: box(4, 1)}); err != nil {
			t.Fatal(err)
		}
		if r, c := m.Dims(); r != 4 || c != 2 {
			t.Fatalf("Dims() = %d×%d, want 4×2", r, c)
		}
		for i := 0; i < 4; i++ {
			if x, y := m.At(i, 0), m.At(i, 1); math.Abs(x) > 1 || math.Abs(y) > 1 {
				t.Errorf("row %d = (%v, %v), want within ±1", i, x, y)
			}
		}
	})

	t.Run("not seeded empty graph", func(t *testing.T) {
		m := mat.NewDense(2, 2, nil)
		if _, err := LayoutMatrix(ugraph.New(0), m, Options{KKConst: 1}); err != nil {
			t.Fatal(err)
		}
		if !m.IsEmpty() {
			t.Error("matrix not empty for a graph without vertices")
		}
	})

	t.Run("seeded identity", func(t *testing.T) {
		data := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
		m := mat.NewDense(5, 2, slices.Clone(data))
		if _, err := LayoutMatrix(ugraph.Full(5), m, Options{UseSeed: true, Epsilon: 1e-4, KKConst: 10}); err != nil {
			t.Fatal(err)
		}
		if !mat.Equal(m, mat.NewDense(5, 2, data)) {
			t.Errorf("matrix changed:\n%v", mat.Formatted(m))
		}
	})

	t.Run("seeded wrong shape", func(t *testing.T) {
		m := mat.NewDense(4, 2, nil)
		_, err := LayoutMatrix(ugraph.Full(5), m, Options{UseSeed: true, KKConst: 10})
		if !errors.Is(err, errors.ErrCodeInvalidSize) {
			t.Errorf("LayoutMatrix() error = %v, want INVALID_SIZE", err)
		}
		if r, _ := m.Dims(); r != 4 {
			t.Error("matrix modified on error")
		}
	})

	t.Run("invalid options leave matrix untouched", func(t *testing.T) {
		m := mat.NewDense(1, 3, []float64{1, 2, 3})
		_, err := LayoutMatrix(ugraph.Ring(3), m, Options{KKConst: -1})
		if !errors.Is(err, errors.ErrCodeInvalidValue) {
			t.Errorf("LayoutMatrix() error = %v, want INVALID_VALUE", err)
		}
		if r, c := m.Dims(); r != 1 || c != 3 {
			t.Errorf("Dims() = %d×%d, want 1×3", r, c)
		}
	})
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions(10)
	if opts.MaxIterations != 500 || opts.KKConst != 10 || opts.Epsilon != 0 {
		t.Errorf("DefaultOptions(10) = %+v", opts)
	}
	if got := DefaultOptions(0).KKConst; got != 1 {
		t.Errorf("DefaultOptions(0).KKConst = %v, want 1", got)
	}
	if _, err := Layout(ugraph.Ring(10), nil, DefaultOptions(10)); err != nil {
		t.Errorf("Layout(DefaultOptions) error: %v", err)
	}
}

func TestNewtonStepAtRestIsNegligible(t *testing.T) {
	g := mustPairs(t, 2, 0, 1)
	d, err := DistanceMatrix(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(d, 2)

	for _, seed := range []uint64{1, 2, 3, 42} {
		pos := make([]r2.Vec, 2)
		circleLayout(pos, rand.New(rand.NewPCG(seed, seedStream)))
		o := newOptimizer(m, pos, Bounds{})
		for v := range pos {
			if step := r2.Norm(o.newtonStep(v)); step > 1e-9 {
				t.Errorf("seed %d: |newtonStep(%d)| = %v at rest, want ~0", seed, v, step)
			}
		}
	}
}
