package kamadakawai

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// cancelCheckInterval is how many steps run between context checks.
const cancelCheckInterval = 256

// singularTol is the determinant, relative to the squared Frobenius norm of
// the local Hessian, below which the Newton system counts as singular.
const singularTol = 1e-12

// Stats describes a finished optimisation.
type Stats struct {
	Iterations    int     // vertex moves performed
	Converged     bool    // stopped because the largest gradient fell to Epsilon
	MaxGradient   float64 // largest gradient magnitude at termination
	InitialEnergy float64
	FinalEnergy   float64
}

// optimizer moves one vertex per step towards its local equilibrium.
type optimizer struct {
	m    *Model
	pos  []r2.Vec
	grad []r2.Vec
	b    Bounds
}

func newOptimizer(m *Model, pos []r2.Vec, b Bounds) *optimizer {
	o := &optimizer{m: m, pos: pos, grad: make([]r2.Vec, len(pos)), b: b}
	for v := range pos {
		o.grad[v] = m.Gradient(pos, v)
	}
	return o
}

// run steps until the iteration cap or convergence. The context is polled
// every cancelCheckInterval steps; on cancellation pos holds the layout
// reached so far.
func (o *optimizer) run(ctx context.Context, maxIter int, eps float64) (Stats, error) {
	var st Stats
	for {
		v, mag := o.steepest()
		st.MaxGradient = mag
		if eps > 0 && mag <= eps {
			st.Converged = true
			return st, nil
		}
		if st.Iterations >= maxIter {
			return st, nil
		}
		if st.Iterations%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return st, err
			}
		}
		o.step(v)
		st.Iterations++
	}
}

// steepest returns the vertex with the largest gradient magnitude. Ties go
// to the lowest index.
func (o *optimizer) steepest() (int, float64) {
	best, bestMag := 0, -1.0
	for v := range o.grad {
		g := o.projected(v)
		if mag := math.Hypot(g.X, g.Y); mag > bestMag {
			best, bestMag = v, mag
		}
	}
	return best, bestMag
}

// projected returns the gradient of v without the components that would push
// it further across a bound it already sits on. A vertex pinned against a
// wall therefore stops attracting steps that the clamp would undo.
func (o *optimizer) projected(v int) r2.Vec {
	g, p := o.grad[v], o.pos[v]
	if blocked(p.X, g.X, o.b.MinX, o.b.MaxX, v) {
		g.X = 0
	}
	if blocked(p.Y, g.Y, o.b.MinY, o.b.MaxY, v) {
		g.Y = 0
	}
	return g
}

// blocked reports whether a descent step along -g leaves [lo, hi] at x.
func blocked(x, g float64, lo, hi []float64, i int) bool {
	return (lo != nil && x <= lo[i] && g > 0) || (hi != nil && x >= hi[i] && g < 0)
}

// step moves v by one Newton-Raphson step, clamps it into its box and
// updates all gradients that depend on its position.
func (o *optimizer) step(v int) {
	old := o.pos[v]
	next := o.b.Clamp(v, r2.Add(old, o.newtonStep(v)))
	if next == old {
		next = o.b.Clamp(v, r2.Add(old, o.gradientStep(v, o.projected(v))))
		if next == old {
			return
		}
	}
	o.pos[v] = next

	var gv r2.Vec
	for i := range o.pos {
		if i == v {
			continue
		}
		before := o.m.pairGradient(o.pos[i], old, i, v)
		after := o.m.pairGradient(o.pos[i], next, i, v)
		o.grad[i] = r2.Add(o.grad[i], r2.Sub(after, before))
		gv = r2.Add(gv, o.m.pairGradient(next, o.pos[i], v, i))
	}
	o.grad[v] = gv
}

// newtonStep solves the 2×2 system H·δ = -∇ for vertex v. When the Hessian
// is (numerically) singular or the solution is not finite it falls back to a gradient step
// scaled by the total stiffness acting on v. Steps longer than the longest
// rest length are shortened to it.
func (o *optimizer) newtonStep(v int) r2.Vec {
	g := o.grad[v]
	a, b, c := o.m.Hessian(o.pos, v)

	delta := o.gradientStep(v, g)
	det := a*c - b*b
	if a != 0 && math.Abs(det) > singularTol*(a*a+2*b*b+c*c) {
		dy := (b*g.X - a*g.Y) / det
		dx := -(g.X + b*dy) / a
		if finite(dx) && finite(dy) {
			delta = r2.Vec{X: dx, Y: dy}
		}
	}
	if limit := o.m.MaxRestLength(); limit > 0 {
		if norm := r2.Norm(delta); norm > limit {
			delta = r2.Scale(limit/norm, delta)
		}
	}
	return delta
}

func (o *optimizer) gradientStep(v int, g r2.Vec) r2.Vec {
	s := o.m.stiffnessSum(v)
	if s == 0 {
		return r2.Vec{}
	}
	return r2.Scale(-1/s, g)
}
