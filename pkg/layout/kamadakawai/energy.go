package kamadakawai

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// Model holds the spring parameters of every vertex pair.
//
// Rest lengths are the graph distances scaled by L = sqrt(n) / max d, so the
// longest spring has rest length sqrt(n) whatever the edge weights. Stiffness
// is kkconst / d². Both are stored row-major in flat n·n slices.
type Model struct {
	n int
	k []float64 // stiffness
	l []float64 // rest length
}

// NewModel derives spring parameters from a distance matrix. Off-diagonal
// distances must be positive and finite, as returned by [DistanceMatrix].
func NewModel(d *mat.SymDense, kkconst float64) *Model {
	n := 0
	if d != nil {
		n = d.SymmetricDim()
	}
	m := &Model{n: n, k: make([]float64, n*n), l: make([]float64, n*n)}
	if n < 2 {
		return m
	}

	maxDist := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			maxDist = math.Max(maxDist, d.At(i, j))
		}
	}
	unit := math.Sqrt(float64(n)) / maxDist

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dij := d.At(i, j)
			k := kkconst / (dij * dij)
			l := unit * dij
			m.k[i*n+j], m.k[j*n+i] = k, k
			m.l[i*n+j], m.l[j*n+i] = l, l
		}
	}
	return m
}

// Len returns the number of vertices.
func (m *Model) Len() int { return m.n }

// MaxRestLength returns the longest rest length, sqrt(n) for n > 1.
func (m *Model) MaxRestLength() float64 {
	if m.n < 2 {
		return 0
	}
	return math.Sqrt(float64(m.n))
}

// Stiffness returns the spring constant between i and j.
func (m *Model) Stiffness(i, j int) float64 { return m.k[i*m.n+j] }

// RestLength returns the ideal distance between i and j.
func (m *Model) RestLength(i, j int) float64 { return m.l[i*m.n+j] }

// Energy returns the total spring energy of pos.
func (m *Model) Energy(pos []r2.Vec) float64 {
	e := 0.0
	for i := 0; i < m.n; i++ {
		for j := i + 1; j < m.n; j++ {
			diff := r2.Norm(r2.Sub(pos[i], pos[j])) - m.l[i*m.n+j]
			e += 0.5 * m.k[i*m.n+j] * diff * diff
		}
	}
	return e
}

// Gradient returns the partial derivatives of the energy with respect to the
// coordinates of vertex v.
func (m *Model) Gradient(pos []r2.Vec, v int) r2.Vec {
	var g r2.Vec
	for j := 0; j < m.n; j++ {
		if j == v {
			continue
		}
		g = r2.Add(g, m.pairGradient(pos[v], pos[j], v, j))
	}
	return g
}

// pairGradient is the contribution of the (i, j) spring to the gradient at
// pi. Coincident points exert no force.
func (m *Model) pairGradient(pi, pj r2.Vec, i, j int) r2.Vec {
	dx, dy := pi.X-pj.X, pi.Y-pj.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return r2.Vec{}
	}
	k, l := m.k[i*m.n+j], m.l[i*m.n+j]
	return r2.Vec{
		X: k * (dx - l*dx/dist),
		Y: k * (dy - l*dy/dist),
	}
}

// Hessian returns the second partial derivatives of the energy with respect
// to the coordinates of vertex v: ∂²E/∂x², ∂²E/∂x∂y and ∂²E/∂y².
func (m *Model) Hessian(pos []r2.Vec, v int) (xx, xy, yy float64) {
	for j := 0; j < m.n; j++ {
		if j == v {
			continue
		}
		dx, dy := pos[v].X-pos[j].X, pos[v].Y-pos[j].Y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			continue
		}
		den := dist * dist * dist
		k, l := m.k[v*m.n+j], m.l[v*m.n+j]
		xx += k * (1 - l*dy*dy/den)
		xy += k * l * dx * dy / den
		yy += k * (1 - l*dx*dx/den)
	}
	return xx, xy, yy
}

// stiffnessSum returns Σ_j k_vj.
func (m *Model) stiffnessSum(v int) float64 {
	s := 0.0
	for j := 0; j < m.n; j++ {
		if j != v {
			s += m.k[v*m.n+j]
		}
	}
	return s
}
