package kamadakawai

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// initialLayout fills pos with the starting layout of an unseeded run. A
// graph without any finite bound starts on a circle; otherwise every vertex
// is placed at random inside its box.
func initialLayout(pos []r2.Vec, b Bounds, rng *rand.Rand) {
	if b.open() {
		circleLayout(pos, rng)
		return
	}
	randomLayout(pos, b, rng)
}

// circleLayout places the vertices in index order on a circle of radius
// sqrt(n)/2 centred on the origin. The circle is rotated by a random phase,
// which leaves every pairwise distance unchanged.
func circleLayout(pos []r2.Vec, rng *rand.Rand) {
	n := float64(len(pos))
	r := math.Sqrt(n) / 2
	phase := 2 * math.Pi * rng.Float64()
	for i := range pos {
		s, c := math.Sincos(phase + 2*math.Pi*float64(i)/n)
		pos[i] = r2.Vec{X: r * c, Y: r * s}
	}
}

// randomLayout fills pos with uniformly random coordinates. On an axis with
// both bounds the coordinate is drawn from [min, max]; with one bound it is
// drawn from a band of width sqrt(n) on the inner side of that bound; on an
// open axis it is drawn from [-sqrt(n)/2, sqrt(n)/2]. Infinite bounds count
// as open.
func randomLayout(pos []r2.Vec, b Bounds, rng *rand.Rand) {
	w := math.Sqrt(float64(len(pos)))
	for i := range pos {
		pos[i] = r2.Vec{
			X: randomAxis(rng, b.MinX, b.MaxX, i, w),
			Y: randomAxis(rng, b.MinY, b.MaxY, i, w),
		}
	}
}

func randomAxis(rng *rand.Rand, lo, hi []float64, i int, w float64) float64 {
	u := rng.Float64()
	l, hasLo := side(lo, i)
	h, hasHi := side(hi, i)
	switch {
	case hasLo && hasHi:
		return l + u*(h-l)
	case hasLo:
		return l + u*w
	case hasHi:
		return h - u*w
	default:
		return (u - 0.5) * w
	}
}

// defaultPosition is the position of a lone vertex: the middle of a closed
// axis, the bound of a half-open axis, and 0 on an open one.
func defaultPosition(b Bounds, i int) r2.Vec {
	return r2.Vec{
		X: defaultAxis(b.MinX, b.MaxX, i),
		Y: defaultAxis(b.MinY, b.MaxY, i),
	}
}

func defaultAxis(lo, hi []float64, i int) float64 {
	l, hasLo := side(lo, i)
	h, hasHi := side(hi, i)
	switch {
	case hasLo && hasHi:
		return l + (h-l)/2
	case hasLo:
		return l
	case hasHi:
		return h
	default:
		return 0
	}
}

// side returns bound i of v and whether it constrains anything.
func side(v []float64, i int) (float64, bool) {
	if v == nil || math.IsInf(v[i], 0) {
		return 0, false
	}
	return v[i], true
}
