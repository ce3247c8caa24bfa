package force

import (
	"math"
	"math/rand/v2"
)

// LinkForce pulls linked nodes toward a target distance.
//
// Each link's strength is 1/min(degree(source), degree(target)), so hubs are
// not torn apart by their many springs, and the correction is split between
// the endpoints in proportion to their degrees. Positions are predicted one
// step ahead (x + vx) before measuring. Self-loops exert no force.
type LinkForce struct {
	Distance   float64
	Iterations int

	strength []float64
	bias     []float64
	rng      *rand.Rand
}

var _ Force = (*LinkForce)(nil)

// Initialize precomputes link strength and bias from node degrees.
func (f *LinkForce) Initialize(nodes []Node, links []Link, rng *rand.Rand) {
	f.rng = rng
	count := make([]int, len(nodes))
	for _, l := range links {
		count[l.Source]++
		count[l.Target]++
	}

	f.strength = make([]float64, len(links))
	f.bias = make([]float64, len(links))
	for i, l := range links {
		s, t := float64(count[l.Source]), float64(count[l.Target])
		f.strength[i] = 1 / math.Min(s, t)
		f.bias[i] = s / (s + t)
	}
}

// Apply nudges endpoint velocities toward the target distance.
func (f *LinkForce) Apply(nodes []Node, links []Link, alpha float64) {
	iterations := max(f.Iterations, 1)
	for range iterations {
		for i, l := range links {
			if l.Source == l.Target {
				continue
			}
			src, tgt := &nodes[l.Source], &nodes[l.Target]

			x := tgt.X + tgt.VX - src.X - src.VX
			y := tgt.Y + tgt.VY - src.Y - src.VY
			if x == 0 {
				x = jiggle(f.rng)
			}
			if y == 0 {
				y = jiggle(f.rng)
			}

			d := math.Sqrt(x*x + y*y)
			k := (d - f.Distance) / d * alpha * f.strength[i]
			x *= k
			y *= k

			b := f.bias[i]
			tgt.VX -= x * b
			tgt.VY -= y * b
			b = 1 - b
			src.VX += x * b
			src.VY += y * b
		}
	}
}
