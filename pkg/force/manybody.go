package force

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

// ManyBody applies a pairwise inverse-distance force between all nodes. A
// negative Strength repels.
//
// Distant clusters are approximated by their center of mass with a
// Barnes-Hut quadtree; Theta controls the accuracy, and a Theta of zero, or a
// tree that cannot be built, falls back to the exact O(n²) sum.
type ManyBody struct {
	Strength    float64
	Theta       float64
	DistanceMin float64
	DistanceMax float64 // 0 = unbounded

	bodies    []*body
	particles []barneshut.Particle2
	rng       *rand.Rand
}

var _ Force = (*ManyBody)(nil)

// body adapts a node position to barneshut.Particle2. Every body has unit
// mass; the aggregate mass of a quadtree cell is therefore its node count.
type body struct {
	pos r2.Vec
}

func (b *body) Coord2() r2.Vec { return b.pos }
func (b *body) Mass() float64  { return 1 }

// Initialize allocates one body per node.
func (f *ManyBody) Initialize(nodes []Node, _ []Link, rng *rand.Rand) {
	f.rng = rng
	f.bodies = make([]*body, len(nodes))
	f.particles = make([]barneshut.Particle2, len(nodes))
	for i := range nodes {
		f.bodies[i] = &body{}
		f.particles[i] = f.bodies[i]
	}
}

// Apply accumulates the repulsion into node velocities.
func (f *ManyBody) Apply(nodes []Node, _ []Link, alpha float64) {
	if len(nodes) < 2 || f.Strength == 0 {
		return
	}
	if len(f.bodies) != len(nodes) {
		f.Initialize(nodes, nil, f.rng)
	}
	for i := range nodes {
		f.bodies[i].pos = r2.Vec{X: nodes[i].X, Y: nodes[i].Y}
	}

	fn := f.interaction(alpha)

	if f.Theta > 0 && !f.coincident() {
		if plane, err := barneshut.NewPlane(f.particles); err == nil {
			for i, b := range f.bodies {
				dv := plane.ForceOn(b, f.Theta, fn)
				nodes[i].VX += dv.X
				nodes[i].VY += dv.Y
			}
			return
		}
	}

	for i, b := range f.bodies {
		var dv r2.Vec
		for _, other := range f.bodies {
			dv = r2.Add(dv, fn(b, other, 1, 1, r2.Sub(other.pos, b.pos)))
		}
		nodes[i].VX += dv.X
		nodes[i].VY += dv.Y
	}
}

// coincident reports whether two bodies share a position. The quadtree
// cannot separate such bodies, so the exact sum is used instead.
func (f *ManyBody) coincident() bool {
	seen := make(map[r2.Vec]struct{}, len(f.bodies))
	for _, b := range f.bodies {
		if _, ok := seen[b.pos]; ok {
			return true
		}
		seen[b.pos] = struct{}{}
	}
	return false
}

// interaction returns the velocity change on p1 caused by mass m2 at offset
// v from p1. The distance is clamped below by DistanceMin and the
// interaction is dropped beyond DistanceMax.
func (f *ManyBody) interaction(alpha float64) barneshut.Force2 {
	dmin2 := f.DistanceMin * f.DistanceMin
	dmax2 := math.Inf(1)
	if f.DistanceMax > 0 {
		dmax2 = f.DistanceMax * f.DistanceMax
	}

	return func(p1, p2 barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
		if p2 != nil && p1 == p2 {
			return r2.Vec{}
		}
		l := v.X*v.X + v.Y*v.Y
		if l >= dmax2 {
			return r2.Vec{}
		}
		if v.X == 0 {
			v.X = jiggle(f.rng)
			l += v.X * v.X
		}
		if v.Y == 0 {
			v.Y = jiggle(f.rng)
			l += v.Y * v.Y
		}
		if l < dmin2 {
			l = math.Sqrt(dmin2 * l)
		}
		return r2.Scale(f.Strength*m2*alpha/l, v)
	}
}
