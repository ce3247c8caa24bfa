package force

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// Collide keeps node circles from overlapping.
//
// Every node has radius Radius (or RadiusOf, when set); two nodes i and j are
// pushed apart whenever their predicted centers (x + vx) are closer than
// r(i) + r(j). Strength is the fraction of the overlap resolved per
// application, split between the pair in proportion to the squared radius of
// the other node. Candidate pairs come from a k-d tree over the predicted
// positions.
type Collide struct {
	Radius     float64
	RadiusOf   func(n *Node) float64
	Strength   float64
	Iterations int

	radii []float64
	rng   *rand.Rand
}

var _ Force = (*Collide)(nil)

// Initialize caches per-node radii.
func (f *Collide) Initialize(nodes []Node, _ []Link, rng *rand.Rand) {
	f.rng = rng
	f.radii = make([]float64, len(nodes))
	for i := range nodes {
		if f.RadiusOf != nil {
			f.radii[i] = f.RadiusOf(&nodes[i])
		} else {
			f.radii[i] = f.Radius
		}
	}
}

// Apply resolves overlaps by adjusting velocities.
func (f *Collide) Apply(nodes []Node, _ []Link, _ float64) {
	if len(nodes) < 2 {
		return
	}
	if len(f.radii) != len(nodes) {
		f.Initialize(nodes, nil, f.rng)
	}
	var maxR float64
	for _, r := range f.radii {
		maxR = math.Max(maxR, r)
	}
	if maxR == 0 {
		return
	}

	for range max(f.Iterations, 1) {
		pts := make(kdPoints, len(nodes))
		for i := range nodes {
			pts[i] = kdPoint{x: nodes[i].X + nodes[i].VX, y: nodes[i].Y + nodes[i].VY, idx: i}
		}
		tree := kdtree.New(pts, false)

		for i := range nodes {
			ni := &nodes[i]
			ri := f.radii[i]
			xi, yi := ni.X+ni.VX, ni.Y+ni.VY

			reach := ri + maxR
			keep := kdtree.NewDistKeeper(reach * reach)
			tree.NearestSet(keep, kdPoint{x: xi, y: yi, idx: -1})

			for _, c := range keep.Heap {
				if c.Comparable == nil {
					continue
				}
				j := c.Comparable.(kdPoint).idx
				if j <= i {
					continue
				}
				f.separate(ni, &nodes[j], xi, yi, ri, f.radii[j])
			}
		}
	}
}

// separate pushes a and b apart if their predicted circles overlap. (xa, ya)
// is a's predicted position at the start of its pass.
func (f *Collide) separate(a, b *Node, xa, ya, ra, rb float64) {
	x := xa - b.X - b.VX
	y := ya - b.Y - b.VY
	l := x*x + y*y
	r := ra + rb
	if l >= r*r {
		return
	}
	if x == 0 {
		x = jiggle(f.rng)
		l += x * x
	}
	if y == 0 {
		y = jiggle(f.rng)
		l += y * y
	}
	d := math.Sqrt(l)
	k := (r - d) / d * f.Strength
	x *= k
	y *= k

	rb2 := rb * rb
	share := rb2 / (ra*ra + rb2)
	if math.IsNaN(share) {
		share = 0.5
	}
	a.VX += x * share
	a.VY += y * share
	share = 1 - share
	b.VX -= x * share
	b.VY -= y * share
}

// =============================================================================
// k-d tree adapter
// =============================================================================

// kdPoint is a predicted node position tagged with its arena index.
type kdPoint struct {
	x, y float64
	idx  int
}

var _ kdtree.Comparable = kdPoint{}

// Compare returns the signed distance of p from the plane through c
// perpendicular to dimension d.
func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	if d == 0 {
		return p.x - q.x
	}
	return p.y - q.y
}

func (p kdPoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance between p and c.
func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(kdPoint)
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

// kdPoints implements kdtree.Interface.
type kdPoints []kdPoint

var _ kdtree.Interface = kdPoints(nil)

func (p kdPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p kdPoints) Len() int                      { return len(p) }

func (p kdPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot orders p along d and returns the median index.
func (p kdPoints) Pivot(d kdtree.Dim) int {
	if d == 0 {
		sort.Slice(p, func(i, j int) bool { return p[i].x < p[j].x })
	} else {
		sort.Slice(p, func(i, j int) bool { return p[i].y < p[j].y })
	}
	return len(p) / 2
}
