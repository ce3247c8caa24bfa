package force

import "math/rand/v2"

// Center translates all nodes so that their centroid moves toward the
// viewport center. It adjusts positions directly and leaves velocities alone,
// so it never adds energy to the system.
type Center struct {
	Strength float64

	x, y float64
}

var (
	_ Force         = (*Center)(nil)
	_ ViewportAware = (*Center)(nil)
)

// Initialize is a no-op; Center keeps no per-node state.
func (f *Center) Initialize([]Node, []Link, *rand.Rand) {}

// SetViewport moves the centering target to the viewport midpoint.
func (f *Center) SetViewport(v Viewport) { f.x, f.y = v.Center() }

// Target returns the current centering target.
func (f *Center) Target() (x, y float64) { return f.x, f.y }

// Apply shifts every node by the centroid's offset from the target.
func (f *Center) Apply(nodes []Node, _ []Link, _ float64) {
	if len(nodes) == 0 {
		return
	}
	var sx, sy float64
	for i := range nodes {
		sx += nodes[i].X
		sy += nodes[i].Y
	}
	n := float64(len(nodes))
	sx = (sx/n - f.x) * f.Strength
	sy = (sy/n - f.y) * f.Strength
	for i := range nodes {
		nodes[i].X -= sx
		nodes[i].Y -= sy
	}
}
