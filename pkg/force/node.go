package force

import (
	"math"
	"math/rand/v2"
)

// Node is an engine-owned node record.
//
// ID, Group and Val are copied from the snapshot and never change. The
// remaining fields belong to the simulation; FX and FY are meaningful only
// while Pinned is set.
type Node struct {
	ID    string
	Group string
	Val   float64

	X, Y   float64
	VX, VY float64

	Pinned bool
	FX, FY float64
}

// Link is an engine-owned link with endpoints resolved to node indices.
type Link struct {
	Source       int
	Target       int
	Relationship string
}

const (
	initialRadius = 10.0
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// place seeds node positions on a phyllotaxis spiral around (cx, cy).
// The result depends only on node order, so layouts are reproducible.
func place(nodes []Node, cx, cy float64) {
	for i := range nodes {
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		nodes[i].X = cx + r*math.Cos(a)
		nodes[i].Y = cy + r*math.Sin(a)
		nodes[i].VX, nodes[i].VY = 0, 0
	}
}

// jiggle returns a tiny random offset used to separate coincident nodes.
func jiggle(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 1e-6
}
