package force

import (
	"math"
	"math/rand/v2"
	"testing"
)

func testRNG() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLinkForce(t *testing.T) {
	nodes := []Node{{X: 0, Y: 0}, {X: 200, Y: 0}}
	links := []Link{{Source: 0, Target: 1}}

	f := &LinkForce{Distance: 100, Iterations: 1}
	f.Initialize(nodes, links, testRNG())
	f.Apply(nodes, links, 1)

	// Equal degrees split the correction evenly; with alpha 1 and strength 1
	// the predicted distance lands exactly on the target.
	if !approx(nodes[0].VX, 50) || !approx(nodes[1].VX, -50) {
		t.Errorf("velocities = %v, %v; want 50, -50", nodes[0].VX, nodes[1].VX)
	}
	pred := (nodes[1].X + nodes[1].VX) - (nodes[0].X + nodes[0].VX)
	if !approx(pred, 100) {
		t.Errorf("predicted distance = %v, want 100", pred)
	}
}

func TestLinkForceDegreeBias(t *testing.T) {
	// Node 0 is a hub with three links; its links are weaker and it moves less.
	nodes := []Node{{}, {X: 200}, {Y: 200}, {X: -200}}
	links := []Link{{Source: 0, Target: 1}, {Source: 0, Target: 2}, {Source: 0, Target: 3}}

	f := &LinkForce{Distance: 100}
	f.Initialize(nodes, links, testRNG())
	if !approx(f.strength[0], 1) {
		t.Errorf("strength = %v, want 1 (1/min(3,1))", f.strength[0])
	}
	if !approx(f.bias[0], 0.75) {
		t.Errorf("bias = %v, want 0.75", f.bias[0])
	}
}

func TestLinkForceSkipsSelfLoops(t *testing.T) {
	nodes := []Node{{X: 5, Y: 5}}
	links := []Link{{Source: 0, Target: 0}}
	f := &LinkForce{Distance: 100}
	f.Initialize(nodes, links, testRNG())
	f.Apply(nodes, links, 1)
	if nodes[0].VX != 0 || nodes[0].VY != 0 {
		t.Errorf("self-loop moved node: v = (%v, %v)", nodes[0].VX, nodes[0].VY)
	}
}

func TestManyBodyRepels(t *testing.T) {
	for _, theta := range []float64{0, DefaultTheta} {
		nodes := []Node{{X: 0, Y: 0}, {X: 10, Y: 0}}
		f := &ManyBody{Strength: -300, Theta: theta, DistanceMin: 1}
		f.Initialize(nodes, nil, testRNG())
		f.Apply(nodes, nil, 1)

		// dv = dx * strength * alpha / d² = 10 * -300 / 100
		if !approx(nodes[0].VX, -30) || !approx(nodes[1].VX, 30) {
			t.Errorf("theta %v: velocities = %v, %v; want -30, 30", theta, nodes[0].VX, nodes[1].VX)
		}
	}
}

func TestManyBodyApproximatesExact(t *testing.T) {
	grid := func() []Node {
		var nodes []Node
		for i := range 10 {
			for j := range 10 {
				nodes = append(nodes, Node{X: float64(i) * 37, Y: float64(j) * 41})
			}
		}
		return nodes
	}

	exact, approxNodes := grid(), grid()
	fe := &ManyBody{Strength: -300, Theta: 0, DistanceMin: 1}
	fe.Initialize(exact, nil, testRNG())
	fe.Apply(exact, nil, 1)

	fa := &ManyBody{Strength: -300, Theta: DefaultTheta, DistanceMin: 1}
	fa.Initialize(approxNodes, nil, testRNG())
	fa.Apply(approxNodes, nil, 1)

	var errSum, magSum float64
	for i := range exact {
		errSum += math.Hypot(exact[i].VX-approxNodes[i].VX, exact[i].VY-approxNodes[i].VY)
		magSum += math.Hypot(exact[i].VX, exact[i].VY)
	}
	if rel := errSum / magSum; rel > 0.2 {
		t.Errorf("relative Barnes-Hut error = %v, want < 0.2", rel)
	}
}

func TestManyBodyCoincident(t *testing.T) {
	nodes := []Node{{X: 5, Y: 5}, {X: 5, Y: 5}, {X: 50, Y: 5}}
	f := &ManyBody{Strength: -300, Theta: DefaultTheta, DistanceMin: 1}
	f.Initialize(nodes, nil, testRNG())
	f.Apply(nodes, nil, 1)
	for i, n := range nodes {
		if math.IsNaN(n.VX) || math.IsNaN(n.VY) || math.IsInf(n.VX, 0) || math.IsInf(n.VY, 0) {
			t.Errorf("node %d velocity = (%v, %v)", i, n.VX, n.VY)
		}
	}
}

func TestManyBodyDistanceMax(t *testing.T) {
	nodes := []Node{{X: 0}, {X: 500}}
	f := &ManyBody{Strength: -300, DistanceMin: 1, DistanceMax: 100}
	f.Initialize(nodes, nil, testRNG())
	f.Apply(nodes, nil, 1)
	if nodes[0].VX != 0 {
		t.Errorf("VX = %v beyond DistanceMax, want 0", nodes[0].VX)
	}
}

func TestCenter(t *testing.T) {
	nodes := []Node{{X: 0, Y: 0}, {X: 10, Y: 0}}
	f := &Center{Strength: 1}
	f.SetViewport(Viewport{Width: 100, Height: 100})
	f.Apply(nodes, nil, 1)

	if nodes[0].X != 45 || nodes[0].Y != 50 || nodes[1].X != 55 || nodes[1].Y != 50 {
		t.Errorf("positions = (%v,%v) (%v,%v); want (45,50) (55,50)",
			nodes[0].X, nodes[0].Y, nodes[1].X, nodes[1].Y)
	}
	if x, y := f.Target(); x != 50 || y != 50 {
		t.Errorf("Target() = (%v, %v), want (50, 50)", x, y)
	}
}

func TestCollide(t *testing.T) {
	nodes := []Node{{X: 0, Y: 0}, {X: 10, Y: 0}}
	f := &Collide{Radius: 30, Strength: 1}
	f.Initialize(nodes, nil, testRNG())
	f.Apply(nodes, nil, 1)

	pred := (nodes[1].X + nodes[1].VX) - (nodes[0].X + nodes[0].VX)
	if !approx(pred, 60) {
		t.Errorf("predicted separation = %v, want 60", pred)
	}
}

func TestCollideIgnoresDistantPairs(t *testing.T) {
	nodes := []Node{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}}
	f := &Collide{Radius: 30, Strength: 1}
	f.Initialize(nodes, nil, testRNG())
	f.Apply(nodes, nil, 1)
	for i, n := range nodes {
		if n.VX != 0 || n.VY != 0 {
			t.Errorf("node %d moved: v = (%v, %v)", i, n.VX, n.VY)
		}
	}
}

func TestCollideRadiusOf(t *testing.T) {
	nodes := []Node{{X: 0, Val: 10}, {X: 5, Val: 40}}
	f := &Collide{
		RadiusOf: func(n *Node) float64 { return n.Val },
		Strength: 1,
	}
	f.Initialize(nodes, nil, testRNG())
	f.Apply(nodes, nil, 1)

	pred := (nodes[1].X + nodes[1].VX) - (nodes[0].X + nodes[0].VX)
	if !approx(pred, 50) {
		t.Errorf("predicted separation = %v, want 50", pred)
	}
	// The smaller node gives way more.
	if math.Abs(nodes[0].VX) <= math.Abs(nodes[1].VX) {
		t.Errorf("small node moved %v, large node %v", nodes[0].VX, nodes[1].VX)
	}
}
