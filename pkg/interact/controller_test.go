package interact

import (
	"math"
	"testing"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// fakeTarget records pins and alpha targets.
type fakeTarget struct {
	pos         [][2]float64
	pinned      map[int][2]float64
	alphaTarget float64
	unpins      int
}

func newFake(pos ...[2]float64) *fakeTarget {
	return &fakeTarget{pos: pos, pinned: map[int][2]float64{}}
}

func (f *fakeTarget) NodeCount() int                    { return len(f.pos) }
func (f *fakeTarget) Position(i int) (float64, float64) { return f.pos[i][0], f.pos[i][1] }
func (f *fakeTarget) SetAlphaTarget(a float64)          { f.alphaTarget = a }

func (f *fakeTarget) Pin(i int, x, y float64) error {
	f.pinned[i] = [2]float64{x, y}
	f.pos[i] = [2]float64{x, y}
	return nil
}

func (f *fakeTarget) Unpin(i int) error {
	delete(f.pinned, i)
	f.unpins++
	return nil
}

var _ Target = (*fakeTarget)(nil)
var _ Target = (*force.Simulation)(nil)

func TestDragPinsAndReheats(t *testing.T) {
	target := newFake([2]float64{100, 100}, [2]float64{300, 300})
	c := NewController(target, DefaultConfig())

	if err := c.PointerDown(102, 98); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if c.Mode() != ModeDrag {
		t.Fatalf("Mode() = %v, want drag", c.Mode())
	}
	if got := target.pinned[0]; got != [2]float64{100, 100} {
		t.Errorf("pin at down = %v, want node's current position (100, 100)", got)
	}
	if target.alphaTarget != DefaultDragAlphaTarget {
		t.Errorf("alpha target = %v, want %v", target.alphaTarget, DefaultDragAlphaTarget)
	}

	if err := c.PointerMove(150, 160); err != nil {
		t.Fatalf("PointerMove: %v", err)
	}
	if got := target.pinned[0]; got != [2]float64{150, 160} {
		t.Errorf("pin after move = %v, want (150, 160)", got)
	}

	if err := c.PointerUp(150, 160); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if _, ok := target.pinned[0]; ok {
		t.Error("node still pinned after PointerUp")
	}
	if target.alphaTarget != 0 {
		t.Errorf("alpha target = %v after drag end, want 0", target.alphaTarget)
	}
	if c.Mode() != ModeIdle {
		t.Errorf("Mode() = %v, want idle", c.Mode())
	}
}

func TestDragInverseMapsThroughTransform(t *testing.T) {
	target := newFake([2]float64{10, 10})
	c := NewController(target, DefaultConfig())
	c.SetTransform(Transform{X: 100, Y: 50, K: 2})

	// Node (10, 10) is drawn at (120, 70).
	if err := c.PointerDown(120, 70); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if _, ok := c.Dragging(); !ok {
		t.Fatal("pointer over transformed node did not start a drag")
	}
	if err := c.PointerMove(200, 250); err != nil {
		t.Fatalf("PointerMove: %v", err)
	}
	if got := target.pinned[0]; got != [2]float64{50, 100} {
		t.Errorf("pin = %v, want inverse-mapped (50, 100)", got)
	}
}

func TestBackgroundPan(t *testing.T) {
	target := newFake([2]float64{0, 0})
	c := NewController(target, DefaultConfig())

	_ = c.PointerDown(500, 500)
	if c.Mode() != ModePan {
		t.Fatalf("Mode() = %v, want pan", c.Mode())
	}
	_ = c.PointerMove(510, 480)
	_ = c.PointerMove(520, 490)
	_ = c.PointerUp(520, 490)

	if got := c.Transform(); got.X != 20 || got.Y != -10 || got.K != 1 {
		t.Errorf("Transform() = %+v, want {20 -10 1}", got)
	}
	if len(target.pinned) != 0 {
		t.Errorf("pan pinned nodes: %v", target.pinned)
	}
}

func TestWheelZoom(t *testing.T) {
	c := NewController(nil, DefaultConfig())

	// deltaY -500 → factor 2^(1) = 2
	if err := c.Wheel(100, 100, -500); err != nil {
		t.Fatalf("Wheel: %v", err)
	}
	tr := c.Transform()
	if !near(tr.K, 2) {
		t.Errorf("K = %v, want 2", tr.K)
	}
	if x, y := tr.Invert(100, 100); !near(x, 100) || !near(y, 100) {
		t.Errorf("pointer anchor moved to (%v, %v)", x, y)
	}

	for range 50 {
		_ = c.Wheel(0, 0, -1000)
	}
	if got := c.Transform().K; got != DefaultScaleMax {
		t.Errorf("K = %v after zooming in, want clamp %v", got, DefaultScaleMax)
	}
	for range 50 {
		_ = c.Wheel(0, 0, 1000)
	}
	if got := c.Transform().K; got != DefaultScaleMin {
		t.Errorf("K = %v after zooming out, want clamp %v", got, DefaultScaleMin)
	}
}

func TestPinch(t *testing.T) {
	c := NewController(nil, DefaultConfig())
	if err := c.Pinch(50, 50, 1.5); err != nil {
		t.Fatalf("Pinch: %v", err)
	}
	if got := c.Transform().K; !near(got, 1.5) {
		t.Errorf("K = %v, want 1.5", got)
	}
	if err := c.Pinch(50, 50, 0); !errs.Is(err, errs.ErrCodeInvalidPointer) {
		t.Errorf("Pinch(factor 0) = %v, want INVALID_POINTER", err)
	}
}

func TestInvalidPointer(t *testing.T) {
	c := NewController(newFake([2]float64{0, 0}), DefaultConfig())
	if err := c.PointerDown(math.NaN(), 0); !errs.Is(err, errs.ErrCodeInvalidPointer) {
		t.Errorf("PointerDown(NaN) = %v, want INVALID_POINTER", err)
	}
	if err := c.Wheel(0, 0, math.Inf(1)); !errs.Is(err, errs.ErrCodeInvalidPointer) {
		t.Errorf("Wheel(Inf) = %v, want INVALID_POINTER", err)
	}
}

func TestSetTargetCancelsDrag(t *testing.T) {
	old := newFake([2]float64{0, 0})
	c := NewController(old, DefaultConfig())
	_ = c.PointerDown(0, 0)

	next := newFake([2]float64{0, 0})
	c.SetTarget(next)
	if c.Mode() != ModeIdle {
		t.Errorf("Mode() = %v after SetTarget, want idle", c.Mode())
	}
	_ = c.PointerMove(40, 40)
	_ = c.PointerUp(40, 40)
	if len(next.pinned) != 0 || next.unpins != 0 {
		t.Errorf("stale drag reached the new target: pinned=%v unpins=%d", next.pinned, next.unpins)
	}
}

func TestHitTestPicksNearest(t *testing.T) {
	c := NewController(newFake([2]float64{0, 0}, [2]float64{10, 0}), DefaultConfig())
	if i, ok := c.HitTest(8, 0); !ok || i != 1 {
		t.Errorf("HitTest(8, 0) = %d, %v; want 1, true", i, ok)
	}
	if _, ok := c.HitTest(500, 500); ok {
		t.Error("HitTest far away should miss")
	}
}

func TestDragOrderingWithSimulation(t *testing.T) {
	s := graph.Snapshot{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Links: []graph.Link{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}},
	}
	sim, err := force.New(s, force.Viewport{Width: 400, Height: 400}, force.DefaultConfig())
	if err != nil {
		t.Fatalf("force.New: %v", err)
	}
	sim.Tick(300)

	c := NewController(sim, DefaultConfig())
	x, y := sim.Position(1)
	if err := c.PointerDown(x, y); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if sim.AlphaTarget() != DefaultDragAlphaTarget {
		t.Errorf("AlphaTarget() = %v, want %v", sim.AlphaTarget(), DefaultDragAlphaTarget)
	}

	for i := range 20 {
		px, py := 50+float64(i)*5, 60+float64(i)*3
		if err := c.PointerMove(px, py); err != nil {
			t.Fatalf("PointerMove: %v", err)
		}
		if !sim.Step() {
			t.Fatal("Step() = false during drag")
		}
		if gx, gy := sim.Position(1); gx != px || gy != py {
			t.Errorf("step %d: dragged node at (%v, %v), want (%v, %v)", i, gx, gy, px, py)
		}
	}

	if err := c.PointerUp(0, 0); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if sim.Node(1).Pinned {
		t.Error("node still pinned after PointerUp")
	}
	if sim.AlphaTarget() != 0 {
		t.Errorf("AlphaTarget() = %v after drag, want 0", sim.AlphaTarget())
	}
}
