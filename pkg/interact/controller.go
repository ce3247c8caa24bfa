package interact

import (
	"math"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// Target is the simulation surface the controller steers.
// *force.Simulation satisfies it.
type Target interface {
	NodeCount() int
	Position(i int) (x, y float64)
	Pin(i int, x, y float64) error
	Unpin(i int) error
	SetAlphaTarget(a float64)
}

// Mode is the gesture currently in progress.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrag
	ModePan
)

func (m Mode) String() string {
	switch m {
	case ModeDrag:
		return "drag"
	case ModePan:
		return "pan"
	default:
		return "idle"
	}
}

// Controller turns pointer input into transform changes and pins.
// It is not safe for concurrent use.
type Controller struct {
	cfg       Config
	target    Target
	transform Transform

	mode Mode
	node int // dragged node, valid in ModeDrag

	// Last pointer position in screen units, valid in ModePan.
	lastX, lastY float64
}

// NewController returns a controller for target with an identity transform.
// target may be nil; pointer input then only pans and zooms.
func NewController(target Target, cfg Config) *Controller {
	return &Controller{cfg: cfg, target: target, transform: Identity, node: -1}
}

// SetTarget replaces the steered simulation and cancels any gesture. The
// previous target is not touched, since it is being discarded.
func (c *Controller) SetTarget(t Target) {
	c.target = t
	c.Reset()
}

// Reset cancels any drag or pan in progress. The transform is kept.
func (c *Controller) Reset() {
	c.mode = ModeIdle
	c.node = -1
}

// Mode returns the gesture in progress.
func (c *Controller) Mode() Mode { return c.mode }

// Dragging returns the dragged node index, if any.
func (c *Controller) Dragging() (int, bool) {
	return c.node, c.mode == ModeDrag
}

// Transform returns the current pan/zoom transform.
func (c *Controller) Transform() Transform { return c.transform }

// SetTransform replaces the transform, clamping its scale.
func (c *Controller) SetTransform(t Transform) {
	if t.K == 0 || math.IsNaN(t.K) {
		t.K = 1
	}
	t.K = min(max(t.K, c.cfg.ScaleMin), c.cfg.ScaleMax)
	c.transform = t
}

// HitTest returns the node nearest to the screen point (x, y) within
// HitRadius, measured in simulation space.
func (c *Controller) HitTest(x, y float64) (int, bool) {
	if c.target == nil {
		return -1, false
	}
	sx, sy := c.transform.Invert(x, y)
	best, bestD := -1, c.cfg.HitRadius*c.cfg.HitRadius
	for i := range c.target.NodeCount() {
		nx, ny := c.target.Position(i)
		dx, dy := nx-sx, ny-sy
		if d := dx*dx + dy*dy; d <= bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

// =============================================================================
// Pointer Events
// =============================================================================

// PointerDown starts a drag if (x, y) is over a node, otherwise a pan.
func (c *Controller) PointerDown(x, y float64) error {
	if err := errs.ValidatePoint(x, y); err != nil {
		return err
	}
	if c.mode == ModeDrag {
		c.release()
	}

	if i, ok := c.HitTest(x, y); ok {
		nx, ny := c.target.Position(i)
		if err := c.target.Pin(i, nx, ny); err != nil {
			return err
		}
		c.target.SetAlphaTarget(c.cfg.DragAlphaTarget)
		c.mode, c.node = ModeDrag, i
		return nil
	}

	c.mode = ModePan
	c.lastX, c.lastY = x, y
	return nil
}

// PointerMove moves the dragged node's pin or pans the view.
func (c *Controller) PointerMove(x, y float64) error {
	if err := errs.ValidatePoint(x, y); err != nil {
		return err
	}
	switch c.mode {
	case ModeDrag:
		sx, sy := c.transform.Invert(x, y)
		return c.target.Pin(c.node, sx, sy)
	case ModePan:
		c.transform = c.transform.Translate(x-c.lastX, y-c.lastY)
		c.lastX, c.lastY = x, y
	}
	return nil
}

// PointerUp ends the current gesture. A dragged node is released to free
// physics and the alpha target drops back to zero.
func (c *Controller) PointerUp(x, y float64) error {
	if err := errs.ValidatePoint(x, y); err != nil {
		return err
	}
	var err error
	if c.mode == ModeDrag {
		err = c.release()
	}
	c.Reset()
	return err
}

func (c *Controller) release() error {
	c.target.SetAlphaTarget(0)
	return c.target.Unpin(c.node)
}

// Wheel zooms about the pointer. Positive deltaY zooms out.
func (c *Controller) Wheel(x, y, deltaY float64) error {
	if err := errs.ValidatePoint(x, y); err != nil {
		return err
	}
	if math.IsNaN(deltaY) || math.IsInf(deltaY, 0) {
		return errs.New(errs.ErrCodeInvalidPointer, "wheel delta must be finite (got %v)", deltaY)
	}
	factor := math.Pow(2, -deltaY*c.cfg.WheelFactor)
	c.transform = c.transform.ScaleAt(factor, x, y, c.cfg.ScaleMin, c.cfg.ScaleMax)
	return nil
}

// Pinch zooms by factor about the pinch center (cx, cy).
func (c *Controller) Pinch(cx, cy, factor float64) error {
	if err := errs.ValidatePoint(cx, cy); err != nil {
		return err
	}
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return errs.New(errs.ErrCodeInvalidPointer, "pinch factor must be positive and finite (got %v)", factor)
	}
	c.transform = c.transform.ScaleAt(factor, cx, cy, c.cfg.ScaleMin, c.cfg.ScaleMax)
	return nil
}
