package viz

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interact"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// Pointer event kinds reported to the session hooks.
const (
	PointerDown  = "down"
	PointerMove  = "move"
	PointerUp    = "up"
	PointerWheel = "wheel"
	PointerPinch = "pinch"
)

// View is one visualization: a palette that lives as long as the view, and
// the simulation, bridge and controller for the current snapshot.
type View struct {
	cfg      Config
	viewport force.Viewport

	palette *render.Palette
	bridge  *render.Bridge
	ctrl    *interact.Controller
	sim     *force.Simulation

	started time.Time
	settled bool
	closed  bool

	ctx    context.Context
	logger *log.Logger
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the logger passed down to each simulation.
func WithLogger(l *log.Logger) Option {
	return func(v *View) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithContext sets the context handed to observability hooks.
func WithContext(ctx context.Context) Option {
	return func(v *View) {
		if ctx != nil {
			v.ctx = ctx
		}
	}
}

// WithPalette shares an existing palette, for example one restored from a
// previous session.
func WithPalette(p *render.Palette) Option {
	return func(v *View) {
		if p != nil {
			v.palette = p
		}
	}
}

// NewView returns an empty view of the given viewport size.
func NewView(vp force.Viewport, cfg Config, opts ...Option) (*View, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := vp.Validate(); err != nil {
		return nil, err
	}

	v := &View{
		cfg:      cfg,
		viewport: vp,
		ctx:      context.Background(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.palette == nil {
		v.palette = render.NewPalette()
	}
	v.bridge = render.NewBridge(v.palette, cfg.Render)
	v.ctrl = interact.NewController(nil, cfg.Interaction)
	return v, nil
}

// =============================================================================
// Snapshot Lifecycle
// =============================================================================

// Result summarizes a snapshot accepted by [View.SetSnapshot].
type Result struct {
	Nodes    int                  `json:"nodes"`
	Links    int                  `json:"links"`
	Dropped  int                  `json:"dropped"`
	Dangling []graph.DanglingLink `json:"-"`
}

// SetSnapshot replaces the visualized graph. The current simulation is
// stopped and its primitives removed, then a new simulation is built from s.
//
// If s is rejected the current simulation keeps running untouched and the
// error is returned. After [View.Teardown] it fails with SESSION_CLOSED.
func (v *View) SetSnapshot(s graph.Snapshot) (Result, error) {
	if v.closed {
		return Result{}, errs.New(errs.ErrCodeSessionClosed, "view is torn down")
	}

	sim, err := force.New(s, v.viewport, v.cfg.Simulation, force.WithLogger(v.logger))
	if err != nil {
		return Result{}, err
	}

	v.discard()
	v.sim = sim
	v.started = time.Now()
	v.settled = false

	v.bridge.Build(sim)
	sim.OnTick(v.bridge.OnTick())
	v.ctrl.SetTarget(sim)
	v.bridge.SetTransform(v.ctrl.Transform())

	dangling := sim.Dangling()
	observability.Simulation().OnSimulationStart(v.ctx, sim.NodeCount(), sim.LinkCount(), len(dangling))

	return Result{
		Nodes:    sim.NodeCount(),
		Links:    sim.LinkCount(),
		Dropped:  len(dangling),
		Dangling: dangling,
	}, nil
}

// discard stops the current simulation and clears its primitives.
func (v *View) discard() {
	v.ctrl.SetTarget(nil)
	v.bridge.Clear()
	if v.sim == nil {
		return
	}
	v.sim.Stop()
	observability.Simulation().OnSimulationStop(v.ctx, v.sim.Steps())
	v.sim = nil
}

// Teardown stops the simulation, removes all primitives and releases the
// view. Frames and pointer events afterwards do nothing. Teardown is
// idempotent.
func (v *View) Teardown() {
	if v.closed {
		return
	}
	v.discard()
	v.closed = true
	v.logger.Debug("view torn down")
}

// Closed reports whether Teardown has been called.
func (v *View) Closed() bool { return v.closed }

// =============================================================================
// Frames
// =============================================================================

// Frame advances the simulation by one step if it is still hot and reports
// whether the scene changed. It is the host's per-frame callback.
func (v *View) Frame() bool {
	if v.closed || v.sim == nil {
		return false
	}
	stepped := v.sim.Step()
	observability.Simulation().OnFrame(v.ctx, stepped)

	if stepped && !v.settled && v.sim.Settled() {
		v.settled = true
		observability.Simulation().OnSimulationSettled(v.ctx, v.sim.Steps(), time.Since(v.started))
	}
	if !v.sim.Settled() {
		v.settled = false
	}
	return stepped
}

// Settled reports whether the simulation has cooled down. A view without a
// simulation is settled.
func (v *View) Settled() bool {
	return v.sim == nil || v.sim.Settled()
}

// Resize changes the viewport. With a simulation running its centering
// target moves to the new center; otherwise only the size is recorded.
func (v *View) Resize(vp force.Viewport) error {
	if v.closed {
		return nil
	}
	if err := vp.Validate(); err != nil {
		return err
	}
	v.viewport = vp
	if v.sim == nil {
		return nil
	}
	if err := v.sim.Resize(vp); err != nil {
		return err
	}
	v.bridge.Update(v.sim)
	return nil
}

// Viewport returns the current viewport.
func (v *View) Viewport() force.Viewport { return v.viewport }

// =============================================================================
// Pointer Input
// =============================================================================

// PointerDown starts a node drag or a pan at screen point (x, y).
func (v *View) PointerDown(x, y float64) error {
	return v.pointer(PointerDown, func() error { return v.ctrl.PointerDown(x, y) })
}

// PointerMove continues the current gesture.
func (v *View) PointerMove(x, y float64) error {
	return v.pointer(PointerMove, func() error { return v.ctrl.PointerMove(x, y) })
}

// PointerUp ends the current gesture.
func (v *View) PointerUp(x, y float64) error {
	return v.pointer(PointerUp, func() error { return v.ctrl.PointerUp(x, y) })
}

// Wheel zooms about screen point (x, y).
func (v *View) Wheel(x, y, deltaY float64) error {
	return v.pointer(PointerWheel, func() error { return v.ctrl.Wheel(x, y, deltaY) })
}

// Pinch zooms by factor about screen point (cx, cy).
func (v *View) Pinch(cx, cy, factor float64) error {
	return v.pointer(PointerPinch, func() error { return v.ctrl.Pinch(cx, cy, factor) })
}

func (v *View) pointer(kind string, fn func() error) error {
	if v.closed {
		return nil
	}
	observability.Session().OnPointer(v.ctx, kind)
	err := fn()
	v.bridge.SetTransform(v.ctrl.Transform())
	if v.sim != nil {
		v.bridge.Update(v.sim)
	}
	return err
}

// Transform returns the pan/zoom transform.
func (v *View) Transform() interact.Transform { return v.ctrl.Transform() }

// SetTransform replaces the pan/zoom transform.
func (v *View) SetTransform(t interact.Transform) {
	v.ctrl.SetTransform(t)
	v.bridge.SetTransform(v.ctrl.Transform())
}

// Mode returns the gesture in progress.
func (v *View) Mode() interact.Mode { return v.ctrl.Mode() }

// =============================================================================
// Read Access
// =============================================================================

// Scene returns a copy of the current primitives.
func (v *View) Scene() render.Scene { return v.bridge.Scene() }

// Layout exports the current node positions.
func (v *View) Layout() graph.Layout {
	l := v.bridge.Scene().Layout()
	if v.sim != nil {
		l.Alpha = v.sim.Alpha()
		l.Settled = v.sim.Settled()
	}
	return l
}

// Simulation returns the current simulation, or nil.
func (v *View) Simulation() *force.Simulation { return v.sim }

// Palette returns the view's palette.
func (v *View) Palette() *render.Palette { return v.palette }

// Config returns the view's parameters.
func (v *View) Config() Config { return v.cfg }

// Stats is a point-in-time summary of a view.
type Stats struct {
	Nodes   int     `json:"nodes"`
	Links   int     `json:"links"`
	Dropped int     `json:"dropped"`
	Steps   int     `json:"steps"`
	Alpha   float64 `json:"alpha"`
	Settled bool    `json:"settled"`
	Groups  int     `json:"groups"`
	Closed  bool    `json:"closed"`
}

// Stats returns a summary of the view.
func (v *View) Stats() Stats {
	st := Stats{Groups: v.palette.Len(), Closed: v.closed, Settled: true}
	if v.sim == nil {
		return st
	}
	st.Nodes = v.sim.NodeCount()
	st.Links = v.sim.LinkCount()
	st.Dropped = len(v.sim.Dangling())
	st.Steps = v.sim.Steps()
	st.Alpha = v.sim.Alpha()
	st.Settled = v.sim.Settled()
	return st
}
