package force

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Simulation is a force-directed layout of one graph snapshot.
//
// Create with [New]. Advance with [Simulation.Step] from the host's frame
// callback, or [Simulation.Tick] for headless runs. Call [Simulation.Stop]
// before discarding it.
type Simulation struct {
	cfg      Config
	viewport Viewport

	nodes    []Node
	links    []Link
	index    map[string]int
	dangling []graph.DanglingLink

	forces    []Force
	listeners []func(*Simulation)

	alpha       float64
	alphaTarget float64
	steps       int
	stopped     bool

	rng    *rand.Rand
	logger *log.Logger
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithForces replaces the default force collection. Forces are applied in
// the given order.
func WithForces(forces ...Force) Option {
	return func(s *Simulation) {
		s.forces = forces
	}
}

// New validates snapshot, copies it into an engine-owned arena and seeds the
// initial layout around the viewport center.
//
// Empty or duplicate node ids fail with an INVALID_SNAPSHOT error. Links
// referencing unknown nodes are dropped and reported by [Simulation.Dangling];
// with cfg.Strict they fail with an UNKNOWN_NODE error instead. An empty
// snapshot yields an idle simulation.
func New(snapshot graph.Snapshot, vp Viewport, cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := vp.Validate(); err != nil {
		return nil, err
	}

	r, err := graph.Resolve(snapshot, cfg.Strict)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:      cfg,
		viewport: vp,
		nodes:    make([]Node, len(r.Nodes)),
		links:    make([]Link, len(r.Links)),
		index:    r.Index,
		dangling: r.Dangling,
		alpha:    1,
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		logger:   log.New(io.Discard),
	}
	for i, n := range r.Nodes {
		s.nodes[i] = Node{ID: n.ID, Group: n.Group, Val: n.Val}
	}
	for i, l := range r.Links {
		s.links[i] = Link{Source: l.Source, Target: l.Target, Relationship: l.Relationship}
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.forces == nil {
		s.forces = DefaultForces(cfg)
	}

	place(s.nodes, vp.Width/2, vp.Height/2)
	s.initForces()

	s.logger.Debug("simulation initialized",
		"nodes", len(s.nodes), "links", len(s.links), "dropped", len(s.dangling),
		"viewport", vp)

	return s, nil
}

func (s *Simulation) initForces() {
	for _, f := range s.forces {
		if va, ok := f.(ViewportAware); ok {
			va.SetViewport(s.viewport)
		}
		f.Initialize(s.nodes, s.links, s.rng)
	}
}

// =============================================================================
// Stepping
// =============================================================================

// Step advances the simulation by one tick if it is still hot and returns
// whether a tick ran. A stopped, empty or settled simulation does nothing.
func (s *Simulation) Step() bool {
	if s.stopped || len(s.nodes) == 0 || s.Settled() {
		return false
	}
	s.tick()
	if s.Settled() {
		s.logger.Debug("simulation settled", "steps", s.steps, "alpha", s.alpha)
	}
	return true
}

// Tick advances the simulation n times regardless of temperature and
// returns the number of ticks executed (0 once stopped).
func (s *Simulation) Tick(n int) int {
	done := 0
	for ; done < n && !s.stopped; done++ {
		s.tick()
	}
	return done
}

// tick runs one step: pins, cooling, forces, integration, listeners.
func (s *Simulation) tick() {
	s.applyPins()

	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay

	for _, f := range s.forces {
		f.Apply(s.nodes, s.links, s.alpha)
	}

	keep := 1 - s.cfg.VelocityDecay
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.Pinned {
			n.X, n.Y = n.FX, n.FY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= keep
		n.VY *= keep
		n.X += n.VX
		n.Y += n.VY
	}

	s.steps++
	for _, fn := range s.listeners {
		fn(s)
	}
}

func (s *Simulation) applyPins() {
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.Pinned {
			n.X, n.Y = n.FX, n.FY
			n.VX, n.VY = 0, 0
		}
	}
}

// OnTick registers fn to run after every tick, once positions are final for
// that tick.
func (s *Simulation) OnTick(fn func(*Simulation)) {
	if s.stopped || fn == nil {
		return
	}
	s.listeners = append(s.listeners, fn)
}

// Settled reports whether alpha and its target are both below AlphaMin.
func (s *Simulation) Settled() bool {
	return s.alpha < s.cfg.AlphaMin && s.alphaTarget < s.cfg.AlphaMin
}

// =============================================================================
// Temperature
// =============================================================================

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// AlphaTarget returns the temperature alpha is moving toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the temperature alpha decays toward. A target at or
// above AlphaMin keeps the simulation running.
func (s *Simulation) SetAlphaTarget(a float64) {
	if s.stopped {
		return
	}
	s.alphaTarget = clamp01(a)
}

// Reheat sets alpha directly, restarting a settled simulation.
func (s *Simulation) Reheat(a float64) {
	if s.stopped {
		return
	}
	s.alpha = clamp01(a)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// =============================================================================
// Pins
// =============================================================================

// Pin holds node i at (x, y) until [Simulation.Unpin]. The node moves there
// immediately and stays there through every subsequent tick.
func (s *Simulation) Pin(i int, x, y float64) error {
	if s.stopped {
		return nil
	}
	if err := s.check(i); err != nil {
		return err
	}
	if err := errs.ValidatePoint(x, y); err != nil {
		return err
	}
	n := &s.nodes[i]
	n.Pinned = true
	n.FX, n.FY = x, y
	n.X, n.Y = x, y
	n.VX, n.VY = 0, 0
	return nil
}

// Unpin returns node i to free physics.
func (s *Simulation) Unpin(i int) error {
	if s.stopped {
		return nil
	}
	if err := s.check(i); err != nil {
		return err
	}
	n := &s.nodes[i]
	n.Pinned = false
	n.FX, n.FY = 0, 0
	return nil
}

func (s *Simulation) check(i int) error {
	if i < 0 || i >= len(s.nodes) {
		return errs.New(errs.ErrCodeUnknownNode, "node index %d out of range [0, %d)", i, len(s.nodes))
	}
	return nil
}

// =============================================================================
// Viewport
// =============================================================================

// Resize moves the centering target to the new viewport center. Positions and
// velocities are kept; alpha is raised to at least ResizeAlpha so the shift
// animates. Resizing a stopped simulation is a no-op.
func (s *Simulation) Resize(vp Viewport) error {
	if s.stopped {
		return nil
	}
	if err := vp.Validate(); err != nil {
		return err
	}
	s.viewport = vp
	for _, f := range s.forces {
		if va, ok := f.(ViewportAware); ok {
			va.SetViewport(vp)
		}
	}
	if len(s.nodes) > 0 && s.alpha < s.cfg.ResizeAlpha {
		s.alpha = s.cfg.ResizeAlpha
	}
	s.logger.Debug("simulation resized", "viewport", vp)
	return nil
}

// Viewport returns the current viewport.
func (s *Simulation) Viewport() Viewport { return s.viewport }

// =============================================================================
// Forces
// =============================================================================

// AddForce appends f to the force collection and initializes it.
func (s *Simulation) AddForce(f Force) {
	if s.stopped || f == nil {
		return
	}
	if va, ok := f.(ViewportAware); ok {
		va.SetViewport(s.viewport)
	}
	f.Initialize(s.nodes, s.links, s.rng)
	s.forces = append(s.forces, f)
}

// Forces returns the force collection in application order.
func (s *Simulation) Forces() []Force {
	return append([]Force(nil), s.forces...)
}

// =============================================================================
// Teardown
// =============================================================================

// Stop halts the simulation. Afterwards Step and Tick do nothing, pins and
// resizes are ignored and tick listeners are released. Stop is idempotent.
func (s *Simulation) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.listeners = nil
	s.logger.Debug("simulation stopped", "steps", s.steps)
}

// Stopped reports whether Stop has been called.
func (s *Simulation) Stopped() bool { return s.stopped }

// =============================================================================
// Read Access
// =============================================================================

// Steps returns the number of ticks executed so far.
func (s *Simulation) Steps() int { return s.steps }

// Config returns the parameters the simulation was built with.
func (s *Simulation) Config() Config { return s.cfg }

// NodeCount returns the number of nodes in the arena.
func (s *Simulation) NodeCount() int { return len(s.nodes) }

// Node returns a copy of node i.
func (s *Simulation) Node(i int) Node { return s.nodes[i] }

// Position returns the current position of node i.
func (s *Simulation) Position(i int) (x, y float64) {
	return s.nodes[i].X, s.nodes[i].Y
}

// LinkCount returns the number of resolved links.
func (s *Simulation) LinkCount() int { return len(s.links) }

// Link returns link i.
func (s *Simulation) Link(i int) Link { return s.links[i] }

// Lookup returns the arena index of the node with the given id.
func (s *Simulation) Lookup(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Dangling returns the links dropped at initialization.
func (s *Simulation) Dangling() []graph.DanglingLink {
	return append([]graph.DanglingLink(nil), s.dangling...)
}
