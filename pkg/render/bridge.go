package render

import (
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/interact"
)

// Source is the simulation state the bridge reads.
// *force.Simulation satisfies it.
type Source interface {
	NodeCount() int
	Node(i int) force.Node
	LinkCount() int
	Link(i int) force.Link
	Viewport() force.Viewport
	Steps() int
}

var _ Source = (*force.Simulation)(nil)

// Bridge keeps a Scene in sync with a simulation.
// It is not safe for concurrent use.
type Bridge struct {
	cfg     Config
	palette *Palette
	scene   Scene
	built   bool
}

// NewBridge returns a bridge that colors nodes through palette. A nil
// palette gets a fresh [Category10] palette.
func NewBridge(palette *Palette, cfg Config) *Bridge {
	if palette == nil {
		palette = NewPalette()
	}
	return &Bridge{
		cfg:     cfg,
		palette: palette,
		scene:   Scene{Transform: interact.Identity, Style: cfg},
	}
}

// Palette returns the bridge's palette.
func (b *Bridge) Palette() *Palette { return b.palette }

// Build discards all primitives and creates them anew from src.
func (b *Bridge) Build(src Source) {
	vp := src.Viewport()
	nodes, links := src.NodeCount(), src.LinkCount()

	b.scene = Scene{
		Width:      vp.Width,
		Height:     vp.Height,
		Transform:  b.scene.Transform,
		Tick:       src.Steps(),
		Nodes:      make([]NodeMarker, nodes),
		NodeLabels: make([]NodeLabel, nodes),
		Links:      make([]LinkLine, links),
		LinkLabels: make([]LinkLabel, links),
		Style:      b.cfg,
	}

	for i := range nodes {
		n := src.Node(i)
		b.scene.Nodes[i] = NodeMarker{ID: n.ID, Group: n.Group, Color: b.palette.Color(n.Group), R: b.cfg.NodeRadius}
		b.scene.NodeLabels[i] = NodeLabel{Text: n.ID}
	}
	for i := range links {
		l := src.Link(i)
		b.scene.Links[i] = LinkLine{
			Source: src.Node(l.Source).ID,
			Target: src.Node(l.Target).ID,
			Arrow:  true,
		}
		b.scene.LinkLabels[i] = LinkLabel{Text: l.Relationship}
	}

	b.built = true
	b.Update(src)
}

// Update moves every primitive to the current simulation positions. If src
// no longer matches the built scene, the scene is rebuilt first.
func (b *Bridge) Update(src Source) {
	if !b.built || len(b.scene.Nodes) != src.NodeCount() || len(b.scene.Links) != src.LinkCount() {
		b.Build(src)
		return
	}

	vp := src.Viewport()
	b.scene.Width, b.scene.Height = vp.Width, vp.Height
	b.scene.Tick = src.Steps()

	for i := range b.scene.Nodes {
		n := src.Node(i)
		b.scene.Nodes[i].X, b.scene.Nodes[i].Y = n.X, n.Y
		b.scene.NodeLabels[i].X = n.X + b.cfg.LabelOffsetX
		b.scene.NodeLabels[i].Y = n.Y + b.cfg.LabelOffsetY
	}
	for i := range b.scene.Links {
		l := src.Link(i)
		s, t := src.Node(l.Source), src.Node(l.Target)
		line := &b.scene.Links[i]
		line.X1, line.Y1 = s.X, s.Y
		line.X2, line.Y2 = t.X, t.Y
		b.scene.LinkLabels[i].X = (s.X + t.X) / 2
		b.scene.LinkLabels[i].Y = (s.Y + t.Y) / 2
	}
}

// OnTick returns a tick listener that calls Update.
func (b *Bridge) OnTick() func(*force.Simulation) {
	return func(s *force.Simulation) { b.Update(s) }
}

// Clear removes all primitives. The transform and palette are kept.
func (b *Bridge) Clear() {
	b.scene = Scene{Transform: b.scene.Transform, Style: b.cfg}
	b.built = false
}

// SetTransform sets the transform recorded in the scene.
func (b *Bridge) SetTransform(t interact.Transform) { b.scene.Transform = t }

// Scene returns a copy of the current scene.
func (b *Bridge) Scene() Scene { return b.scene.Clone() }
