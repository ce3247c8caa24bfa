package render

import (
	"slices"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interact"
)

// Scene is the complete set of primitives for one frame, in simulation
// coordinates. Draw it through Transform.
type Scene struct {
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Transform interact.Transform `json:"transform"`
	Tick      int                `json:"tick"`

	Nodes      []NodeMarker `json:"nodes"`
	NodeLabels []NodeLabel  `json:"node_labels"`
	Links      []LinkLine   `json:"links"`
	LinkLabels []LinkLabel  `json:"link_labels"` // One per link, same order

	Style Config `json:"-"`
}

// NodeMarker is the circle drawn for a node.
type NodeMarker struct {
	ID    string  `json:"id"`
	Group string  `json:"group,omitempty"`
	Color string  `json:"color"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r"`
}

// NodeLabel is the text drawn next to a node.
type NodeLabel struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// LinkLine is the segment drawn for a link, from source to target.
type LinkLine struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Arrow  bool    `json:"arrow"`
}

// LinkLabel is the relationship text drawn at a link midpoint.
type LinkLabel struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Clone returns a deep copy of the scene.
func (s Scene) Clone() Scene {
	s.Nodes = slices.Clone(s.Nodes)
	s.NodeLabels = slices.Clone(s.NodeLabels)
	s.Links = slices.Clone(s.Links)
	s.LinkLabels = slices.Clone(s.LinkLabels)
	return s
}

// IsEmpty reports whether the scene draws nothing.
func (s Scene) IsEmpty() bool {
	return len(s.Nodes) == 0 && len(s.Links) == 0
}

// Bounds returns the bounding box of all node circles, or the viewport if the
// scene is empty.
func (s Scene) Bounds() (minX, minY, maxX, maxY float64) {
	if len(s.Nodes) == 0 {
		return 0, 0, s.Width, s.Height
	}
	minX, minY = s.Nodes[0].X-s.Nodes[0].R, s.Nodes[0].Y-s.Nodes[0].R
	maxX, maxY = s.Nodes[0].X+s.Nodes[0].R, s.Nodes[0].Y+s.Nodes[0].R
	for _, n := range s.Nodes[1:] {
		minX = min(minX, n.X-n.R)
		minY = min(minY, n.Y-n.R)
		maxX = max(maxX, n.X+n.R)
		maxY = max(maxY, n.Y+n.R)
	}
	return minX, minY, maxX, maxY
}

// Layout exports the node positions and links of the scene.
func (s Scene) Layout() graph.Layout {
	l := graph.Layout{
		Width:  s.Width,
		Height: s.Height,
		Nodes:  make([]graph.PlacedNode, len(s.Nodes)),
		Links:  make([]graph.Link, len(s.Links)),
		Steps:  s.Tick,
	}
	for i, n := range s.Nodes {
		l.Nodes[i] = graph.PlacedNode{ID: n.ID, Group: n.Group, Color: n.Color, X: n.X, Y: n.Y}
	}
	for i, e := range s.Links {
		l.Links[i] = graph.Link{Source: e.Source, Target: e.Target}
		if i < len(s.LinkLabels) {
			l.Links[i].Relationship = s.LinkLabels[i].Text
		}
	}
	return l
}

// SceneFromLayout rebuilds a scene from a stored layout. Stored colors are
// kept; nodes without one take their color from palette.
func SceneFromLayout(l graph.Layout, palette *Palette, cfg Config) Scene {
	s := Scene{
		Width:     l.Width,
		Height:    l.Height,
		Transform: interact.Identity,
		Tick:      l.Steps,
		Style:     cfg,
	}

	pos := make(map[string]int, len(l.Nodes))
	for i, n := range l.Nodes {
		pos[n.ID] = i
		color := n.Color
		if color == "" {
			color = palette.Color(n.Group)
		}
		s.Nodes = append(s.Nodes, NodeMarker{ID: n.ID, Group: n.Group, Color: color, X: n.X, Y: n.Y, R: cfg.NodeRadius})
		s.NodeLabels = append(s.NodeLabels, NodeLabel{Text: n.ID, X: n.X + cfg.LabelOffsetX, Y: n.Y + cfg.LabelOffsetY})
	}

	for _, e := range l.Links {
		si, okS := pos[e.Source]
		ti, okT := pos[e.Target]
		if !okS || !okT {
			continue
		}
		src, tgt := l.Nodes[si], l.Nodes[ti]
		s.Links = append(s.Links, LinkLine{
			Source: e.Source, Target: e.Target,
			X1: src.X, Y1: src.Y, X2: tgt.X, Y2: tgt.Y,
			Arrow: true,
		})
		s.LinkLabels = append(s.LinkLabels, LinkLabel{
			Text: e.Relationship,
			X:    (src.X + tgt.X) / 2,
			Y:    (src.Y + tgt.Y) / 2,
		})
	}
	return s
}
