package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/forcegraph/pkg/render"
)

const sceneCSS = `
    .link { fill: none; }
    .node { stroke: #fff; stroke-width: 1.5; }
    .node-label { font: 12px sans-serif; fill: #333; pointer-events: none; }
    .link-label { font: 10px sans-serif; fill: #666; text-anchor: middle; pointer-events: none; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fit        bool
	padding    float64
	background string
	linkLabels bool
	transform  bool
}

// WithFit sizes the canvas to the bounding box of the nodes plus padding.
func WithFit(padding float64) SVGOption {
	return func(r *svgRenderer) { r.fit = true; r.padding = padding }
}

// WithBackground fills the canvas with color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithoutLinkLabels omits relationship labels.
func WithoutLinkLabels() SVGOption { return func(r *svgRenderer) { r.linkLabels = false } }

// WithTransform draws the scene through its pan/zoom transform, as a viewer
// would see it.
func WithTransform() SVGOption { return func(r *svgRenderer) { r.transform = true } }

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(s render.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{linkLabels: s.Style.LinkLabels}
	for _, opt := range opts {
		opt(&r)
	}
	style := s.Style
	if style.NodeRadius == 0 {
		style = render.DefaultConfig()
	}

	minX, minY, w, h := 0.0, 0.0, s.Width, s.Height
	if r.fit && !s.IsEmpty() {
		x0, y0, x1, y1 := s.Bounds()
		minX, minY = x0-r.padding, y0-r.padding
		w, h = x1-x0+2*r.padding, y1-y0+2*r.padding
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX, minY, w, h, w, h)

	renderDefs(&buf, style)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", sceneCSS)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			minX, minY, w, h, html.EscapeString(r.background))
	}

	if r.transform {
		t := s.Transform
		fmt.Fprintf(&buf, `  <g transform="translate(%.2f,%.2f) scale(%.4f)">`+"\n", t.X, t.Y, t.K)
	} else {
		buf.WriteString("  <g>\n")
	}

	renderLinks(&buf, s, style)
	renderNodes(&buf, s)
	renderNodeLabels(&buf, s)
	if r.linkLabels {
		renderLinkLabels(&buf, s)
	}

	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer, style render.Config) {
	// refX places the arrow tip on the target circle's edge.
	size := style.ArrowSize
	refX := 10.0
	if size > 0 && style.LinkWidth > 0 {
		refX += style.NodeRadius * 10 / (size * style.LinkWidth)
	}
	fmt.Fprintf(buf, "  <defs>\n")
	fmt.Fprintf(buf, `    <marker id="arrow" viewBox="0 -5 10 10" refX="%.1f" refY="0" markerWidth="%.1f" markerHeight="%.1f" orient="auto">`+"\n",
		refX, size, size)
	fmt.Fprintf(buf, `      <path d="M0,-5L10,0L0,5" fill="%s"/>`+"\n", html.EscapeString(style.LinkColor))
	fmt.Fprintf(buf, "    </marker>\n  </defs>\n")
}

func renderLinks(buf *bytes.Buffer, s render.Scene, style render.Config) {
	for _, l := range s.Links {
		marker := ""
		if l.Arrow {
			marker = ` marker-end="url(#arrow)"`
		}
		fmt.Fprintf(buf, `    <line class="link" data-source="%s" data-target="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.2f" stroke-width="%.2f"%s/>`+"\n",
			html.EscapeString(l.Source), html.EscapeString(l.Target),
			l.X1, l.Y1, l.X2, l.Y2,
			html.EscapeString(style.LinkColor), style.LinkOpacity, style.LinkWidth, marker)
	}
}

func renderNodes(buf *bytes.Buffer, s render.Scene) {
	for _, n := range s.Nodes {
		fmt.Fprintf(buf, `    <circle class="node" id="node-%s" cx="%.2f" cy="%.2f" r="%.1f" fill="%s"><title>%s</title></circle>`+"\n",
			html.EscapeString(n.ID), n.X, n.Y, n.R, html.EscapeString(n.Color), html.EscapeString(n.ID))
	}
}

func renderNodeLabels(buf *bytes.Buffer, s render.Scene) {
	for _, l := range s.NodeLabels {
		fmt.Fprintf(buf, `    <text class="node-label" x="%.2f" y="%.2f">%s</text>`+"\n",
			l.X, l.Y, html.EscapeString(l.Text))
	}
}

func renderLinkLabels(buf *bytes.Buffer, s render.Scene) {
	for _, l := range s.LinkLabels {
		if l.Text == "" {
			continue
		}
		fmt.Fprintf(buf, `    <text class="link-label" x="%.2f" y="%.2f">%s</text>`+"\n",
			l.X, l.Y, html.EscapeString(l.Text))
	}
}
