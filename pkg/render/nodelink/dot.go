package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// Options configures DOT generation.
type Options struct {
	// Palette colors nodes by group. Nil uses a fresh Category10 palette.
	Palette *render.Palette

	// Relationships labels edges with the link relationship.
	Relationships bool

	// Engine selects the Graphviz layout engine used by [RenderSVG].
	// Empty means "fdp", the force-directed engine.
	Engine string
}

// ToDOT converts a snapshot to Graphviz DOT format. Links with unknown
// endpoints are skipped, mirroring the simulation's resolution policy.
func ToDOT(s graph.Snapshot, opts Options) string {
	palette := opts.Palette
	if palette == nil {
		palette = render.NewPalette()
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=12, fixedsize=false, color=white];\n")
	buf.WriteString("  edge [color=\"#999999\", fontsize=10, fontcolor=\"#666666\"];\n")
	buf.WriteString("\n")

	ids := make(map[string]struct{}, len(s.Nodes))
	for _, n := range s.Nodes {
		if _, dup := ids[n.ID]; dup || n.ID == "" {
			continue
		}
		ids[n.ID] = struct{}{}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, palette.Color(n.Group)), ", "))
	}

	buf.WriteString("\n")
	for _, l := range s.Links {
		_, okS := ids[l.Source]
		_, okT := ids[l.Target]
		if !okS || !okT {
			continue
		}
		if opts.Relationships && l.Relationship != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", l.Source, l.Target, l.Relationship)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", l.Source, l.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n graph.Node, color string) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.ID), fmt.Sprintf("fillcolor=%q", color)}
	if n.Group != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Group))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz with the given layout
// engine ("fdp" when empty).
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot, engine string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	if engine == "" {
		engine = string(graphviz.FDP)
	}
	gv.SetLayout(graphviz.Layout(engine))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// Render converts a snapshot straight to SVG.
func Render(ctx context.Context, s graph.Snapshot, opts Options) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(s, opts), opts.Engine)
}

// RenderPDF renders a snapshot as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, s graph.Snapshot, opts Options) ([]byte, error) {
	svg, err := Render(ctx, s, opts)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a snapshot as PNG via SVG conversion.
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, s graph.Snapshot, opts Options, scale float64) ([]byte, error) {
	svg, err := Render(ctx, s, opts)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
