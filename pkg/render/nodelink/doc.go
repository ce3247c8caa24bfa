// Package nodelink exports knowledge-graph snapshots to Graphviz.
//
// # Overview
//
// This package is an alternative to the built-in force simulation: it writes
// the snapshot as DOT source and lets Graphviz lay it out, by default with
// its force-directed "fdp" engine. It is useful for comparing layouts and for
// feeding external Graphviz tooling.
//
// # Usage
//
// Convert a snapshot to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(s, nodelink.Options{Relationships: true})
//	svg, err := nodelink.RenderSVG(ctx, dot, "fdp")
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, s, opts)
//	png, err := nodelink.RenderPNG(ctx, s, opts, 2.0)  // 2x scale
//
// # Options
//
//   - Palette: group colors; share the session palette to match the viewer
//   - Relationships: label edges with the relationship text
//   - Engine: Graphviz layout engine ("fdp", "neato", "sfdp", "dot", ...)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
