// Package sink writes a [render.Scene] in a final output format.
//
// # Overview
//
// A "sink" turns the primitives of a scene into bytes:
//
//   - SVG: circles, arrowed lines and labels, self-contained
//   - JSON: the scene primitives for external renderers
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws links first, then node circles, then labels, so labels
// are never hidden behind circles. Each link references a shared arrowhead
// marker pointing from source to target.
//
//	svg := sink.RenderSVG(scene,
//	    sink.WithFit(40),        // crop to the nodes, 40px padding
//	    sink.WithBackground("#fff"),
//	)
//
// # SVG Options
//
//   - [WithFit]: size the canvas to the node bounds instead of the viewport
//   - [WithBackground]: fill the canvas
//   - [WithoutLinkLabels]: omit relationship labels
//   - [WithTransform]: draw through the scene's pan/zoom transform
//
// # Raster and PDF
//
// [RenderPNG] and [RenderPDF] render SVG first and convert it with
// [render.ToPNG] and [render.ToPDF].
package sink
