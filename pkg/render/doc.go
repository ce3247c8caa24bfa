// Package render maps simulation state to drawable primitives.
//
// # Overview
//
// The [Bridge] keeps a [Scene] consistent with a running simulation. A scene
// is a flat list of primitives in simulation coordinates plus the pan/zoom
// transform to draw them with:
//
//   - [NodeMarker]: a circle at each node position, filled by group color
//   - [NodeLabel]: the node id, at the node position plus a fixed offset
//   - [LinkLine]: a source→target segment with an arrowhead marker
//   - [LinkLabel]: the relationship text at the link midpoint
//
// [Bridge.Build] creates every primitive from the simulation;
// [Bridge.Update] only repositions them and is meant to run as a tick
// listener. Update is idempotent, so a host that skips frames can call it
// whenever it next draws.
//
// # Colors
//
// [Palette] assigns colors to groups in first-encounter order from a fixed
// categorical scheme ([Category10] by default). A palette outlives individual
// simulations: hosts keep one per session so a group keeps its color when the
// graph is replaced.
//
// # Output
//
// Scenes are written to files by the [sink] subpackage (SVG, JSON, PNG, PDF).
// The [ToPDF] and [ToPNG] functions convert SVG using the external
// rsvg-convert tool (from librsvg). The [nodelink] subpackage exports the
// graph structure to Graphviz instead.
//
// [sink]: github.com/matzehuels/forcegraph/pkg/render/sink
// [nodelink]: github.com/matzehuels/forcegraph/pkg/render/nodelink
package render
