// Package force implements a velocity-Verlet style force-directed layout
// simulation over an index-addressed node arena.
//
// A [Simulation] is built from a [graph.Snapshot] and a [Viewport]. The
// snapshot is deep-copied into engine-owned [Node] records, link endpoints are
// resolved to indices, and every node is seeded on a deterministic
// phyllotaxis spiral around the viewport center. Nothing runs in the
// background: the host decides the cadence and calls [Simulation.Step] (or
// [Simulation.Tick] for headless runs).
//
// # Forces
//
// Forces are independent units satisfying [Force], applied in order on every
// step. The default collection, built by [DefaultForces], is:
//
//   - [LinkForce]: springs toward a target distance, strength 1/min(degree)
//   - [ManyBody]: all-pairs repulsion with a Barnes-Hut approximation
//   - [Center]: translates the centroid to the viewport center
//   - [Collide]: minimum separation between node circles, via a k-d tree
//
// Forces that depend on the viewport implement [ViewportAware] and are updated
// by [Simulation.Resize]. Callers may replace or extend the collection with
// [WithForces] and [Simulation.AddForce].
//
// # Temperature
//
// Every step moves alpha toward alphaTarget by AlphaDecay. Forces scale their
// contribution by alpha, so the layout settles as alpha approaches zero.
// [Simulation.Step] only advances while the simulation is hot; raising the
// target (as a drag does) wakes it up again.
//
// # Pins
//
// A pinned node is held exactly at its pin with zero velocity. Pins are
// applied before any force runs, so a pin written between two steps is
// visible to the whole of the next step.
//
// # Concurrency
//
// A Simulation is not safe for concurrent use. Hosts serialize access, for
// example through a single event loop.
package force
