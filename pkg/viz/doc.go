// Package viz composes the simulation engine, the interaction controller and
// the render bridge into one visualization component.
//
// # Overview
//
// A [View] owns a session-stable [render.Palette], the current
// [force.Simulation], a [render.Bridge] that mirrors it into a
// [render.Scene], and an [interact.Controller] that turns pointer input into
// pins and pan/zoom. Every new snapshot discards the previous simulation and
// builds a fresh one; the palette, viewport and transform survive.
//
//	v, _ := viz.NewView(force.Viewport{Width: 800, Height: 600}, viz.DefaultConfig())
//	if _, err := v.SetSnapshot(snapshot); err != nil {
//	    return err
//	}
//	for v.Frame() {
//	    draw(v.Scene())
//	}
//	v.Teardown()
//
// # Concurrency
//
// A View is not safe for concurrent use. Hosts serialize access: the terminal
// viewer calls it from bubbletea's update loop, and the HTTP server wraps
// each View in a [Loop], a single goroutine that ticks at a fixed cadence and
// runs posted commands between frames. Cancelling the loop's context tears
// the view down; commands posted afterwards fail with SESSION_CLOSED.
package viz
