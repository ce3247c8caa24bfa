package pipeline

import (
	"context"

	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout runs a simulation of s to completion and returns the final
// node positions. The simulation stops once it settles or after MaxSteps
// ticks, whichever comes first; Layout.Settled tells which.
//
// Dangling links are dropped (or rejected in strict mode) exactly as in an
// interactive view. ctx is checked between ticks.
func ComputeLayout(ctx context.Context, s graph.Snapshot, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}

	vp := force.Viewport{Width: opts.Width, Height: opts.Height}
	sim, err := force.New(s, vp, opts.Config.Simulation, force.WithLogger(opts.Logger))
	if err != nil {
		return graph.Layout{}, err
	}
	defer sim.Stop()

	for sim.Steps() < opts.MaxSteps && !sim.Settled() && sim.NodeCount() > 0 {
		if err := ctx.Err(); err != nil {
			return graph.Layout{}, err
		}
		sim.Tick(1)
	}

	bridge := render.NewBridge(opts.Palette, opts.Config.Render)
	bridge.Build(sim)

	l := bridge.Scene().Layout()
	l.Alpha = sim.Alpha()
	l.Settled = sim.Settled()

	opts.Logger.Debug("layout computed",
		"nodes", sim.NodeCount(),
		"links", sim.LinkCount(),
		"steps", sim.Steps(),
		"settled", l.Settled)
	return l, nil
}
