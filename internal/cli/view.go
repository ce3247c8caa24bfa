package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/internal/tui"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/viz"
)

// viewCommand creates the view command, which runs a layout live in the
// terminal.
func (c *CLI) viewCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "view [snapshot.json...]",
		Short: "Run a layout interactively in the terminal",
		Long: `Run a layout interactively in the terminal.

Drag a node to pin and move it, drag the background to pan, and use the
mouse wheel or +/- to zoom. Space pauses, t toggles relationship labels,
r reheats the simulation, 0 resets the zoom and q quits.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "reject links with unknown endpoints instead of dropping them")

	return cmd
}

func (c *CLI) runView(ctx context.Context, inputs []string, strict bool) error {
	s, err := readSnapshot(inputs...)
	if err != nil {
		return err
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}

	vc := cfg.Viz()
	if strict {
		vc.Simulation.Strict = true
	}

	// The TUI resizes the viewport to the terminal on its first frame.
	view, err := viz.NewView(force.Viewport{Width: 800, Height: 600}, vc,
		viz.WithContext(ctx),
		viz.WithLogger(loggerFromContext(ctx)),
		viz.WithPalette(cfg.NewPalette()))
	if err != nil {
		return err
	}
	res, err := view.SetSnapshot(s)
	if err != nil {
		view.Teardown()
		return err
	}
	for _, d := range res.Dangling {
		loggerFromContext(ctx).Warn("dropped link", "source", d.Link.Source, "target", d.Link.Target, "missing", d.Missing)
	}

	return tui.Run(ctx, view,
		tui.WithTitle(filepath.Base(inputs[0])),
		tui.WithFrameInterval(cfg.Server.FrameInterval.Std()))
}
