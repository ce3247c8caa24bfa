package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// layoutFlags are the simulation flags shared by layout and render.
type layoutFlags struct {
	width    float64
	height   float64
	maxSteps int
	seed     uint64
	strict   bool
	refresh  bool
	noCache  bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", pipeline.DefaultWidth, "viewport width")
	cmd.Flags().Float64Var(&f.height, "height", pipeline.DefaultHeight, "viewport height")
	cmd.Flags().IntVar(&f.maxSteps, "max-steps", 0, "stop after this many steps if not settled (default: config)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for initial placement (default: config)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject links with unknown endpoints instead of dropping them")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached layouts")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// apply overrides config-derived options with the flags the user set.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	opts.Width, opts.Height = f.width, f.height
	opts.Refresh = f.refresh
	if cmd.Flags().Changed("max-steps") {
		opts.MaxSteps = f.maxSteps
	}
	if cmd.Flags().Changed("seed") {
		opts.Config.Simulation.Seed = f.seed
	}
	if cmd.Flags().Changed("strict") {
		opts.Config.Simulation.Strict = f.strict
	}
}

// layoutCommand creates the layout command for settling a snapshot.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [snapshot.json...]",
		Short: "Settle a knowledge graph and write node positions",
		Long: `Settle a knowledge graph and write node positions.

The layout command runs the force simulation headless until it cools below
alpha_min (or --max-steps is reached) and writes a layout.json file that
'render --layout' turns into SVG/PNG/PDF. Several snapshots are merged first.

Results are cached, keyed by the snapshot content, the viewport and the
simulation parameters.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := pipelineOptions(cfg)
			flags.apply(cmd, &opts)
			return c.runLayout(cmd.Context(), args, opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the snapshot, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, inputs []string, opts pipeline.Options, output string, noCache bool) error {
	s, err := readSnapshot(inputs...)
	if err != nil {
		return err
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner := c.newRunner(ctx, cfg, noCache)
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Settling %d nodes...", len(s.Nodes)))
	spinner.Start()

	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, s, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done("Layout computed")

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", inputs[0]) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	st := s.Stats()
	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(pipeline.Stats{
		Nodes:   len(layout.Nodes),
		Links:   len(layout.Links),
		Dropped: st.Dangling,
		Steps:   layout.Steps,
		Settled: layout.Settled,
	}, cacheHit)
	printNewline()
	printNextStep("Render", appName+" render --layout "+outputPath)

	return nil
}
