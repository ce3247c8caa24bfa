package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// renderOpts holds the render-only flags.
type renderOpts struct {
	output     string
	formats    string
	fromLayout bool
	scale      float64
	padding    float64
	background string
	noLabels   bool
}

// renderCommand creates the render command for exporting layouts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		ro    renderOpts
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [snapshot.json...]",
		Short: "Render a knowledge graph to SVG, PNG, PDF, JSON or DOT",
		Long: `Render a knowledge graph to SVG, PNG, PDF, JSON or DOT.

The input snapshots are merged, settled and exported in every requested
format. With --layout the input is a layout.json written by 'layout' and the
simulation is skipped.

Formats: svg (default), png, pdf, json (node positions), scene (render
primitives), dot (Graphviz source). PNG and PDF need rsvg-convert.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := pipelineOptions(cfg)
			flags.apply(cmd, &opts)
			opts.Formats = parseFormats(ro.formats)
			if cmd.Flags().Changed("scale") {
				opts.Scale = ro.scale
			}
			if cmd.Flags().Changed("padding") {
				opts.Padding = ro.padding
			}
			if cmd.Flags().Changed("background") {
				opts.Background = ro.background
			}
			if ro.noLabels {
				opts.HideLinkLabels = true
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if ro.fromLayout {
				return c.runRenderLayout(cmd.Context(), args, opts, ro.output, flags.noCache)
			}
			return c.runRender(cmd.Context(), args, opts, ro.output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, scene, dot (comma-separated)")
	cmd.Flags().BoolVar(&ro.fromLayout, "layout", false, "input is a layout.json file")
	cmd.Flags().Float64Var(&ro.scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().Float64Var(&ro.padding, "padding", pipeline.DefaultPadding, "margin around the graph")
	cmd.Flags().StringVar(&ro.background, "background", "", "background color (default: transparent)")
	cmd.Flags().BoolVar(&ro.noLabels, "no-link-labels", false, "hide relationship labels")
	flags.register(cmd)

	return cmd
}

// runRender settles the snapshot and writes every requested artifact.
func (c *CLI) runRender(ctx context.Context, inputs []string, opts pipeline.Options, output string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d nodes...", len(s.Nodes)))
	spinner.Start()

	result, err := runner.Execute(ctx, s, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, output, inputs[0])
	if err != nil {
		return err
	}

	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.LayoutHit)
	return nil
}

// runRenderLayout renders a precomputed layout.
func (c *CLI) runRenderLayout(ctx context.Context, inputs []string, opts pipeline.Options, output string, noCache bool) error {
	if len(inputs) != 1 {
		return fmt.Errorf("--layout takes exactly one file, got %d", len(inputs))
	}
	layout, err := graph.ReadLayoutFile(inputs[0])
	if err != nil {
		return fmt.Errorf("load layout %s: %w", inputs[0], err)
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner := c.newRunner(ctx, cfg, noCache)
	defer runner.Close()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(artifacts, output, trimLayoutSuffix(inputs[0]))
	if err != nil {
		return err
	}

	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(pipeline.Stats{
		Nodes:   len(layout.Nodes),
		Links:   len(layout.Links),
		Steps:   layout.Steps,
		Settled: layout.Settled,
	}, cacheHit)
	return nil
}

// writeArtifacts writes artifacts to disk and returns the written paths in
// format order. A single artifact goes to output verbatim when it is set.
func writeArtifacts(artifacts map[string][]byte, output, input string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := artifactPath(base, f)
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// trimLayoutSuffix strips ".layout.json" so renders of a layout land next
// to it with the original base name.
func trimLayoutSuffix(path string) string {
	if base, ok := strings.CutSuffix(path, ".layout.json"); ok && base != "" {
		return base + ".json"
	}
	return path
}
