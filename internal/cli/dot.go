package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/render/nodelink"
)

// dotCommand creates the dot command, which hands the graph to Graphviz
// instead of the force simulation.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output   string
		format   string
		engine   string
		noLabels bool
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "dot [snapshot.json...]",
		Short: "Export a knowledge graph as Graphviz DOT or a Graphviz drawing",
		Long: `Export a knowledge graph as Graphviz DOT or a Graphviz drawing.

With -f dot (default) the DOT source is written. With -f svg, png or pdf the
graph is laid out by Graphviz itself (--engine, default fdp), which is useful
for comparing against the force layout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDOT(cmd.Context(), args, output, format, engine, !noLabels, scale)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout for dot, <input>.<format> otherwise)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg, png, pdf")
	cmd.Flags().StringVar(&engine, "engine", "fdp", "Graphviz layout engine: fdp, neato, sfdp, dot, circo")
	cmd.Flags().BoolVar(&noLabels, "no-link-labels", false, "omit relationship labels on edges")
	cmd.Flags().Float64Var(&scale, "scale", 2, "PNG resolution multiplier")

	return cmd
}

func (c *CLI) runDOT(ctx context.Context, inputs []string, output, format, engine string, labels bool, scale float64) error {
	s, err := readSnapshot(inputs...)
	if err != nil {
		return err
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}

	opts := nodelink.Options{
		Palette:       cfg.NewPalette(),
		Relationships: labels,
		Engine:        engine,
	}

	var data []byte
	switch format {
	case "dot":
		dot := nodelink.ToDOT(s, opts)
		if output == "" {
			_, err := fmt.Fprint(os.Stdout, dot)
			return err
		}
		data = []byte(dot)
	case "svg":
		data, err = nodelink.Render(ctx, s, opts)
	case "png":
		data, err = nodelink.RenderPNG(ctx, s, opts, scale)
	case "pdf":
		data, err = nodelink.RenderPDF(ctx, s, opts)
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg, png, pdf)", format)
	}
	if err != nil {
		return fmt.Errorf("graphviz %s: %w", format, err)
	}

	if output == "" {
		output = basePath("", inputs[0]) + "." + format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Wrote %s", format)
	printFile(output)
	return nil
}
