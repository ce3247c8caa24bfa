package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/render/nodelink"
	"github.com/matzehuels/forcegraph/pkg/render/sink"
)

// RenderFromLayout generates output artifacts in the requested formats.
// Colors stored in the layout are kept; nodes without one are colored from
// opts.Palette.
func RenderFromLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	scene := render.SceneFromLayout(l, opts.Palette, opts.Config.Render)
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(scene, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, scene, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOpts...))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, scene, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatScene:
			var jsonOpts []sink.JSONOption
			if !opts.HideLinkLabels {
				jsonOpts = append(jsonOpts, sink.WithJSONLinkLabels())
			}
			data, err = sink.RenderJSON(scene, jsonOpts...)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(l.Snapshot(), nodelink.Options{
				Palette:       opts.Palette,
				Relationships: !opts.HideLinkLabels,
			}))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFromLayoutData renders output from serialized layout data.
func RenderFromLayoutData(ctx context.Context, layoutData []byte, opts Options) (map[string][]byte, error) {
	parsed, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderFromLayout(ctx, parsed, opts)
}

// buildSVGOptions builds SVG rendering options. Exports are always fitted to
// the graph's bounding box.
func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithFit(opts.Padding)}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.HideLinkLabels {
		svgOpts = append(svgOpts, sink.WithoutLinkLabels())
	}
	return svgOpts
}
