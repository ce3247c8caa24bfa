// Package pipeline runs the layout engine headless and exports the result.
//
// The pipeline has two stages:
//
//  1. Layout: build a simulation from a snapshot and tick it until it
//     settles (or MaxSteps is reached), then record node positions
//  2. Render: draw a layout as SVG, PNG, PDF, DOT or JSON
//
// Both stages are cached. A layout is keyed by the snapshot's content hash,
// the viewport and a hash of the simulation parameters; an artifact by the
// layout's hash and its render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, snapshot, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	layout, err := runner.Layout(ctx, snapshot, opts)
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/cache"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/viz"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default viewport width.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height.
	DefaultHeight = 600.0

	// DefaultMaxSteps bounds a headless run. The default cooling schedule
	// settles in about 300 steps; pinned or reheated graphs may not.
	DefaultMaxSteps = 1000

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultPadding is the margin around the graph in exported images.
	DefaultPadding = 40.0
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
	FormatJSON  = "json"  // The layout (node positions), readable by ReadLayoutFile
	FormatScene = "scene" // The render primitives
	FormatDOT   = "dot"   // Graphviz source of the laid-out graph
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatJSON:  true,
	FormatScene: true,
	FormatDOT:   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	MaxSteps int     `json:"max_steps,omitempty"`
	Refresh  bool    `json:"refresh,omitempty"` // Ignore cached layouts

	// Render options
	Formats        []string `json:"formats,omitempty"`
	Scale          float64  `json:"scale,omitempty"`
	Padding        float64  `json:"padding,omitempty"`
	Background     string   `json:"background,omitempty"`
	HideLinkLabels bool     `json:"hide_link_labels,omitempty"`

	// Runtime options (not serialized)
	Config  *viz.Config     `json:"-"` // Engine parameters; defaults if nil
	Palette *render.Palette `json:"-"` // Group colors; a fresh category10 palette if nil
	Logger  *log.Logger     `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// SnapshotHash is the content hash of the input snapshot.
	SnapshotHash string

	// Layout contains the settled node positions.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes      int
	Links      int
	Dropped    int
	Steps      int
	Settled    bool
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, scene, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MaxSteps == 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if o.Config == nil {
		cfg := viz.DefaultConfig()
		o.Config = &cfg
	}
	if o.Palette == nil {
		o.Palette = render.NewPalette()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.MaxSteps < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "max_steps must not be negative (got %d)", o.MaxSteps)
	}
	return o.Config.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.Config == nil {
		cfg := viz.DefaultConfig()
		o.Config = &cfg
	}
	if o.Palette == nil {
		o.Palette = render.NewPalette()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 || o.Padding < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "scale and padding must not be negative")
	}
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() (cache.LayoutKeyOpts, error) {
	cfgHash, err := cache.HashValue(o.Config.Simulation)
	if err != nil {
		return cache.LayoutKeyOpts{}, err
	}
	return cache.LayoutKeyOpts{
		Width:    o.Width,
		Height:   o.Height,
		MaxSteps: o.MaxSteps,
		Config:   cfgHash,
	}, nil
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) (cache.ArtifactKeyOpts, error) {
	style, err := cache.HashValue(o.Config.Render)
	if err != nil {
		return cache.ArtifactKeyOpts{}, err
	}
	k := cache.ArtifactKeyOpts{
		Format:     format,
		Padding:    o.Padding,
		LinkLabels: !o.HideLinkLabels,
		Background: o.Background,
		Style:      style,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k, nil
}
