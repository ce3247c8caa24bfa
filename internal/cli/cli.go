package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/buildinfo"
	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and completion help.
const appName = "forcegraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Forcegraph lays out knowledge graphs with a force simulation",
		Long: `Forcegraph lays out knowledge graphs (entities and labeled relationships)
with a force-directed simulation. It renders settled layouts to SVG, PNG, PDF,
JSON and DOT, hosts live layouts in the terminal, and serves interactive
sessions over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+defaultConfigHint()+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.mergeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// config loads the config once. --config wins over the default path; a
// missing default file yields the defaults.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path, err := c.resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", path)
	c.cfg = cfg
	return cfg, nil
}

func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

func defaultConfigHint() string {
	path, err := config.DefaultPath()
	if err != nil {
		return "config.toml"
	}
	return path
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner over the configured cache backend.
// An unreachable remote backend degrades to no caching.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) *pipeline.Runner {
	var store cache.Cache
	if noCache {
		store = cache.NewNullCache()
	} else {
		opened, err := cache.Open(ctx, cfg.CacheOptions())
		if err != nil {
			c.Logger.Warn("cache disabled", "backend", cfg.Cache.Backend, "error", err)
			opened = cache.NewNullCache()
		}
		store = opened
	}
	runner := pipeline.NewRunner(store, cfg.Keyer(), c.Logger)
	runner.TTL = cfg.Cache.TTL.Std()
	return runner
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions fills pipeline options from the config. Flags set on the
// command line are applied afterwards by the caller.
func pipelineOptions(cfg *config.Config) pipeline.Options {
	vc := cfg.Viz()
	opts := pipeline.Options{
		MaxSteps:       cfg.Simulation.MaxSteps,
		Padding:        cfg.Render.Padding,
		Background:     cfg.Render.Background,
		HideLinkLabels: !cfg.Render.LinkLabels,
		Config:         &vc,
		Palette:        cfg.NewPalette(),
	}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// basePath derives the base output path from the output and input file
// paths. A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath returns the file an artifact of format is written to.
func artifactPath(base, format string) string {
	switch format {
	case pipeline.FormatJSON:
		return base + ".layout.json"
	case pipeline.FormatScene:
		return base + ".scene.json"
	}
	return base + "." + format
}

// readSnapshot loads and merges one or more snapshot files.
func readSnapshot(paths ...string) (graph.Snapshot, error) {
	snaps := make([]graph.Snapshot, 0, len(paths))
	for _, p := range paths {
		s, err := graph.ReadSnapshotFile(p)
		if err != nil {
			return graph.Snapshot{}, fmt.Errorf("load snapshot %s: %w", p, err)
		}
		snaps = append(snaps, s)
	}
	if len(snaps) == 1 {
		return snaps[0], nil
	}
	return graph.Merge(snaps[0], snaps[1:]...), nil
}
