package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides cache.LayoutTTL and cache.ArtifactTTL when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, s graph.Snapshot, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	st := s.Stats()
	result := &Result{
		Stats: Stats{
			Nodes:   st.Entities,
			Links:   st.Relations - st.Dangling,
			Dropped: st.Dangling,
		},
	}
	if hash, err := snapshotHash(s); err == nil {
		result.SnapshotHash = hash
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.LayoutWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.Steps = layout.Steps
	result.Stats.Settled = layout.Settled
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(layout.Nodes),
		"steps", layout.Steps,
		"settled", layout.Settled,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)
	if st.Dangling > 0 {
		r.Logger.Warn("dropped links with unknown endpoints", "count", st.Dangling)
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, s graph.Snapshot, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}

	hash, err := snapshotHash(s)
	if err != nil {
		return graph.Layout{}, false, err
	}
	keyOpts, err := opts.LayoutKeyOpts()
	if err != nil {
		return graph.Layout{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(hash, keyOpts)

	// Try cache first (unless refresh requested). Corrupt entries are
	// dropped by GetJSON and recomputed.
	if !opts.Refresh {
		var cached graph.Layout
		err := cache.GetJSON(ctx, r.Cache, cacheKey, &cached)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeLayout)
			return cached, true, nil
		}
		if !errors.Is(err, cache.ErrNotFound) {
			r.Logger.Debug("layout cache unavailable", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(s.Nodes))
	start := time.Now()
	layout, err := ComputeLayout(ctx, s, opts)
	hooks.OnLayoutComplete(ctx, layout.Steps, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(layout); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.LayoutTTL)); err != nil {
			r.Logger.Debug("layout not cached", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}

	return layout, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, s graph.Snapshot, opts Options) (graph.Layout, error) {
	layout, _, err := r.LayoutWithCacheInfo(ctx, s, opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout graph.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		keyOpts, err := opts.ArtifactKeyOpts(format)
		if err != nil {
			return nil, false, err
		}
		keys[format] = r.Keyer.ArtifactKey(layoutHash, keyOpts)
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, keys[format])
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
			break
		}
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderFromLayout(ctx, layout, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		if err := r.Cache.Set(ctx, keys[format], data, r.ttl(cache.ArtifactTTL)); err != nil {
			r.Logger.Debug("artifact not cached", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// snapshotHash hashes the canonical JSON encoding of s.
func snapshotHash(s graph.Snapshot) (string, error) {
	data, err := graph.MarshalSnapshot(s)
	if err != nil {
		return "", fmt.Errorf("serialize snapshot for cache key: %w", err)
	}
	return cache.Hash(data), nil
}
