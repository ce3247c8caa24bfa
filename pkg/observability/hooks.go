// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about simulations, viewer sessions, headless pipeline
// runs, cache operations and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (the metrics package provides Prometheus)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := metrics.New(prometheus.NewRegistry())
//	    m.Register()
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Simulation().OnSimulationStart(ctx, nodes, links, dropped)
//	// ... step until settled ...
//	observability.Simulation().OnSimulationSettled(ctx, steps, elapsed)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives events from the layout engine's hosts.
type SimulationHooks interface {
	// OnSimulationStart records a simulation built from a snapshot.
	OnSimulationStart(ctx context.Context, nodes, links, dropped int)

	// OnSimulationSettled records a simulation cooling below alpha min.
	OnSimulationSettled(ctx context.Context, steps int, elapsed time.Duration)

	// OnSimulationStop records a simulation being torn down.
	OnSimulationStop(ctx context.Context, steps int)

	// OnFrame records a host frame; stepped is false for idle frames.
	OnFrame(ctx context.Context, stepped bool)
}

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from interactive viewer sessions.
type SessionHooks interface {
	// OnSessionOpen records a new session.
	OnSessionOpen(ctx context.Context, id string)

	// OnSessionClose records a session ending.
	OnSessionClose(ctx context.Context, id string, lifetime time.Duration)

	// OnPointer records a pointer event of the given kind (down, move, up, wheel, pinch).
	OnPointer(ctx context.Context, kind string)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the headless pipeline.
type PipelineHooks interface {
	// Layout events
	OnLayoutStart(ctx context.Context, nodeCount int)
	OnLayoutComplete(ctx context.Context, steps int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an error.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSimulationHooks is a no-op implementation of SimulationHooks.
type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnSimulationStart(context.Context, int, int, int)        {}
func (NoopSimulationHooks) OnSimulationSettled(context.Context, int, time.Duration) {}
func (NoopSimulationHooks) OnSimulationStop(context.Context, int)                   {}
func (NoopSimulationHooks) OnFrame(context.Context, bool)                           {}

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSessionOpen(context.Context, string)                 {}
func (NoopSessionHooks) OnSessionClose(context.Context, string, time.Duration) {}
func (NoopSessionHooks) OnPointer(context.Context, string)                     {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration, error)      {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	simulationHooks SimulationHooks = NoopSimulationHooks{}
	sessionHooks    SessionHooks    = NoopSessionHooks{}
	pipelineHooks   PipelineHooks   = NoopPipelineHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	httpHooks       HTTPHooks       = NoopHTTPHooks{}
	hooksMu         sync.RWMutex
)

// SetSimulationHooks registers custom simulation hooks.
// This should be called once at application startup before any simulation runs.
func SetSimulationHooks(h SimulationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simulationHooks = h
	}
}

// SetSessionHooks registers custom session hooks.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving requests.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simulationHooks
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	simulationHooks = NoopSimulationHooks{}
	sessionHooks = NoopSessionHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
