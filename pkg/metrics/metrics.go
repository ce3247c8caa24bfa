// Package metrics implements the observability hooks on Prometheus.
//
// A [Collector] registers its metrics on a caller-supplied registry and
// satisfies every hook interface in pkg/observability:
//
//	reg := prometheus.NewRegistry()
//	c := metrics.New(reg, "forcegraph")
//	c.Install()
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/forcegraph/pkg/observability"
)

// Collector holds the Prometheus metrics for every hook category.
type Collector struct {
	// Simulation metrics
	SimulationsStarted prometheus.Counter
	SimulationsActive  prometheus.Gauge
	SimulationSteps    prometheus.Histogram
	SettleDuration     prometheus.Histogram
	DroppedLinks       prometheus.Counter
	Frames             *prometheus.CounterVec

	// Session metrics
	SessionsActive  prometheus.Gauge
	SessionLifetime prometheus.Histogram
	PointerEvents   *prometheus.CounterVec

	// Pipeline metrics
	Layouts        *prometheus.CounterVec
	LayoutDuration prometheus.Histogram
	Renders        *prometheus.CounterVec
	RenderDuration prometheus.Histogram

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	CacheBytes  *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPErrors   *prometheus.CounterVec
	HTTPInFlight prometheus.Gauge
}

// New creates the metrics under namespace and registers them on reg.
func New(reg prometheus.Registerer, namespace string) *Collector {
	f := promauto.With(reg)
	return &Collector{
		SimulationsStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "simulations_started_total",
			Help: "Simulations built from a snapshot",
		}),
		SimulationsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "simulations_active",
			Help: "Simulations currently alive",
		}),
		SimulationSteps: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "simulation_steps",
			Help:    "Steps a simulation ran before it settled",
			Buckets: []float64{50, 100, 200, 300, 400, 600, 1000, 2000},
		}),
		SettleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "simulation_settle_seconds",
			Help:    "Wall time from snapshot to settled layout",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		DroppedLinks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "dropped_links_total",
			Help: "Links dropped for referencing unknown nodes",
		}),
		Frames: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "frames_total",
			Help: "Host frames, by whether the simulation stepped",
		}, []string{"stepped"}),

		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "sessions_active",
			Help: "Interactive sessions currently open",
		}),
		SessionLifetime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "session_lifetime_seconds",
			Help:    "Time from session open to close",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		PointerEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "pointer_events_total",
			Help: "Pointer events by kind",
		}, []string{"kind"}),

		Layouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "layouts_total",
			Help: "Headless layouts by status",
		}, []string{"status"}),
		LayoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "layout_duration_seconds",
			Help:    "Headless layout duration",
			Buckets: prometheus.DefBuckets,
		}),
		Renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "renders_total",
			Help: "Rendered artifacts by format and status",
		}, []string{"format", "status"}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "render_duration_seconds",
			Help:    "Artifact rendering duration",
			Buckets: prometheus.DefBuckets,
		}),

		CacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_hits_total",
			Help: "Cache hits by key type",
		}, []string{"type"}),
		CacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_misses_total",
			Help: "Cache misses by key type",
		}, []string{"type"}),
		CacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_written_bytes_total",
			Help: "Bytes written to the cache by key type",
		}, []string{"type"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"method", "route"}),
		HTTPErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_errors_total",
			Help: "HTTP requests that failed with an error",
		}, []string{"method", "route"}),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "http_requests_in_flight",
			Help: "HTTP requests being served",
		}),
	}
}

// Install sets c as the global hooks for every category.
func (c *Collector) Install() {
	observability.SetSimulationHooks(c)
	observability.SetSessionHooks(c)
	observability.SetPipelineHooks(c)
	observability.SetCacheHooks(c)
	observability.SetHTTPHooks(c)
}

var (
	_ observability.SimulationHooks = (*Collector)(nil)
	_ observability.SessionHooks    = (*Collector)(nil)
	_ observability.PipelineHooks   = (*Collector)(nil)
	_ observability.CacheHooks      = (*Collector)(nil)
	_ observability.HTTPHooks       = (*Collector)(nil)
)

// =============================================================================
// Simulation
// =============================================================================

func (c *Collector) OnSimulationStart(_ context.Context, _, _, dropped int) {
	c.SimulationsStarted.Inc()
	c.SimulationsActive.Inc()
	c.DroppedLinks.Add(float64(dropped))
}

func (c *Collector) OnSimulationSettled(_ context.Context, steps int, elapsed time.Duration) {
	c.SimulationSteps.Observe(float64(steps))
	c.SettleDuration.Observe(elapsed.Seconds())
}

func (c *Collector) OnSimulationStop(context.Context, int) {
	c.SimulationsActive.Dec()
}

func (c *Collector) OnFrame(_ context.Context, stepped bool) {
	c.Frames.WithLabelValues(strconv.FormatBool(stepped)).Inc()
}

// =============================================================================
// Session
// =============================================================================

func (c *Collector) OnSessionOpen(context.Context, string) {
	c.SessionsActive.Inc()
}

func (c *Collector) OnSessionClose(_ context.Context, _ string, lifetime time.Duration) {
	c.SessionsActive.Dec()
	c.SessionLifetime.Observe(lifetime.Seconds())
}

func (c *Collector) OnPointer(_ context.Context, kind string) {
	c.PointerEvents.WithLabelValues(kind).Inc()
}

// =============================================================================
// Pipeline
// =============================================================================

func (c *Collector) OnLayoutStart(context.Context, int) {}

func (c *Collector) OnLayoutComplete(_ context.Context, _ int, d time.Duration, err error) {
	c.Layouts.WithLabelValues(status(err)).Inc()
	c.LayoutDuration.Observe(d.Seconds())
}

func (c *Collector) OnRenderStart(context.Context, []string) {}

func (c *Collector) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		c.Renders.WithLabelValues(f, status(err)).Inc()
	}
	c.RenderDuration.Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// =============================================================================
// Cache
// =============================================================================

func (c *Collector) OnCacheHit(_ context.Context, keyType string) {
	c.CacheHits.WithLabelValues(keyType).Inc()
}

func (c *Collector) OnCacheMiss(_ context.Context, keyType string) {
	c.CacheMisses.WithLabelValues(keyType).Inc()
}

func (c *Collector) OnCacheSet(_ context.Context, keyType string, size int) {
	c.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// HTTP
// =============================================================================

func (c *Collector) OnRequest(context.Context, string, string) {
	c.HTTPInFlight.Inc()
}

func (c *Collector) OnResponse(_ context.Context, method, route string, statusCode int, d time.Duration) {
	c.HTTPInFlight.Dec()
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) OnError(_ context.Context, method, route string, _ error) {
	c.HTTPErrors.WithLabelValues(method, route).Inc()
}
