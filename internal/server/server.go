// Package server hosts interactive layout sessions over HTTP.
//
// Every session owns a live simulation driven by its own loop goroutine.
// Clients create a session from a snapshot, forward pointer input, and poll
// the rendered scene:
//
//	POST   /api/v1/sessions                  {snapshot, width, height}
//	GET    /api/v1/sessions/{id}             view statistics
//	GET    /api/v1/sessions/{id}/scene       ?format=json|svg|layout
//	PUT    /api/v1/sessions/{id}/snapshot    replace the graph
//	PUT    /api/v1/sessions/{id}/viewport    {width, height}
//	POST   /api/v1/sessions/{id}/pointer     {type, x, y, delta_y, factor}
//	DELETE /api/v1/sessions/{id}
//
// A headless endpoint runs the cached layout pipeline in one request:
//
//	POST   /api/v1/render?format=svg         {snapshot, width, height, ...}
//
// Operational endpoints are /healthz and /metrics.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/session"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server is the HTTP session host.
type Server struct {
	cfg      *config.Config
	sessions *session.Registry
	runner   *pipeline.Runner
	gatherer prometheus.Gatherer
	logger   *log.Logger
	handler  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRunner sets the pipeline runner behind /api/v1/render. Without one the
// server renders uncached.
func WithRunner(r *pipeline.Runner) Option {
	return func(s *Server) { s.runner = r }
}

// WithGatherer sets the registry served on /metrics. The default is
// prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// New returns a server using cfg for engine defaults and session limits.
// A nil cfg selects config.Default().
func New(cfg *config.Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cfg:      cfg,
		gatherer: prometheus.DefaultGatherer,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.sessions = session.NewRegistry(
		session.WithTTL(cfg.Server.SessionTTL.Std()),
		session.WithMaxSessions(cfg.Server.MaxSessions),
		session.WithFrameInterval(cfg.Server.FrameInterval.Std()),
		session.WithLogger(s.logger),
	)
	s.handler = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Sessions returns the live session registry.
func (s *Server) Sessions() *session.Registry { return s.sessions }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(observe)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limitBody(s.cfg.Server.MaxBodyBytes))

		r.Post("/render", s.render)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getSession)
				r.Delete("/", s.deleteSession)
				r.Get("/scene", s.getScene)
				r.Put("/snapshot", s.putSnapshot)
				r.Put("/viewport", s.putViewport)
				r.Post("/pointer", s.postPointer)
			})
		})
	})

	return r
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully and closes every session.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	janitor, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.sessions.Run(janitor, 0)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	s.logger.Info("server stopped")
	return err
}

// Close tears down every live session.
func (s *Server) Close() {
	s.sessions.Close()
}
