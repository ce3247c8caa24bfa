package cli

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/internal/server"
	"github.com/matzehuels/forcegraph/pkg/metrics"
)

// serveCommand creates the serve command for the HTTP session server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive layout sessions over HTTP",
		Long: `Serve interactive layout sessions over HTTP.

Each session owns a live simulation advanced on a frame clock. Clients
create a session from a snapshot, then poll its scene and send pointer
events. Headless renders are served from POST /api/v1/render, and
Prometheus metrics from /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching for headless renders")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cmd *cobra.Command, addr string, noCache bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.New(reg, appName).Install()

	runner := c.newRunner(ctx, cfg, noCache)
	defer runner.Close()

	srv := server.New(cfg,
		server.WithLogger(loggerFromContext(ctx)),
		server.WithRunner(runner),
		server.WithGatherer(reg))

	printInfo("Serving sessions")
	printKeyValue("address", StyleURL.Render("http://"+cfg.Server.Addr))
	printKeyValue("cache", cacheLabel(cfg.Cache.Backend, noCache))
	printKeyValue("max sessions", strconv.Itoa(cfg.Server.MaxSessions))
	printKeyValue("session ttl", cfg.Server.SessionTTL.String())
	return srv.ListenAndServe(ctx)
}

func cacheLabel(backend string, noCache bool) string {
	switch {
	case noCache:
		return "disabled"
	case backend == "":
		return "file"
	}
	return backend
}
