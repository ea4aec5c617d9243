package cli

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kklayout/internal/api"
	"github.com/matzehuels/kklayout/pkg/cache"
	"github.com/matzehuels/kklayout/pkg/config"
	"github.com/matzehuels/kklayout/pkg/observability"
	"github.com/matzehuels/kklayout/pkg/observability/prom"
)

// apiKeyPrefix scopes API cache entries away from CLI entries.
const apiKeyPrefix = "api:"

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		maxNodes int
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

Endpoints:
  POST /v1/layout   {"graph": {...}, "options": {...}} -> layout
  GET  /healthz     liveness probe
  GET  /version     build information
  GET  /metrics     Prometheus metrics

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := c.Config.Server
			if cmd.Flags().Changed("addr") {
				srv.Addr = addr
			}
			if cmd.Flags().Changed("max-nodes") {
				srv.MaxNodes = maxNodes
			}
			if cmd.Flags().Changed("timeout") {
				srv.RequestTimeout = config.Duration(timeout)
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, cache.NewScopedKeyer(cache.NewDefaultKeyer(), apiKeyPrefix))
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			hooks := prom.New(reg)
			observability.SetLayoutHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			server := api.New(runner, loggerFromContext(ctx), reg, api.Config{
				MaxNodes:       srv.MaxNodes,
				MaxBodyBytes:   srv.MaxBodyBytes,
				RequestTimeout: srv.RequestTimeout.Std(),
				Defaults:       c.Config.Layout.Options(),
			})

			c.out.line(StyleTitle.Render(appName) + " " + StyleDim.Render("serving layouts"))
			c.out.keyValue("address", srv.Addr)
			c.out.keyValue("cache", cache.Describe(runner.Cache))
			c.out.keyValue("metrics", StyleLink.Render("http://"+displayHost(srv.Addr)+"/metrics"))
			c.out.blank()

			return server.ListenAndServe(ctx, srv.Addr, srv.ShutdownTimeout.Std())
		},
	}

	defaults := c.Config.Server
	cmd.Flags().StringVar(&addr, "addr", defaults.Addr, "listen address")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", defaults.MaxNodes, "reject graphs with more nodes (0 for no limit)")
	cmd.Flags().DurationVar(&timeout, "timeout", defaults.RequestTimeout.Std(), "per-request layout timeout (0 for none)")

	return cmd
}

// displayHost turns a listen address into something a browser can open.
func displayHost(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
