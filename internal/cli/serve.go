package cli

import (
	"context"
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skillweave/internal/server"
	"github.com/matzehuels/skillweave/pkg/observability"
)

// serveCommand creates the serve command, which exposes a composition over
// HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <composition>",
		Short: "Serve a composition's outline and diagrams over HTTP",
		Long: `Serve a composition over HTTP.

Routes:
  GET  /healthz        build info and composition status
  GET  /metrics        Prometheus metrics
  GET  /api/outline    description as JSON
  GET  /api/layout     layout as JSON (?selected=<id>)
  GET  /api/diagram    diagram (?format=text|ansi|json|dot|svg&selected=<id>)
  POST /api/reload     reload the composition from disk`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg := newRegistry()
			defer observability.Reset()

			runner, err := c.newRunner(ctx, runnerOpts{})
			if err != nil {
				return err
			}
			defer runner.Close()

			srv, err := server.New(ctx, server.Options{
				Runner:   runner,
				Path:     args[0],
				Theme:    c.cfg().Theme,
				Gatherer: reg,
				Logger:   c.Logger,
			})
			if err != nil {
				return err
			}

			printInfo(c.Out, "Serving %s on %s", args[0], addr)
			err = srv.ListenAndServe(ctx, addr)
			if stderrors.Is(err, context.Canceled) {
				printSuccess(c.Out, "Server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "address to listen on")
	return cmd
}

// newRegistry creates a metrics registry with runtime collectors and
// installs Prometheus observability hooks.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	return reg
}
