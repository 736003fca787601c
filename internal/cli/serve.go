package cli

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jedrzejginter/toolkit/internal/metrics"
	"github.com/jedrzejginter/toolkit/internal/server"
	"github.com/jedrzejginter/toolkit/pkg/constraint"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		timeout     time.Duration
		constraints string
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve feature resolution over HTTP",
		Long: `Serve the resolution pipeline as an HTTP API.

Endpoints:
  GET  /healthz       liveness
  GET  /v1/features   feature catalogue
  POST /v1/resolve    resolve a feature selection
  GET  /metrics       Prometheus metrics

Set --redis-url to share the registry cache between replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m := metrics.New(reg)

			registry, ch, err := c.newRegistry(ctx, registryOptions{noCache: noCache, hooks: m})
			if err != nil {
				return err
			}
			defer ch.Close()

			opts := c.pipelineOptions()
			if constraints == "" {
				constraints = c.settings.Constraints
			}
			if constraints != "" {
				t, err := constraint.LoadFile(constraints)
				if err != nil {
					return err
				}
				opts.Constraints = t
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			if addr == "" {
				addr = c.settings.Listen
			}
			srv := server.New(server.Config{
				Runner:   c.newRunner(registry, m),
				Logger:   logger,
				Gatherer: reg,
				Options:  opts,
				Timeout:  timeout,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings, :8080)")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "deadline for each request")
	cmd.Flags().StringVar(&constraints, "constraints", "", "TOML file with version constraint overrides applied to every request")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the registry response cache")
	return cmd
}
