package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbertsch/ioflow/internal/api"
	"github.com/mbertsch/ioflow/pkg/cache"
	"github.com/mbertsch/ioflow/pkg/pipeline"
)

// shutdownGrace bounds how long in-flight requests may run after the
// server receives a stop signal.
const shutdownGrace = 10 * time.Second

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ioflow HTTP API",
		Long: `Run an HTTP server exposing the analysis pipeline.

Endpoints:
  GET  /healthz            liveness probe
  GET  /api/v1/version     build information
  POST /api/v1/analyze     analyze a netlist design

Example:
  curl -X POST localhost:8080/api/v1/analyze -d @request.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the report cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.ServerAddr()
	}

	backend, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer backend.Close()

	// API traffic gets its own key scope so a shared backend never
	// collides with CLI entries.
	runner := pipeline.NewRunner(cache.NewScopedCache(backend, "api:"), c.Logger)
	server := api.NewServer(runner, c.Logger)

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
