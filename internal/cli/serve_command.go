package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"task-viewer/internal/api"
)

// ServeCommand runs the HTTP API with the change feed and the rate limiter
// sweeper until its context is done.
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Execute blocks until ctx is done or the server fails
func (c *ServeCommand) Execute(ctx context.Context) error {
	cfg := c.app.config
	svc := c.app.services

	srv := api.NewServer(&api.Options{
		Address:        cfg.Server.Addr,
		Debug:          cfg.Server.Debug,
		DisableReqLogs: !cfg.Application.Verbose,
		Services:       svc,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go svc.Limiter.RunSweeper(ctx, cfg.RateLimit.SweepInterval)

	syncErr := make(chan error, 1)
	go func() { syncErr <- svc.Sync.Run(ctx) }()

	serverErr := make(chan error, 1)
	go func() { serverErr <- srv.Start() }()
	slog.Info("server started", "addr", cfg.Server.Addr, "backend", cfg.Backend)

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case err := <-syncErr:
		if err != nil && ctx.Err() == nil {
			runErr = err
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	slog.Info("server stopped")
	return runErr
}

func (r *RootCommand) newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API and forward backend change notifications to
connected /v1/events clients until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewServeCommand(r.app).Execute(cmd.Context())
		},
	}
	serveCmd.Flags().StringVar(&r.flags.addr, "addr", "", "Listen address (overrides TV_SERVER_ADDR)")
	return serveCmd
}
