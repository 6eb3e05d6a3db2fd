package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/technician-matching/internal/infra/config"
	"github.com/yanqian/technician-matching/internal/infra/tracing"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	tracing *tracing.Provider
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, tp *tracing.Provider) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, tracing: tp}
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address, "tracing", a.tracing.Enabled())
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		return a.shutdown()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return a.shutdownTracing()
		}
		_ = a.shutdownTracing()
		return err
	}
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	serverErr := a.server.Shutdown(shutdownCtx)
	if err := a.tracing.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("tracer shutdown failed", "error", err)
	}
	return serverErr
}

func (a *App) shutdownTracing() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.tracing.Shutdown(ctx)
}
