package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Fallbacks for zero-valued server settings.
const (
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

// run listens on the configured port and serves until ctx is cancelled.
func (app *application) run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", app.config.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return app.serve(ctx, ln)
}

// serve runs the HTTP server on ln and, when enabled, the task generator.
// Both stop when ctx is cancelled or the server fails; the server is given
// the configured shutdown timeout to drain in-flight requests, and serve
// returns only after the generator loop has exited.
func (app *application) serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	if app.generator != nil {
		if err := app.generator.Start(gctx); err != nil {
			return fmt.Errorf("failed to start task generator: %w", err)
		}
	}

	g.Go(func() error {
		app.logger.Info("starting server", slog.String("addr", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutting down server")

		timeout := app.config.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		app.logger.Info("server shutdown completed")
		return nil
	})

	err := g.Wait()
	if app.generator != nil {
		app.generator.Stop()
	}
	return err
}
