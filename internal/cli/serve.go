package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/dataflow/pkg/adapters/http"
)

// ShutdownTimeout bounds how long Serve waits for outstanding requests.
const ShutdownTimeout = 5 * time.Second

// Serve exposes rt over HTTP on addr until ctx is cancelled.
func Serve(ctx context.Context, rt *Runtime, addr string, logger *slog.Logger) error {
	opts := []httpAdapter.Option{httpAdapter.WithLogger(logger)}
	if rt.Metrics != nil {
		opts = append(opts, httpAdapter.WithMetrics(rt.Metrics.Handler()))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           httpAdapter.NewHandler(rt, opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting dataflow server", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down dataflow server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			return srv.Close()
		}
		return nil
	}
}
