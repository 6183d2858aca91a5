// Package httpserver runs the public listener until its context ends.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"newsdesk/internal/platform/config"
)

// New builds the listener for handler with the configured timeouts.
func New(addr string, cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Serve listens until ctx is cancelled, then drains in-flight requests for
// at most cfg.ShutdownTimeout. A listener failure is returned as is.
func Serve(ctx context.Context, srv *http.Server, cfg config.HTTPConfig, logger *slog.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-serveErr
}
