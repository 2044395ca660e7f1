package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
)

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}
}

func listen(ctx context.Context, addr string) (net.Listener, error) {
	lc := &net.ListenConfig{
		KeepAliveConfig: net.KeepAliveConfig{
			Enable: true,
		},
	}

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen tcp %s: %w", addr, err)
	}

	return listener, nil
}

// serve closes ready and blocks in Serve until the server is shut down.
func serve(ctx context.Context, logger *slog.Logger, srv *http.Server, listener net.Listener, ready chan struct{}) {
	close(ready)

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.ErrorContext(ctx, "server error", "error", err)
	}
}

func shutdownServer(ctx context.Context, logger *slog.Logger, srv *http.Server) error {
	defer logger.InfoContext(ctx, "server shut downed")

	logger.InfoContext(ctx, "shutting down server")

	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorContext(ctx, "error shutting down server", "error", err)

		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.InfoContext(ctx, "server closed properly")

	return nil
}
