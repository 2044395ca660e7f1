package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skillcoder/demo-app/internal/infra/shutdown"
)

const defaultMetricsPort = "9090"

// MetricsServer serves Prometheus metrics on a dedicated port.
type MetricsServer struct {
	logger     *slog.Logger
	port       string
	gatherer   prometheus.Gatherer
	server     *http.Server
	addr       string
	ready      chan struct{}
	inShutdown atomic.Bool
}

// NewMetricsServer creates a metrics server for gatherer. A nil gatherer means the default registry.
func NewMetricsServer(logger *slog.Logger, port string, gatherer prometheus.Gatherer) *MetricsServer {
	if port == "" {
		port = defaultMetricsPort
	}

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &MetricsServer{
		logger:   logger.With("component", "metrics-server"),
		port:     port,
		gatherer: gatherer,
		ready:    make(chan struct{}),
	}
}

var _ shutdown.Shutdowner = (*MetricsServer)(nil)

// Name returns the name of the metrics server component.
func (s *MetricsServer) Name() string {
	return "metrics-server"
}

// Ping returns nil when the server is ready to serve.
func (s *MetricsServer) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		return nil
	default:
		return fmt.Errorf("metrics server is not ready")
	}
}

// Handler serves GET /metrics.
func (s *MetricsServer) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{
		ErrorLog:      slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
		ErrorHandling: promhttp.ContinueOnError,
	}))

	return router
}

// Start binds the metrics port and serves in a goroutine.
func (s *MetricsServer) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "metrics server is shutting down, skipping start")

		return nil
	}

	addr := ":" + s.port
	s.server = newHTTPServer(addr, s.Handler())

	listener, err := listen(ctx, addr)
	if err != nil {
		return fmt.Errorf("metrics server: %w", err)
	}

	s.addr = listener.Addr().String()
	s.logger.InfoContext(ctx, "metrics server listening", "addr", s.addr)

	go serve(ctx, s.logger, s.server, listener, s.ready)

	return nil
}

// Ready returns a channel that is closed when the metrics server is ready.
func (s *MetricsServer) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listener address once Start has succeeded.
func (s *MetricsServer) Addr() string {
	return s.addr
}

// Shutdown gracefully shuts down the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "metrics server is already shutting down, skipping shutdown")

		return nil
	}

	return shutdownServer(ctx, s.logger, s.server)
}
