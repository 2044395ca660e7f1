package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/skillcoder/demo-app/internal/infra/appstate"
	"github.com/skillcoder/demo-app/internal/infra/shutdown"
	"github.com/skillcoder/demo-app/internal/logic/podinfo"
)

// Options configures the demo HTTP server.
type Options struct {
	Port               string
	CORSAllowedOrigins []string
}

type Server struct {
	logger     *slog.Logger
	appState   appstater
	collector  infoCollector
	pods       podinfo.PodLookup
	opts       Options
	page       *pageRenderer
	server     *http.Server
	addr       string
	ready      chan struct{}
	inShutdown atomic.Bool
}

// New creates the demo HTTP server. pods may be nil when pod lookup is disabled.
func New(
	logger *slog.Logger,
	appState appstater,
	collector infoCollector,
	pods podinfo.PodLookup,
	opts Options,
) *Server {
	if opts.Port == "" {
		opts.Port = defaultPort
	}

	return &Server{
		logger:    logger.With("component", "http-server"),
		appState:  appState,
		collector: collector,
		pods:      pods,
		opts:      opts,
		page:      newPageRenderer(),
		ready:     make(chan struct{}),
	}
}

var _ shutdown.Shutdowner = (*Server)(nil)

// Name returns the name of the server component
func (s *Server) Name() string {
	return "http-server"
}

// Ping returns nil when the server is ready to serve.
func (s *Server) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		return nil
	default:
		return fmt.Errorf("http server is not ready")
	}
}

// Handler builds the router with every route and middleware.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(instrument)
	router.Use(middleware.Recoverer)

	router.Get("/", s.handleIndex)
	router.Get("/health", s.handleHealth)
	router.Get("/ready", s.handleReady)

	router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         corsMaxAge,
		}))

		r.Get("/info", s.handleAPIInfo)
		r.Get("/pod", s.handleAPIPod)
	})

	router.Get("/-/healthz", appstate.HandleHealthz(s.logger, s.appState))
	router.Get("/-/readyz", appstate.HandleReadyz(s.logger, s.appState))
	router.Get("/-/status", appstate.HandleStatus(s.logger, s.appState))

	return router
}

// Start binds the listener and serves in a goroutine. A bind failure is returned to the caller.
func (s *Server) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "http server is shutting down, skipping start")

		return nil
	}

	addr := ":" + s.opts.Port
	s.server = newHTTPServer(addr, s.Handler())

	listener, err := listen(ctx, addr)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	s.addr = listener.Addr().String()

	baseURL := "http://localhost:" + s.opts.Port
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		baseURL = fmt.Sprintf("http://localhost:%d", tcpAddr.Port)
	}

	s.logger.InfoContext(ctx, "demo app listening",
		"addr", s.addr,
		"url", baseURL,
		"health", baseURL+"/health",
		"apiInfo", baseURL+"/api/info",
	)

	go serve(ctx, s.logger, s.server, listener, s.ready)

	return nil
}

// Ready returns a channel that is closed when the HTTP server is ready to serve requests
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listener address once Start has succeeded.
func (s *Server) Addr() string {
	return s.addr
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "http server is already shutting down, skipping shutdown")

		return nil
	}

	return shutdownServer(ctx, s.logger, s.server)
}
