package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vibestream/vibestream/core"
	"github.com/vibestream/vibestream/core/provider"
	"github.com/vibestream/vibestream/core/stream"
)

// DeliveryMode selects how /api/audio answers: piping the audio bytes
// through this process, or handing the client the upstream URL.
const (
	DeliveryProxy    = "proxy"
	DeliveryRedirect = "redirect"
)

// Options configure the HTTP server.
type Options struct {
	Addr               string
	DeliveryMode       string
	SearchLimit        int
	PrimaryProvider    string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Server exposes the audio resolution backend over HTTP: search, audio
// stream proxying, connectivity status and health.
type Server struct {
	httpServer *http.Server
	router     *Router
	registry   *provider.Registry
	streams    *stream.Service
	logger     core.Logger

	mode        string
	searchLimit int
	primary     string
}

// New creates the server and registers all routes and middleware.
func New(opts Options, registry *provider.Registry, streams *stream.Service, logger core.Logger) *Server {
	if opts.Addr == "" {
		opts.Addr = ":3001"
	}
	if opts.DeliveryMode == "" {
		opts.DeliveryMode = DeliveryProxy
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 20
	}
	if opts.PrimaryProvider == "" {
		opts.PrimaryProvider = provider.SourceYouTube.String()
	}

	s := &Server{
		router:      NewRouter(),
		registry:    registry,
		streams:     streams,
		logger:      logger,
		mode:        opts.DeliveryMode,
		searchLimit: opts.SearchLimit,
		primary:     opts.PrimaryProvider,
	}

	s.router.Use(
		RequestID(),
		AccessLog(logger),
		CORS(),
		RateLimit(opts.RateLimitPerSecond, opts.RateLimitBurst, logger),
	)

	s.router.HandleFunc("GET /api/search", s.handleSearch)
	s.router.HandleFunc("GET /api/audio/{videoId}", s.handleAudio)
	s.router.HandleFunc("GET /api/status", s.handleStatus)
	s.router.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		// No WriteTimeout: audio piping legitimately runs for minutes.
	}

	return s
}

// Handler returns the root handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving in the background. Listen errors other than
// graceful closure are logged.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if s.logger != nil {
				s.logger.Error("http server stopped", "error", err)
			}
		}
	}()
	if s.logger != nil {
		s.logger.Info("http server listening", "addr", s.httpServer.Addr, "delivery_mode", s.mode)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
