// Package api exposes the draft analysis query surface over HTTP. It is a
// hosting-side concern: the core library owns no wire format, the server
// owns delivery.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"packtracer/internal/analysis"
)

// Server serves trace and pick queries for draft exports reachable through a
// Loader. Each session key gets one Analysis, built on first use and reused
// afterwards; instances are immutable so concurrent requests need no further
// coordination.
type Server struct {
	router  *chi.Mux
	httpSrv *http.Server
	loader  analysis.Loader
	meta    func(key string) *analysis.Metadata
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*analysis.Analysis
}

// Config holds server settings.
type Config struct {
	Addr string

	// Metadata, when set, supplies per-session roster metadata by key.
	Metadata func(key string) *analysis.Metadata
}

// NewServer wires the router. A nil logger disables logging.
func NewServer(cfg Config, loader analysis.Loader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router:   chi.NewRouter(),
		loader:   loader,
		meta:     cfg.Metadata,
		logger:   logger,
		sessions: make(map[string]*analysis.Analysis),
	}
	s.httpSrv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.setupRoutes()
	return s
}

// Router returns the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	s.logger.Info("api server listening", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains connections and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// analysisFor returns the cached Analysis for a session key, loading the
// export on first use.
func (s *Server) analysisFor(ctx context.Context, key string) (*analysis.Analysis, error) {
	s.mu.Lock()
	if a, ok := s.sessions[key]; ok {
		s.mu.Unlock()
		return a, nil
	}
	s.mu.Unlock()

	var meta *analysis.Metadata
	if s.meta != nil {
		meta = s.meta(key)
	}
	a, err := analysis.Load(ctx, s.loader, key, meta)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.sessions[key]; ok {
		return cached, nil
	}
	s.sessions[key] = a
	return a, nil
}
