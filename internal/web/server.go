// Package web provides the HTTP results API for flowtag.
//
// The server is optional: it exposes a finished aggregation run as JSON so
// the tables can be inspected without re-reading the output file.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/grushad/flowtag/internal/aggregate"
	"github.com/grushad/flowtag/internal/logging"
)

// Version is set by the main package at startup.
var Version = "unknown"

// Server serves the aggregate result over HTTP.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int
	result     *aggregate.Result
	startTime  time.Time
}

// Config holds configuration for the results server.
type Config struct {
	// Port is the HTTP port to listen on
	Port int
	// Result is the finished aggregation result to serve
	Result *aggregate.Result
}

// New creates a results server for a finished run.
func New(cfg Config) *Server {
	s := &Server{
		port:      cfg.Port,
		result:    cfg.Result,
		startTime: time.Now(),
	}
	s.setupRouter()
	return s
}

// setupRouter configures the HTTP router.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/results", s.handleResults)
		r.Get("/stats", s.handleStats)
	})

	s.router = r
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logging.Info("results server starting", "port", s.port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// StartAsync starts the HTTP server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			logging.Error("results server error", "error", err)
		}
	}()
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	logging.Info("results server stopping")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Router returns the configured router, for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
