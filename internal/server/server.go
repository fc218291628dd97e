// Package server provides the HTTP API for Toikake.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/toikake/internal/config"
	"github.com/hyperjump/toikake/internal/extract"
	"github.com/hyperjump/toikake/internal/keywords"
	"github.com/hyperjump/toikake/internal/match"
)

// Server is the HTTP server for the Toikake API. extractor may be nil when
// document analysis is disabled; the analyze route then returns 501.
type Server struct {
	engine    *match.Engine
	extractor *extract.Extractor
	kwSource  keywords.Extractor
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *match.Engine,
	extractor *extract.Extractor,
	kwSource keywords.Extractor,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:    engine,
		extractor: extractor,
		kwSource:  kwSource,
		config:    cfg,
		logger:    logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestIDHeader)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/questions", s.handleStoreQuestion)
	r.Post("/api/v1/match", s.handleMatch)
	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/analyze", s.handleAnalyze)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// requestIDHeader echoes the request ID back to the client so failed calls
// can be correlated with server logs.
func requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set("X-Request-Id", id)
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
