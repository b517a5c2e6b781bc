// ABOUTME: HTTP server exposing professor semantic search, keyword search, and listing as JSON.
// ABOUTME: Routes use method patterns on a ServeMux; the server shuts down gracefully with its context.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/2389-research/profsearch/internal/embeddings"
	"github.com/2389-research/profsearch/internal/models"
	"github.com/2389-research/profsearch/internal/storage"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Searcher is the search backend the handlers call.
type Searcher interface {
	Semantic(ctx context.Context, query string, limit int) ([]models.RankedProfessor, error)
	Keyword(ctx context.Context, query string, limit int) ([]models.RankedProfessor, error)
	List(ctx context.Context, opts storage.ListOptions) ([]*models.Professor, error)
}

// ModelStatus reports whether the embedding model has been loaded.
type ModelStatus interface {
	Loaded() bool
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	search       Searcher
	model        ModelStatus
	logger       *zap.Logger
	defaultLimit int
	mux          *http.ServeMux
}

// ServerOption configures optional server settings.
type ServerOption func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *zap.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithModelStatus reports model load state on /healthz.
func WithModelStatus(m ModelStatus) ServerOption {
	return func(s *Server) {
		s.model = m
	}
}

// WithDefaultLimit sets the result count used when a request omits limit.
func WithDefaultLimit(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

// NewServer creates the HTTP server and registers its routes.
func NewServer(search Searcher, opts ...ServerOption) *Server {
	s := &Server{
		search:       search,
		logger:       zap.NewNop(),
		defaultLimit: embeddings.DefaultLimit,
		mux:          http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("POST /api/search/semantic", s.handleSemanticSearch)
	s.mux.HandleFunc("GET /api/search", s.handleKeywordSearch)
	s.mux.HandleFunc("GET /api/profesores", s.handleListProfessors)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	return s
}

// Handler returns the routes wrapped in request ID, logging, and recovery middleware.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withLogging(s.withRecover(s.mux)))
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
