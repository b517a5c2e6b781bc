// ABOUTME: MCP server initialization and configuration for profsearch.
// ABOUTME: Exposes professor search and listing tools to AI agents over stdio.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/2389-research/profsearch/internal/models"
	"github.com/2389-research/profsearch/internal/storage"
)

// Searcher is the search backend the tools call.
type Searcher interface {
	Semantic(ctx context.Context, query string, limit int) ([]models.RankedProfessor, error)
	Keyword(ctx context.Context, query string, limit int) ([]models.RankedProfessor, error)
	List(ctx context.Context, opts storage.ListOptions) ([]*models.Professor, error)
}

// Server wraps the MCP server with the professor search backend.
type Server struct {
	mcp          *gomcp.Server
	search       Searcher
	logger       *zap.Logger
	defaultLimit int
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithLogger sets the logger for tool failures.
func WithLogger(l *zap.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultLimit sets the result count used when a tool call omits limit.
func WithDefaultLimit(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

// NewServer creates an MCP server with professor search capabilities.
func NewServer(search Searcher, version string, opts ...ServerOption) (*Server, error) {
	if search == nil {
		return nil, fmt.Errorf("search service is required")
	}
	if version == "" {
		version = "dev"
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "profsearch",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcp:          mcpServer,
		search:       search,
		logger:       zap.NewNop(),
		defaultLimit: 10,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerSearchTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}
