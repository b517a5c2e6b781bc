// ABOUTME: MCP tool implementations for professor search.
// ABOUTME: Registers semantic_search, keyword_search, and list_professors tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/2389-research/profsearch/internal/embeddings"
	"github.com/2389-research/profsearch/internal/models"
	"github.com/2389-research/profsearch/internal/storage"
)

func (s *Server) registerSearchTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "semantic_search",
		Description: "Find professors whose profile (name, department, university, biography, subjects) is semantically closest to a free-text query.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "What you are looking for, e.g. 'linear algebra with lots of examples'.", "minLength": 1},
				"limit": {"type": "number", "description": "Maximum number of professors to return (default 10)"}
			},
			"required": ["query"]
		}`),
	}, s.handleSemanticSearch)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "keyword_search",
		Description: "Find professors by keywords in their profile. Tolerates accents and one-letter typos.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Keywords to match.", "minLength": 1},
				"limit": {"type": "number", "description": "Maximum number of professors to return (default 10)"}
			},
			"required": ["query"]
		}`),
	}, s.handleKeywordSearch)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_professors",
		Description: "List professors in store order.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "number", "description": "Maximum number of professors to return (default 10)"},
				"offset": {"type": "number", "description": "Number of professors to skip (default 0)"}
			}
		}`),
	}, s.handleListProfessors)
}

type searchArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) handleSemanticSearch(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	return s.runSearch(ctx, req, "semantic", s.search.Semantic)
}

func (s *Server) handleKeywordSearch(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	return s.runSearch(ctx, req, "keyword", s.search.Keyword)
}

type searchFunc func(ctx context.Context, query string, limit int) ([]models.RankedProfessor, error)

func (s *Server) runSearch(ctx context.Context, req *gomcp.CallToolRequest, kind string, fn searchFunc) (*gomcp.CallToolResult, error) {
	var args searchArgs
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	if strings.TrimSpace(args.Query) == "" {
		return toolError("query is required"), nil
	}
	if args.Limit <= 0 {
		args.Limit = s.defaultLimit
	}

	results, err := fn(ctx, args.Query, args.Limit)
	if err != nil {
		if errors.Is(err, embeddings.ErrEmptyInput) {
			return toolError("query has no searchable text"), nil
		}
		s.logger.Error(kind+" search failed", zap.String("query", args.Query), zap.Error(err))
		return toolError("search failed: %v", err), nil
	}

	if len(results) == 0 {
		return &gomcp.CallToolResult{
			Content: []gomcp.Content{&gomcp.TextContent{Text: "No professors found."}},
		}, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d professor(s) for %q (%s search):\n", len(results), args.Query, kind))
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n%d. %s [score %.3f]\n", i+1, r.Name, r.Score))
		writeProfessorDetails(&sb, &r.Professor)
	}

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: sb.String()}},
	}, nil
}

func (s *Server) handleListProfessors(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	if args.Limit <= 0 {
		args.Limit = s.defaultLimit
	}
	if args.Offset < 0 {
		return toolError("offset must not be negative"), nil
	}

	professors, err := s.search.List(ctx, storage.ListOptions{Limit: args.Limit, Offset: args.Offset})
	if err != nil {
		s.logger.Error("list professors failed", zap.Error(err))
		return toolError("failed to list professors: %v", err), nil
	}

	if len(professors) == 0 {
		return &gomcp.CallToolResult{
			Content: []gomcp.Content{&gomcp.TextContent{Text: "No professors found."}},
		}, nil
	}

	var sb strings.Builder
	for _, p := range professors {
		sb.WriteString(fmt.Sprintf("---\n%s (ID: %s)\n", p.Name, p.ID))
		writeProfessorDetails(&sb, p)
	}

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: sb.String()}},
	}, nil
}

func writeProfessorDetails(sb *strings.Builder, p *models.Professor) {
	var where []string
	for _, f := range []string{p.Department, p.University} {
		if f != "" {
			where = append(where, f)
		}
	}
	if len(where) > 0 {
		sb.WriteString("   " + strings.Join(where, ", ") + "\n")
	}
	if len(p.Subjects) > 0 {
		sb.WriteString("   Subjects: " + strings.Join(p.Subjects, ", ") + "\n")
	}
	if p.Bio != "" {
		sb.WriteString("   " + p.Bio + "\n")
	}
}

// toolError creates an error result for MCP tool responses.
func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
