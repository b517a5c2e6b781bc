// ABOUTME: Tests for MCP server creation and the professor search tool handlers.
// ABOUTME: Calls handlers directly with raw JSON arguments against a stub search backend.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/profsearch/internal/embeddings"
	"github.com/2389-research/profsearch/internal/models"
	"github.com/2389-research/profsearch/internal/search"
	"github.com/2389-research/profsearch/internal/storage"
)

type stubSearcher struct {
	results  []models.RankedProfessor
	list     []*models.Professor
	err      error
	gotQuery string
	gotLimit int
	gotOpts  storage.ListOptions
}

func (s *stubSearcher) Semantic(_ context.Context, query string, limit int) ([]models.RankedProfessor, error) {
	s.gotQuery, s.gotLimit = query, limit
	return s.results, s.err
}

func (s *stubSearcher) Keyword(_ context.Context, query string, limit int) ([]models.RankedProfessor, error) {
	s.gotQuery, s.gotLimit = query, limit
	return s.results, s.err
}

func (s *stubSearcher) List(_ context.Context, opts storage.ListOptions) ([]*models.Professor, error) {
	s.gotOpts = opts
	return s.list, s.err
}

func sampleProfessor() *models.Professor {
	return &models.Professor{
		ID:         "0b9f3c52-6d0e-4a55-9a53-2f6c1f1d8e01",
		Name:       "Ana Gómez",
		Department: "Math",
		University: "UNAM",
		Bio:        "Loves linear algebra",
		Subjects:   []string{"Álgebra Lineal", "Cálculo"},
	}
}

func makeServer(t *testing.T, stub *stubSearcher) *Server {
	t.Helper()
	server, err := NewServer(stub, "test")
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	return server
}

func callTool(t *testing.T, s *Server, name string, args interface{}) *gomcp.CallToolResult {
	t.Helper()
	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}

	req := &gomcp.CallToolRequest{
		Params: &gomcp.CallToolParamsRaw{
			Name:      name,
			Arguments: argsJSON,
		},
	}

	handlers := map[string]func(context.Context, *gomcp.CallToolRequest) (*gomcp.CallToolResult, error){
		"semantic_search": s.handleSemanticSearch,
		"keyword_search":  s.handleKeywordSearch,
		"list_professors": s.handleListProfessors,
	}
	handler, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return result
}

func getTextContent(result *gomcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(*gomcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

func TestNewServerRequiresSearch(t *testing.T) {
	if _, err := NewServer(nil, "1.0.0"); err == nil {
		t.Error("expected error when search service is nil")
	}
}

func TestNewServerOptions(t *testing.T) {
	server, err := NewServer(&stubSearcher{}, "", WithDefaultLimit(3), WithLogger(nil))
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	if server.defaultLimit != 3 {
		t.Errorf("expected default limit 3, got %d", server.defaultLimit)
	}
	if server.logger == nil {
		t.Error("expected nil logger option to keep the no-op logger")
	}
}

func TestSemanticSearchTool(t *testing.T) {
	stub := &stubSearcher{results: []models.RankedProfessor{models.NewRankedProfessor(sampleProfessor(), 0.8123)}}
	s := makeServer(t, stub)

	result := callTool(t, s, "semantic_search", map[string]interface{}{
		"query": "algebra",
		"limit": 3,
	})

	if result.IsError {
		t.Fatalf("expected success, got error: %s", getTextContent(result))
	}
	if stub.gotQuery != "algebra" || stub.gotLimit != 3 {
		t.Errorf("expected query algebra limit 3, got %q %d", stub.gotQuery, stub.gotLimit)
	}

	text := getTextContent(result)
	for _, want := range []string{"Ana Gómez", "0.812", "Math, UNAM", "Álgebra Lineal, Cálculo", "semantic search"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output, got: %s", want, text)
		}
	}
}

func TestSemanticSearchToolDefaultLimit(t *testing.T) {
	stub := &stubSearcher{}
	s := makeServer(t, stub)

	result := callTool(t, s, "semantic_search", map[string]string{"query": "redes"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", getTextContent(result))
	}
	if stub.gotLimit != 10 {
		t.Errorf("expected default limit 10, got %d", stub.gotLimit)
	}
	if text := getTextContent(result); text != "No professors found." {
		t.Errorf("expected empty message, got: %s", text)
	}
}

func TestSemanticSearchToolRequiresQuery(t *testing.T) {
	s := makeServer(t, &stubSearcher{})

	result := callTool(t, s, "semantic_search", map[string]string{"query": "  "})
	if !result.IsError {
		t.Error("expected error when query is blank")
	}
}

func TestSemanticSearchToolErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{embeddings.ErrEmptyInput, "no searchable text"},
		{search.ErrStoreUnavailable, "search failed"},
		{errors.New("model exploded"), "model exploded"},
	}

	for _, tt := range tests {
		s := makeServer(t, &stubSearcher{err: tt.err})
		result := callTool(t, s, "semantic_search", map[string]string{"query": "x"})
		if !result.IsError {
			t.Errorf("expected error result for %v", tt.err)
			continue
		}
		if text := getTextContent(result); !strings.Contains(text, tt.want) {
			t.Errorf("expected %q in error, got: %s", tt.want, text)
		}
	}
}

func TestKeywordSearchTool(t *testing.T) {
	stub := &stubSearcher{results: []models.RankedProfessor{models.NewRankedProfessor(sampleProfessor(), 1.25)}}
	s := makeServer(t, stub)

	result := callTool(t, s, "keyword_search", map[string]string{"query": "algebra"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", getTextContent(result))
	}
	text := getTextContent(result)
	if !strings.Contains(text, "keyword search") || !strings.Contains(text, "Ana Gómez") {
		t.Errorf("unexpected output: %s", text)
	}
}

func TestListProfessorsTool(t *testing.T) {
	stub := &stubSearcher{list: []*models.Professor{sampleProfessor()}}
	s := makeServer(t, stub)

	result := callTool(t, s, "list_professors", map[string]int{"limit": 5, "offset": 2})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", getTextContent(result))
	}
	if stub.gotOpts.Limit != 5 || stub.gotOpts.Offset != 2 {
		t.Errorf("expected limit 5 offset 2, got %+v", stub.gotOpts)
	}
	text := getTextContent(result)
	if !strings.Contains(text, "0b9f3c52-6d0e-4a55-9a53-2f6c1f1d8e01") {
		t.Errorf("expected professor id in output, got: %s", text)
	}

	neg := callTool(t, s, "list_professors", map[string]int{"offset": -1})
	if !neg.IsError {
		t.Error("expected error for negative offset")
	}

	empty := callTool(t, makeServer(t, &stubSearcher{}), "list_professors", map[string]int{})
	if getTextContent(empty) != "No professors found." {
		t.Errorf("expected empty message, got: %s", getTextContent(empty))
	}
}

func TestInvalidArguments(t *testing.T) {
	s := makeServer(t, &stubSearcher{})

	req := &gomcp.CallToolRequest{
		Params: &gomcp.CallToolParamsRaw{Name: "semantic_search", Arguments: json.RawMessage(`{"query": 7}`)},
	}
	result, err := s.handleSemanticSearch(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for invalid arguments")
	}
}
