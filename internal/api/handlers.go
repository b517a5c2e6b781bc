// ABOUTME: JSON request handlers for search, listing, and health endpoints.
// ABOUTME: Maps empty queries to 400 and store or model failures to a generic 500.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/2389-research/profsearch/internal/embeddings"
	"github.com/2389-research/profsearch/internal/models"
	"github.com/2389-research/profsearch/internal/storage"
)

const unavailableMessage = "search temporarily unavailable"

// semanticRequest is the body of POST /api/search/semantic.
type semanticRequest struct {
	Query *string `json:"query"`
	Limit *int    `json:"limit"`
}

// searchResponse is returned by both search endpoints.
type searchResponse struct {
	Profesores     []models.RankedProfessor `json:"profesores"`
	Total          int                      `json:"total"`
	Query          string                   `json:"query"`
	SemanticSearch bool                     `json:"semanticSearch"`
}

type listResponse struct {
	Profesores []*models.Professor `json:"profesores"`
	Total      int                 `json:"total"`
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req semanticRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == nil || strings.TrimSpace(*req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	limit := s.defaultLimit
	if req.Limit != nil && *req.Limit > 0 {
		limit = *req.Limit
	}

	results, err := s.search.Semantic(r.Context(), *req.Query, limit)
	if err != nil {
		s.writeSearchError(w, r, err)
		return
	}
	if results == nil {
		results = []models.RankedProfessor{}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Profesores:     results,
		Total:          len(results),
		Query:          *req.Query,
		SemanticSearch: true,
	})
}

func (s *Server) handleKeywordSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	limit, err := intParam(r, "limit", s.defaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit < 1 {
		limit = s.defaultLimit
	}

	results, err := s.search.Keyword(r.Context(), query, limit)
	if err != nil {
		s.writeSearchError(w, r, err)
		return
	}
	if results == nil {
		results = []models.RankedProfessor{}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Profesores:     results,
		Total:          len(results),
		Query:          query,
		SemanticSearch: false,
	})
}

func (s *Server) handleListProfessors(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit < 0 || offset < 0 {
		writeError(w, http.StatusBadRequest, "limit and offset must not be negative")
		return
	}

	professors, err := s.search.List(r.Context(), storage.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.requestLogger(r).Error("list professors failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "professors temporarily unavailable")
		return
	}
	if professors == nil {
		professors = []*models.Professor{}
	}

	writeJSON(w, http.StatusOK, listResponse{Profesores: professors, Total: len(professors)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	loaded := false
	if s.model != nil {
		loaded = s.model.Loaded()
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", ModelLoaded: loaded})
}

func (s *Server) writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, embeddings.ErrEmptyInput) {
		writeError(w, http.StatusBadRequest, "query has no searchable text")
		return
	}
	s.requestLogger(r).Error("search failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, unavailableMessage)
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
