// ABOUTME: Professor search service combining the candidate store with semantic and keyword ranking.
// ABOUTME: Semantic search embeds composite profiles; keyword search builds a throwaway bleve index.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/2389-research/profsearch/internal/embeddings"
	"github.com/2389-research/profsearch/internal/models"
	"github.com/2389-research/profsearch/internal/storage"
)

// ErrStoreUnavailable is returned when professors cannot be read from the store.
var ErrStoreUnavailable = errors.New("professor store unavailable")

// Service answers professor searches against a store.
type Service struct {
	store       storage.ProfessorStore
	embedder    embeddings.Embedder
	logger      *zap.Logger
	concurrency int
	limit       int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for skipped candidates and timings.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConcurrency sets how many candidate profiles are embedded at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		s.concurrency = n
	}
}

// WithDefaultLimit sets the result count used when a caller passes limit < 1.
func WithDefaultLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = n
		}
	}
}

// NewService creates a search service.
func NewService(store storage.ProfessorStore, embedder embeddings.Embedder, opts ...Option) *Service {
	s := &Service{
		store:       store,
		embedder:    embedder,
		logger:      zap.NewNop(),
		concurrency: embeddings.DefaultConcurrency,
		limit:       embeddings.DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Semantic ranks every professor in the store by cosine similarity to query.
// A blank query returns an empty result; a query with no searchable text returns ErrEmptyInput.
func (s *Service) Semantic(ctx context.Context, query string, limit int) ([]models.RankedProfessor, error) {
	if strings.TrimSpace(query) == "" {
		return []models.RankedProfessor{}, nil
	}
	if embeddings.NormalizeText(query) == "" {
		return nil, embeddings.ErrEmptyInput
	}
	if limit < 1 {
		limit = s.limit
	}
	start := time.Now()

	professors, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]embeddings.Candidate[*models.Professor], 0, len(professors))
	for _, p := range professors {
		candidates = append(candidates, embeddings.Candidate[*models.Professor]{
			ID:   p.ID,
			Item: p,
			Text: p.CompositeText(),
		})
	}

	skipped := 0
	ranked, err := embeddings.Rank(ctx, s.embedder, query, candidates, limit,
		embeddings.WithConcurrency(s.concurrency),
		embeddings.WithSkipHandler(func(e *embeddings.CandidateEmbeddingError) {
			skipped++
			if errors.Is(e, embeddings.ErrEmptyInput) {
				s.logger.Debug("skipping professor with empty profile", zap.String("id", e.ID))
				return
			}
			s.logger.Warn("skipping professor", zap.String("id", e.ID), zap.Error(e.Err))
		}),
	)
	if err != nil {
		return nil, err
	}

	results := make([]models.RankedProfessor, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, models.NewRankedProfessor(r.Item, r.Score))
	}

	s.logger.Debug("semantic search",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
		zap.Int("skipped", skipped),
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(start)),
	)
	return results, nil
}

// Keyword ranks professors by BM25 over their composite profiles, tolerating one-letter typos.
func (s *Service) Keyword(ctx context.Context, query string, limit int) ([]models.RankedProfessor, error) {
	if strings.TrimSpace(query) == "" {
		return []models.RankedProfessor{}, nil
	}
	folded := foldText(query)
	if folded == "" {
		return nil, embeddings.ErrEmptyInput
	}
	if limit < 1 {
		limit = s.limit
	}

	professors, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	results, err := keywordRank(professors, folded, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	s.logger.Debug("keyword search",
		zap.String("query", query),
		zap.Int("candidates", len(professors)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// List returns a page of professors straight from the store.
func (s *Service) List(ctx context.Context, opts storage.ListOptions) ([]*models.Professor, error) {
	professors, err := s.store.ListProfessors(ctx, opts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return professors, nil
}

func (s *Service) loadAll(ctx context.Context) ([]*models.Professor, error) {
	return s.List(ctx, storage.ListOptions{})
}
