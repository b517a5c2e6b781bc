// ABOUTME: Semantic ranking of candidates against a query using vector embeddings.
// ABOUTME: Scores by cosine similarity, skips candidates that fail to embed, sorts stably, and truncates.
package embeddings

import (
	"context"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultLimit is used when a caller asks for fewer than one result.
	DefaultLimit = 20

	// DefaultConcurrency bounds how many candidate texts are embedded at once.
	DefaultConcurrency = 4
)

// Candidate is an item to rank together with the text that describes it.
type Candidate[T any] struct {
	ID   string
	Item T
	Text string
}

// SearchResult pairs a ranked item with its relevance score.
type SearchResult[T any] struct {
	Item  T
	Score float64
}

// RankOption configures a Rank call.
type RankOption func(*rankOptions)

type rankOptions struct {
	concurrency int
	onSkip      func(*CandidateEmbeddingError)
}

// WithConcurrency sets the candidate embedding fan-out. Values below 1 mean sequential.
func WithConcurrency(n int) RankOption {
	return func(o *rankOptions) {
		o.concurrency = n
	}
}

// WithSkipHandler registers a callback for candidates dropped because they failed to embed.
func WithSkipHandler(fn func(*CandidateEmbeddingError)) RankOption {
	return func(o *rankOptions) {
		o.onSkip = fn
	}
}

// CosineSimilarity computes the cosine similarity between two vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// candidateVector is the embedding outcome for one candidate: a vector or the reason it has none.
type candidateVector struct {
	vec []float32
	err error
}

// Rank embeds query and every candidate's text, then returns up to limit candidates
// ordered by descending cosine similarity. Equal scores keep their input order.
//
// A blank query returns no results without touching the embedder. Only a failure to
// embed the query (or a cancelled ctx) is returned as an error; candidates that fail
// to embed are reported to the skip handler and left out.
func Rank[T any](ctx context.Context, embedder Embedder, query string, candidates []Candidate[T], limit int, opts ...RankOption) ([]SearchResult[T], error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	o := rankOptions{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(&o)
	}

	queryVec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	vectors := embedCandidates(ctx, embedder, candidates, o.concurrency)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]SearchResult[T], 0, len(candidates))
	for i, cv := range vectors {
		if cv.err != nil {
			if o.onSkip != nil {
				o.onSkip(&CandidateEmbeddingError{ID: candidates[i].ID, Err: cv.err})
			}
			continue
		}
		results = append(results, SearchResult[T]{
			Item:  candidates[i].Item,
			Score: CosineSimilarity(queryVec, cv.vec),
		})
	}

	// Sort by score descending
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// embedCandidates embeds every candidate text with at most concurrency calls in flight.
// Results are stored by index so input order is preserved.
func embedCandidates[T any](ctx context.Context, embedder Embedder, candidates []Candidate[T], concurrency int) []candidateVector {
	out := make([]candidateVector, len(candidates))
	if concurrency < 1 {
		concurrency = 1
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i].err = err
				return nil
			}
			vec, err := embedder.Embed(ctx, candidates[i].Text)
			out[i] = candidateVector{vec: vec, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return out
}
