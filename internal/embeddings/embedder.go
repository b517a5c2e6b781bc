// ABOUTME: Embedding interfaces and error values shared by the embedder service and ranker.
// ABOUTME: A Model does raw inference; an Embedder adds normalization and lazy model loading.
package embeddings

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when text is empty after normalization.
	ErrEmptyInput = errors.New("text is empty after normalization")

	// ErrModelUnavailable is returned when the embedding model cannot be loaded or invoked.
	ErrModelUnavailable = errors.New("embedding model unavailable")
)

// Embedder generates vector embeddings from text.
type Embedder interface {
	// Embed returns a unit-length vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the dimensionality of the output vectors.
	Dimension() int
}

// Model is a loaded embedding model. Encode receives already-normalized text.
type Model interface {
	Encode(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Close() error
}

// Loader constructs a Model. It may be slow (weights, sessions, API clients).
type Loader func(ctx context.Context) (Model, error)

// CandidateEmbeddingError records a candidate that was dropped from a ranking
// because its text could not be embedded.
type CandidateEmbeddingError struct {
	ID  string
	Err error
}

func (e *CandidateEmbeddingError) Error() string {
	return fmt.Sprintf("failed to embed candidate %s: %v", e.ID, e.Err)
}

func (e *CandidateEmbeddingError) Unwrap() error {
	return e.Err
}
