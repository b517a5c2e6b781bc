// ABOUTME: Deterministic feature-hashing model for offline development and tests.
// ABOUTME: Each whitespace token increments one FNV-hashed dimension; no weights are needed.
package embeddings

import (
	"context"
	"hash/fnv"
	"strings"
)

// DefaultHashingDimension is the vector size used when none is configured.
const DefaultHashingDimension = 512

// HashingModel is a bag-of-words embedding. Texts sharing words get a positive similarity.
type HashingModel struct {
	dim int
}

// NewHashingModel creates a hashing model with the given dimensionality.
func NewHashingModel(dim int) *HashingModel {
	if dim <= 0 {
		dim = DefaultHashingDimension
	}
	return &HashingModel{dim: dim}
}

// HashingLoader returns a Loader that yields a HashingModel.
func HashingLoader(dim int) Loader {
	return func(ctx context.Context) (Model, error) {
		return NewHashingModel(dim), nil
	}
}

// Encode hashes each token of text into the vector.
func (m *HashingModel) Encode(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, m.dim)
	for _, tok := range strings.Fields(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%uint32(m.dim)]++
	}
	return vec, nil
}

// Dimension returns the vector size.
func (m *HashingModel) Dimension() int {
	return m.dim
}

// Close is a no-op.
func (m *HashingModel) Close() error {
	return nil
}
