// ABOUTME: Process-wide embedder service with a lazily loaded, memoized model.
// ABOUTME: Concurrent first callers share one in-flight load; failed loads are retried on the next call.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

const loadKey = "model"

// Service implements Embedder on top of a Model produced by a Loader.
type Service struct {
	load  Loader
	group singleflight.Group

	mu    sync.RWMutex
	model Model
	// gen advances on Close; a load started under an older gen discards its model.
	gen uint64
	// dim is the vector length the current model produced first; 0 until then.
	dim int
}

var errClosedDuringLoad = errors.New("embedder closed while the model was loading")

// NewService creates an embedder service. The loader is not called until the first Embed.
func NewService(load Loader) *Service {
	return &Service{load: load}
}

// Embed normalizes text, embeds it with the shared model, and returns a unit vector.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	normalized := NormalizeText(text)
	if normalized == "" {
		return nil, ErrEmptyInput
	}

	model, err := s.Model(ctx)
	if err != nil {
		return nil, err
	}

	vec, err := model.Encode(ctx, normalized)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: model returned an empty vector", ErrModelUnavailable)
	}
	if err := s.checkDimension(len(vec)); err != nil {
		return nil, err
	}

	return NormalizeVector(vec), nil
}

// Model returns the loaded model, loading it on first use.
// A caller whose ctx ends while waiting returns early; the load itself keeps going.
func (s *Service) Model(ctx context.Context) (Model, error) {
	if m := s.loaded(); m != nil {
		return m, nil
	}

	ch := s.group.DoChan(loadKey, func() (interface{}, error) {
		if m := s.loaded(); m != nil {
			return m, nil
		}
		s.mu.RLock()
		gen := s.gen
		s.mu.RUnlock()

		m, err := s.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, errors.New("loader returned no model")
		}

		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			_ = m.Close()
			return nil, errClosedDuringLoad
		}
		s.model = m
		s.dim = 0
		s.mu.Unlock()
		return m, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, res.Err)
		}
		return res.Val.(Model), nil
	}
}

// Loaded reports whether the model has been loaded.
func (s *Service) Loaded() bool {
	return s.loaded() != nil
}

// Dimension returns the loaded model's dimensionality, or 0 before the first load.
func (s *Service) Dimension() int {
	if m := s.loaded(); m != nil {
		return m.Dimension()
	}
	return 0
}

// Close releases the model. A later Embed loads it again.
// A load still in flight when Close is called closes its model instead of keeping it.
func (s *Service) Close() error {
	s.mu.Lock()
	m := s.model
	s.model = nil
	s.dim = 0
	s.gen++
	s.mu.Unlock()

	if m == nil {
		return nil
	}
	return m.Close()
}

func (s *Service) loaded() Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// checkDimension pins the first vector length and rejects any later vector that differs.
func (s *Service) checkDimension(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dim == 0 {
		s.dim = n
		return nil
	}
	if n != s.dim {
		return fmt.Errorf("%w: model returned %d values, expected %d", ErrModelUnavailable, n, s.dim)
	}
	return nil
}

var _ Embedder = (*Service)(nil)
