package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrEmbeddingFailure reports that the inference provider failed or returned
// a malformed (empty or NaN) vector. The service never retries; the caller
// decides retry policy.
var ErrEmbeddingFailure = errors.New("embedding failure")

// Provider is the loaded embedding model. Embed returns one vector per
// input, in input order. Implementations must be safe for concurrent use.
type Provider interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// LoadFunc constructs the provider. It runs at most once per Service.
type LoadFunc func(ctx context.Context) (Provider, error)

// Service wraps a lazily-loaded embedding provider. The first caller (or
// several concurrent first callers) triggers a single load; everyone gets the
// same provider instance for the life of the process. Output vectors are
// always L2-normalized.
type Service struct {
	load  LoadFunc
	group singleflight.Group

	mu       sync.RWMutex
	provider Provider
}

// NewService creates a Service that will load its provider on first use.
func NewService(load LoadFunc) *Service {
	return &Service{load: load}
}

// Initialize returns the provider, loading it on first call. Concurrent
// callers before the load resolves coalesce onto one in-flight load and
// receive the identical instance. A failed load is not cached; the next
// caller triggers a fresh attempt.
func (s *Service) Initialize(ctx context.Context) (Provider, error) {
	s.mu.RLock()
	p := s.provider
	s.mu.RUnlock()
	if p != nil {
		return p, nil
	}
	v, err, _ := s.group.Do("model", func() (any, error) {
		// Re-check under the flight: a caller that raced past the fast path
		// after a finished load must not trigger a second one.
		s.mu.RLock()
		p := s.provider
		s.mu.RUnlock()
		if p != nil {
			return p, nil
		}
		p, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.provider = p
		s.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: load model: %v", ErrEmbeddingFailure, err)
	}
	return v.(Provider), nil
}

// EmbedOne embeds a single text and returns its normalized vector.
func (s *Service) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	p, err := s.Initialize(ctx)
	if err != nil {
		return nil, err
	}
	vecs, err := p.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailure, err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: provider returned %d vectors for one input", ErrEmbeddingFailure, len(vecs))
	}
	vec := vecs[0]
	if err := checkVector(vec); err != nil {
		return nil, err
	}
	l2Normalize(vec)
	return vec, nil
}

// EmbedMany embeds texts one at a time, keeping input order. Sequential on
// purpose: peak memory stays bounded by a single inference call.
func (s *Service) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.EmbedOne(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

func checkVector(vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: empty vector", ErrEmbeddingFailure)
	}
	for _, x := range vec {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return fmt.Errorf("%w: non-finite component", ErrEmbeddingFailure)
		}
	}
	return nil
}

// l2Normalize scales vec to unit length in place. Zero vectors are left
// untouched so cosine similarity treats them as "no signal".
func l2Normalize(vec []float32) {
	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
}
