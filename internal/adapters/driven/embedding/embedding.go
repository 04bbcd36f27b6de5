// Package embedding holds helpers shared by the embedding service adapters.
//
// Every adapter returns unit-length float32 vectors, applies the configured
// document and query prefixes, and throttles requests through a rate limiter.
package embedding

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/time/rate"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// KnownDimensions maps common embedding models to their vector width.
// Models not listed report their width after the first request.
var KnownDimensions = map[string]int{
	"bge-m3":                 1024,
	"nomic-embed-text":       768,
	"mxbai-embed-large":      1024,
	"all-minilm":             384,
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// NewLimiter returns a limiter allowing rps requests per second.
// rps <= 0 means unlimited.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(math.Ceil(rps))
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the limiter allows a request or ctx is done.
func Wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// WithPrefix returns texts with prefix prepended to each one.
func WithPrefix(prefix string, texts []string) []string {
	if prefix == "" {
		return texts
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = prefix + t
	}
	return out
}

// Normalize converts v to float32 and scales it to unit length.
// A zero vector is returned unscaled.
func Normalize(v []float64) []float32 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)

	out := make([]float32, len(v))
	for i, x := range v {
		if norm > 0 {
			x /= norm
		}
		out[i] = float32(x)
	}
	return out
}

// CheckBatch verifies that a provider returned want vectors of one width.
// It returns that width.
func CheckBatch(vectors [][]float32, want int) (int, error) {
	if len(vectors) != want {
		return 0, fmt.Errorf("%w: provider returned %d embeddings for %d inputs",
			domain.ErrEmbeddingUnavailable, len(vectors), want)
	}
	dim := 0
	for i, v := range vectors {
		if len(v) == 0 {
			return 0, fmt.Errorf("%w: embedding %d is empty", domain.ErrEmbeddingUnavailable, i)
		}
		if dim == 0 {
			dim = len(v)
		}
		if len(v) != dim {
			return 0, fmt.Errorf("%w: embedding %d has %d dimensions, expected %d",
				domain.ErrDimensionMismatch, i, len(v), dim)
		}
	}
	return dim, nil
}
