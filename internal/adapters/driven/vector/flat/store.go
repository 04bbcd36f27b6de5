// Package flat provides exact inner-product search over an in-memory record set.
package flat

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// Store keeps vector records in insertion order and scores queries against
// every one of them. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []domain.VectorRecord
	dim     int
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Add appends records after checking every width against the store width.
// The whole batch is rejected if any record disagrees.
func (s *Store) Add(records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dim, err := CheckDimensions(records, s.dim)
	if err != nil {
		return err
	}

	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		r.Vector = append([]float32(nil), r.Vector...)
		s.records = append(s.records, r)
	}
	s.dim = dim
	return nil
}

// Search returns at most k hits by descending dot product.
// Equal scores keep insertion order.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]domain.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return nil, domain.ErrIndexNotBuilt
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", domain.ErrDimensionMismatch, len(query), s.dim)
	}
	if k <= 0 {
		return []domain.Hit{}, nil
	}

	scores := make([]float64, len(s.records))
	order := make([]int, len(s.records))
	for i := range s.records {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		scores[i] = Dot(query, s.records[i].Vector)
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	k = min(k, len(order))
	hits := make([]domain.Hit, k)
	for i := 0; i < k; i++ {
		r := s.records[order[i]]
		hits[i] = domain.Hit{ID: r.ID, Chunk: r.Chunk, Score: scores[order[i]]}
	}
	return hits, nil
}

// Records returns a copy of every record in insertion order.
func (s *Store) Records() []domain.VectorRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.VectorRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Replace swaps in a complete record set, typically one read back from disk.
// The set is validated first; on error the store keeps its previous state.
func (s *Store) Replace(records []domain.VectorRecord) error {
	dim, err := CheckDimensions(records, 0)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = records
	s.dim = dim
	return nil
}

// Reset removes every record.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.dim = 0
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Dimension returns the vector width, or 0 when empty.
func (s *Store) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

// CheckDimensions verifies that every record has the same non-zero width,
// equal to want when want is non-zero. It returns the common width.
func CheckDimensions(records []domain.VectorRecord, want int) (int, error) {
	dim := want
	for i, r := range records {
		n := len(r.Vector)
		if n == 0 {
			return 0, fmt.Errorf("%w: record %d has an empty vector", domain.ErrDimensionMismatch, i)
		}
		if dim == 0 {
			dim = n
		}
		if n != dim {
			return 0, fmt.Errorf("%w: record %d has %d dimensions, expected %d", domain.ErrDimensionMismatch, i, n, dim)
		}
	}
	return dim, nil
}

// Dot returns the inner product of two vectors of equal length.
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
