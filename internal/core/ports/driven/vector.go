package driven

import (
	"context"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// VectorIndex stores vector records and answers exact or approximate
// inner-product queries. Vectors are unit-norm, so the score is cosine similarity.
//
// Lifecycle: an index is empty until the first non-empty Add or a successful Load,
// and only then answers Search.
type VectorIndex interface {
	// Add appends records. The first batch fixes the index dimension; a batch
	// whose widths disagree with it, or with each other, fails with
	// domain.ErrDimensionMismatch and leaves the index unchanged.
	// Records with an empty ID are assigned one. An empty batch is a no-op.
	Add(ctx context.Context, records []domain.VectorRecord) error

	// Search returns at most k hits ordered by score, highest first.
	// Equal scores keep insertion order. k <= 0 returns no hits.
	// Returns domain.ErrIndexNotBuilt on an empty index and
	// domain.ErrDimensionMismatch when the query width differs.
	Search(ctx context.Context, query []float32, k int) ([]domain.Hit, error)

	// Save persists every record so that Load restores an equivalent index.
	Save(ctx context.Context) error

	// Load replaces the in-memory state with the persisted one.
	// Missing or inconsistent artifacts fail with domain.ErrPersistence
	// (and domain.ErrNotFound when absent) and leave the index unchanged.
	Load(ctx context.Context) error

	// Len returns the number of records.
	Len() int

	// Dimension returns the vector width, or 0 before the first record.
	Dimension() int

	// Close releases resources.
	Close() error
}
