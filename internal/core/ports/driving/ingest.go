package driving

import (
	"context"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// ChunkService turns the corpus into chunks without touching the index.
type ChunkService interface {
	// ChunkFiles chunks every corpus file and reports each outcome,
	// in collection order then file order.
	ChunkFiles(ctx context.Context) ([]domain.FileResult, error)

	// LoadAndChunk returns the chunks of every readable corpus file.
	LoadAndChunk(ctx context.Context) ([]domain.Chunk, error)
}

// IngestService builds the vector index from the corpus.
type IngestService interface {
	// Run chunks, embeds, indexes and persists the whole corpus.
	// Nothing is added to the index unless every chunk was embedded.
	Run(ctx context.Context) (*domain.IngestReport, error)
}

// IndexService prepares the index for searching.
type IndexService interface {
	// EnsureIndex loads the persisted index. When no index has been persisted
	// and autoIngest is set, it builds one first.
	// Returns true when ingestion ran.
	EnsureIndex(ctx context.Context, autoIngest bool) (bool, error)
}

// RebuildFunc receives the outcome of each rebuild triggered by a watch.
type RebuildFunc func(changes []domain.CorpusChange, report *domain.IngestReport, err error)

// WatchService rebuilds the index whenever the corpus changes.
type WatchService interface {
	// Run blocks until ctx is done. Bursts of changes are coalesced into a
	// single rebuild; each outcome is passed to onRebuild.
	Run(ctx context.Context, onRebuild RebuildFunc) error
}
