package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driving"
	"github.com/synqanun/synqanun-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService builds and persists the vector index from the corpus.
type IngestService struct {
	chunker   driving.ChunkService
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	batchSize int
}

// NewIngestService creates a new ingest service.
// batchSize caps how many chunks are sent per embedding request.
func NewIngestService(
	chunker driving.ChunkService,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	batchSize int,
) *IngestService {
	if batchSize <= 0 {
		batchSize = domain.DefaultBatchSize
	}
	return &IngestService{
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		batchSize: batchSize,
	}
}

// Run chunks, embeds, indexes and saves the corpus.
// The index must be empty. Every chunk is embedded before the single Add,
// so a failed embedding request leaves the index untouched.
func (s *IngestService) Run(ctx context.Context) (*domain.IngestReport, error) {
	start := time.Now()

	if n := s.index.Len(); n > 0 {
		return nil, fmt.Errorf("%w: index already holds %d records, rebuild into an empty index", domain.ErrInvalidInput, n)
	}

	results, err := s.chunker.ChunkFiles(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.IngestReport{Files: len(results)}
	for _, r := range results {
		if !r.OK() {
			report.Failures = append(report.Failures, r)
		}
	}

	chunks := domain.CollectChunks(results)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %d files produced no chunks", domain.ErrEmptyCorpus, len(results))
	}
	report.Chunks = len(chunks)
	report.Strategies = domain.CountStrategies(chunks)

	logger.Section("Embed and Index")
	logger.Info("embedding %d chunks with %s", len(chunks), s.embedder.ModelName())

	vectors, err := s.embedAll(ctx, chunks)
	if err != nil {
		return nil, err
	}

	records := make([]domain.VectorRecord, len(chunks))
	for i := range chunks {
		records[i] = domain.VectorRecord{
			ID:     uuid.NewString(),
			Vector: vectors[i],
			Chunk:  chunks[i],
		}
	}

	if err := s.index.Add(ctx, records); err != nil {
		return nil, fmt.Errorf("add records: %w", err)
	}
	if err := s.index.Save(ctx); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}

	report.Records = s.index.Len()
	report.Dimension = s.index.Dimension()
	report.Duration = time.Since(start)

	logger.Info("indexed %d records (d=%d) in %s", report.Records, report.Dimension, report.Duration)
	return report, nil
}

// embedAll embeds chunk contents in batches and returns one vector per chunk.
func (s *IngestService) embedAll(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))

		texts := make([]string, end-start)
		for i := range texts {
			texts[i] = chunks[start+i].Content
		}

		batch, err := s.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("%w: embedded %d of %d chunks in batch %d-%d",
				domain.ErrEmbeddingUnavailable, len(batch), len(texts), start, end-1)
		}

		vectors = append(vectors, batch...)
		logger.Debug("embedded %d/%d chunks", len(vectors), len(chunks))
	}

	return vectors, nil
}
