package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driving"
	"github.com/synqanun/synqanun-cli/internal/logger"
)

// Ensure ChunkerService implements the interface.
var _ driving.ChunkService = (*ChunkerService)(nil)

// ChunkerService reads every corpus collection and segments its files.
// Laws and general documents are segmented by the pipeline registered
// for their document type.
type ChunkerService struct {
	connector  driven.Connector
	normaliser driven.NormaliserRegistry
	pipelines  map[domain.DocType]driven.PostProcessorPipeline
}

// NewChunkerService creates a new chunker service.
// pipelines must hold an entry for every domain.DocTypes value.
func NewChunkerService(
	connector driven.Connector,
	normaliser driven.NormaliserRegistry,
	pipelines map[domain.DocType]driven.PostProcessorPipeline,
) *ChunkerService {
	return &ChunkerService{
		connector:  connector,
		normaliser: normaliser,
		pipelines:  pipelines,
	}
}

// ChunkFiles chunks every corpus file. A file that cannot be read or
// segmented is reported in its FileResult and does not stop the run.
// A missing data root or segmentation pipeline fails the whole run.
func (s *ChunkerService) ChunkFiles(ctx context.Context) ([]domain.FileResult, error) {
	logger.Section("Load and Chunk")

	if err := s.connector.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate corpus: %w", err)
	}

	var results []domain.FileResult
	for _, docType := range domain.DocTypes() {
		pipeline, ok := s.pipelines[docType]
		if !ok || pipeline == nil {
			return nil, fmt.Errorf("%w: no chunking pipeline for %s", domain.ErrConfiguration, docType)
		}

		paths, err := s.connector.List(ctx, docType)
		if err != nil {
			return nil, fmt.Errorf("list %s files: %w", docType, err)
		}

		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			result := s.chunkFile(ctx, path, docType, pipeline)
			if result.OK() {
				logger.Debug("%s: %d chunks", path, len(result.Chunks))
			} else {
				logger.Warn("skipping %s: %v", path, result.Err)
			}
			results = append(results, result)
		}
	}

	return results, nil
}

// LoadAndChunk returns the chunks of every readable corpus file, in
// collection order then file order.
func (s *ChunkerService) LoadAndChunk(ctx context.Context) ([]domain.Chunk, error) {
	results, err := s.ChunkFiles(ctx)
	if err != nil {
		return nil, err
	}

	chunks := domain.CollectChunks(results)
	logger.Info("chunked %d files into %d chunks", len(results), len(chunks))
	return chunks, nil
}

func (s *ChunkerService) chunkFile(
	ctx context.Context, path string, docType domain.DocType, pipeline driven.PostProcessorPipeline,
) domain.FileResult {
	result := domain.FileResult{Path: path, Type: docType}

	fail := func(err error) domain.FileResult {
		if !errors.Is(err, domain.ErrFileRead) {
			err = fmt.Errorf("%w: %w", domain.ErrFileRead, err)
		}
		result.Err = err
		return result
	}

	raw, err := s.connector.Fetch(ctx, path, docType)
	if err != nil {
		return fail(err)
	}

	text, err := s.normaliser.Normalise(ctx, raw)
	if err != nil {
		return fail(err)
	}

	doc := domain.NewDocument(path, docType, text)
	chunks, err := pipeline.Process(ctx, &doc)
	if err != nil {
		return fail(err)
	}

	result.Chunks = chunks
	return result
}
