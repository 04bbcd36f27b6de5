package main

import (
	"context"
	"fmt"

	"github.com/synqanun/synqanun-cli/internal/adapters/driven/ai"
	"github.com/synqanun/synqanun-cli/internal/adapters/driven/vector"
	"github.com/synqanun/synqanun-cli/internal/adapters/driving/cli"
	"github.com/synqanun/synqanun-cli/internal/connectors/filesystem"
	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
	"github.com/synqanun/synqanun-cli/internal/core/services"
	"github.com/synqanun/synqanun-cli/internal/logger"
	"github.com/synqanun/synqanun-cli/internal/normalisers"
	"github.com/synqanun/synqanun-cli/internal/postprocessors"
)

// buildServices wires adapters into core services for the given settings.
func buildServices(settings domain.Settings) (*cli.Services, error) {
	adapters, err := ai.Init(settings)
	if err != nil {
		return nil, err
	}

	pipelines, err := buildPipelines(settings.Chunking)
	if err != nil {
		adapters.Close()
		return nil, err
	}

	registry := normalisers.NewDefaultRegistry()
	connector := filesystem.New(settings.Corpus, registry.Extensions())

	chunker := services.NewChunkerService(connector, registry, pipelines)
	ingest := services.NewIngestService(chunker, adapters.EmbeddingService, adapters.VectorIndex, settings.Embedding.BatchSize)
	index := services.NewIndexService(adapters.VectorIndex, ingest)
	search := services.NewSearchService(adapters.EmbeddingService, adapters.VectorIndex, settings.Search.TopK)

	// A rebuild ingests into a fresh index, persists it, then reloads the
	// serving index from the new artifacts.
	rebuild := func(ctx context.Context) (*domain.IngestReport, error) {
		fresh, err := vector.New(settings.Index)
		if err != nil {
			return nil, err
		}
		defer fresh.Close()

		report, err := services.NewIngestService(chunker, adapters.EmbeddingService, fresh, settings.Embedding.BatchSize).Run(ctx)
		if err != nil {
			return report, err
		}
		if err := adapters.VectorIndex.Load(ctx); err != nil {
			return report, fmt.Errorf("reload index: %w", err)
		}
		return report, nil
	}

	embedding := settings.Embedding
	return &cli.Services{
		Settings: settings,
		Chunker:  chunker,
		Ingest:   ingest,
		Index:    index,
		Search:   search,
		Watch:    services.NewWatchService(connector, rebuild, 0),
		CheckEmbedding: func(ctx context.Context) error {
			return ai.ValidateEmbeddingConfig(ctx, &embedding)
		},
		Close: func() {
			adapters.Close()
			if err := connector.Close(); err != nil {
				logger.Debug("close connector: %v", err)
			}
		},
	}, nil
}

// buildPipelines builds the segmentation pipeline for every document type.
func buildPipelines(chunking domain.ChunkingSettings) (map[domain.DocType]driven.PostProcessorPipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	cfg := postprocessors.ConfigFromSettings(chunking)

	pipelines := make(map[domain.DocType]driven.PostProcessorPipeline, len(domain.DocTypes()))
	for _, t := range domain.DocTypes() {
		p, err := registry.BuildPipeline(cfg, postprocessors.ProcessorFor(t))
		if err != nil {
			return nil, fmt.Errorf("build %s pipeline: %w", t, err)
		}
		pipelines[t] = p
	}
	return pipelines, nil
}
