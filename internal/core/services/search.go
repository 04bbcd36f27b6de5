package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driving"
	"github.com/synqanun/synqanun-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers queries with document-level results.
type SearchService struct {
	embedder    driven.EmbeddingService
	index       driven.VectorIndex
	defaultTopK int
}

// NewSearchService creates a new search service.
// defaultTopK is used when a caller passes topK <= 0.
func NewSearchService(embedder driven.EmbeddingService, index driven.VectorIndex, defaultTopK int) *SearchService {
	if defaultTopK <= 0 {
		defaultTopK = domain.DefaultTopK
	}
	return &SearchService{
		embedder:    embedder,
		index:       index,
		defaultTopK: defaultTopK,
	}
}

// Search embeds the query, retrieves the topK nearest chunks and groups them
// by source document.
func (s *SearchService) Search(ctx context.Context, query string, topK int) (*domain.SearchResponse, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", domain.ErrInvalidInput)
	}

	if topK <= 0 {
		topK = s.defaultTopK
	}
	logger.Debug("Top-k: %d", topK)

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.index.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Raw results: %d chunks", len(hits))

	results := Aggregate(hits)
	logger.Info("Final results: %d documents", len(results))

	return &domain.SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	}, nil
}
