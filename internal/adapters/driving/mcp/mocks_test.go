package mcp

import (
	"context"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

type mockSearchService struct {
	response *domain.SearchResponse
	err      error
	gotQuery string
	gotTopK  int
}

func (m *mockSearchService) Search(_ context.Context, query string, topK int) (*domain.SearchResponse, error) {
	m.gotQuery = query
	m.gotTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	if m.response == nil {
		return &domain.SearchResponse{Query: query, Results: []domain.AggregatedResult{}}, nil
	}
	return m.response, nil
}

type mockChunkService struct {
	results []domain.FileResult
	err     error
}

func (m *mockChunkService) ChunkFiles(_ context.Context) ([]domain.FileResult, error) {
	return m.results, m.err
}

func (m *mockChunkService) LoadAndChunk(_ context.Context) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	return domain.CollectChunks(m.results), nil
}
