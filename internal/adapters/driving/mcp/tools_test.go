package mcp

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("maps grouped results", func(t *testing.T) {
		search := &mockSearchService{
			response: &domain.SearchResponse{
				Query: "عقوبة السرقة",
				Count: 1,
				Results: []domain.AggregatedResult{{
					Source:   "penal_code.txt",
					DocType:  domain.DocTypeLaw,
					MaxScore: 0.91,
					Chunks: []domain.AggregatedChunk{
						{
							Content:  "المادة 311 ...",
							Score:    0.91,
							Metadata: domain.ChunkMetadata{Source: "penal_code.txt", Type: domain.DocTypeLaw, Strategy: domain.StrategyStructuralArticle},
						},
						{
							Content:  "المادة 312 ...",
							Score:    0.85,
							Metadata: domain.ChunkMetadata{Source: "penal_code.txt", Type: domain.DocTypeLaw, Strategy: domain.StrategyStructuralArticle},
						},
					},
				}},
			},
		}

		server, err := NewServer(&Ports{Search: search})
		require.NoError(t, err)

		_, out, err := server.handleSearch(ctx, nil, SearchInput{Query: "عقوبة السرقة", TopK: 7})
		require.NoError(t, err)

		assert.Equal(t, "عقوبة السرقة", search.gotQuery)
		assert.Equal(t, 7, search.gotTopK)
		assert.Equal(t, "عقوبة السرقة", out.Query)
		assert.Equal(t, 1, out.Count)
		require.Len(t, out.Results, 1)

		r := out.Results[0]
		assert.Equal(t, "penal_code.txt", r.Source)
		assert.Equal(t, "law", r.DocType)
		assert.Equal(t, 0.91, r.Score)
		require.Len(t, r.Passages, 2)
		assert.Equal(t, "المادة 311 ...", r.Passages[0].Content)
		assert.Equal(t, "structural_article", r.Passages[1].Strategy)
		assert.Equal(t, 0.85, r.Passages[1].Score)
	})

	t.Run("zero top_k defers to settings", func(t *testing.T) {
		search := &mockSearchService{}
		server, err := NewServer(&Ports{Search: search})
		require.NoError(t, err)

		_, out, err := server.handleSearch(ctx, nil, SearchInput{Query: "inheritance"})
		require.NoError(t, err)
		assert.Equal(t, 0, search.gotTopK)
		assert.Equal(t, 0, out.Count)
		assert.Empty(t, out.Results)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		search := &mockSearchService{err: fmt.Errorf("%w: empty query", domain.ErrInvalidInput)}
		server, err := NewServer(&Ports{Search: search})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
