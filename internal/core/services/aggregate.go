package services

import (
	"sort"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// Aggregate groups ranked chunk hits by source document.
//
// Groups appear in the order their source is first seen. Each group keeps its
// hits in retrieval order and carries the maximum score over all of them.
// The groups are then sorted by that maximum, highest first; equal maxima keep
// first-seen order.
func Aggregate(hits []domain.Hit) []domain.AggregatedResult {
	results := make([]domain.AggregatedResult, 0)
	bySource := make(map[string]int)

	for _, hit := range hits {
		meta := hit.Chunk.Metadata

		idx, ok := bySource[meta.Source]
		if !ok {
			idx = len(results)
			bySource[meta.Source] = idx
			results = append(results, domain.AggregatedResult{
				Source:   meta.Source,
				DocType:  meta.Type,
				MaxScore: hit.Score,
			})
		}

		group := &results[idx]
		if hit.Score > group.MaxScore {
			group.MaxScore = hit.Score
		}
		group.Chunks = append(group.Chunks, domain.AggregatedChunk{
			Content:  hit.Chunk.Content,
			Score:    hit.Score,
			Metadata: meta,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MaxScore > results[j].MaxScore
	})

	return results
}
