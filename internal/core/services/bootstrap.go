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

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService makes sure the index is built before it is searched.
type IndexService struct {
	index  driven.VectorIndex
	ingest driving.IngestService
}

// NewIndexService creates a new index service.
// ingest runs against the same index instance.
func NewIndexService(index driven.VectorIndex, ingest driving.IngestService) *IndexService {
	return &IndexService{
		index:  index,
		ingest: ingest,
	}
}

// EnsureIndex loads the persisted index. If nothing has been persisted yet
// and autoIngest is set, the corpus is ingested instead.
// An index that is already populated in memory is left as is.
func (s *IndexService) EnsureIndex(ctx context.Context, autoIngest bool) (bool, error) {
	if s.index.Len() > 0 {
		return false, nil
	}

	err := s.index.Load(ctx)
	if err == nil {
		logger.Info("loaded index with %d records", s.index.Len())
		return false, nil
	}

	if !errors.Is(err, domain.ErrNotFound) || !autoIngest {
		return false, fmt.Errorf("load index: %w", err)
	}

	logger.Warn("index not found, running ingestion")
	if _, err := s.ingest.Run(ctx); err != nil {
		return false, fmt.Errorf("auto-ingest: %w", err)
	}
	return true, nil
}
