package driving

import (
	"context"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// SearchService answers natural-language queries over the built index.
type SearchService interface {
	// Search embeds the query, retrieves topK chunk hits and groups them by
	// source document. topK <= 0 uses the configured default.
	// An empty query fails with domain.ErrInvalidInput.
	Search(ctx context.Context, query string, topK int) (*domain.SearchResponse, error)
}
