package mcp

import (
	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server needs.
type Ports struct {
	// Search answers tool calls.
	Search driving.SearchService

	// Chunker backs the collection chunk resources. Optional.
	Chunker driving.ChunkService

	// Corpus locates the collections listed as resources.
	Corpus domain.CorpusSettings
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
