// Package tui provides an interactive terminal user interface for synqanun.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/synqanun/synqanun-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search answers queries over the index.
	Search driving.SearchService

	// Index prepares the index before the first query. Optional.
	Index driving.IndexService

	// AutoIngest builds the index on start when none has been persisted.
	AutoIngest bool
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(search driving.SearchService, index driving.IndexService) *Ports {
	return &Ports{
		Search: search,
		Index:  index,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
