// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants retrieve legal passages from the local index.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
