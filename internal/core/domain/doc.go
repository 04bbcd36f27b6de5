// Package domain defines the core business entities for synqanun.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A legal document's paragraph text and provenance
//   - Chunk: A retrievable unit of document text with metadata
//   - VectorRecord: A chunk paired with its embedding
//   - Hit: A ranked chunk returned by a vector index
//   - AggregatedResult: Chunk hits merged into one ranked document entry
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
