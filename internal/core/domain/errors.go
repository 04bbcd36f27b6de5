package domain

import "errors"

// Domain errors represent business logic failures.
// Adapters wrap their own failures with these so callers can use errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type no normaliser handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Ingestion Errors.

	// ErrConfiguration indicates a required setting or source directory is missing.
	// It is surfaced immediately and never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrFileRead indicates a single document could not be read.
	// The file is skipped; the rest of the batch continues.
	ErrFileRead = errors.New("file read error")

	// ErrEmptyCorpus indicates ingestion produced zero chunks.
	ErrEmptyCorpus = errors.New("empty corpus")

	// Index Errors.

	// ErrDimensionMismatch indicates a vector width disagrees with the index width.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrIndexNotBuilt indicates a search on an index with no records.
	ErrIndexNotBuilt = errors.New("index not built")

	// ErrPersistence indicates persisted index artifacts are missing or inconsistent.
	// When artifacts are absent the error also matches ErrNotFound.
	ErrPersistence = errors.New("persistence error")
)
