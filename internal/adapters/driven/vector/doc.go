// Package vector groups the driven.VectorIndex implementations.
//
//   - memory: exact search, persisted as a binary vector file plus a JSON chunk file
//   - sqlite: exact search, persisted in a single SQLite database
//   - chromem: chromem-go collection, persisted as a gzip gob export
//
// The memory and sqlite backends share the exact search in package flat.
// Use New to select a backend from domain.IndexSettings.
package vector
