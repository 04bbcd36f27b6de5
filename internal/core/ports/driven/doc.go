// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Connector: Lists and reads corpus files for a document type
//   - Normaliser: Extracts paragraph text from one file format
//   - NormaliserRegistry: Selects a normaliser by file extension
//   - PostProcessor: Segments a document into chunks
//   - PostProcessorPipeline: Chains post processors for one document type
//   - EmbeddingService: Maps text to unit-norm vectors
//   - VectorIndex: Stores vector records and answers top-k queries
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - CorpusWatcher: Reports corpus file changes for automatic rebuilds
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
