package domain

import (
	"sort"
	"time"
)

// FileResult is the outcome of chunking one corpus file.
// Exactly one of Chunks or Err is meaningful.
type FileResult struct {
	// Path is the file location on disk.
	Path string

	// Type is the legal category of the file.
	Type DocType

	// Chunks are the chunks produced on success. May be empty for a blank file.
	Chunks []Chunk

	// Err is the reason the file was skipped.
	Err error
}

// OK returns true if the file was chunked without error.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// CollectChunks flattens successful results into one ordered chunk sequence.
func CollectChunks(results []FileResult) []Chunk {
	var chunks []Chunk
	for i := range results {
		if results[i].OK() {
			chunks = append(chunks, results[i].Chunks...)
		}
	}
	return chunks
}

// IngestReport summarises an ingestion run.
type IngestReport struct {
	// Files is the number of corpus files considered.
	Files int

	// Failures are the files skipped because they could not be read.
	Failures []FileResult

	// Chunks is the number of chunks produced.
	Chunks int

	// Strategies counts chunks per segmentation strategy.
	Strategies map[Strategy]int

	// Records is the number of vector records added to the index.
	Records int

	// Dimension is the embedding width of the index.
	Dimension int

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// CountStrategies tallies chunks per strategy.
func CountStrategies(chunks []Chunk) map[Strategy]int {
	counts := make(map[Strategy]int)
	for i := range chunks {
		counts[chunks[i].Metadata.Strategy]++
	}
	return counts
}

// SortedStrategies returns the strategies present in counts in a stable order.
func SortedStrategies(counts map[Strategy]int) []Strategy {
	strategies := make([]Strategy, 0, len(counts))
	for s := range counts {
		strategies = append(strategies, s)
	}
	sort.Slice(strategies, func(i, j int) bool { return strategies[i] < strategies[j] })
	return strategies
}
