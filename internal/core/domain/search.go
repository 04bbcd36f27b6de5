package domain

// VectorRecord bundles a chunk with its embedding.
// Keeping both halves in one value keeps persisted vectors and metadata aligned.
type VectorRecord struct {
	// ID is the unique identifier for the record.
	ID string

	// Vector is the unit-norm embedding of the chunk content.
	Vector []float32

	// Chunk is the text and provenance the vector was computed from.
	Chunk Chunk
}

// Dimension returns the width of the record's vector.
func (r VectorRecord) Dimension() int {
	return len(r.Vector)
}

// Hit is a single ranked chunk returned by a vector index.
type Hit struct {
	// ID is the matched record.
	ID string

	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity to the query.
	Score float64
}

// AggregatedChunk is one piece of supporting evidence inside an AggregatedResult.
type AggregatedChunk struct {
	Content  string        `json:"content"`
	Score    float64       `json:"score"`
	Metadata ChunkMetadata `json:"metadata"`
}

// AggregatedResult groups every hit from one source document.
type AggregatedResult struct {
	// Source is the document file name.
	Source string `json:"source"`

	// DocType is the document's legal category.
	DocType DocType `json:"doc_type"`

	// MaxScore is the highest score among Chunks.
	MaxScore float64 `json:"max_score"`

	// Chunks are the document's hits in retrieval order.
	Chunks []AggregatedChunk `json:"chunks"`
}

// SearchResponse is the ranked answer to one query.
type SearchResponse struct {
	Query   string             `json:"query"`
	Count   int                `json:"count"`
	Results []AggregatedResult `json:"results"`
}
