package domain

import (
	"fmt"
	"path/filepath"
)

const unknownDescription = "Unknown"

// Default configuration values.
const (
	DefaultDataDir          = "data"
	DefaultIndexDir         = "index"
	DefaultCollection       = "legal_docs"
	DefaultChunkSize        = 2000
	DefaultMinArticleLength = 20
	DefaultTopK             = 5
	DefaultEmbeddingModel   = "bge-m3"
	DefaultBatchSize        = 4
)

// DefaultArticleMarker matches a legal article heading at the start of a line,
// in Arabic ("المادة 12", "المادة ١٢") or English ("Article 12").
// Any decimal digit script counts, and no-break spaces separate like spaces.
const DefaultArticleMarker = `(?m)^[ \t\x{00A0}]*(?:المادة|Article)[\s\x{00A0}]+\p{Nd}+`

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI or a compatible cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// IndexBackend selects the VectorIndex implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendMemory keeps records in memory and persists them as two flat files.
	IndexBackendMemory IndexBackend = "memory"

	// IndexBackendSQLite persists records in a SQLite database.
	IndexBackendSQLite IndexBackend = "sqlite"

	// IndexBackendChromem stores records in a chromem-go collection.
	IndexBackendChromem IndexBackend = "chromem"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendMemory, IndexBackendSQLite, IndexBackendChromem:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b IndexBackend) Description() string {
	switch b {
	case IndexBackendMemory:
		return "Memory (exact search, flat files)"
	case IndexBackendSQLite:
		return "SQLite (exact search, single database file)"
	case IndexBackendChromem:
		return "chromem-go (embedded vector database)"
	default:
		return unknownDescription
	}
}

// CorpusSettings locates the document collections.
type CorpusSettings struct {
	// DataDir is the corpus root. It must exist at ingestion start.
	DataDir string

	// LawsDir, JudgmentsDir and FatwasDir are category directories.
	// Relative paths are resolved against DataDir.
	LawsDir      string
	JudgmentsDir string
	FatwasDir    string
}

// Dir returns the resolved collection directory for a document type.
func (c CorpusSettings) Dir(t DocType) string {
	var dir string
	switch t {
	case DocTypeLaw:
		dir = c.LawsDir
	case DocTypeJudgment:
		dir = c.JudgmentsDir
	case DocTypeFatwa:
		dir = c.FatwasDir
	}
	if dir == "" {
		dir = t.Category()
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.DataDir, dir)
}

// ChunkingSettings holds segmentation parameters.
type ChunkingSettings struct {
	// ChunkSize is the character budget for paragraph-aware chunking.
	ChunkSize int

	// Overlap is the character budget of trailing paragraphs repeated
	// at the start of the next paragraph-aware chunk. Zero disables it.
	Overlap int

	// MinArticleLength discards article chunks at or below this many characters.
	MinArticleLength int

	// ArticleMarker is the regular expression locating article headings.
	ArticleMarker string
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// DocumentPrefix and QueryPrefix are prepended to texts before embedding,
	// for models trained with role prefixes.
	DocumentPrefix string
	QueryPrefix    string

	// BatchSize is the number of texts sent per request.
	BatchSize int

	// RequestsPerSecond limits request rate. Zero means unlimited.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// IndexSettings holds vector index configuration.
type IndexSettings struct {
	// Backend selects the VectorIndex implementation.
	Backend IndexBackend

	// Dir is where index artifacts are persisted.
	Dir string

	// Collection names the chromem collection.
	Collection string
}

// SearchSettings holds query defaults.
type SearchSettings struct {
	// TopK is the default number of chunk hits requested.
	TopK int

	// AutoIngest builds the index on first search when no artifacts exist.
	AutoIngest bool
}

// Settings holds all application settings.
type Settings struct {
	Corpus    CorpusSettings
	Chunking  ChunkingSettings
	Embedding EmbeddingSettings
	Index     IndexSettings
	Search    SearchSettings
}

// DefaultSettings returns settings matching the reference deployment.
func DefaultSettings() Settings {
	return Settings{
		Corpus: CorpusSettings{
			DataDir: DefaultDataDir,
		},
		Chunking: ChunkingSettings{
			ChunkSize:        DefaultChunkSize,
			MinArticleLength: DefaultMinArticleLength,
			ArticleMarker:    DefaultArticleMarker,
		},
		Embedding: EmbeddingSettings{
			Provider:  AIProviderOllama,
			Model:     DefaultEmbeddingModel,
			BatchSize: DefaultBatchSize,
		},
		Index: IndexSettings{
			Backend:    IndexBackendMemory,
			Dir:        DefaultIndexDir,
			Collection: DefaultCollection,
		},
		Search: SearchSettings{
			TopK:       DefaultTopK,
			AutoIngest: true,
		},
	}
}

// Validate reports the first setting that cannot be used.
func (s Settings) Validate() error {
	switch {
	case s.Corpus.DataDir == "":
		return fmt.Errorf("%w: data directory is not set", ErrConfiguration)
	case s.Chunking.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrConfiguration, s.Chunking.ChunkSize)
	case s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.ChunkSize:
		return fmt.Errorf("%w: overlap must be in [0, chunk size), got %d", ErrConfiguration, s.Chunking.Overlap)
	case s.Chunking.MinArticleLength < 0:
		return fmt.Errorf("%w: minimum article length must not be negative", ErrConfiguration)
	case !s.Embedding.Provider.IsValid():
		return fmt.Errorf("%w: unknown embedding provider %q", ErrConfiguration, s.Embedding.Provider)
	case !s.Embedding.IsConfigured():
		return fmt.Errorf("%w: %s requires an API key", ErrConfiguration, s.Embedding.Provider.Description())
	case s.Embedding.BatchSize <= 0:
		return fmt.Errorf("%w: embedding batch size must be positive", ErrConfiguration)
	case !s.Index.Backend.IsValid():
		return fmt.Errorf("%w: unknown index backend %q", ErrConfiguration, s.Index.Backend)
	case s.Index.Dir == "":
		return fmt.Errorf("%w: index directory is not set", ErrConfiguration)
	case s.Search.TopK <= 0:
		return fmt.Errorf("%w: top-k must be positive", ErrConfiguration)
	}
	return nil
}
