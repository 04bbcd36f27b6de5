package file

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// fileConfig mirrors the TOML layout. Environment variables override file
// values; each is prefixed with SYNQANUN_.
type fileConfig struct {
	Corpus    corpusConfig    `toml:"corpus"`
	Chunking  chunkingConfig  `toml:"chunking"`
	Embedding embeddingConfig `toml:"embedding"`
	Index     indexConfig     `toml:"index"`
	Search    searchConfig    `toml:"search"`
}

type corpusConfig struct {
	DataDir      string `toml:"data_dir" env:"DATA_DIR"`
	LawsDir      string `toml:"laws_dir" env:"LAWS_DIR"`
	JudgmentsDir string `toml:"judgments_dir" env:"JUDGMENTS_DIR"`
	FatwasDir    string `toml:"fatwas_dir" env:"FATWAS_DIR"`
}

type chunkingConfig struct {
	ChunkSize        int    `toml:"chunk_size" env:"CHUNK_SIZE"`
	Overlap          int    `toml:"overlap" env:"CHUNK_OVERLAP"`
	MinArticleLength int    `toml:"min_article_length" env:"MIN_ARTICLE_LENGTH"`
	ArticleMarker    string `toml:"article_marker" env:"ARTICLE_MARKER"`
}

type embeddingConfig struct {
	Provider          string  `toml:"provider" env:"EMBEDDING_PROVIDER"`
	Model             string  `toml:"model" env:"EMBEDDING_MODEL"`
	BaseURL           string  `toml:"base_url" env:"EMBEDDING_URL"`
	APIKey            string  `toml:"api_key" env:"EMBEDDING_API_KEY"`
	DocumentPrefix    string  `toml:"document_prefix" env:"DOCUMENT_PREFIX"`
	QueryPrefix       string  `toml:"query_prefix" env:"QUERY_PREFIX"`
	BatchSize         int     `toml:"batch_size" env:"EMBEDDING_BATCH_SIZE"`
	RequestsPerSecond float64 `toml:"requests_per_second" env:"EMBEDDING_RPS"`
}

type indexConfig struct {
	Backend    string `toml:"backend" env:"INDEX_BACKEND"`
	Dir        string `toml:"dir" env:"INDEX_DIR"`
	Collection string `toml:"collection" env:"COLLECTION"`
}

type searchConfig struct {
	TopK       int  `toml:"top_k" env:"TOP_K"`
	AutoIngest bool `toml:"auto_ingest" env:"AUTO_INGEST"`
}

func defaultFileConfig() fileConfig {
	d := domain.DefaultSettings()
	return fileConfig{
		Corpus: corpusConfig{
			DataDir:      d.Corpus.DataDir,
			LawsDir:      d.Corpus.LawsDir,
			JudgmentsDir: d.Corpus.JudgmentsDir,
			FatwasDir:    d.Corpus.FatwasDir,
		},
		Chunking: chunkingConfig{
			ChunkSize:        d.Chunking.ChunkSize,
			Overlap:          d.Chunking.Overlap,
			MinArticleLength: d.Chunking.MinArticleLength,
			ArticleMarker:    d.Chunking.ArticleMarker,
		},
		Embedding: embeddingConfig{
			Provider:          d.Embedding.Provider.String(),
			Model:             d.Embedding.Model,
			BaseURL:           d.Embedding.BaseURL,
			APIKey:            d.Embedding.APIKey,
			DocumentPrefix:    d.Embedding.DocumentPrefix,
			QueryPrefix:       d.Embedding.QueryPrefix,
			BatchSize:         d.Embedding.BatchSize,
			RequestsPerSecond: d.Embedding.RequestsPerSecond,
		},
		Index: indexConfig{
			Backend:    d.Index.Backend.String(),
			Dir:        d.Index.Dir,
			Collection: d.Index.Collection,
		},
		Search: searchConfig{
			TopK:       d.Search.TopK,
			AutoIngest: d.Search.AutoIngest,
		},
	}
}

func (c fileConfig) settings() domain.Settings {
	return domain.Settings{
		Corpus: domain.CorpusSettings{
			DataDir:      c.Corpus.DataDir,
			LawsDir:      c.Corpus.LawsDir,
			JudgmentsDir: c.Corpus.JudgmentsDir,
			FatwasDir:    c.Corpus.FatwasDir,
		},
		Chunking: domain.ChunkingSettings{
			ChunkSize:        c.Chunking.ChunkSize,
			Overlap:          c.Chunking.Overlap,
			MinArticleLength: c.Chunking.MinArticleLength,
			ArticleMarker:    c.Chunking.ArticleMarker,
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          domain.AIProvider(c.Embedding.Provider),
			Model:             c.Embedding.Model,
			BaseURL:           c.Embedding.BaseURL,
			APIKey:            c.Embedding.APIKey,
			DocumentPrefix:    c.Embedding.DocumentPrefix,
			QueryPrefix:       c.Embedding.QueryPrefix,
			BatchSize:         c.Embedding.BatchSize,
			RequestsPerSecond: c.Embedding.RequestsPerSecond,
		},
		Index: domain.IndexSettings{
			Backend:    domain.IndexBackend(c.Index.Backend),
			Dir:        c.Index.Dir,
			Collection: c.Index.Collection,
		},
		Search: domain.SearchSettings{
			TopK:       c.Search.TopK,
			AutoIngest: c.Search.AutoIngest,
		},
	}
}

// keyKind is the value type stored under a configuration key.
type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
)

// knownKeys lists every settable dot-notation key.
var knownKeys = map[string]keyKind{
	"corpus.data_dir":               kindString,
	"corpus.laws_dir":               kindString,
	"corpus.judgments_dir":          kindString,
	"corpus.fatwas_dir":             kindString,
	"chunking.chunk_size":           kindInt,
	"chunking.overlap":              kindInt,
	"chunking.min_article_length":   kindInt,
	"chunking.article_marker":       kindString,
	"embedding.provider":            kindString,
	"embedding.model":               kindString,
	"embedding.base_url":            kindString,
	"embedding.api_key":             kindString,
	"embedding.document_prefix":     kindString,
	"embedding.query_prefix":        kindString,
	"embedding.batch_size":          kindInt,
	"embedding.requests_per_second": kindFloat,
	"index.backend":                 kindString,
	"index.dir":                     kindString,
	"index.collection":              kindString,
	"search.top_k":                  kindInt,
	"search.auto_ingest":            kindBool,
}

// KnownKeys returns every settable key, sorted.
func KnownKeys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// coerce converts value to the type stored under key.
// Strings are parsed so values can come straight from the command line.
func coerce(key string, value any) (any, error) {
	kind, ok := knownKeys[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown configuration key %q", domain.ErrConfiguration, key)
	}

	bad := func() (any, error) {
		return nil, fmt.Errorf("%w: invalid value %v for %s", domain.ErrConfiguration, value, key)
	}

	switch kind {
	case kindString:
		if s, ok := value.(string); ok {
			return s, nil
		}
		return bad()

	case kindInt:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return bad()
			}
			return n, nil
		}
		return bad()

	case kindFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return bad()
			}
			return f, nil
		}
		return bad()

	case kindBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return bad()
			}
			return b, nil
		}
		return bad()
	}
	return bad()
}
