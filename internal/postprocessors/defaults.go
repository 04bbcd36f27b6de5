package postprocessors

import (
	"fmt"
	"regexp"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
	"github.com/synqanun/synqanun-cli/internal/postprocessors/article"
	"github.com/synqanun/synqanun-cli/internal/postprocessors/paragraph"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register(article.Name, buildArticle)
	r.Register(paragraph.Name, buildParagraph)
}

// ProcessorFor returns the name of the segmentation processor for a document type.
func ProcessorFor(docType domain.DocType) string {
	if docType.IsStructured() {
		return article.Name
	}
	return paragraph.Name
}

// ConfigFromSettings converts chunking settings into the generic config map
// understood by the built-in builders.
func ConfigFromSettings(s domain.ChunkingSettings) map[string]any {
	return map[string]any{
		"chunk_size": s.ChunkSize,
		"overlap":    s.Overlap,
		"min_length": s.MinArticleLength,
		"marker":     s.ArticleMarker,
	}
}

// buildArticle creates an article processor from generic config.
// Supported config keys:
//   - marker (string): Regular expression locating article headings
//   - min_length (int): Articles at or below this length are dropped (default: 20)
func buildArticle(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []article.Option

	if marker, ok := cfg["marker"].(string); ok && marker != "" {
		re, err := regexp.Compile(marker)
		if err != nil {
			return nil, fmt.Errorf("%w: article marker: %w", domain.ErrConfiguration, err)
		}
		opts = append(opts, article.WithMarker(re))
	}
	if n, ok := getIntFromConfig(cfg, "min_length"); ok {
		opts = append(opts, article.WithMinLength(n))
	}

	return article.New(opts...), nil
}

// buildParagraph creates a paragraph processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 2000)
//   - overlap (int): Characters of trailing paragraphs repeated (default: 0)
func buildParagraph(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []paragraph.Option

	if size, ok := getIntFromConfig(cfg, "chunk_size"); ok {
		opts = append(opts, paragraph.WithChunkSize(size))
	}
	if overlap, ok := getIntFromConfig(cfg, "overlap"); ok {
		opts = append(opts, paragraph.WithOverlap(overlap))
	}

	return paragraph.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
