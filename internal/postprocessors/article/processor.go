// Package article provides the structural chunking processor used for laws.
// Each article, from its marker to the next marker, becomes one chunk.
package article

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/logger"
)

// Name is the registry name of the processor.
const Name = "article"

// DefaultMinLength is the length at or below which an article is discarded as noise.
const DefaultMinLength = domain.DefaultMinArticleLength

var defaultMarker = regexp.MustCompile(domain.DefaultArticleMarker)

// Processor cuts law text at article markers.
// It implements the PostProcessor interface.
type Processor struct {
	marker    *regexp.Regexp
	minLength int
}

// Option configures the article processor.
type Option func(*Processor)

// WithMarker sets the pattern that locates article headings.
func WithMarker(marker *regexp.Regexp) Option {
	return func(p *Processor) {
		if marker != nil {
			p.marker = marker
		}
	}
}

// WithMinLength sets the discard threshold in characters.
func WithMinLength(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.minLength = n
		}
	}
}

// New creates a new article processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		marker:    defaultMarker,
		minLength: DefaultMinLength,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process emits one structural_article chunk per marker, running to the next
// marker or the end of text. Text before the first marker is not indexed.
// A document with no marker becomes a single fallback chunk.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	text := doc.Content
	if strings.TrimSpace(text) == "" {
		logger.Warn("no text in %s", doc.Source)
		return nil, nil
	}

	locs := p.marker.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		logger.Debug("no article markers in %s, indexing whole document", doc.Source)
		return []domain.Chunk{domain.NewChunk(doc, text, domain.StrategyFallback)}, nil
	}

	chunks := make([]domain.Chunk, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}

		content := strings.TrimSpace(text[loc[0]:end])
		if utf8.RuneCountInString(content) <= p.minLength {
			continue
		}
		chunks = append(chunks, domain.NewChunk(doc, content, domain.StrategyStructuralArticle))
	}

	if dropped := len(locs) - len(chunks); dropped > 0 {
		logger.Debug("dropped %d short articles in %s", dropped, doc.Source)
	}

	return chunks, nil
}
