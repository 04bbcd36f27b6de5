// Package paragraph provides the paragraph-aware chunking processor used for
// judgments and fatwas.
package paragraph

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// Name is the registry name of the processor.
const Name = "paragraph"

// DefaultChunkSize is the default character budget per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// Processor packs whole paragraphs into chunks under a character budget.
// A paragraph longer than the budget becomes a chunk of its own.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the paragraph processor.
type Option func(*Processor)

// WithChunkSize sets the chunk budget in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets how many characters of trailing paragraphs are repeated at
// the start of the chunk that follows a budget flush. Paragraphs are never split.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new paragraph processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.chunkSize {
		p.overlap = 0
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// ChunkSize returns the configured budget.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap budget.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document's paragraphs into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	paragraphs := domain.Paragraphs(doc.Content)
	if len(paragraphs) == 0 {
		return nil, nil
	}

	var (
		chunks []domain.Chunk
		buf    []string
		bufLen int // joined length of buf, separators included
	)

	flush := func() {
		if len(buf) > 0 {
			chunks = append(chunks, domain.NewChunk(doc, strings.Join(buf, "\n"), domain.StrategyParagraphAware))
		}
		buf, bufLen = nil, 0
	}

	for _, para := range paragraphs {
		n := utf8.RuneCountInString(para)

		if n > p.chunkSize {
			flush()
			chunks = append(chunks, domain.NewChunk(doc, para, domain.StrategyLargeParagraph))
			continue
		}

		// The separator is not counted here, so a packed chunk may reach chunkSize+1.
		if bufLen+n > p.chunkSize {
			tail := p.overlapTail(buf)
			flush()
			if tailLen := joinedLen(tail); tailLen > 0 && tailLen+1+n <= p.chunkSize {
				buf, bufLen = tail, tailLen
			}
		}

		if len(buf) > 0 {
			bufLen++
		}
		buf = append(buf, para)
		bufLen += n
	}
	flush()

	return chunks, nil
}

// overlapTail returns the longest run of trailing paragraphs of buf, excluding
// its first paragraph, whose joined length fits the overlap budget.
func (p *Processor) overlapTail(buf []string) []string {
	if p.overlap == 0 || len(buf) < 2 {
		return nil
	}

	start := len(buf)
	total := 0
	for i := len(buf) - 1; i >= 1; i-- {
		n := utf8.RuneCountInString(buf[i])
		if start < len(buf) {
			n++
		}
		if total+n > p.overlap {
			break
		}
		total += n
		start = i
	}

	if start == len(buf) {
		return nil
	}
	return append([]string(nil), buf[start:]...)
}

func joinedLen(paragraphs []string) int {
	if len(paragraphs) == 0 {
		return 0
	}
	n := len(paragraphs) - 1
	for _, para := range paragraphs {
		n += utf8.RuneCountInString(para)
	}
	return n
}
