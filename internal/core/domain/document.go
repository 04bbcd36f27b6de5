package domain

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DocType identifies the legal category a document belongs to.
type DocType string

// Available document types.
const (
	// DocTypeLaw is a statute made of numbered articles.
	DocTypeLaw DocType = "law"

	// DocTypeJudgment is a judicial ruling.
	DocTypeJudgment DocType = "judgment"

	// DocTypeFatwa is a religious-legal opinion.
	DocTypeFatwa DocType = "fatwa"
)

// DocTypes returns every document type in ingestion order.
func DocTypes() []DocType {
	return []DocType{DocTypeLaw, DocTypeJudgment, DocTypeFatwa}
}

// IsValid returns true if the document type is recognised.
func (t DocType) IsValid() bool {
	switch t {
	case DocTypeLaw, DocTypeJudgment, DocTypeFatwa:
		return true
	default:
		return false
	}
}

// IsStructured returns true if documents of this type are split on article markers.
func (t DocType) IsStructured() bool {
	return t == DocTypeLaw
}

// Category returns the default collection directory name for this type.
func (t DocType) Category() string {
	switch t {
	case DocTypeLaw:
		return "laws"
	case DocTypeJudgment:
		return "judgments"
	case DocTypeFatwa:
		return "fatwas"
	default:
		return ""
	}
}

// String returns the string representation.
func (t DocType) String() string {
	return string(t)
}

// Strategy records which segmentation rule produced a chunk.
type Strategy string

// Available chunking strategies.
const (
	// StrategyStructuralArticle is one legal article cut at its marker.
	StrategyStructuralArticle Strategy = "structural_article"

	// StrategyParagraphAware is a run of whole paragraphs within the size budget.
	StrategyParagraphAware Strategy = "paragraph_aware"

	// StrategyLargeParagraph is a single paragraph longer than the size budget.
	StrategyLargeParagraph Strategy = "large_paragraph"

	// StrategyFallback is a whole law document with no detectable articles.
	StrategyFallback Strategy = "fallback"
)

// IsValid returns true if the strategy is recognised.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyStructuralArticle, StrategyParagraphAware, StrategyLargeParagraph, StrategyFallback:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Strategy) String() string {
	return string(s)
}

// Document is a single corpus file after its text has been extracted.
type Document struct {
	// Path is the file location on disk.
	Path string

	// Source is the file name, used as provenance in chunk metadata.
	Source string

	// Type is the legal category of the document.
	Type DocType

	// Content is newline-delimited paragraph text.
	Content string
}

// NewDocument builds a Document whose Source is the base name of path.
func NewDocument(path string, docType DocType, content string) Document {
	return Document{
		Path:    path,
		Source:  filepath.Base(path),
		Type:    docType,
		Content: content,
	}
}

// ChunkMetadata records where a chunk came from and how it was cut.
type ChunkMetadata struct {
	// Source is the originating file name.
	Source string `json:"source"`

	// Type is the legal category of the originating document.
	Type DocType `json:"type"`

	// Strategy is the segmentation rule that produced the chunk.
	Strategy Strategy `json:"strategy"`
}

// Chunk represents a retrievable unit of document text.
type Chunk struct {
	// Content is the chunk text. Never empty.
	Content string `json:"content"`

	// Metadata is the chunk's provenance.
	Metadata ChunkMetadata `json:"metadata"`
}

// NewChunk builds a chunk for doc with the given strategy.
func NewChunk(doc *Document, content string, strategy Strategy) Chunk {
	return Chunk{
		Content: content,
		Metadata: ChunkMetadata{
			Source:   doc.Source,
			Type:     doc.Type,
			Strategy: strategy,
		},
	}
}

// Len returns the content length in characters.
func (c Chunk) Len() int {
	return utf8.RuneCountInString(c.Content)
}

// Paragraphs splits newline-delimited text into trimmed, non-empty paragraphs.
func Paragraphs(text string) []string {
	lines := strings.Split(text, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		if p := strings.TrimSpace(line); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// JoinParagraphs normalises paragraphs and joins them with newlines.
// Empty paragraphs are dropped.
func JoinParagraphs(paragraphs []string) string {
	return strings.Join(Paragraphs(strings.Join(paragraphs, "\n")), "\n")
}
