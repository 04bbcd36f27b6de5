package driven

import (
	"context"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// Normaliser extracts text from one family of file formats.
// Output is paragraph text: one trimmed, non-empty paragraph per line.
type Normaliser interface {
	// SupportedExtensions returns the lower-case file extensions handled, with dot.
	SupportedExtensions() []string

	// Normalise returns the paragraph text of a raw document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (string, error)
}
