package driven

import (
	"context"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// Connector reads corpus files grouped by document type.
type Connector interface {
	// Validate checks the corpus root exists and is readable.
	// Returns an error wrapping domain.ErrConfiguration otherwise.
	Validate(ctx context.Context) error

	// List returns the files of one document type in a stable order.
	// A missing collection directory yields no files, not an error.
	List(ctx context.Context, docType domain.DocType) ([]string, error)

	// Fetch reads a listed file.
	Fetch(ctx context.Context, path string, docType domain.DocType) (*domain.RawDocument, error)
}

// CorpusWatcher reports changes to corpus files.
type CorpusWatcher interface {
	// Watch emits one change per created, modified or removed corpus file
	// until ctx is done, then closes the channel.
	Watch(ctx context.Context) (<-chan domain.CorpusChange, error)
}
