package driven

import (
	"context"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// NormaliserRegistry selects the normaliser for a document by its extension.
type NormaliserRegistry interface {
	// Normalise transforms a raw document using the normaliser registered
	// for its extension. Returns domain.ErrUnsupportedType if there is none.
	Normalise(ctx context.Context, raw *domain.RawDocument) (string, error)

	// Register adds a normaliser to the registry.
	// Later registrations win for the same extension.
	Register(normaliser Normaliser)

	// Extensions returns all extensions that can be normalised, sorted.
	Extensions() []string
}
