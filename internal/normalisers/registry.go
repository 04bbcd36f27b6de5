package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
	"github.com/synqanun/synqanun-cli/internal/normalisers/docx"
	"github.com/synqanun/synqanun-cli/internal/normalisers/html"
	"github.com/synqanun/synqanun-cli/internal/normalisers/markdown"
	"github.com/synqanun/synqanun-cli/internal/normalisers/pdf"
	"github.com/synqanun/synqanun-cli/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches documents to normalisers by file extension.
type Registry struct {
	mu          sync.RWMutex
	byExtension map[string]driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{
		byExtension: make(map[string]driven.Normaliser),
	}
}

// NewDefaultRegistry creates a registry with every built-in normaliser.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers the built-in normalisers.
func RegisterDefaults(r *Registry) {
	r.Register(docx.New())
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(pdf.New())
	r.Register(html.New())
}

// Register adds a normaliser for each of its extensions.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range n.SupportedExtensions() {
		r.byExtension[strings.ToLower(ext)] = n
	}
}

// Normalise transforms a raw document using the normaliser for its extension.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	ext := strings.ToLower(filepath.Ext(raw.Path))

	r.mu.RLock()
	n, ok := r.byExtension[ext]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: no normaliser for %q", domain.ErrUnsupportedType, ext)
	}
	return n.Normalise(ctx, raw)
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
