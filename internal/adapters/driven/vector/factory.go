package vector

import (
	"fmt"

	"github.com/synqanun/synqanun-cli/internal/adapters/driven/vector/chromem"
	"github.com/synqanun/synqanun-cli/internal/adapters/driven/vector/memory"
	"github.com/synqanun/synqanun-cli/internal/adapters/driven/vector/sqlite"
	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
)

// New creates an empty index for the configured backend.
func New(settings domain.IndexSettings) (driven.VectorIndex, error) {
	switch settings.Backend {
	case domain.IndexBackendMemory, "":
		return memory.New(settings.Dir), nil
	case domain.IndexBackendSQLite:
		return sqlite.New(settings.Dir), nil
	case domain.IndexBackendChromem:
		return chromem.New(settings.Dir, settings.Collection)
	default:
		return nil, fmt.Errorf("%w: unknown index backend %q", domain.ErrConfiguration, settings.Backend)
	}
}
