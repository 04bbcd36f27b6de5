package driven

import "github.com/synqanun/synqanun-cli/internal/core/domain"

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by dot-notation key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// Set stores a configuration value and persists it immediately.
	// Unknown keys and values of the wrong type are rejected.
	Set(key string, value any) error

	// Keys returns every key present in the configuration file, sorted.
	Keys() []string

	// Settings resolves the effective settings: defaults, then the file,
	// then environment overrides. The result is validated.
	Settings() (domain.Settings, error)

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
