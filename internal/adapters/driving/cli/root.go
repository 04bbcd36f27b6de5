// Package cli provides the cobra command tree for synqanun.
// It is a driving adapter: commands call core services through driving ports.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driving"
	"github.com/synqanun/synqanun-cli/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Services holds the core services the commands drive.
type Services struct {
	// Settings are the resolved settings the services were built from.
	Settings domain.Settings

	Chunker driving.ChunkService
	Ingest  driving.IngestService
	Index   driving.IndexService
	Search  driving.SearchService

	// Watch is nil when the corpus cannot be watched.
	Watch driving.WatchService

	// CheckEmbedding verifies the embedding provider is reachable.
	CheckEmbedding func(ctx context.Context) error

	// Close releases adapters. May be nil.
	Close func()
}

// ServiceBuilder constructs services from resolved settings.
type ServiceBuilder func(settings domain.Settings) (*Services, error)

// ConfigOpener opens the config store at path. An empty path uses the default location.
type ConfigOpener func(path string) (driven.ConfigStore, error)

var (
	configPath string
	verbose    bool

	configOpener   ConfigOpener
	serviceBuilder ServiceBuilder

	configStore driven.ConfigStore
	services    *Services
)

var rootCmd = &cobra.Command{
	Use:   "synqanun",
	Short: "Semantic search over legal documents",
	Long: `synqanun indexes a corpus of laws, judgments and fatwas and answers
natural-language questions with the most relevant source documents.

Laws are split on article headings; judgments and fatwas are split into
paragraph-aligned chunks. Every chunk is embedded and stored in a local
vector index. Search results are grouped by source document.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.synqanun/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetConfigOpener sets how the config store is opened.
func SetConfigOpener(opener ConfigOpener) {
	configOpener = opener
}

// SetServiceBuilder sets how services are built once settings are known.
func SetServiceBuilder(builder ServiceBuilder) {
	serviceBuilder = builder
}

// SetConfigStore injects an already opened config store.
func SetConfigStore(store driven.ConfigStore) {
	configStore = store
}

// SetServices injects ready-made services, bypassing the builder.
func SetServices(s *Services) {
	services = s
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// ensureConfig opens the config store on first use.
func ensureConfig() (driven.ConfigStore, error) {
	if configStore != nil {
		return configStore, nil
	}
	if configOpener == nil {
		return nil, errors.New("config store not configured")
	}
	store, err := configOpener(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	configStore = store
	return configStore, nil
}

// ensureServices builds services from the effective settings on first use.
// Commands that only touch configuration never call it, so a broken
// setting can still be repaired with 'synqanun config set'.
func ensureServices() (*Services, error) {
	if services != nil {
		return services, nil
	}
	if serviceBuilder == nil {
		return nil, errors.New("services not configured")
	}

	store, err := ensureConfig()
	if err != nil {
		return nil, err
	}
	settings, err := store.Settings()
	if err != nil {
		return nil, fmt.Errorf("%w\nRun 'synqanun config show' to inspect the configuration", err)
	}

	built, err := serviceBuilder(settings)
	if err != nil {
		return nil, fmt.Errorf("initialise services: %w", err)
	}
	services = built
	return services, nil
}

func closeServices() {
	if services != nil && services.Close != nil {
		services.Close()
	}
}

// isTerminal reports whether the command writes to an interactive terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && isTTY(f)
}
