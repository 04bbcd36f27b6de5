package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change synqanun settings.

Settings are read from the config file, then overridden by SYNQANUN_*
environment variables (a .env file in the working directory is loaded too).`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a value stored in the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value using dot-notation, for example:

  synqanun config set corpus.data_dir /srv/legal
  synqanun config set index.backend sqlite
  synqanun config set search.top_k 8

The change is rejected if it would make the settings invalid.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with every default value",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider interactively",
	Args:  cobra.NoArgs,
	RunE:  runConfigEmbedding,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEmbeddingCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := ensureConfig()
	if err != nil {
		return err
	}

	cmd.Printf("Config file: %s\n\n", store.Path())

	settings, err := store.Settings()
	if err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'synqanun config set <key> <value>' to fix configuration issues.")
		return nil
	}

	printSettings(cmd, &settings)
	cmd.Println("Configuration is valid.")
	return nil
}

func printSettings(cmd *cobra.Command, s *domain.Settings) {
	cmd.Println("[Corpus]")
	cmd.Printf("  Data dir: %s\n", s.Corpus.DataDir)
	for _, t := range domain.DocTypes() {
		cmd.Printf("  %-9s %s\n", t.Category()+":", s.Corpus.Dir(t))
	}
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Chunk size: %d\n", s.Chunking.ChunkSize)
	cmd.Printf("  Overlap: %d\n", s.Chunking.Overlap)
	cmd.Printf("  Min article length: %d\n", s.Chunking.MinArticleLength)
	cmd.Printf("  Article marker: %s\n", s.Chunking.ArticleMarker)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", s.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", s.Embedding.Model)
	if s.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", s.Embedding.BaseURL)
	}
	if s.Embedding.Provider.RequiresAPIKey() {
		if s.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(s.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Printf("  Batch size: %d\n", s.Embedding.BatchSize)
	if s.Embedding.RequestsPerSecond > 0 {
		cmd.Printf("  Requests/s: %g\n", s.Embedding.RequestsPerSecond)
	}
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Backend: %s\n", s.Index.Backend.Description())
	cmd.Printf("  Dir: %s\n", s.Index.Dir)
	if s.Index.Backend == domain.IndexBackendChromem {
		cmd.Printf("  Collection: %s\n", s.Index.Collection)
	}
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Top K: %d\n", s.Search.TopK)
	cmd.Printf("  Auto ingest: %t\n", s.Search.AutoIngest)
	cmd.Println()
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	store, err := ensureConfig()
	if err != nil {
		return err
	}

	val, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("%s is not set in %s", args[0], store.Path())
	}
	if strings.HasSuffix(args[0], "api_key") {
		if s, isStr := val.(string); isStr {
			val = maskAPIKey(s)
		}
	}
	cmd.Println(val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := ensureConfig()
	if err != nil {
		return err
	}

	if err := store.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

// defaultsWriter is implemented by stores that can materialise defaults.
type defaultsWriter interface {
	WriteDefaults() error
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	store, err := ensureConfig()
	if err != nil {
		return err
	}

	w, ok := store.(defaultsWriter)
	if !ok {
		return errors.New("config store cannot write defaults")
	}
	if err := w.WriteDefaults(); err != nil {
		return fmt.Errorf("failed to write defaults: %w", err)
	}
	cmd.Printf("Wrote %s\n", store.Path())
	return nil
}

func runConfigEmbedding(cmd *cobra.Command, _ []string) error {
	store, err := ensureConfig()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	providers := []domain.AIProvider{domain.AIProviderOllama, domain.AIProviderOpenAI}

	cmd.Println("Select Embedding Provider")
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	provider := providers[parseChoice(readLine(reader), len(providers), 1)-1]

	defaultModel := domain.DefaultEmbeddingModel
	if provider == domain.AIProviderOpenAI {
		defaultModel = "text-embedding-3-small"
	}
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd, reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
		if err := store.Set("embedding.api_key", apiKey); err != nil {
			return fmt.Errorf("failed to configure embedding provider: %w", err)
		}
	}
	if err := store.Set("embedding.provider", provider.String()); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}
	if err := store.Set("embedding.model", model); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	svc, err := ensureServices()
	if err != nil {
		return err
	}
	if svc.CheckEmbedding != nil {
		cmd.Print("Validating configuration... ")
		if err := svc.CheckEmbedding(context.Background()); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("embedding configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("Embedding provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when stdin is a terminal.
func readPassword(cmd *cobra.Command, reader *bufio.Reader) string {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
