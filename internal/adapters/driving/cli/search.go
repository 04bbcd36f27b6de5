package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

var (
	searchTopK     int
	searchJSON     bool
	searchNoIngest bool
	searchFull     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the legal corpus",
	Long: `Embeds the query, retrieves the closest chunks from the vector index
and groups them by source document, best document first.

Multiple arguments are joined into one query. When no index has been
built yet it is built first, unless --no-ingest is given or auto_ingest
is disabled in the configuration.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "n", 0, "number of chunks to retrieve (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output the response as JSON")
	searchCmd.Flags().BoolVar(&searchNoIngest, "no-ingest", false, "fail instead of building a missing index")
	searchCmd.Flags().BoolVar(&searchFull, "full", false, "print whole passages instead of the first line")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	svc, err := ensureServices()
	if err != nil {
		return err
	}
	if svc.Search == nil {
		return errors.New("search service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := prepareIndex(ctx, cmd, svc, svc.Settings.Search.AutoIngest && !searchNoIngest); err != nil {
		return err
	}

	resp, err := svc.Search.Search(ctx, query, searchTopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}
	outputSearchText(cmd, resp, stylesFor(isTerminal(cmd)))
	return nil
}

// prepareIndex loads the persisted index, building it when allowed.
func prepareIndex(ctx context.Context, cmd *cobra.Command, svc *Services, autoIngest bool) error {
	if svc.Index == nil {
		return nil
	}
	ingested, err := svc.Index.EnsureIndex(ctx, autoIngest)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no index found: run 'synqanun ingest' first: %w", err)
	}
	if err != nil {
		return fmt.Errorf("prepare index: %w", err)
	}
	if ingested {
		cmd.PrintErrln("Index built from corpus.")
	}
	return nil
}

func outputSearchJSON(cmd *cobra.Command, resp *domain.SearchResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, resp *domain.SearchResponse, st outputStyles) {
	if resp.Count == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println(st.render(st.title, fmt.Sprintf("%d documents for %q", resp.Count, resp.Query)))
	cmd.Println()
	for i := range resp.Results {
		r := &resp.Results[i]
		cmd.Printf("  [%d] %s %s %s\n", i+1,
			st.render(st.source, r.Source),
			st.badge(r.DocType),
			st.render(st.score, fmt.Sprintf("%.3f", r.MaxScore)))

		for j := range r.Chunks {
			c := &r.Chunks[j]
			text := c.Content
			if !searchFull {
				text = firstLine(text)
			}
			cmd.Printf("      %s %s\n",
				st.render(st.muted, fmt.Sprintf("%.3f", c.Score)),
				indent(text, "            "))
		}
		cmd.Println()
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

// indent prefixes every line after the first.
func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
