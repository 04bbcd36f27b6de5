package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the vector index from the corpus",
	Long: `Reads every law, judgment and fatwa under the data directory, splits
them into chunks, embeds each chunk and saves the index.

Files that cannot be read are skipped and listed. Nothing is saved unless
every chunk was embedded. An existing saved index is replaced.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	svc, err := ensureServices()
	if err != nil {
		return err
	}
	if svc.Ingest == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := svc.Ingest.Run(ctx)
	if report != nil {
		printFailures(cmd, report.Failures)
	}
	if errors.Is(err, domain.ErrEmptyCorpus) {
		return fmt.Errorf("ingest failed: no chunks produced from %s: %w", svc.Settings.Corpus.DataDir, err)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	printIngestReport(cmd, report, stylesFor(isTerminal(cmd)))
	return nil
}

func printIngestReport(cmd *cobra.Command, report *domain.IngestReport, st outputStyles) {
	cmd.Println(st.render(st.title, "Ingestion complete"))
	cmd.Printf("  Files:     %d (%d skipped)\n", report.Files, len(report.Failures))
	cmd.Printf("  Chunks:    %d\n", report.Chunks)
	for _, s := range domain.SortedStrategies(report.Strategies) {
		cmd.Printf("    %-20s %d\n", s, report.Strategies[s])
	}
	cmd.Printf("  Records:   %d\n", report.Records)
	cmd.Printf("  Dimension: %d\n", report.Dimension)
	cmd.Printf("  Duration:  %s\n", report.Duration.Round(time.Millisecond))
}

func printFailures(cmd *cobra.Command, failures []domain.FileResult) {
	for i := range failures {
		cmd.PrintErrf("skipped %s: %v\n", failures[i].Path, failures[i].Err)
	}
}
