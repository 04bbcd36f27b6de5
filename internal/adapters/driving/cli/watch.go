package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the index whenever the corpus changes",
	Long: `Watches the law, judgment and fatwa directories and rebuilds the whole
index shortly after files are added, changed or removed. Runs until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	svc, err := ensureServices()
	if err != nil {
		return err
	}
	if svc.Watch == nil {
		return errors.New("watch service not configured")
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := prepareIndex(ctx, cmd, svc, svc.Settings.Search.AutoIngest); err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", svc.Settings.Corpus.DataDir)
	err = svc.Watch.Run(ctx, func(changes []domain.CorpusChange, report *domain.IngestReport, err error) {
		if err != nil {
			cmd.PrintErrf("rebuild after %d changes failed: %v\n", len(changes), err)
			return
		}
		if report == nil {
			return
		}
		cmd.Printf("Rebuilt index after %d changes: %d records from %d files\n",
			len(changes), report.Records, report.Files)
		printFailures(cmd, report.Failures)
	})
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
