package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/synqanun/synqanun-cli/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for synqanun.

Type a question, press Enter, then browse the matching documents and
their supporting passages.

Controls:
  ↑/k, ↓/j - Navigate results
  Enter    - Search / show passages
  +/-      - More or fewer passages
  n        - New search
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	svc, err := ensureServices()
	if err != nil {
		return err
	}

	ports := tui.NewPorts(svc.Search, svc.Index)
	ports.AutoIngest = svc.Settings.Search.AutoIngest

	app, err := tui.NewApp(ports, svc.Settings.Search.TopK)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.WithContext(ctx).Run()
}
