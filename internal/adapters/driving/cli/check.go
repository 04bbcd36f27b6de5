package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration, corpus, embedding service and index",
	Long: `Runs each prerequisite for searching in turn and reports what is missing:
the settings, the corpus directories, the embedding service and the saved index.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// errCheckFailed is returned when any check fails.
var errCheckFailed = errors.New("one or more checks failed")

func runCheck(cmd *cobra.Command, _ []string) error {
	st := stylesFor(isTerminal(cmd))
	failed := false

	report := func(name string, err error, detail string) {
		if err != nil {
			failed = true
			cmd.Printf("  %s %s: %v\n", st.render(st.fail, "FAIL"), name, err)
			return
		}
		cmd.Printf("  %s %s %s\n", st.render(st.ok, "ok  "), name, st.render(st.muted, detail))
	}

	store, err := ensureConfig()
	if err != nil {
		report("config", err, "")
		return errCheckFailed
	}
	settings, err := store.Settings()
	report("settings", err, store.Path())
	if err != nil {
		return errCheckFailed
	}

	if _, err := os.Stat(settings.Corpus.DataDir); err != nil {
		report("corpus", err, "")
	} else {
		report("corpus", nil, settings.Corpus.DataDir)
		for _, t := range domain.DocTypes() {
			dir := settings.Corpus.Dir(t)
			if _, err := os.Stat(dir); err != nil {
				cmd.Printf("       %s %s\n", st.render(st.muted, "missing"), dir)
			}
		}
	}

	svc, err := ensureServices()
	if err != nil {
		report("services", err, "")
		return errCheckFailed
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if svc.CheckEmbedding != nil {
		report("embedding", svc.CheckEmbedding(ctx), settings.Embedding.Model)
	}

	if svc.Index != nil {
		_, err := svc.Index.EnsureIndex(ctx, false)
		report("index", err, string(settings.Index.Backend)+" "+settings.Index.Dir)
	}

	if failed {
		return errCheckFailed
	}
	return nil
}
