package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

var chunkJSON bool

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Preview how the corpus is chunked",
	Long: `Reads and chunks the corpus without embedding or indexing anything.
Prints chunk counts per file and per strategy, or every chunk with --json.`,
	Args: cobra.NoArgs,
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().BoolVar(&chunkJSON, "json", false, "output every chunk as JSON")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, _ []string) error {
	svc, err := ensureServices()
	if err != nil {
		return err
	}
	if svc.Chunker == nil {
		return errors.New("chunk service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	results, err := svc.Chunker.ChunkFiles(ctx)
	if err != nil {
		return fmt.Errorf("chunking failed: %w", err)
	}

	if chunkJSON {
		chunks := domain.CollectChunks(results)
		if chunks == nil {
			chunks = []domain.Chunk{}
		}
		data, err := json.MarshalIndent(chunks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal chunks: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	st := stylesFor(isTerminal(cmd))
	var chunks []domain.Chunk
	for i := range results {
		r := &results[i]
		if !r.OK() {
			cmd.Printf("  %s %s %s\n", st.badge(r.Type), r.Path, st.render(st.fail, "skipped: "+r.Err.Error()))
			continue
		}
		cmd.Printf("  %s %s %s\n", st.badge(r.Type), r.Path, st.render(st.muted, fmt.Sprintf("%d chunks", len(r.Chunks))))
		chunks = append(chunks, r.Chunks...)
	}

	cmd.Println()
	cmd.Println(st.render(st.title, fmt.Sprintf("%d chunks from %d files", len(chunks), len(results))))
	counts := domain.CountStrategies(chunks)
	for _, s := range domain.SortedStrategies(counts) {
		cmd.Printf("  %-20s %d\n", s, counts[s])
	}
	return nil
}
