package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synqanun/synqanun-cli/internal/adapters/driven/config/file"
	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driving"
)

type fakeSearch struct {
	queries []string
	topKs   []int
	resp    *domain.SearchResponse
	err     error
}

func (f *fakeSearch) Search(_ context.Context, query string, topK int) (*domain.SearchResponse, error) {
	f.queries = append(f.queries, query)
	f.topKs = append(f.topKs, topK)
	if f.err != nil {
		return nil, f.err
	}
	resp := *f.resp
	resp.Query = query
	return &resp, nil
}

type fakeIndex struct {
	calls      int
	autoIngest []bool
	ingested   bool
	err        error
}

func (f *fakeIndex) EnsureIndex(_ context.Context, autoIngest bool) (bool, error) {
	f.calls++
	f.autoIngest = append(f.autoIngest, autoIngest)
	return f.ingested, f.err
}

type fakeIngest struct {
	calls  int
	report *domain.IngestReport
	err    error
}

func (f *fakeIngest) Run(_ context.Context) (*domain.IngestReport, error) {
	f.calls++
	return f.report, f.err
}

type fakeChunker struct {
	results []domain.FileResult
	err     error
}

func (f *fakeChunker) ChunkFiles(_ context.Context) ([]domain.FileResult, error) {
	return f.results, f.err
}

func (f *fakeChunker) LoadAndChunk(ctx context.Context) ([]domain.Chunk, error) {
	results, err := f.ChunkFiles(ctx)
	if err != nil {
		return nil, err
	}
	return domain.CollectChunks(results), nil
}

type fakeWatch struct {
	changes []domain.CorpusChange
	report  *domain.IngestReport
	err     error
}

func (f *fakeWatch) Run(_ context.Context, onRebuild driving.RebuildFunc) error {
	if len(f.changes) > 0 {
		onRebuild(f.changes, f.report, nil)
	}
	return f.err
}

// testServices exposes the fakes behind the injected services.
type testServices struct {
	search  *fakeSearch
	index   *fakeIndex
	ingest  *fakeIngest
	chunker *fakeChunker
	watch   *fakeWatch
	store   *file.ConfigStore
	built   *Services
}

func defaultResponse() *domain.SearchResponse {
	return &domain.SearchResponse{
		Count: 2,
		Results: []domain.AggregatedResult{
			{
				Source:   "civil_code.docx",
				DocType:  domain.DocTypeLaw,
				MaxScore: 0.912,
				Chunks: []domain.AggregatedChunk{
					{Content: "المادة 12\nيلتزم المؤجر بتسليم العين", Score: 0.912},
					{Content: "المادة 14", Score: 0.7},
				},
			},
			{
				Source:   "fatwa_3.docx",
				DocType:  domain.DocTypeFatwa,
				MaxScore: 0.5,
				Chunks:   []domain.AggregatedChunk{{Content: "answer", Score: 0.5}},
			},
		},
	}
}

// setupTestServices injects fakes and a temporary config store, and restores
// package state when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	store, err := file.NewConfigStoreAt(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	ts := &testServices{
		search:  &fakeSearch{resp: defaultResponse()},
		index:   &fakeIndex{},
		ingest:  &fakeIngest{},
		chunker: &fakeChunker{},
		watch:   &fakeWatch{},
		store:   store,
	}
	ts.built = &Services{
		Settings: domain.DefaultSettings(),
		Chunker:  ts.chunker,
		Ingest:   ts.ingest,
		Index:    ts.index,
		Search:   ts.search,
		Watch:    ts.watch,
	}

	SetConfigStore(store)
	SetServices(ts.built)

	t.Cleanup(func() {
		configStore = nil
		services = nil
		configOpener = nil
		serviceBuilder = nil
		configPath = ""
		verbose = false
		searchTopK = 0
		searchJSON = false
		searchNoIngest = false
		searchFull = false
		chunkJSON = false
		mcpAddr = ""
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})
	return ts
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
