package chromem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

func testRecords() []domain.VectorRecord {
	return []domain.VectorRecord{
		{
			ID:     "law-1",
			Vector: []float32{1, 0},
			Chunk: domain.Chunk{
				Content:  "المادة 1",
				Metadata: domain.ChunkMetadata{Source: "law.docx", Type: domain.DocTypeLaw, Strategy: domain.StrategyStructuralArticle},
			},
		},
		{
			ID:     "fatwa-1",
			Vector: []float32{0, 1},
			Chunk: domain.Chunk{
				Content:  "فتوى الزكاة",
				Metadata: domain.ChunkMetadata{Source: "zakat.pdf", Type: domain.DocTypeFatwa, Strategy: domain.StrategyParagraphAware},
			},
		},
		{
			ID:     "law-2",
			Vector: []float32{0.6, 0.8},
			Chunk: domain.Chunk{
				Content:  "المادة 2",
				Metadata: domain.ChunkMetadata{Source: "law.docx", Type: domain.DocTypeLaw, Strategy: domain.StrategyStructuralArticle},
			},
		},
	}
}

func newTestIndex(t *testing.T, dir string) *Index {
	t.Helper()
	idx, err := New(dir, "test_docs")
	require.NoError(t, err)
	return idx
}

func TestIndex_Search(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, t.TempDir())
	require.NoError(t, idx.Add(ctx, testRecords()))

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 2, idx.Dimension())

	hits, err := idx.Search(ctx, []float32{0, 1}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "fatwa-1", hits[0].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
	assert.Equal(t, "zakat.pdf", hits[0].Chunk.Metadata.Source)
	assert.Equal(t, domain.DocTypeFatwa, hits[0].Chunk.Metadata.Type)
	assert.Equal(t, "law-2", hits[1].ID)
}

func TestIndex_SearchKLargerThanLen(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, t.TempDir())
	require.NoError(t, idx.Add(ctx, testRecords()))

	hits, err := idx.Search(ctx, []float32{1, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestIndex_SearchTiesUseInsertionOrder(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, t.TempDir())

	records := testRecords()
	for n := range records {
		records[n].Vector = []float32{1, 0}
	}
	require.NoError(t, idx.Add(ctx, records))

	hits, err := idx.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "law-1", hits[0].ID)
	assert.Equal(t, "fatwa-1", hits[1].ID)
	assert.Equal(t, "law-2", hits[2].ID)
}

// Equal scores across the top-k cut keep the earliest records.
func TestIndex_SearchTiesAtCutKeepEarliest(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, t.TempDir())

	records := make([]domain.VectorRecord, 50)
	for n := range records {
		records[n] = domain.VectorRecord{
			ID:     fmt.Sprintf("r%02d", n),
			Vector: []float32{0.6, 0.8},
			Chunk:  domain.Chunk{Content: "تسري أحكام هذا القانون", Metadata: domain.ChunkMetadata{Source: fmt.Sprintf("law%02d.docx", n)}},
		}
	}
	require.NoError(t, idx.Add(ctx, records))

	for trial := 0; trial < 10; trial++ {
		hits, err := idx.Search(ctx, []float32{0.6, 0.8}, 3)
		require.NoError(t, err)
		require.Len(t, hits, 3)
		assert.Equal(t, "r00", hits[0].ID)
		assert.Equal(t, "r01", hits[1].ID)
		assert.Equal(t, "r02", hits[2].ID)
	}
}

func TestIndex_SearchHigherScoreBeatsEarlierTie(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, t.TempDir())

	records := make([]domain.VectorRecord, 20)
	for n := range records {
		records[n] = domain.VectorRecord{ID: fmt.Sprintf("r%02d", n), Vector: []float32{0, 1}}
	}
	records[17].Vector = []float32{1, 0}
	require.NoError(t, idx.Add(ctx, records))

	hits, err := idx.Search(ctx, []float32{0.6, 0.8}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "r00", hits[0].ID)
	assert.Equal(t, "r01", hits[1].ID)

	hits, err = idx.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, "r17", hits[0].ID)
	assert.Equal(t, "r00", hits[1].ID)
}

func TestIndex_SearchInvalidSequence(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, t.TempDir())
	require.NoError(t, idx.Add(ctx, testRecords()))

	require.NoError(t, idx.coll.AddDocument(ctx, chromem.Document{
		ID:        "corrupt",
		Content:   "بلا تسلسل",
		Embedding: []float32{1, 0},
		Metadata:  map[string]string{metaSource: "x.docx"},
	}))

	_, err := idx.Search(ctx, []float32{1, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestIndex_AddCancelledLeavesIndexEmpty(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := idx.Add(ctx, testRecords())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.Dimension())

	// The failed batch fixed no dimension.
	require.NoError(t, idx.Add(context.Background(), []domain.VectorRecord{{ID: "w3", Vector: []float32{1, 0, 0}}}))
	assert.Equal(t, 3, idx.Dimension())
}

func TestIndex_SearchErrors(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, t.TempDir())

	_, err := idx.Search(ctx, []float32{1, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrIndexNotBuilt)

	require.NoError(t, idx.Add(ctx, testRecords()))
	_, err = idx.Search(ctx, []float32{1, 0, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	hits, err := idx.Search(ctx, []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_AddDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, t.TempDir())
	require.NoError(t, idx.Add(ctx, testRecords()[:1]))

	err := idx.Add(ctx, []domain.VectorRecord{{ID: "x", Vector: []float32{1, 0, 0}}})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, 1, idx.Len())
}

func TestIndex_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	idx := newTestIndex(t, dir)
	require.NoError(t, idx.Add(ctx, testRecords()))
	require.NoError(t, idx.Save(ctx))
	assert.FileExists(t, filepath.Join(dir, ExportFile))
	assert.FileExists(t, filepath.Join(dir, ManifestFile))

	loaded := newTestIndex(t, dir)
	require.NoError(t, loaded.Load(ctx))
	assert.Equal(t, 3, loaded.Len())
	assert.Equal(t, 2, loaded.Dimension())

	hits, err := loaded.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "law-1", hits[0].ID)
	assert.Equal(t, "المادة 1", hits[0].Chunk.Content)
	assert.Equal(t, domain.StrategyStructuralArticle, hits[0].Chunk.Metadata.Strategy)

	// Records added after a load continue the insertion sequence.
	require.NoError(t, loaded.Add(ctx, []domain.VectorRecord{{ID: "late", Vector: []float32{1, 0}}}))
	hits, err = loaded.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, "law-1", hits[0].ID)
	assert.Equal(t, "late", hits[1].ID)
}

func TestIndex_LoadMissing(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())

	err := idx.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndex_LoadMissingExport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	idx := newTestIndex(t, dir)
	require.NoError(t, idx.Add(ctx, testRecords()))
	require.NoError(t, idx.Save(ctx))
	require.NoError(t, os.Remove(filepath.Join(dir, ExportFile)))

	loaded := newTestIndex(t, dir)
	err := loaded.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestIndex_LoadCountMismatchKeepsState(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	idx := newTestIndex(t, dir)
	require.NoError(t, idx.Add(ctx, testRecords()))
	require.NoError(t, idx.Save(ctx))

	m := []byte(`{"generation":"x","collection":"test_docs","dimension":2,"count":99}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), m, 0o644))

	loaded := newTestIndex(t, dir)
	require.NoError(t, loaded.Add(ctx, testRecords()[:1]))

	err := loaded.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 1, loaded.Len())
}

func TestIndex_LoadDimensionMismatchKeepsState(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	idx := newTestIndex(t, dir)
	require.NoError(t, idx.Add(ctx, testRecords()))
	require.NoError(t, idx.Save(ctx))

	m := []byte(`{"generation":"x","collection":"test_docs","dimension":4,"count":3}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), m, 0o644))

	loaded := newTestIndex(t, dir)
	err := loaded.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 0, loaded.Len())
	assert.Equal(t, 0, loaded.Dimension())
}

func TestIndex_LoadOtherCollection(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	idx := newTestIndex(t, dir)
	require.NoError(t, idx.Add(ctx, testRecords()))
	require.NoError(t, idx.Save(ctx))

	other, err := New(dir, "other")
	require.NoError(t, err)
	err = other.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestIndex_SaveEmpty(t *testing.T) {
	err := newTestIndex(t, t.TempDir()).Save(context.Background())
	assert.ErrorIs(t, err, domain.ErrIndexNotBuilt)
}

func TestNew_DefaultCollection(t *testing.T) {
	idx, err := New(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCollection, idx.collection)
}
