// Package chromem provides a vector index backed by a chromem-go collection.
//
// Records are stored as chromem documents carrying their chunk metadata and an
// insertion sequence number. Save exports the collection as a compressed gob
// file next to a JSON manifest describing it.
package chromem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"github.com/synqanun/synqanun-cli/internal/adapters/driven/vector/flat"
	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.VectorIndex = (*Index)(nil)

// Artifact file names.
const (
	ExportFile   = "index.gob.gz"
	ManifestFile = "manifest.json"
)

// Metadata keys stored on each chromem document.
const (
	metaSeq      = "seq"
	metaSource   = "source"
	metaType     = "doc_type"
	metaStrategy = "strategy"
)

var errNoEmbedding = errors.New("chromem index only accepts precomputed embeddings")

// noEmbedding rejects text embedding so chromem never calls out to a provider.
func noEmbedding(context.Context, string) ([]float32, error) {
	return nil, errNoEmbedding
}

type manifest struct {
	Generation string `json:"generation"`
	Collection string `json:"collection"`
	Dimension  int    `json:"dimension"`
	Count      int    `json:"count"`
}

// Index is a chromem-go backed vector index.
type Index struct {
	mu         sync.RWMutex
	dir        string
	collection string
	db         *chromem.DB
	coll       *chromem.Collection
	dim        int
}

// New creates an empty index persisted under dir using the named collection.
func New(dir, collection string) (*Index, error) {
	if collection == "" {
		collection = domain.DefaultCollection
	}

	db := chromem.NewDB()
	coll, err := db.CreateCollection(collection, nil, noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", collection, err)
	}

	return &Index{
		dir:        dir,
		collection: collection,
		db:         db,
		coll:       coll,
	}, nil
}

// Add appends records as chromem documents.
func (i *Index) Add(ctx context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	dim, err := flat.CheckDimensions(records, i.dim)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	before := i.coll.Count()
	docs := make([]chromem.Document, len(records))
	ids := make([]string, len(records))
	for n, r := range records {
		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		ids[n] = id
		meta := r.Chunk.Metadata
		docs[n] = chromem.Document{
			ID:        id,
			Content:   r.Chunk.Content,
			Embedding: append([]float32(nil), r.Vector...),
			Metadata: map[string]string{
				metaSeq:      strconv.Itoa(before + n),
				metaSource:   meta.Source,
				metaType:     string(meta.Type),
				metaStrategy: string(meta.Strategy),
			},
		}
	}

	// chromem skips the remaining documents without an error once ctx is done
	err = i.coll.AddDocuments(ctx, docs, runtime.NumCPU())
	if err == nil && i.coll.Count() != before+len(docs) {
		err = ctx.Err()
		if err == nil {
			err = fmt.Errorf("added %d of %d documents", i.coll.Count()-before, len(docs))
		}
	}
	if err != nil {
		if delErr := i.coll.Delete(context.Background(), nil, nil, ids...); delErr != nil {
			return fmt.Errorf("add documents: %w (rollback: %v)", err, delErr)
		}
		return fmt.Errorf("add documents: %w", err)
	}
	i.dim = dim
	return nil
}

// Search returns at most k hits. chromem neither orders equal similarities
// nor picks among them at its result cut, so every record is scored and the
// top k are taken after sorting by score and then insertion sequence.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]domain.Hit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	count := i.coll.Count()
	if count == 0 {
		return nil, domain.ErrIndexNotBuilt
	}
	if len(query) != i.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", domain.ErrDimensionMismatch, len(query), i.dim)
	}
	if k <= 0 {
		return []domain.Hit{}, nil
	}

	results, err := i.coll.QueryEmbedding(ctx, query, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	type ranked struct {
		hit domain.Hit
		seq int
	}
	all := make([]ranked, len(results))
	for n, res := range results {
		seq, err := strconv.Atoi(res.Metadata[metaSeq])
		if err != nil {
			return nil, fmt.Errorf("%w: record %s has invalid sequence %q", domain.ErrPersistence, res.ID, res.Metadata[metaSeq])
		}
		all[n] = ranked{
			seq: seq,
			hit: domain.Hit{
				ID:    res.ID,
				Score: float64(res.Similarity),
				Chunk: domain.Chunk{
					Content: res.Content,
					Metadata: domain.ChunkMetadata{
						Source:   res.Metadata[metaSource],
						Type:     domain.DocType(res.Metadata[metaType]),
						Strategy: domain.Strategy(res.Metadata[metaStrategy]),
					},
				},
			},
		}
	}

	sort.Slice(all, func(a, b int) bool {
		if all[a].hit.Score != all[b].hit.Score {
			return all[a].hit.Score > all[b].hit.Score
		}
		return all[a].seq < all[b].seq
	})

	hits := make([]domain.Hit, min(k, len(all)))
	for n := range hits {
		hits[n] = all[n].hit
	}
	return hits, nil
}

// Len returns the number of records.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.coll.Count()
}

// Dimension returns the vector width.
func (i *Index) Dimension() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dim
}

// Close releases resources.
func (i *Index) Close() error {
	return nil
}

// Save exports the collection and writes the manifest.
func (i *Index) Save(_ context.Context) error {
	i.mu.RLock()
	defer i.mu.RUnlock()

	count := i.coll.Count()
	if count == 0 {
		return fmt.Errorf("%w: nothing to save", domain.ErrIndexNotBuilt)
	}

	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create index directory: %w", domain.ErrPersistence, err)
	}

	exportPath := filepath.Join(i.dir, ExportFile)
	tmpExport := filepath.Join(i.dir, "index.tmp.gob.gz")
	if err := i.db.ExportToFile(tmpExport, true, "", i.collection); err != nil {
		os.Remove(tmpExport) //nolint:errcheck
		return fmt.Errorf("%w: export collection: %w", domain.ErrPersistence, err)
	}

	m := manifest{
		Generation: uuid.NewString(),
		Collection: i.collection,
		Dimension:  i.dim,
		Count:      count,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		os.Remove(tmpExport) //nolint:errcheck
		return fmt.Errorf("%w: encode manifest: %w", domain.ErrPersistence, err)
	}

	if err := os.Rename(tmpExport, exportPath); err != nil {
		return fmt.Errorf("%w: rename export: %w", domain.ErrPersistence, err)
	}
	manifestPath := filepath.Join(i.dir, ManifestFile)
	if err := os.WriteFile(manifestPath+".tmp", data, 0o644); err != nil {
		return fmt.Errorf("%w: write manifest: %w", domain.ErrPersistence, err)
	}
	if err := os.Rename(manifestPath+".tmp", manifestPath); err != nil {
		return fmt.Errorf("%w: rename manifest: %w", domain.ErrPersistence, err)
	}
	return nil
}

// Load imports the exported collection into a fresh database and swaps it in
// once the manifest and collection agree.
func (i *Index) Load(ctx context.Context) error {
	manifestPath := filepath.Join(i.dir, ManifestFile)
	exportPath := filepath.Join(i.dir, ExportFile)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return fmt.Errorf("%w: %s is missing", domain.ErrPersistence, ManifestFile)
			}
			return fmt.Errorf("%w: %w: no index in %s", domain.ErrPersistence, domain.ErrNotFound, i.dir)
		}
		return fmt.Errorf("%w: read manifest: %w", domain.ErrPersistence, err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: decode manifest: %w", domain.ErrPersistence, err)
	}
	if m.Collection != i.collection {
		return fmt.Errorf("%w: saved collection %q, configured %q", domain.ErrPersistence, m.Collection, i.collection)
	}
	if _, err := os.Stat(exportPath); err != nil {
		return fmt.Errorf("%w: %s is missing", domain.ErrPersistence, ExportFile)
	}

	db := chromem.NewDB()
	if err := db.ImportFromFile(exportPath, "", i.collection); err != nil {
		return fmt.Errorf("%w: import collection: %w", domain.ErrPersistence, err)
	}
	coll := db.GetCollection(i.collection, noEmbedding)
	if coll == nil {
		return fmt.Errorf("%w: collection %q not found in %s", domain.ErrPersistence, i.collection, ExportFile)
	}
	if coll.Count() != m.Count {
		return fmt.Errorf("%w: manifest lists %d records, collection has %d", domain.ErrPersistence, m.Count, coll.Count())
	}
	if m.Dimension <= 0 {
		return fmt.Errorf("%w: manifest has no dimension", domain.ErrPersistence)
	}
	if err := checkWidth(ctx, coll, m.Dimension); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.db = db
	i.coll = coll
	i.dim = m.Dimension
	return nil
}

// checkWidth queries the imported collection with a vector of the manifest
// width. chromem refuses to compare vectors of different lengths.
func checkWidth(ctx context.Context, coll *chromem.Collection, dim int) error {
	q := make([]float32, dim)
	q[0] = 1
	if _, err := coll.QueryEmbedding(ctx, q, 1, nil, nil); err != nil {
		return fmt.Errorf("%w: manifest dimension %d does not match stored embeddings: %w", domain.ErrPersistence, dim, err)
	}
	return nil
}
