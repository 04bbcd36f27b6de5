// Package memory provides an exact-search vector index persisted as flat files.
//
// Save writes two artifacts into the index directory:
//
//   - vectors.bin: a header (magic, generation, dimension, count) followed by
//     count*dimension little-endian float32 values
//   - chunks.json: the generation plus one entry per record, in the same order
//
// Both files carry the same generation so Load can tell that they were written
// together.
package memory

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/synqanun/synqanun-cli/internal/adapters/driven/vector/flat"
	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.VectorIndex = (*Index)(nil)

// Artifact file names.
const (
	VectorsFile = "vectors.bin"
	ChunksFile  = "chunks.json"
)

// magic identifies a vectors.bin file and its layout version.
var magic = [8]byte{'S', 'Q', 'V', 'E', 'C', '0', '0', '1'}

type header struct {
	Magic      [8]byte
	Generation [16]byte
	Dimension  uint32
	Count      uint32
}

const headerSize = 8 + 16 + 4 + 4

type chunkFile struct {
	Generation string       `json:"generation"`
	Dimension  int          `json:"dimension"`
	Records    []chunkEntry `json:"records"`
}

type chunkEntry struct {
	ID       string               `json:"id"`
	Content  string               `json:"content"`
	Metadata domain.ChunkMetadata `json:"metadata"`
}

// Index is an in-memory exact-search index.
type Index struct {
	store *flat.Store
	dir   string
}

// New creates an empty index persisted under dir.
func New(dir string) *Index {
	return &Index{
		store: flat.New(),
		dir:   dir,
	}
}

// Add appends records.
func (i *Index) Add(_ context.Context, records []domain.VectorRecord) error {
	return i.store.Add(records)
}

// Search returns the k nearest records.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]domain.Hit, error) {
	return i.store.Search(ctx, query, k)
}

// Len returns the number of records.
func (i *Index) Len() int {
	return i.store.Len()
}

// Dimension returns the vector width.
func (i *Index) Dimension() int {
	return i.store.Dimension()
}

// Dir returns the directory artifacts are written to.
func (i *Index) Dir() string {
	return i.dir
}

// Close releases resources.
func (i *Index) Close() error {
	return nil
}

// Save writes both artifacts. Each is written to a temporary file and renamed
// into place, so a failed save never truncates a previous index.
func (i *Index) Save(ctx context.Context) error {
	records := i.store.Records()
	if len(records) == 0 {
		return fmt.Errorf("%w: nothing to save", domain.ErrIndexNotBuilt)
	}
	dim := i.store.Dimension()

	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create index directory: %w", domain.ErrPersistence, err)
	}

	gen := uuid.New()

	var vectors bytes.Buffer
	hdr := header{Magic: magic, Generation: gen, Dimension: uint32(dim), Count: uint32(len(records))}
	if err := binary.Write(&vectors, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("%w: encode header: %w", domain.ErrPersistence, err)
	}
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := binary.Write(&vectors, binary.LittleEndian, r.Vector); err != nil {
			return fmt.Errorf("%w: encode vector %s: %w", domain.ErrPersistence, r.ID, err)
		}
	}

	chunks := chunkFile{
		Generation: gen.String(),
		Dimension:  dim,
		Records:    make([]chunkEntry, len(records)),
	}
	for n, r := range records {
		chunks.Records[n] = chunkEntry{ID: r.ID, Content: r.Chunk.Content, Metadata: r.Chunk.Metadata}
	}
	chunkJSON, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode chunks: %w", domain.ErrPersistence, err)
	}

	if err := writeFileAtomic(filepath.Join(i.dir, VectorsFile), vectors.Bytes()); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(i.dir, ChunksFile), chunkJSON)
}

// Load reads both artifacts and replaces the in-memory records.
// Nothing changes unless both files are present and agree.
func (i *Index) Load(ctx context.Context) error {
	vecPath := filepath.Join(i.dir, VectorsFile)
	chunkPath := filepath.Join(i.dir, ChunksFile)

	vecExists, err := exists(vecPath)
	if err != nil {
		return err
	}
	chunkExists, err := exists(chunkPath)
	if err != nil {
		return err
	}
	switch {
	case !vecExists && !chunkExists:
		return fmt.Errorf("%w: %w: no index in %s", domain.ErrPersistence, domain.ErrNotFound, i.dir)
	case !vecExists:
		return fmt.Errorf("%w: %s is missing", domain.ErrPersistence, VectorsFile)
	case !chunkExists:
		return fmt.Errorf("%w: %s is missing", domain.ErrPersistence, ChunksFile)
	}

	hdr, vectors, err := readVectors(ctx, vecPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(chunkPath)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", domain.ErrPersistence, ChunksFile, err)
	}
	var chunks chunkFile
	if err := json.Unmarshal(data, &chunks); err != nil {
		return fmt.Errorf("%w: decode %s: %w", domain.ErrPersistence, ChunksFile, err)
	}

	gen := uuid.UUID(hdr.Generation).String()
	switch {
	case chunks.Generation != gen:
		return fmt.Errorf("%w: %s and %s were written by different saves", domain.ErrPersistence, VectorsFile, ChunksFile)
	case len(chunks.Records) != len(vectors):
		return fmt.Errorf("%w: %d vectors but %d chunks", domain.ErrPersistence, len(vectors), len(chunks.Records))
	case chunks.Dimension != int(hdr.Dimension):
		return fmt.Errorf("%w: dimension %d in %s, %d in %s",
			domain.ErrPersistence, hdr.Dimension, VectorsFile, chunks.Dimension, ChunksFile)
	}

	records := make([]domain.VectorRecord, len(vectors))
	for n, entry := range chunks.Records {
		records[n] = domain.VectorRecord{
			ID:     entry.ID,
			Vector: vectors[n],
			Chunk:  domain.Chunk{Content: entry.Content, Metadata: entry.Metadata},
		}
	}

	if err := i.store.Replace(records); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

func readVectors(ctx context.Context, path string) (header, [][]float32, error) {
	var hdr header

	f, err := os.Open(path)
	if err != nil {
		return hdr, nil, fmt.Errorf("%w: open %s: %w", domain.ErrPersistence, VectorsFile, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return hdr, nil, fmt.Errorf("%w: stat %s: %w", domain.ErrPersistence, VectorsFile, err)
	}

	r := bufio.NewReader(f)
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return hdr, nil, fmt.Errorf("%w: read %s header: %w", domain.ErrPersistence, VectorsFile, err)
	}
	if hdr.Magic != magic {
		return hdr, nil, fmt.Errorf("%w: %s is not a vector file", domain.ErrPersistence, VectorsFile)
	}
	if hdr.Dimension == 0 {
		return hdr, nil, fmt.Errorf("%w: %s has zero dimension", domain.ErrPersistence, VectorsFile)
	}

	want := int64(headerSize) + int64(hdr.Count)*int64(hdr.Dimension)*4
	if info.Size() != want {
		return hdr, nil, fmt.Errorf("%w: %s is %d bytes, expected %d", domain.ErrPersistence, VectorsFile, info.Size(), want)
	}

	vectors := make([][]float32, hdr.Count)
	for n := range vectors {
		if err := ctx.Err(); err != nil {
			return hdr, nil, err
		}
		vec := make([]float32, hdr.Dimension)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return hdr, nil, fmt.Errorf("%w: %s is truncated", domain.ErrPersistence, VectorsFile)
			}
			return hdr, nil, fmt.Errorf("%w: read vector %d: %w", domain.ErrPersistence, n, err)
		}
		vectors[n] = vec
	}
	return hdr, vectors, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("%w: stat %s: %w", domain.ErrPersistence, path, err)
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", domain.ErrPersistence, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %w", domain.ErrPersistence, filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", domain.ErrPersistence, filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename %s: %w", domain.ErrPersistence, filepath.Base(path), err)
	}
	return nil
}
