// Package sqlite provides an exact-search vector index persisted in SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Records are searched in memory; the database holds the
// saved record set and a one-row manifest. Save replaces both in a single
// transaction, so a reader never sees half of a save.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/synqanun/synqanun-cli/internal/adapters/driven/vector/flat"
	"github.com/synqanun/synqanun-cli/internal/adapters/driven/vector/sqlite/migrations"
	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.VectorIndex = (*Index)(nil)

// DatabaseFile is the database file name inside the index directory.
const DatabaseFile = "index.db"

// Index is an exact-search index backed by a SQLite file.
type Index struct {
	store *flat.Store
	path  string

	mu sync.Mutex
	db *sql.DB
}

// New creates an empty index persisted at dir/index.db.
// The database is opened on first Save or Load.
func New(dir string) *Index {
	return &Index{
		store: flat.New(),
		path:  filepath.Join(dir, DatabaseFile),
	}
}

// Path returns the database file path.
func (i *Index) Path() string {
	return i.path
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

// Close closes the database connection if one was opened.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.db == nil {
		return nil
	}
	err := i.db.Close()
	i.db = nil
	return err
}

// Save replaces the persisted record set with the in-memory one.
func (i *Index) Save(ctx context.Context) error {
	records := i.store.Records()
	if len(records) == 0 {
		return fmt.Errorf("%w: nothing to save", domain.ErrIndexNotBuilt)
	}

	db, err := i.open()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", domain.ErrPersistence, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("%w: clearing records: %w", domain.ErrPersistence, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM manifest"); err != nil {
		return fmt.Errorf("%w: clearing manifest: %w", domain.ErrPersistence, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (seq, id, embedding, content, source, doc_type, strategy)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing statement: %w", domain.ErrPersistence, err)
	}
	defer stmt.Close()

	for seq, r := range records {
		meta := r.Chunk.Metadata
		if _, err := stmt.ExecContext(ctx, seq, r.ID, float32SliceToBytes(r.Vector),
			r.Chunk.Content, meta.Source, string(meta.Type), string(meta.Strategy)); err != nil {
			return fmt.Errorf("%w: saving record %s: %w", domain.ErrPersistence, r.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO manifest (id, generation, dimension, record_count) VALUES (1, ?, ?, ?)
	`, uuid.NewString(), i.store.Dimension(), len(records)); err != nil {
		return fmt.Errorf("%w: saving manifest: %w", domain.ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %w", domain.ErrPersistence, err)
	}
	return nil
}

// Load replaces the in-memory records with the saved ones.
func (i *Index) Load(ctx context.Context) error {
	if _, err := os.Stat(i.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w: no index at %s", domain.ErrPersistence, domain.ErrNotFound, i.path)
		}
		return fmt.Errorf("%w: stat %s: %w", domain.ErrPersistence, i.path, err)
	}

	db, err := i.open()
	if err != nil {
		return err
	}

	var dim, count int
	err = db.QueryRowContext(ctx, "SELECT dimension, record_count FROM manifest WHERE id = 1").Scan(&dim, &count)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %w: index database has never been saved", domain.ErrPersistence, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%w: reading manifest: %w", domain.ErrPersistence, err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, embedding, content, source, doc_type, strategy
		FROM records ORDER BY seq
	`)
	if err != nil {
		return fmt.Errorf("%w: querying records: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	records := make([]domain.VectorRecord, 0, count)
	for rows.Next() {
		var (
			r                         domain.VectorRecord
			blob                      []byte
			source, docType, strategy string
		)
		if err := rows.Scan(&r.ID, &blob, &r.Chunk.Content, &source, &docType, &strategy); err != nil {
			return fmt.Errorf("%w: scanning record: %w", domain.ErrPersistence, err)
		}
		if len(blob) != dim*4 {
			return fmt.Errorf("%w: record %s has %d bytes, expected %d", domain.ErrPersistence, r.ID, len(blob), dim*4)
		}
		r.Vector = bytesToFloat32Slice(blob)
		r.Chunk.Metadata = domain.ChunkMetadata{
			Source:   source,
			Type:     domain.DocType(docType),
			Strategy: domain.Strategy(strategy),
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating records: %w", domain.ErrPersistence, err)
	}

	if len(records) != count {
		return fmt.Errorf("%w: manifest lists %d records, found %d", domain.ErrPersistence, count, len(records))
	}

	if err := i.store.Replace(records); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// open returns the database handle, creating the file and schema on first use.
func (i *Index) open() (*sql.DB, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.db != nil {
		return i.db, nil
	}

	if err := os.MkdirAll(filepath.Dir(i.path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating index directory: %w", domain.ErrPersistence, err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", i.path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", domain.ErrPersistence, err)
	}

	if err := migrate(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %w", domain.ErrPersistence, err)
	}

	i.db = db
	return db, nil
}

// migrate runs all pending migrations.
func migrate(db *sql.DB, fsys fs.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a stored byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
