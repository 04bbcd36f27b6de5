// Package filesystem reads the corpus from local category directories.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
	"github.com/synqanun/synqanun-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)
var _ driven.CorpusWatcher = (*Connector)(nil)

// Connector lists and reads files under the configured category directories.
// Only files whose extension has a normaliser are listed.
type Connector struct {
	corpus     domain.CorpusSettings
	extensions map[string]bool

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a filesystem connector accepting the given extensions.
func New(corpus domain.CorpusSettings, extensions []string) *Connector {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}
	return &Connector{
		corpus:     corpus,
		extensions: exts,
	}
}

// Validate checks the data root exists and is a directory.
func (c *Connector) Validate(_ context.Context) error {
	info, err := os.Stat(c.corpus.DataDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: data directory %s does not exist", domain.ErrConfiguration, c.corpus.DataDir)
		}
		return fmt.Errorf("%w: data directory %s: %w", domain.ErrConfiguration, c.corpus.DataDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: data directory %s is not a directory", domain.ErrConfiguration, c.corpus.DataDir)
	}
	return nil
}

// List returns the supported files directly under the collection directory,
// sorted by name. A missing directory is logged and yields no files.
func (c *Connector) List(ctx context.Context, docType domain.DocType) ([]string, error) {
	dir := c.corpus.Dir(docType)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("%s directory %s does not exist, skipping", docType, dir)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list %s: %w", domain.ErrConfiguration, dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !c.accepts(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	logger.Debug("found %d %s files in %s", len(paths), docType, dir)
	return paths, nil
}

// Fetch reads a corpus file.
func (c *Connector) Fetch(_ context.Context, path string, docType domain.DocType) (*domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFileRead, err)
	}
	return &domain.RawDocument{
		Path:    path,
		Type:    docType,
		Content: content,
	}, nil
}

// Watch reports changes to supported files in the category directories until
// ctx is cancelled or the connector is closed. Directories that do not exist
// when Watch is called are not watched.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.CorpusChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.New("connector is closed")
	}
	if c.watcher != nil {
		return nil, errors.New("watch already started")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	watched := 0
	for _, t := range domain.DocTypes() {
		dir := c.corpus.Dir(t)
		if err := watcher.Add(dir); err != nil {
			logger.Warn("cannot watch %s: %v", dir, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		watcher.Close()
		return nil, fmt.Errorf("%w: no collection directory to watch under %s", domain.ErrConfiguration, c.corpus.DataDir)
	}

	c.watcher = watcher
	changes := make(chan domain.CorpusChange)

	go func() {
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change, ok := c.handleFsEvent(event)
				if !ok {
					continue
				}
				select {
				case changes <- change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close stops watching. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.watcher == nil {
		return nil
	}
	err := c.watcher.Close()
	c.watcher = nil
	return err
}

// handleFsEvent converts a filesystem event into a corpus change.
// Returns false for events that do not concern a supported corpus file.
func (c *Connector) handleFsEvent(event fsnotify.Event) (domain.CorpusChange, bool) {
	if !c.accepts(filepath.Base(event.Name)) {
		return domain.CorpusChange{}, false
	}

	docType, ok := c.docTypeOf(event.Name)
	if !ok {
		return domain.CorpusChange{}, false
	}

	change := domain.CorpusChange{Path: event.Name, DocType: docType}
	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return domain.CorpusChange{}, false
		}
		change.Type = domain.ChangeCreated
	case event.Has(fsnotify.Write):
		change.Type = domain.ChangeUpdated
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		change.Type = domain.ChangeDeleted
	default:
		return domain.CorpusChange{}, false
	}
	return change, true
}

// docTypeOf returns the collection whose directory directly contains path.
func (c *Connector) docTypeOf(path string) (domain.DocType, bool) {
	dir := filepath.Clean(filepath.Dir(path))
	for _, t := range domain.DocTypes() {
		if filepath.Clean(c.corpus.Dir(t)) == dir {
			return t, true
		}
	}
	return "", false
}

// accepts reports whether a file name is a visible file with a supported extension.
// Word lock files ("~$name.docx") are skipped.
func (c *Connector) accepts(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return false
	}
	return c.extensions[strings.ToLower(filepath.Ext(name))]
}
