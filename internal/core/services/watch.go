package services

import (
	"context"
	"fmt"
	"time"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driving"
	"github.com/synqanun/synqanun-cli/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.WatchService = (*WatchService)(nil)

// DefaultDebounce is the quiet period after the last change before a rebuild.
const DefaultDebounce = 2 * time.Second

// RebuildIndex builds a fresh index from the current corpus and persists it.
type RebuildIndex func(ctx context.Context) (*domain.IngestReport, error)

// WatchService rebuilds the index after corpus changes settle.
type WatchService struct {
	watcher  driven.CorpusWatcher
	rebuild  RebuildIndex
	debounce time.Duration
}

// NewWatchService creates a new watch service.
// debounce <= 0 uses DefaultDebounce.
func NewWatchService(watcher driven.CorpusWatcher, rebuild RebuildIndex, debounce time.Duration) *WatchService {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &WatchService{
		watcher:  watcher,
		rebuild:  rebuild,
		debounce: debounce,
	}
}

// Run watches the corpus until ctx is done.
func (s *WatchService) Run(ctx context.Context, onRebuild driving.RebuildFunc) error {
	changes, err := s.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch corpus: %w", err)
	}

	timer := time.NewTimer(s.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending []domain.CorpusChange
	for {
		select {
		case <-ctx.Done():
			return nil

		case change, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Debug("corpus change: %s %s", change.Type, change.Path)
			if len(pending) > 0 && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			pending = append(pending, change)
			timer.Reset(s.debounce)

		case <-timer.C:
			batch := pending
			pending = nil

			logger.Info("rebuilding index after %d changes", len(batch))
			report, err := s.rebuild(ctx)
			if err != nil {
				logger.Warn("rebuild failed: %v", err)
			}
			if onRebuild != nil {
				onRebuild(batch, report, err)
			}
		}
	}
}
