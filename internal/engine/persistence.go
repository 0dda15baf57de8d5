package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-tuple-search/config"
	"github.com/gcbaptista/go-tuple-search/index"
	internalErrors "github.com/gcbaptista/go-tuple-search/internal/errors"
	"github.com/gcbaptista/go-tuple-search/internal/persistence"
	"github.com/gcbaptista/go-tuple-search/store"
)

const (
	dataDirPerm       = 0750
	settingsFile      = "settings.gob"
	invertedIndexFile = "inverted_index.gob"
	documentStoreFile = "document_store.gob"
)

// Indexes are loaded and flushed by at most this many goroutines.
const ioConcurrency = 4

// loadIndexesFromDisk loads all indexes from the data directory in parallel.
// An index that cannot be loaded is skipped with a warning.
func (e *Engine) loadIndexesFromDisk() {
	e.logger.Info("loading indexes from disk", "data_dir", e.dataDir)

	if err := e.ensureDataDir(); err != nil {
		e.logger.Warn("proceeding without persistence", "error", err)
		return
	}

	items, err := os.ReadDir(e.dataDir)
	if err != nil {
		e.logger.Warn("failed to read data directory, no indexes loaded", "data_dir", e.dataDir, "error", err)
		return
	}

	var (
		mu     sync.Mutex
		loaded = make(map[string]*IndexInstance)
		g      errgroup.Group
	)
	g.SetLimit(ioConcurrency)

	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		indexName := item.Name()
		g.Go(func() error {
			instance, err := e.loadIndex(indexName)
			if err != nil {
				e.logger.Warn("skipping index", "index", indexName, "error", err)
				return nil
			}
			mu.Lock()
			loaded[indexName] = instance
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	e.mu.Lock()
	for name, instance := range loaded {
		e.indexes[name] = instance
	}
	e.mu.Unlock()
	e.logger.Info("indexes loaded", "count", len(loaded))
}

// loadIndex reads one index directory. Missing data files yield an empty
// store or index; a missing or mismatched settings file is an error.
func (e *Engine) loadIndex(indexName string) (*IndexInstance, error) {
	indexPath := filepath.Join(e.dataDir, indexName)

	var settings config.IndexSettings
	settingsPath := filepath.Join(indexPath, settingsFile)
	if err := persistence.LoadGob(settingsPath, &settings); err != nil {
		return nil, fmt.Errorf("failed to load settings from %s: %w", settingsPath, err)
	}
	if settings.Name != indexName {
		return nil, fmt.Errorf("index name in settings (%q) does not match directory name (%q)", settings.Name, indexName)
	}
	settings.ApplyDefaults()

	docStore := store.NewDocumentStore()
	dsPath := filepath.Join(indexPath, documentStoreFile)
	if err := persistence.LoadGob(dsPath, docStore); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load document store: %w", err)
		}
		e.logger.Info("document store file not found, starting empty", "index", indexName, "path", dsPath)
	}

	invIndex := index.NewInvertedIndex(&settings)
	iiPath := filepath.Join(indexPath, invertedIndexFile)
	if err := persistence.LoadGob(iiPath, invIndex); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load inverted index: %w", err)
		}
		e.logger.Info("inverted index file not found, starting empty", "index", indexName, "path", iiPath)
	}

	instance, err := newIndexInstance(&settings, invIndex, docStore, e.metrics, e.logger)
	if err != nil {
		return nil, err
	}
	e.logger.Info("index loaded", "index", indexName, "documents", docStore.Count())
	return instance, nil
}

// PersistIndexData persists the data for a specific index to disk.
func (e *Engine) PersistIndexData(indexName string) error {
	e.mu.RLock()
	instance, exists := e.indexes[indexName]
	e.mu.RUnlock()

	if !exists {
		return internalErrors.NewIndexNotFoundError(indexName)
	}

	err := e.persistIndexUnsafe(indexName, *instance.settings, instance)
	e.metrics.ObserveFlush(err)
	return err
}

// Close flushes every index to disk in parallel and returns the first error.
func (e *Engine) Close() error {
	start := time.Now()
	var g errgroup.Group
	g.SetLimit(ioConcurrency)
	for _, name := range e.ListIndexes() {
		g.Go(func() error {
			return e.PersistIndexData(name)
		})
	}
	err := g.Wait()
	e.logger.Info("indexes flushed", "took", time.Since(start), "error", err)
	return err
}

// persistIndexUnsafe writes an index instance to its directory.
// Settings are written under the given name, which may differ from the
// instance's current one during a rename.
func (e *Engine) persistIndexUnsafe(name string, settings config.IndexSettings, instance *IndexInstance) error {
	indexPath := filepath.Join(e.dataDir, name)
	if err := os.MkdirAll(indexPath, dataDirPerm); err != nil {
		return fmt.Errorf("failed to create directory for index %s: %w", name, err)
	}

	if err := persistence.SaveGob(filepath.Join(indexPath, settingsFile), settings, e.codec); err != nil {
		return fmt.Errorf("failed to save settings for index %s: %w", name, err)
	}
	// InvertedIndex and DocumentStore take their read locks in GobEncode.
	if err := persistence.SaveGob(filepath.Join(indexPath, invertedIndexFile), instance.InvertedIndex, e.codec); err != nil {
		return fmt.Errorf("failed to save inverted index for %s: %w", name, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, documentStoreFile), instance.DocumentStore, e.codec); err != nil {
		return fmt.Errorf("failed to save document store for %s: %w", name, err)
	}
	return nil
}
