package engine

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/go-tuple-search/config"
	internalErrors "github.com/gcbaptista/go-tuple-search/internal/errors"
)

// UpdateIndexSettings replaces the settings of an index and persists them.
// Search-time settings take effect immediately. A change to tokenization
// rebuilds the index from its stored documents. The index name cannot change
// here; use RenameIndex.
func (e *Engine) UpdateIndexSettings(name string, newSettings config.IndexSettings) error {
	if newSettings.Name != "" && newSettings.Name != name {
		return internalErrors.NewValidationError("name", fmt.Sprintf("cannot change index name from '%s' to '%s' during settings update", name, newSettings.Name))
	}
	newSettings.Name = name
	newSettings.ApplyDefaults()
	if problems := newSettings.Validate(); len(problems) > 0 {
		return internalErrors.NewValidationError("settings", strings.Join(problems, "; "))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	old, exists := e.indexes[name]
	if !exists {
		return internalErrors.NewIndexNotFoundError(name)
	}

	var (
		updated *IndexInstance
		err     error
	)
	if requiresFullReindexing(*old.settings, newSettings) {
		updated, err = e.reindexUnsafe(old, newSettings)
	} else {
		s := newSettings
		updated, err = newIndexInstance(&s, old.InvertedIndex, old.DocumentStore, e.metrics, e.logger)
	}
	if err != nil {
		return fmt.Errorf("failed to apply settings to index '%s': %w", name, err)
	}

	if err := e.persistIndexUnsafe(name, newSettings, updated); err != nil {
		return fmt.Errorf("failed to save updated settings for index '%s': %w", name, err)
	}
	e.indexes[name] = updated
	e.logger.Info("index settings updated", "index", name)
	return nil
}

// reindexUnsafe builds a fresh index with settings from the stored documents of old.
// old keeps serving until the caller swaps it out.
func (e *Engine) reindexUnsafe(old *IndexInstance, settings config.IndexSettings) (*IndexInstance, error) {
	docs := old.allDocuments()

	fresh, err := NewIndexInstance(settings, e.metrics, e.logger)
	if err != nil {
		return nil, err
	}
	if err := fresh.indexer.AddDocuments(docs); err != nil {
		return nil, fmt.Errorf("failed to reindex documents: %w", err)
	}
	e.logger.Info("index rebuilt", "index", settings.Name, "documents", len(docs))
	return fresh, nil
}

// requiresFullReindexing reports whether postings built under oldSettings
// would differ under newSettings.
func requiresFullReindexing(oldSettings, newSettings config.IndexSettings) bool {
	return oldSettings.StripMailto != newSettings.StripMailto
}
