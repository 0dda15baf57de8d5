package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gcbaptista/go-tuple-search/config"
	internalErrors "github.com/gcbaptista/go-tuple-search/internal/errors"
)

// CreateIndex creates a new index with the given settings and persists it.
// Unset settings take their defaults.
func (e *Engine) CreateIndex(settings config.IndexSettings) error {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return internalErrors.NewValidationError("settings", strings.Join(problems, "; "))
	}
	if !isDirSafeName(settings.Name) {
		return internalErrors.NewValidationError("name", "index name cannot contain path separators")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[settings.Name]; exists {
		return internalErrors.NewIndexAlreadyExistsError(settings.Name)
	}

	instance, err := NewIndexInstance(settings, e.metrics, e.logger)
	if err != nil {
		return fmt.Errorf("failed to create new index instance for '%s': %w", settings.Name, err)
	}

	if err := e.persistIndexUnsafe(settings.Name, settings, instance); err != nil {
		return fmt.Errorf("failed to persist new index '%s': %w", settings.Name, err)
	}

	e.indexes[settings.Name] = instance
	e.logger.Info("index created", "index", settings.Name)
	return nil
}

// DeleteIndex deletes an index and its data from disk.
func (e *Engine) DeleteIndex(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[name]; !exists {
		return internalErrors.NewIndexNotFoundError(name)
	}

	delete(e.indexes, name)

	indexPath := filepath.Join(e.dataDir, name)
	if err := os.RemoveAll(indexPath); err != nil {
		return fmt.Errorf("failed to remove index directory %s: %w", indexPath, err)
	}

	e.logger.Info("index deleted", "index", name)
	return nil
}

// RenameIndex renames an index in memory and on disk.
func (e *Engine) RenameIndex(oldName, newName string) error {
	if strings.TrimSpace(newName) == "" || !isDirSafeName(newName) {
		return internalErrors.NewValidationError("name", "invalid index name")
	}
	if oldName == newName {
		return internalErrors.NewValidationError("name", fmt.Sprintf("index is already named '%s'", newName))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.indexes[oldName]
	if !exists {
		return internalErrors.NewIndexNotFoundError(oldName)
	}
	if _, exists := e.indexes[newName]; exists {
		return internalErrors.NewIndexAlreadyExistsError(newName)
	}

	// Searches in flight keep the old instance and its settings.
	newSettings := *instance.settings
	newSettings.Name = newName
	renamed, err := newIndexInstance(&newSettings, instance.InvertedIndex, instance.DocumentStore, e.metrics, e.logger)
	if err != nil {
		return fmt.Errorf("failed to rename index '%s': %w", oldName, err)
	}
	if err := e.persistIndexUnsafe(newName, newSettings, renamed); err != nil {
		return fmt.Errorf("failed to persist renamed index: %w", err)
	}

	e.indexes[newName] = renamed
	delete(e.indexes, oldName)

	oldIndexPath := filepath.Join(e.dataDir, oldName)
	if err := os.RemoveAll(oldIndexPath); err != nil {
		// The rename already succeeded.
		e.logger.Warn("failed to remove old index directory", "path", oldIndexPath, "error", err)
	}

	e.logger.Info("index renamed", "from", oldName, "to", newName)
	return nil
}

// isDirSafeName reports whether name can be used as a directory under the data dir.
func isDirSafeName(name string) bool {
	return !strings.ContainsAny(name, `/\`) && name != "." && name != ".."
}
