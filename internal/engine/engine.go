// Package engine manages the named indexes of a search server and their
// on-disk state.
package engine

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/gcbaptista/go-tuple-search/config"
	internalErrors "github.com/gcbaptista/go-tuple-search/internal/errors"
	"github.com/gcbaptista/go-tuple-search/internal/logger"
	"github.com/gcbaptista/go-tuple-search/internal/metrics"
	"github.com/gcbaptista/go-tuple-search/internal/persistence"
	"github.com/gcbaptista/go-tuple-search/services"
)

// Engine manages multiple search indexes.
// It implements the services.IndexManager interface.
type Engine struct {
	mu      sync.RWMutex
	indexes map[string]*IndexInstance
	dataDir string
	codec   persistence.Codec
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCodec sets the compression used when index files are written.
// Files are always read with the codec they were written with.
func WithCodec(codec persistence.Codec) Option {
	return func(e *Engine) { e.codec = codec }
}

// WithMetrics records indexing, search and flush activity on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a new search engine orchestrator and loads every index
// found under dataDir.
func NewEngine(dataDir string, opts ...Option) *Engine {
	eng := &Engine{
		indexes: make(map[string]*IndexInstance),
		dataDir: dataDir,
		codec:   persistence.CodecNone,
		logger:  logger.WithComponent("engine"),
	}
	for _, opt := range opts {
		opt(eng)
	}
	eng.loadIndexesFromDisk()
	return eng
}

// GetIndex retrieves an index by its name.
func (e *Engine) GetIndex(name string) (services.IndexAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return nil, internalErrors.NewIndexNotFoundError(name)
	}
	return instance, nil
}

// GetIndexSettings retrieves the settings for a specific index.
func (e *Engine) GetIndexSettings(name string) (config.IndexSettings, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return config.IndexSettings{}, internalErrors.NewIndexNotFoundError(name)
	}
	return *instance.settings, nil
}

// ListIndexes returns the names of all loaded indexes in ascending order.
func (e *Engine) ListIndexes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.indexes))
	for name := range e.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DataDir returns the directory holding the index files.
func (e *Engine) DataDir() string {
	return e.dataDir
}

func (e *Engine) ensureDataDir() error {
	if err := os.MkdirAll(e.dataDir, dataDirPerm); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", e.dataDir, err)
	}
	return nil
}
