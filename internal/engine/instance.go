package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gcbaptista/go-tuple-search/config"
	"github.com/gcbaptista/go-tuple-search/index"
	internalErrors "github.com/gcbaptista/go-tuple-search/internal/errors"
	"github.com/gcbaptista/go-tuple-search/internal/indexing"
	"github.com/gcbaptista/go-tuple-search/internal/metrics"
	"github.com/gcbaptista/go-tuple-search/internal/search"
	"github.com/gcbaptista/go-tuple-search/internal/typoutil"
	"github.com/gcbaptista/go-tuple-search/model"
	"github.com/gcbaptista/go-tuple-search/services"
	"github.com/gcbaptista/go-tuple-search/store"
)

// IndexInstance holds all components and services for a single search index.
// It implements the services.IndexAccessor interface.
type IndexInstance struct {
	settings      *config.IndexSettings
	InvertedIndex *index.InvertedIndex
	DocumentStore *store.DocumentStore
	expander      *typoutil.Expander
	indexer       *indexing.Service
	searcher      *search.Service
	metrics       *metrics.Metrics
}

// NewIndexInstance creates an empty index with the given settings.
func NewIndexInstance(settings config.IndexSettings, m *metrics.Metrics, logger *slog.Logger) (*IndexInstance, error) {
	if settings.Name == "" {
		return nil, fmt.Errorf("index name cannot be empty in settings")
	}
	s := settings
	return newIndexInstance(&s, index.NewInvertedIndex(&s), store.NewDocumentStore(), m, logger)
}

// newIndexInstance wires the services of an index around existing storage.
// The inverted index settings pointer is rebound to settings. Services read
// settings through their own copy of the pointer, never through invIndex.
func newIndexInstance(settings *config.IndexSettings, invIndex *index.InvertedIndex, docStore *store.DocumentStore, m *metrics.Metrics, logger *slog.Logger) (*IndexInstance, error) {
	invIndex.Mu.Lock()
	invIndex.Settings = settings
	terms := invIndex.Terms()
	invIndex.Mu.Unlock()
	expander := typoutil.NewExpander(terms, settings.FuzzyTranspositions)

	indexerService, err := indexing.NewService(invIndex, docStore, expander)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer service: %w", err)
	}

	searchService, err := search.NewService(invIndex, docStore, settings, expander,
		search.WithMetrics(m),
		search.WithLogger(logger.With("index", settings.Name)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	return &IndexInstance{
		settings:      settings,
		InvertedIndex: invIndex,
		DocumentStore: docStore,
		expander:      expander,
		indexer:       indexerService,
		searcher:      searchService,
		metrics:       m,
	}, nil
}

// AddDocuments delegates to the underlying Indexer service.
func (i *IndexInstance) AddDocuments(docs []model.Document) error {
	if err := i.indexer.AddDocuments(docs); err != nil {
		return err
	}
	i.metrics.AddIndexed(i.settings.Name, len(docs))
	return nil
}

// DeleteAllDocuments delegates to the underlying Indexer service.
func (i *IndexInstance) DeleteAllDocuments() error {
	return i.indexer.DeleteAllDocuments()
}

// DeleteDocument delegates to the underlying Indexer service.
func (i *IndexInstance) DeleteDocument(docID string) error {
	return i.indexer.DeleteDocument(docID)
}

// Search delegates to the underlying Searcher service.
func (i *IndexInstance) Search(query services.SearchQuery) (services.SearchResult, error) {
	return i.searcher.Search(query)
}

// SearchContext delegates to the underlying Searcher service.
func (i *IndexInstance) SearchContext(ctx context.Context, query services.SearchQuery) (services.SearchResult, error) {
	return i.searcher.SearchContext(ctx, query)
}

// MultiSearch delegates to the underlying Searcher service.
func (i *IndexInstance) MultiSearch(ctx context.Context, query services.MultiSearchQuery) (*services.MultiSearchResult, error) {
	return i.searcher.MultiSearch(ctx, query)
}

// GetDocument returns the stored document with the given external ID.
func (i *IndexInstance) GetDocument(docID string) (model.Document, error) {
	i.DocumentStore.Mu.RLock()
	defer i.DocumentStore.Mu.RUnlock()

	id, ok := i.DocumentStore.Lookup(docID)
	if !ok {
		return model.Document{}, internalErrors.NewDocumentNotFoundError(docID, i.settings.Name)
	}
	return i.DocumentStore.Docs[id], nil
}

// ListDocuments returns a page of stored documents and the total document count.
func (i *IndexInstance) ListDocuments(offset, limit int) ([]model.Document, int) {
	i.DocumentStore.Mu.RLock()
	defer i.DocumentStore.Mu.RUnlock()
	return i.DocumentStore.List(offset, limit), i.DocumentStore.Count()
}

// Settings returns the configuration settings for this index.
func (i *IndexInstance) Settings() config.IndexSettings {
	return *i.settings
}

// allDocuments returns every stored document in internal ID order.
func (i *IndexInstance) allDocuments() []model.Document {
	i.DocumentStore.Mu.RLock()
	defer i.DocumentStore.Mu.RUnlock()
	return i.DocumentStore.List(0, i.DocumentStore.Count())
}
