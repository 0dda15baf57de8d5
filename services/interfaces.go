package services

import (
	"context"

	"github.com/gcbaptista/go-tuple-search/config"
	"github.com/gcbaptista/go-tuple-search/internal/query"
	"github.com/gcbaptista/go-tuple-search/model"
)

// HitResult represents a single document in the search results.
type HitResult struct {
	Document model.Document `json:"document"`
	Score    float64        `json:"score"` // The overall score for this hit
}

type SearchResult struct {
	Hits     []HitResult `json:"hits"`
	Total    int         `json:"total"` // number of matching documents, before pagination
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Took     int64       `json:"took"`     // milliseconds
	QueryId  string      `json:"query_id"` // unique UUID for this search query
	Query    string      `json:"query"`    // canonical rendering of the evaluated query tree
}

type SearchQuery struct {
	Query    query.Query
	Page     int
	PageSize int
	// RestrictToDocuments limits matching to the given external document IDs when non-nil.
	RestrictToDocuments []string
}

// MultiSearchQuery represents a request to execute multiple named search queries
type MultiSearchQuery struct {
	Queries  []NamedSearchQuery
	Page     int
	PageSize int
}

// NamedSearchQuery represents a single named search query within a multi-search request
type NamedSearchQuery struct {
	Name                string
	Query               query.Query
	RestrictToDocuments []string
}

// MultiSearchResult represents the response from a multi-search operation
type MultiSearchResult struct {
	Results          map[string]SearchResult `json:"results"`
	TotalQueries     int                     `json:"total_queries"`
	ProcessingTimeMs float64                 `json:"processing_time_ms"`
}

// Indexer defines operations for adding data to an index
type Indexer interface {
	AddDocuments(docs []model.Document) error
	DeleteAllDocuments() error
	DeleteDocument(docID string) error
}

// Searcher defines operations for querying an index
type Searcher interface {
	Search(query SearchQuery) (SearchResult, error)
	SearchContext(ctx context.Context, query SearchQuery) (SearchResult, error)
}

// MultiSearcher defines operations for performing multiple queries in a single request
type MultiSearcher interface {
	MultiSearch(ctx context.Context, query MultiSearchQuery) (*MultiSearchResult, error)
}

// DocumentReader gives read access to the stored documents of an index
type DocumentReader interface {
	GetDocument(docID string) (model.Document, error)
	ListDocuments(offset, limit int) ([]model.Document, int)
}

// IndexManager manages the lifecycle of indices
type IndexManager interface {
	CreateIndex(settings config.IndexSettings) error
	GetIndex(name string) (IndexAccessor, error) // IndexAccessor combines Indexer and Searcher
	GetIndexSettings(name string) (config.IndexSettings, error)
	UpdateIndexSettings(name string, settings config.IndexSettings) error
	RenameIndex(oldName, newName string) error
	DeleteIndex(name string) error
	ListIndexes() []string
	PersistIndexData(indexName string) error
}

type IndexAccessor interface {
	Indexer
	Searcher
	MultiSearcher
	DocumentReader
	Settings() config.IndexSettings
}
