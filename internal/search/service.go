package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"

	"github.com/gcbaptista/go-tuple-search/config"
	"github.com/gcbaptista/go-tuple-search/index"
	internalErrors "github.com/gcbaptista/go-tuple-search/internal/errors"
	"github.com/gcbaptista/go-tuple-search/internal/logger"
	"github.com/gcbaptista/go-tuple-search/internal/metrics"
	"github.com/gcbaptista/go-tuple-search/internal/query"
	"github.com/gcbaptista/go-tuple-search/services"
	"github.com/gcbaptista/go-tuple-search/store"
)

// Service implements the search logic for a single index.
// It fulfills the services.Searcher and services.MultiSearcher interfaces.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	settings      *config.IndexSettings
	expander      TermExpander // nil disables fuzzy expansion
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records search executions on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new search Service.
func NewService(invIndex *index.InvertedIndex, docStore *store.DocumentStore, settings *config.IndexSettings, expander TermExpander, opts ...Option) (*Service, error) {
	if invIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if docStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	s := &Service{
		invertedIndex: invIndex,
		documentStore: docStore,
		settings:      settings,
		expander:      expander,
		logger:        logger.WithComponent("search").With("index", settings.Name),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

const defaultPageSize = 10

// Search performs a search operation based on the query.
func (s *Service) Search(q services.SearchQuery) (services.SearchResult, error) {
	return s.SearchContext(context.Background(), q)
}

// SearchContext is Search with cancellation. The query tree is only read, so
// the same tree may be searched concurrently.
func (s *Service) SearchContext(ctx context.Context, q services.SearchQuery) (services.SearchResult, error) {
	startTime := time.Now()

	result, err := s.search(ctx, q, startTime)
	s.metrics.ObserveSearch(s.settings.Name, result.Total, time.Since(startTime), err)
	if err != nil {
		s.logger.Debug("search failed", "query", queryString(q.Query), "error", err)
		return services.SearchResult{}, err
	}
	return result, nil
}

func (s *Service) search(ctx context.Context, q services.SearchQuery, startTime time.Time) (services.SearchResult, error) {
	if q.Query == nil {
		return services.SearchResult{}, internalErrors.NewValidationError("query", "cannot be empty")
	}
	if err := query.Validate(q.Query); err != nil {
		return services.SearchResult{}, err
	}

	page := q.Page
	if page <= 0 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	// Lock order is document store then inverted index, as in indexing.
	s.documentStore.Mu.RLock()
	defer s.documentStore.Mu.RUnlock()
	s.invertedIndex.Mu.RLock()
	defer s.invertedIndex.Mu.RUnlock()

	mc := &matcherContext{
		invertedIndex: s.invertedIndex,
		bm25:          NewBM25Calculator(s.invertedIndex, s.documentStore, s.settings),
		settings:      s.settings,
		expander:      s.expander,
	}
	root, err := mc.build(q.Query, docScope)
	if err != nil {
		return services.SearchResult{}, err
	}
	for _, n := range mc.expansionCounts {
		s.metrics.ObserveExpansions(n)
	}

	var filter *roaring.Bitmap
	if q.RestrictToDocuments != nil {
		filter = s.documentStore.Filter(q.RestrictToDocuments)
	}

	// A page past the end of any possible result set only needs the total.
	limit := 0
	if page <= math.MaxInt/pageSize {
		limit = page * pageSize
	}
	c := newCollector(limit)
	if err := c.run(ctx, root, filter); err != nil {
		return services.SearchResult{}, fmt.Errorf("search cancelled: %w", err)
	}

	ranked := c.ranked()
	startIndex := len(ranked)
	if limit > 0 {
		startIndex = min(limit-pageSize, len(ranked))
	}
	endIndex := min(startIndex+pageSize, len(ranked))
	hits := make([]services.HitResult, 0, endIndex-startIndex)
	for i := startIndex; i < endIndex; i++ {
		hits = append(hits, services.HitResult{
			Document: s.documentStore.Docs[ranked[i].doc],
			Score:    ranked[i].score,
		})
	}

	return services.SearchResult{
		Hits:     hits,
		Total:    c.total,
		Page:     page,
		PageSize: pageSize,
		Took:     time.Since(startTime).Milliseconds(),
		QueryId:  uuid.New().String(),
		Query:    q.Query.String(),
	}, nil
}

func queryString(q query.Query) string {
	if q == nil {
		return ""
	}
	return q.String()
}
