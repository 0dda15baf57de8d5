package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-tuple-search/internal/logger"
	"github.com/gcbaptista/go-tuple-search/internal/metrics"
	"github.com/gcbaptista/go-tuple-search/services"
)

// API holds dependencies for API handlers, primarily the search engine manager.
type API struct {
	engine    services.IndexManager
	metrics   *metrics.Metrics
	logger    *slog.Logger
	startedAt time.Time
}

// Option configures the API.
type Option func(*API)

// WithMetrics enables HTTP metrics and the scrape endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *API) { a.metrics = m }
}

// WithLogger replaces the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) { a.logger = l }
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.IndexManager, opts ...Option) *API {
	a := &API{
		engine:    engine,
		logger:    logger.WithComponent("api"),
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RouterConfig controls the router-wide middleware.
type RouterConfig struct {
	MaxRequestBytes int64  // 0 disables the body size limit
	MetricsPath     string // empty disables the scrape endpoint
}

// SetupRoutes installs the middleware chain and all the API routes for the search engine.
func SetupRoutes(router *gin.Engine, engine services.IndexManager, cfg RouterConfig, opts ...Option) *API {
	apiHandler := NewAPI(engine, opts...)

	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggerMiddleware(apiHandler.logger),
		MetricsMiddleware(apiHandler.metrics),
		CORSMiddleware(),
	)
	if cfg.MaxRequestBytes > 0 {
		router.Use(RequestSizeLimitMiddleware(cfg.MaxRequestBytes))
	}

	router.GET("/health", apiHandler.HealthCheckHandler)
	if cfg.MetricsPath != "" && apiHandler.metrics != nil {
		router.GET(cfg.MetricsPath, gin.WrapH(apiHandler.metrics.Handler()))
	}

	indexRoutes := router.Group("/indexes")
	{
		indexRoutes.POST("", apiHandler.CreateIndexHandler)                              // Create a new index
		indexRoutes.GET("", apiHandler.ListIndexesHandler)                               // List all indexes
		indexRoutes.GET("/:indexName", apiHandler.GetIndexHandler)                       // Get index settings
		indexRoutes.DELETE("/:indexName", apiHandler.DeleteIndexHandler)                 // Delete an index
		indexRoutes.PATCH("/:indexName/settings", apiHandler.UpdateIndexSettingsHandler) // Update index settings
		indexRoutes.POST("/:indexName/rename", apiHandler.RenameIndexHandler)            // Rename an index
		indexRoutes.GET("/:indexName/stats", apiHandler.GetIndexStatsHandler)            // Get index statistics

		docRoutes := indexRoutes.Group("/:indexName/documents")
		{
			docRoutes.PUT("", apiHandler.AddDocumentsHandler)                  // Add/Update documents
			docRoutes.GET("", apiHandler.GetDocumentsHandler)                  // List documents with pagination
			docRoutes.DELETE("", apiHandler.DeleteAllDocumentsHandler)         // Delete all documents
			docRoutes.GET("/:documentId", apiHandler.GetDocumentHandler)       // Get specific document
			docRoutes.DELETE("/:documentId", apiHandler.DeleteDocumentHandler) // Delete specific document
		}

		indexRoutes.POST("/:indexName/_search", apiHandler.SearchHandler)
		indexRoutes.POST("/:indexName/_multi_search", apiHandler.MultiSearchHandler)
	}
	return apiHandler
}

// HealthCheckHandler reports liveness and the number of loaded indexes.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"indexes":        len(api.engine.ListIndexes()),
		"uptime_seconds": int64(time.Since(api.startedAt).Seconds()),
	})
}

// persist flushes an index after a mutation and reports whether it succeeded.
// On failure an error response has been sent.
func (api *API) persist(c *gin.Context, indexName string) bool {
	if err := api.engine.PersistIndexData(indexName); err != nil {
		SendPersistenceError(c, indexName, err)
		return false
	}
	return true
}
