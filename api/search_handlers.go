package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-tuple-search/services"
)

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query    *QueryNode `json:"query"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	// RestrictToDocuments limits matching to these document IDs when present.
	// An empty list matches nothing.
	RestrictToDocuments []string `json:"restrict_to_documents,omitempty"`
}

// MultiSearchRequest represents the JSON request for multi-search
type MultiSearchRequest struct {
	Queries  []NamedSearchRequest `json:"queries" binding:"required"`
	Page     int                  `json:"page,omitempty"`
	PageSize int                  `json:"page_size,omitempty"`
}

// NamedSearchRequest represents a single named search query in the request
type NamedSearchRequest struct {
	Name                string     `json:"name" binding:"required"`
	Query               *QueryNode `json:"query" binding:"required"`
	RestrictToDocuments []string   `json:"restrict_to_documents,omitempty"`
}

// SearchHandler handles search requests to an index.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendServiceError(c, indexName, "get index", err)
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}

	page, pageSize, result := ValidatePagination(req.Page, req.PageSize)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	q, err := BuildQuery(req.Query, indexAccessor.Settings())
	if err != nil {
		SendServiceError(c, indexName, "search", err)
		return
	}

	results, err := indexAccessor.SearchContext(c.Request.Context(), services.SearchQuery{
		Query:               q,
		Page:                page,
		PageSize:            pageSize,
		RestrictToDocuments: req.RestrictToDocuments,
	})
	if err != nil {
		SendServiceError(c, indexName, "search", err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// MultiSearchHandler handles multi-query search requests to an index.
// Request Body: MultiSearchRequest
func (api *API) MultiSearchHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendServiceError(c, indexName, "get index", err)
		return
	}

	var req MultiSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Queries) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "At least one query is required")
		return
	}

	page, pageSize, result := ValidatePagination(req.Page, req.PageSize)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	settings := indexAccessor.Settings()
	multiSearchQuery := services.MultiSearchQuery{
		Page:     page,
		PageSize: pageSize,
	}
	queryNames := make(map[string]bool, len(req.Queries))
	for _, namedReq := range req.Queries {
		if queryNames[namedReq.Name] {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Query names must be unique: '"+namedReq.Name+"' appears multiple times")
			return
		}
		queryNames[namedReq.Name] = true

		q, err := BuildQuery(namedReq.Query, settings)
		if err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Query '"+namedReq.Name+"': "+err.Error())
			return
		}
		multiSearchQuery.Queries = append(multiSearchQuery.Queries, services.NamedSearchQuery{
			Name:                namedReq.Name,
			Query:               q,
			RestrictToDocuments: namedReq.RestrictToDocuments,
		})
	}

	results, err := indexAccessor.MultiSearch(c.Request.Context(), multiSearchQuery)
	if err != nil {
		SendServiceError(c, indexName, "search", err)
		return
	}

	c.JSON(http.StatusOK, results)
}
