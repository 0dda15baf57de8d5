package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-tuple-search/config"
)

// CreateIndexHandler handles the request to create a new index.
// Request Body: config.IndexSettings
func (api *API) CreateIndexHandler(c *gin.Context) {
	var settings config.IndexSettings

	if result := ValidateJSONBinding(c, &settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if result := ValidateIndexSettings(&settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.CreateIndex(settings); err != nil {
		SendServiceError(c, settings.Name, "create index", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Index '" + settings.Name + "' created successfully"})
}

// ListIndexesHandler lists all available indexes.
func (api *API) ListIndexesHandler(c *gin.Context) {
	names := api.engine.ListIndexes()
	c.JSON(http.StatusOK, gin.H{"indexes": names, "count": len(names)})
}

// GetIndexHandler retrieves details about a specific index (its settings).
func (api *API) GetIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendServiceError(c, indexName, "get index", err)
		return
	}
	c.JSON(http.StatusOK, indexAccessor.Settings())
}

// DeleteIndexHandler handles deleting an index.
func (api *API) DeleteIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	if err := api.engine.DeleteIndex(indexName); err != nil {
		SendServiceError(c, indexName, "delete index", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Index '" + indexName + "' deleted successfully"})
}

// RenameIndexRequest defines the structure for renaming an index
type RenameIndexRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// RenameIndexHandler handles requests to rename an index
func (api *API) RenameIndexHandler(c *gin.Context) {
	oldName := c.Param("indexName")

	var req RenameIndexRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateRenameRequest(oldName, req.NewName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.RenameIndex(oldName, req.NewName); err != nil {
		if _, getErr := api.engine.GetIndex(oldName); getErr != nil {
			SendServiceError(c, oldName, "rename index", err)
			return
		}
		SendServiceError(c, req.NewName, "rename index", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Index renamed from '" + oldName + "' to '" + req.NewName + "'",
		"old_name": oldName,
		"new_name": req.NewName,
	})
}

// IndexSettingsUpdate is a partial settings update; nil fields keep their value.
type IndexSettingsUpdate struct {
	FuzzyMinSimilarity  *float64  `json:"fuzzy_min_similarity,omitempty"`
	FuzzyPrefixLength   *int      `json:"fuzzy_prefix_length,omitempty"`
	MaxFuzzyExpansions  *int      `json:"max_fuzzy_expansions,omitempty"`
	FuzzyTranspositions *bool     `json:"fuzzy_transpositions,omitempty"`
	NonFuzzyTerms       *[]string `json:"non_fuzzy_terms,omitempty"`
	StripMailto         *bool     `json:"strip_mailto,omitempty"`
	BM25K1              *float64  `json:"bm25_k1,omitempty"`
	BM25B               *float64  `json:"bm25_b,omitempty"`
}

// apply merges the update into settings and reports whether anything was set.
func (u IndexSettingsUpdate) apply(settings *config.IndexSettings) bool {
	changed := false
	if u.FuzzyMinSimilarity != nil {
		settings.FuzzyMinSimilarity = *u.FuzzyMinSimilarity
		changed = true
	}
	if u.FuzzyPrefixLength != nil {
		settings.FuzzyPrefixLength = *u.FuzzyPrefixLength
		changed = true
	}
	if u.MaxFuzzyExpansions != nil {
		settings.MaxFuzzyExpansions = *u.MaxFuzzyExpansions
		changed = true
	}
	if u.FuzzyTranspositions != nil {
		settings.FuzzyTranspositions = *u.FuzzyTranspositions
		changed = true
	}
	if u.NonFuzzyTerms != nil {
		settings.NonFuzzyTerms = *u.NonFuzzyTerms
		changed = true
	}
	if u.StripMailto != nil {
		settings.StripMailto = *u.StripMailto
		changed = true
	}
	if u.BM25K1 != nil {
		settings.BM25K1 = *u.BM25K1
		changed = true
	}
	if u.BM25B != nil {
		settings.BM25B = *u.BM25B
		changed = true
	}
	return changed
}

// UpdateIndexSettingsHandler applies a partial settings update to an index.
// Changing strip_mailto rebuilds the index from its stored documents.
func (api *API) UpdateIndexSettingsHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	current, err := api.engine.GetIndexSettings(indexName)
	if err != nil {
		SendServiceError(c, indexName, "get index settings", err)
		return
	}

	var update IndexSettingsUpdate
	if result := ValidateJSONBinding(c, &update); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if !update.apply(&current) {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "No settings to update")
		return
	}

	if err := api.engine.UpdateIndexSettings(indexName, current); err != nil {
		SendServiceError(c, indexName, "update index settings", err)
		return
	}

	updated, err := api.engine.GetIndexSettings(indexName)
	if err != nil {
		SendServiceError(c, indexName, "get index settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings for index '" + indexName + "' updated",
		"settings": updated,
	})
}

// GetIndexStatsHandler returns document statistics for an index.
func (api *API) GetIndexStatsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendServiceError(c, indexName, "get index", err)
		return
	}

	_, total := indexAccessor.ListDocuments(0, 0)
	c.JSON(http.StatusOK, gin.H{
		"name":           indexName,
		"document_count": total,
		"settings":       indexAccessor.Settings(),
	})
}
