package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-tuple-search/model"
)

// AddDocumentsHandler handles adding/updating documents in an index.
// The body is one document object or an array of them.
func (api *API) AddDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendServiceError(c, indexName, "get index", err)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		SendError(c, http.StatusRequestEntityTooLarge, ErrorCodeInvalidRequest, "Failed to read request body: "+err.Error())
		return
	}

	docs, err := decodeDocuments(body)
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateDocuments(docs); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := indexAccessor.AddDocuments(docs); err != nil {
		SendServiceError(c, indexName, "add documents", err)
		return
	}
	if !api.persist(c, indexName) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        fmt.Sprintf("%d document(s) added/updated in index '%s'", len(docs), indexName),
		"document_count": len(docs),
	})
}

// decodeDocuments accepts either a JSON array of documents or a single document.
func decodeDocuments(body []byte) ([]model.Document, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	decode := func(target any) error {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		return dec.Decode(target)
	}

	switch trimmed[0] {
	case '[':
		var docs []model.Document
		if err := decode(&docs); err != nil {
			return nil, err
		}
		return docs, nil
	case '{':
		var doc model.Document
		if err := decode(&doc); err != nil {
			return nil, err
		}
		return []model.Document{doc}, nil
	default:
		return nil, fmt.Errorf("expecting a document object or an array of documents")
	}
}

// DeleteAllDocumentsHandler handles the request to delete all documents from an index.
func (api *API) DeleteAllDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendServiceError(c, indexName, "get index", err)
		return
	}

	if err := indexAccessor.DeleteAllDocuments(); err != nil {
		SendServiceError(c, indexName, "delete documents", err)
		return
	}
	if !api.persist(c, indexName) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All documents deleted from index '" + indexName + "'"})
}

// DocumentListRequest holds the pagination parameters of a document listing.
type DocumentListRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// GetDocumentsHandler lists the documents of an index with pagination.
func (api *API) GetDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendServiceError(c, indexName, "get index", err)
		return
	}

	var req DocumentListRequest
	if result := ValidateQueryBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	page, pageSize, result := ValidatePagination(req.Page, req.PageSize)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	docs, total := indexAccessor.ListDocuments((page-1)*pageSize, pageSize)
	c.JSON(http.StatusOK, gin.H{
		"documents": docs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetDocumentHandler retrieves one document by ID.
func (api *API) GetDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")

	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendServiceError(c, indexName, "get index", err)
		return
	}

	doc, err := indexAccessor.GetDocument(documentID)
	if err != nil {
		SendServiceError(c, indexName, "get document", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DeleteDocumentHandler removes one document by ID.
func (api *API) DeleteDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")

	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendServiceError(c, indexName, "get index", err)
		return
	}

	if err := indexAccessor.DeleteDocument(documentID); err != nil {
		SendServiceError(c, indexName, "delete document", err)
		return
	}
	if !api.persist(c, indexName) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document '" + documentID + "' deleted from index '" + indexName + "'"})
}
