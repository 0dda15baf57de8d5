package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var allSentinels = []error{
	ErrIndexNotFound,
	ErrIndexAlreadyExists,
	ErrDocumentNotFound,
	ErrInvalidQuery,
	ErrInvalidInput,
	ErrInvalidDocument,
}

func TestTypedErrors(t *testing.T) {
	withDocument := NewInvalidDocumentError(3, "unterminated literal")
	withDocument.DocumentID = "doc-7"

	tests := []struct {
		name     string
		err      error
		message  string
		sentinel error
	}{
		{"index not found", NewIndexNotFoundError("triples"), "index named 'triples' not found", ErrIndexNotFound},
		{"index exists", NewIndexAlreadyExistsError("triples"), "index named 'triples' already exists", ErrIndexAlreadyExists},
		{"document not found", NewDocumentNotFoundError("doc0"), "document with ID 'doc0' not found", ErrDocumentNotFound},
		{"document not found in index", NewDocumentNotFoundError("doc0", "triples"), "document with ID 'doc0' not found in index 'triples'", ErrDocumentNotFound},
		{"invalid query", NewInvalidQueryError("cell query nested in %s scope", "cell"), "invalid query: cell query nested in cell scope", ErrInvalidQuery},
		{"validation with field", NewValidationError("name", "cannot be empty"), "validation error for field 'name': cannot be empty", ErrInvalidInput},
		{"validation without field", NewValidationError("", "cannot be empty"), "validation error: cannot be empty", ErrInvalidInput},
		{"invalid document", NewInvalidDocumentError(3, "unterminated literal"), "line 3: unterminated literal", ErrInvalidDocument},
		{"invalid document with id", withDocument, "document 'doc-7' line 3: unterminated literal", ErrInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			for _, sentinel := range allSentinels {
				assert.Equal(t, sentinel == tt.sentinel, errors.Is(tt.err, sentinel), "errors.Is(%v)", sentinel)
			}
		})
	}
}

func TestTypedErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading index: %w", NewIndexNotFoundError("triples"))
	joined := errors.Join(wrapped, errors.New("additional context"))

	assert.True(t, errors.Is(joined, ErrIndexNotFound))

	var indexErr *IndexNotFoundError
	if assert.True(t, errors.As(joined, &indexErr)) {
		assert.Equal(t, "triples", indexErr.IndexName)
	}

	var docErr *InvalidDocumentError
	assert.False(t, errors.As(joined, &docErr))
}
