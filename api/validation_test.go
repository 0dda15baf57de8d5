package api

import (
	"testing"

	"github.com/gcbaptista/go-tuple-search/config"
	"github.com/gcbaptista/go-tuple-search/model"
)

func TestValidationResult_AddError(t *testing.T) {
	result := &ValidationResult{Valid: true}

	result.AddError("field1", "error message")

	if result.Valid {
		t.Error("Expected Valid to be false after adding error")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(result.Errors))
	}
	if result.Errors[0].Field != "field1" || result.Errors[0].Message != "error message" {
		t.Errorf("Unexpected error %+v", result.Errors[0])
	}
	if !result.HasErrors() {
		t.Error("Expected HasErrors to be true after adding error")
	}
}

func TestValidateIndexName(t *testing.T) {
	tests := []struct {
		name      string
		indexName string
		wantError string
	}{
		{name: "valid index name", indexName: "triples-2024"},
		{name: "empty index name", indexName: "", wantError: "Index name is required"},
		{name: "leading whitespace", indexName: " triples", wantError: "Index name cannot have leading or trailing whitespace"},
		{name: "trailing whitespace", indexName: "triples ", wantError: "Index name cannot have leading or trailing whitespace"},
		{name: "path separator", indexName: "a/b", wantError: "Index name cannot contain path separators"},
		{name: "parent directory", indexName: "..", wantError: "Index name cannot contain path separators"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateIndexName(tt.indexName)
			if tt.wantError == "" {
				if result.HasErrors() {
					t.Errorf("Expected valid, got %v", result.Errors)
				}
				return
			}
			if !result.HasErrors() {
				t.Fatal("Expected validation error")
			}
			if result.Errors[0].Message != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, result.Errors[0].Message)
			}
		})
	}
}

func TestValidateDocumentID(t *testing.T) {
	tests := []struct {
		name       string
		documentID string
		wantValid  bool
	}{
		{"valid", "doc-1", true},
		{"empty", "", false},
		{"surrounding whitespace", " doc-1 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := !ValidateDocumentID(tt.documentID).HasErrors(); got != tt.wantValid {
				t.Errorf("ValidateDocumentID(%q) valid = %v, want %v", tt.documentID, got, tt.wantValid)
			}
		})
	}
}

func TestValidateIndexSettings(t *testing.T) {
	t.Run("nil settings", func(t *testing.T) {
		if !ValidateIndexSettings(nil).HasErrors() {
			t.Error("Expected error for nil settings")
		}
	})

	t.Run("defaults are applied", func(t *testing.T) {
		settings := &config.IndexSettings{Name: "triples"}
		if result := ValidateIndexSettings(settings); result.HasErrors() {
			t.Fatalf("Expected valid settings, got %v", result.Errors)
		}
		if settings.BM25K1 != config.DefaultBM25K1 || settings.MaxFuzzyExpansions != config.DefaultMaxFuzzyExpansions {
			t.Errorf("Defaults not applied: %+v", settings)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		result := ValidateIndexSettings(&config.IndexSettings{})
		if !result.HasErrors() || result.Errors[0].Field != "name" {
			t.Errorf("Expected name error, got %v", result.Errors)
		}
	})

	t.Run("out of range values", func(t *testing.T) {
		result := ValidateIndexSettings(&config.IndexSettings{
			Name:               "triples",
			FuzzyMinSimilarity: 2,
			BM25B:              1.5,
			NonFuzzyTerms:      []string{"x", "x"},
		})
		if len(result.Errors) != 3 {
			t.Errorf("Expected 3 errors, got %v", result.Errors)
		}
	})
}

func TestValidateDocuments(t *testing.T) {
	tests := []struct {
		name       string
		docs       []model.Document
		wantErrors int
	}{
		{
			name:       "no documents",
			docs:       nil,
			wantErrors: 1,
		},
		{
			name: "valid text and tuple documents",
			docs: []model.Document{
				{DocumentID: "a", Text: `"aaa" .`},
				{DocumentID: "b", Tuples: []model.Tuple{{"aaa", "bbb"}}},
			},
		},
		{
			name:       "blank id",
			docs:       []model.Document{{DocumentID: "  ", Text: `"aaa" .`}},
			wantErrors: 1,
		},
		{
			name: "duplicate id in batch",
			docs: []model.Document{
				{DocumentID: "a", Text: `"aaa" .`},
				{DocumentID: "a", Text: `"bbb" .`},
			},
			wantErrors: 1,
		},
		{
			name:       "both text and tuples",
			docs:       []model.Document{{DocumentID: "a", Text: `"aaa" .`, Tuples: []model.Tuple{{"aaa"}}}},
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateDocuments(tt.docs)
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("Expected %d errors, got %v", tt.wantErrors, result.Errors)
			}
		})
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name                   string
		page, pageSize         int
		wantPage, wantPageSize int
		wantErrors             bool
	}{
		{"defaults", 0, 0, 1, 10, false},
		{"explicit values", 3, 25, 3, 25, false},
		{"page size capped", 1, 1000, 1, 100, false},
		{"negative page", -1, 10, -1, 10, true},
		{"negative page size", 1, -5, 1, -5, true},
		{"largest page", 1_000_000, 10, 1_000_000, 10, false},
		{"page too large", 1 << 61, 8, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pageSize, result := ValidatePagination(tt.page, tt.pageSize)
			if result.HasErrors() != tt.wantErrors {
				t.Fatalf("HasErrors = %v, want %v (%v)", result.HasErrors(), tt.wantErrors, result.Errors)
			}
			if tt.wantErrors {
				return
			}
			if page != tt.wantPage || pageSize != tt.wantPageSize {
				t.Errorf("got (%d, %d), want (%d, %d)", page, pageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestValidateRenameRequest(t *testing.T) {
	tests := []struct {
		name      string
		oldName   string
		newName   string
		wantValid bool
	}{
		{"valid rename", "old", "new", true},
		{"empty new name", "old", "", false},
		{"same name", "old", "old", false},
		{"whitespace", "old", " new", false},
		{"separator", "old", "x/y", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateRenameRequest(tt.oldName, tt.newName)
			if got := !result.HasErrors(); got != tt.wantValid {
				t.Errorf("valid = %v, want %v (%v)", got, tt.wantValid, result.Errors)
			}
		})
	}
}
