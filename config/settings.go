// Package config provides configuration structures for the search engine.
// It defines per-index settings (tokenization, term expansion, scoring) and
// the process-level application configuration.
package config

import (
	"strings"
)

// Defaults for term expansion and scoring.
const (
	DefaultFuzzyMinSimilarity = 0.5
	DefaultFuzzyPrefixLength  = 0
	DefaultMaxFuzzyExpansions = 1024
	DefaultBM25K1             = 1.2
	DefaultBM25B              = 0.75
)

// IndexSettings contains all configuration options for a search index.
type IndexSettings struct {
	Name string `json:"name"` // Unique name for the index

	// Term expansion (fuzzy) defaults, used when a fuzzy query leaves them unset.
	FuzzyMinSimilarity  float64  `json:"fuzzy_min_similarity"` // Minimum similarity in [0,1] (e.g., 0.5)
	FuzzyPrefixLength   int      `json:"fuzzy_prefix_length"`  // Leading characters that must match exactly
	MaxFuzzyExpansions  int      `json:"max_fuzzy_expansions"` // Upper bound on candidate terms per fuzzy query
	FuzzyTranspositions bool     `json:"fuzzy_transpositions"` // Count a swap of adjacent characters as one edit
	NonFuzzyTerms       []string `json:"non_fuzzy_terms"`      // Terms never expanded (matched literally only)

	// Tokenization
	StripMailto bool `json:"strip_mailto"` // Index <mailto:user@host> URI cells as "user@host"

	// Scoring
	BM25K1 float64 `json:"bm25_k1"` // Term frequency saturation
	BM25B  float64 `json:"bm25_b"`  // Document length normalization
}

// Validate returns a list of problems with the settings; empty means valid.
func (settings *IndexSettings) Validate() []string {
	var problems []string

	if strings.TrimSpace(settings.Name) == "" {
		problems = append(problems, "Index name cannot be empty or whitespace-only")
	}
	if settings.FuzzyMinSimilarity < 0 || settings.FuzzyMinSimilarity > 1 {
		problems = append(problems, "fuzzy_min_similarity must be between 0 and 1")
	}
	if settings.FuzzyPrefixLength < 0 {
		problems = append(problems, "fuzzy_prefix_length cannot be negative")
	}
	if settings.MaxFuzzyExpansions < 0 {
		problems = append(problems, "max_fuzzy_expansions cannot be negative")
	}
	if settings.BM25K1 < 0 {
		problems = append(problems, "bm25_k1 cannot be negative")
	}
	if settings.BM25B < 0 || settings.BM25B > 1 {
		problems = append(problems, "bm25_b must be between 0 and 1")
	}
	problems = append(problems, checkDuplicates("non_fuzzy_terms", settings.NonFuzzyTerms)...)
	for _, term := range settings.NonFuzzyTerms {
		if strings.TrimSpace(term) == "" {
			problems = append(problems, "Term in non_fuzzy_terms cannot be empty or whitespace-only")
		}
	}

	return problems
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, values []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, v := range values {
		if seen[v] {
			errors = append(errors, "Duplicate value '"+v+"' found in "+fieldName)
		}
		seen[v] = true
	}

	return errors
}

// ApplyDefaults applies default values to the index settings.
// A zero FuzzyMinSimilarity is kept as given only when other fuzzy settings are set,
// so an all-zero settings value gets the full default set.
func (settings *IndexSettings) ApplyDefaults() {
	if settings.FuzzyMinSimilarity == 0 && settings.FuzzyPrefixLength == 0 && settings.MaxFuzzyExpansions == 0 {
		settings.FuzzyMinSimilarity = DefaultFuzzyMinSimilarity
	}
	if settings.MaxFuzzyExpansions == 0 {
		settings.MaxFuzzyExpansions = DefaultMaxFuzzyExpansions
	}
	if settings.BM25K1 == 0 {
		settings.BM25K1 = DefaultBM25K1
	}
	if settings.BM25B == 0 {
		settings.BM25B = DefaultBM25B
	}

	if settings.NonFuzzyTerms == nil {
		settings.NonFuzzyTerms = []string{}
	}
}

// IsNonFuzzyTerm reports whether term must never be expanded.
func (settings *IndexSettings) IsNonFuzzyTerm(term string) bool {
	for _, t := range settings.NonFuzzyTerms {
		if strings.EqualFold(t, term) {
			return true
		}
	}
	return false
}
