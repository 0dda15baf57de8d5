package typoutil

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Expansion is a dictionary term accepted for a fuzzy query term, with its
// boost in (0, 1].
type Expansion struct {
	Term  string
	Boost float64
}

// Expander finds dictionary terms similar to a query term. It is safe for
// concurrent use: results are cached until the dictionary changes, and
// identical concurrent requests share a single computation.
type Expander struct {
	mu             sync.RWMutex
	indexedTerms   []string // sorted ascending
	generation     uint64   // bumped on every dictionary update
	transpositions bool

	// Cache for frequently requested expansions.
	// Key: term + parameters, Value: ranked expansions
	cache   map[string][]Expansion
	cacheMu sync.RWMutex

	// Cache size limit to prevent memory bloat
	maxCacheSize int

	group singleflight.Group
}

// NewExpander creates an expander over the given dictionary.
func NewExpander(indexedTerms []string, transpositions bool) *Expander {
	e := &Expander{
		transpositions: transpositions,
		cache:          make(map[string][]Expansion),
		maxCacheSize:   1000, // Limit cache to 1000 entries
	}
	e.UpdateIndexedTerms(indexedTerms)
	return e
}

// UpdateIndexedTerms replaces the dictionary (call when index changes).
func (e *Expander) UpdateIndexedTerms(indexedTerms []string) {
	terms := make([]string, len(indexedTerms))
	copy(terms, indexedTerms)
	sort.Strings(terms)

	e.mu.Lock()
	e.indexedTerms = terms
	e.generation++
	e.mu.Unlock()

	// Clear cache as it's now invalid
	e.cacheMu.Lock()
	e.cache = make(map[string][]Expansion)
	e.cacheMu.Unlock()
}

// TermCount returns the dictionary size.
func (e *Expander) TermCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.indexedTerms)
}

// Expand returns the dictionary terms accepted for term, ranked by boost
// descending then term ascending, at most maxExpansions of them (no limit
// when maxExpansions <= 0). The returned slice is shared and must not be
// modified.
func (e *Expander) Expand(term string, minSimilarity float64, prefixLength, maxExpansions int) []Expansion {
	if term == "" {
		return []Expansion{}
	}

	key := fmt.Sprintf("%s\x00%g\x00%d\x00%d", term, minSimilarity, prefixLength, maxExpansions)

	e.cacheMu.RLock()
	if cached, exists := e.cache[key]; exists {
		e.cacheMu.RUnlock()
		return cached
	}
	e.cacheMu.RUnlock()

	v, _, _ := e.group.Do(key, func() (any, error) {
		e.mu.RLock()
		terms, generation := e.indexedTerms, e.generation
		e.mu.RUnlock()

		expansions := rankExpansions(terms, term, minSimilarity, prefixLength, maxExpansions, e.transpositions)

		e.mu.RLock()
		stale := generation != e.generation
		e.mu.RUnlock()

		// Cache result if the dictionary did not change meanwhile and the cache isn't too large
		e.cacheMu.Lock()
		if !stale && len(e.cache) < e.maxCacheSize {
			e.cache[key] = expansions
		}
		e.cacheMu.Unlock()
		return expansions, nil
	})
	return v.([]Expansion)
}

// rankExpansions scans the slice of sorted terms sharing the required prefix.
func rankExpansions(terms []string, term string, minSimilarity float64, prefixLength, maxExpansions int, transpositions bool) []Expansion {
	termRunes := []rune(term)
	prefix := prefixLength
	if prefix > len(termRunes) {
		prefix = len(termRunes)
	}
	if prefix < 0 {
		prefix = 0
	}
	prefixStr := string(termRunes[:prefix])

	expansions := make([]Expansion, 0)
	for i := sort.SearchStrings(terms, prefixStr); i < len(terms); i++ {
		candidate := terms[i]
		if !strings.HasPrefix(candidate, prefixStr) {
			break
		}
		similarity, ok := Similarity(term, candidate, prefix, minSimilarity, transpositions)
		if !ok || !Accepts(term, candidate, similarity, minSimilarity) {
			continue
		}
		if term == candidate {
			similarity = 1
		}
		expansions = append(expansions, Expansion{Term: candidate, Boost: Boost(similarity, minSimilarity)})
	}

	sort.Slice(expansions, func(i, j int) bool {
		if expansions[i].Boost != expansions[j].Boost {
			return expansions[i].Boost > expansions[j].Boost
		}
		return expansions[i].Term < expansions[j].Term
	})

	if maxExpansions > 0 && len(expansions) > maxExpansions {
		expansions = expansions[:maxExpansions]
	}
	return expansions
}
