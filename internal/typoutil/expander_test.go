package typoutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fuzzyDictionary = []string{"aaaaa", "aaaab", "aaabb", "aabbb", "abbbb", "bbbbb", "ddddd"}

func expansionTerms(expansions []Expansion) []string {
	terms := make([]string, len(expansions))
	for i, e := range expansions {
		terms[i] = e.Term
	}
	return terms
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name      string
		term      string
		candidate string
		prefix    int
		minSim    float64
		wantSim   float64
		wantOK    bool
	}{
		{"exact", "aaaaa", "aaaaa", 0, 0.5, 1, true},
		{"one edit of five", "aaaaa", "aaaab", 0, 0.5, 0.8, true},
		{"prefix makes edits cheaper", "aaaaccc", "aaaaaaa", 4, 0.5, 1 - 3.0/7.0, true},
		{"distance beyond threshold", "aaaaa", "bbbbb", 0, 0.5, 0, false},
		{"missing prefix", "student", "segment", 2, 0.5, 0, false},
		{"empty remainder uses prefix", "aaaaa", "aaaaa", 5, 0.5, 1, true},
		{"length gap too large", "1234569", "12345678911", 0, 0.9, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, ok := Similarity(tt.term, tt.candidate, tt.prefix, tt.minSim, false)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.wantSim, sim, 1e-9)
			}
		})
	}
}

func TestBoost(t *testing.T) {
	assert.InDelta(t, 1.0, Boost(1, 0.5), 1e-9)
	assert.InDelta(t, 0.6, Boost(0.8, 0.5), 1e-9)
	assert.Equal(t, 1.0, Boost(1, 1))
	assert.True(t, Accepts("lucene", "lucene", 1, 1))
	assert.False(t, Accepts("1234567891", "12345678911", 0.9, 0.9))
}

func TestExpander_Fuzziness(t *testing.T) {
	e := NewExpander(fuzzyDictionary, false)

	tests := []struct {
		term   string
		prefix int
		want   []string
	}{
		{"aaaaa", 0, []string{"aaaaa", "aaaab", "aaabb"}},
		{"aaaaa", 1, []string{"aaaaa", "aaaab", "aaabb"}},
		{"aaaaa", 2, []string{"aaaaa", "aaaab", "aaabb"}},
		{"aaaaa", 3, []string{"aaaaa", "aaaab", "aaabb"}},
		{"aaaaa", 4, []string{"aaaaa", "aaaab"}},
		{"aaaaa", 5, []string{"aaaaa"}},
		{"aaaaa", 6, []string{"aaaaa"}},
		{"bbbbb", 0, []string{"bbbbb", "abbbb", "aabbb"}},
		{"xxxxx", 0, []string{}},
		{"aaccc", 0, []string{}},
		{"aaaac", 0, []string{"aaaaa", "aaaab", "aaabb"}},
		{"aaaac", 3, []string{"aaaaa", "aaaab", "aaabb"}},
		{"aaaac", 4, []string{"aaaaa", "aaaab"}},
		{"aaaac", 5, []string{}},
		{"ddddX", 0, []string{"ddddd"}},
		{"ddddX", 4, []string{"ddddd"}},
		{"ddddX", 5, []string{}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/prefix%d", tt.term, tt.prefix), func(t *testing.T) {
			got := e.Expand(tt.term, 0.5, tt.prefix, 0)
			assert.Equal(t, tt.want, expansionTerms(got))
		})
	}
}

func TestExpander_MaxExpansionsKeepsBestCandidates(t *testing.T) {
	e := NewExpander(fuzzyDictionary, false)

	got := e.Expand("bbbbb", 0.5, 0, 2)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"bbbbb", "abbbb"}, expansionTerms(got))
	assert.InDelta(t, 1.0, got[0].Boost, 1e-9)
	assert.InDelta(t, 0.6, got[1].Boost, 1e-9)
}

func TestExpander_LongTerms(t *testing.T) {
	e := NewExpander([]string{"aaaaaaa", "segment"}, false)

	assert.Empty(t, e.Expand("xxxxx", 0.5, 0, 0))
	assert.Equal(t, []string{"aaaaaaa"}, expansionTerms(e.Expand("aaaaccc", 0.5, 0, 0)))
	assert.Equal(t, []string{"aaaaaaa"}, expansionTerms(e.Expand("aaaaccc", 0.5, 1, 0)))
	assert.Equal(t, []string{"aaaaaaa"}, expansionTerms(e.Expand("aaaaccc", 0.5, 4, 0)))
	assert.Empty(t, e.Expand("aaaaccc", 0.5, 5, 0))
	assert.Empty(t, e.Expand("aaacccc", 0.5, 0, 0))
	assert.Empty(t, e.Expand("aaacccc", 0.5, 2, 0))

	assert.Equal(t, []string{"segment"}, expansionTerms(e.Expand("student", 0.5, 0, 0)))
	assert.Equal(t, []string{"segment"}, expansionTerms(e.Expand("stellent", 0.5, 0, 0)))
	assert.Equal(t, []string{"segment"}, expansionTerms(e.Expand("student", 0.5, 1, 0)))
	assert.Equal(t, []string{"segment"}, expansionTerms(e.Expand("stellent", 0.5, 1, 0)))
	assert.Empty(t, e.Expand("student", 0.5, 2, 0))
	assert.Empty(t, e.Expand("stellent", 0.5, 2, 0))
	assert.Empty(t, e.Expand("student", 0.6, 0, 0))
}

func TestExpander_TokenLengths(t *testing.T) {
	e := NewExpander([]string{"12345678911", "segment"}, false)

	assert.Empty(t, e.Expand("1234569", 0.9, 0, 0))
	assert.Empty(t, e.Expand("1234567891", 0.9, 0, 0))
	assert.Equal(t, []string{"12345678911"}, expansionTerms(e.Expand("12345678911", 0.9, 0, 0)))
	assert.Empty(t, e.Expand("sdfsdfsdfsdf", 0.9, 0, 0))
}

func TestExpander_Transpositions(t *testing.T) {
	plain := NewExpander([]string{"search"}, false)
	damerau := NewExpander([]string{"search"}, true)

	// "serach" is two Levenshtein edits from "search" but one Damerau edit.
	assert.Empty(t, plain.Expand("serach", 0.7, 0, 0))
	got := damerau.Expand("serach", 0.7, 0, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "search", got[0].Term)
}

func TestExpander_UpdateInvalidatesCache(t *testing.T) {
	e := NewExpander([]string{"aaaaa"}, false)
	assert.Equal(t, []string{"aaaaa"}, expansionTerms(e.Expand("aaaab", 0.5, 0, 0)))

	e.UpdateIndexedTerms([]string{"aaaaa", "aaaab"})
	assert.Equal(t, 2, e.TermCount())
	assert.Equal(t, []string{"aaaab", "aaaaa"}, expansionTerms(e.Expand("aaaab", 0.5, 0, 0)))
}

func TestExpander_ConcurrentUse(t *testing.T) {
	e := NewExpander(fuzzyDictionary, false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if i == 0 && j%10 == 0 {
					e.UpdateIndexedTerms(fuzzyDictionary)
				}
				got := e.Expand("aaaaa", 0.5, 0, 0)
				assert.Len(t, got, 3)
			}
		}(i)
	}
	wg.Wait()
}
