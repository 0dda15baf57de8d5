package search

import (
	"math"

	"github.com/gcbaptista/go-tuple-search/config"
	"github.com/gcbaptista/go-tuple-search/index"
	"github.com/gcbaptista/go-tuple-search/store"
)

// BM25Calculator handles BM25 score calculations.
// It reads index and store statistics without locking; the caller holds the read locks.
type BM25Calculator struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	k1            float64
	b             float64
}

// NewBM25Calculator creates a new BM25 calculator using k1 and b from settings.
// A nil settings or a non-positive parameter falls back to the usual defaults.
func NewBM25Calculator(invIndex *index.InvertedIndex, docStore *store.DocumentStore, settings *config.IndexSettings) *BM25Calculator {
	calc := &BM25Calculator{
		invertedIndex: invIndex,
		documentStore: docStore,
		k1:            1.2,
		b:             0.75,
	}
	if s := settings; s != nil {
		if s.BM25K1 > 0 {
			calc.k1 = s.BM25K1
		}
		if s.BM25B > 0 {
			calc.b = s.BM25B
		}
	}
	return calc
}

// IDF calculates the inverse document frequency of term.
// IDF = log(1 + (N - df + 0.5) / (df + 0.5)), which stays positive even for
// terms present in every document.
func (calc *BM25Calculator) IDF(term string) float64 {
	totalDocs := float64(calc.documentStore.Count())
	if totalDocs == 0 {
		return 0.0
	}
	docFreq := float64(calc.invertedIndex.DocFreq(term))
	if docFreq == 0 {
		return 0.0
	}
	return math.Log(1 + (totalDocs-docFreq+0.5)/(docFreq+0.5))
}

// TermWeight returns the BM25 term-frequency component for tf occurrences in docID.
// BM25 = IDF * (tf * (k1 + 1)) / (tf + k1 * (1 - b + b * (|d| / avgdl)))
func (calc *BM25Calculator) TermWeight(docID uint32, termFreq float64) float64 {
	if termFreq <= 0 {
		return 0.0
	}
	norm := 1.0
	if avgDocLength := calc.documentStore.AverageLength(); avgDocLength > 0 {
		docLength := float64(calc.documentStore.DocumentLength(docID))
		norm = 1 - calc.b + calc.b*(docLength/avgDocLength)
	}
	return (termFreq * (calc.k1 + 1)) / (termFreq + calc.k1*norm)
}
