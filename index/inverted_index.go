package index

import (
	"bytes"
	"encoding/gob"
	"sort"
	"sync"

	"github.com/gcbaptista/go-tuple-search/config"
)

// InvertedIndex maps a term to the cells containing it, in coordinate order.
type InvertedIndex struct {
	Mu       sync.RWMutex
	Index    map[string]PostingList
	Settings *config.IndexSettings // Reference to settings for this index
}

// NewInvertedIndex creates an empty index bound to settings.
func NewInvertedIndex(settings *config.IndexSettings) *InvertedIndex {
	return &InvertedIndex{
		Index:    make(map[string]PostingList),
		Settings: settings,
	}
}

// gobInvertedIndexData is a helper struct for Gob encoding/decoding InvertedIndex data.
// It excludes the mutex.
type gobInvertedIndexData struct {
	Index    map[string]PostingList
	Settings *config.IndexSettings
}

// GobEncode implements the gob.GobEncoder interface for InvertedIndex.
func (ii *InvertedIndex) GobEncode() ([]byte, error) {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()

	dataToEncode := gobInvertedIndexData{
		Index:    ii.Index,
		Settings: ii.Settings,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for InvertedIndex.
func (ii *InvertedIndex) GobDecode(data []byte) error {
	decodedData := gobInvertedIndexData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	ii.Mu.Lock()
	defer ii.Mu.Unlock()

	ii.Index = decodedData.Index
	ii.Settings = decodedData.Settings

	if ii.Index == nil {
		ii.Index = make(map[string]PostingList)
	}
	return nil
}

// The methods below assume the caller holds Mu.

// Postings returns the posting list of term, or nil.
func (ii *InvertedIndex) Postings(term string) PostingList {
	return ii.Index[term]
}

// Append adds entries for term. Entries must sort after every entry already present.
func (ii *InvertedIndex) Append(term string, entries ...PostingEntry) {
	ii.Index[term] = append(ii.Index[term], entries...)
}

// RemoveDocument drops the entries of doc from the given terms' posting lists,
// deleting terms left without postings.
func (ii *InvertedIndex) RemoveDocument(doc uint32, terms []string) {
	for _, term := range terms {
		pl, ok := ii.Index[term]
		if !ok {
			continue
		}
		pl = pl.WithoutDocument(doc)
		if len(pl) == 0 {
			delete(ii.Index, term)
			continue
		}
		ii.Index[term] = pl
	}
}

// Terms returns the dictionary in ascending order.
func (ii *InvertedIndex) Terms() []string {
	terms := make([]string, 0, len(ii.Index))
	for term := range ii.Index {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// DocFreq returns the number of documents containing term.
func (ii *InvertedIndex) DocFreq(term string) int {
	return ii.Index[term].DocFreq()
}
