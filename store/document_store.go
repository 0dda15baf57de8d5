package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/gcbaptista/go-tuple-search/model"
)

// DocumentStore holds the indexed documents and the per-document statistics
// used for scoring. Methods other than the gob codec assume the caller holds Mu.
type DocumentStore struct {
	Mu                     sync.RWMutex
	Docs                   map[uint32]model.Document // Internal ID to full document
	ExternalIDtoInternalID map[string]uint32         // User-provided ID to internal uint32 ID
	DocLengths             map[uint32]int            // Internal ID to token count across all cells
	TotalLength            int64                     // Sum of DocLengths
	Live                   *roaring.Bitmap           // Internal IDs of stored documents
	NextID                 uint32
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		Docs:                   make(map[uint32]model.Document),
		ExternalIDtoInternalID: make(map[string]uint32),
		DocLengths:             make(map[uint32]int),
		Live:                   roaring.New(),
	}
}

// gobDocumentStoreData is a helper struct for Gob encoding/decoding DocumentStore data.
// It excludes the mutex; the live bitmap travels in its portable serialization.
type gobDocumentStoreData struct {
	Docs                   map[uint32]model.Document
	ExternalIDtoInternalID map[string]uint32
	DocLengths             map[uint32]int
	TotalLength            int64
	Live                   []byte
	NextID                 uint32
}

// GobEncode implements the gob.GobEncoder interface for DocumentStore.
func (ds *DocumentStore) GobEncode() ([]byte, error) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	live, err := ds.Live.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize live document bitmap: %w", err)
	}

	dataToEncode := gobDocumentStoreData{
		Docs:                   ds.Docs,
		ExternalIDtoInternalID: ds.ExternalIDtoInternalID,
		DocLengths:             ds.DocLengths,
		TotalLength:            ds.TotalLength,
		Live:                   live,
		NextID:                 ds.NextID,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, fmt.Errorf("failed to gob encode document store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for DocumentStore.
func (ds *DocumentStore) GobDecode(data []byte) error {
	decodedData := gobDocumentStoreData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode document store data: %w", err)
	}

	live := roaring.New()
	if len(decodedData.Live) > 0 {
		if err := live.UnmarshalBinary(decodedData.Live); err != nil {
			return fmt.Errorf("failed to decode live document bitmap: %w", err)
		}
	}

	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	ds.Docs = decodedData.Docs
	ds.ExternalIDtoInternalID = decodedData.ExternalIDtoInternalID
	ds.DocLengths = decodedData.DocLengths
	ds.TotalLength = decodedData.TotalLength
	ds.Live = live
	ds.NextID = decodedData.NextID

	// Ensure maps are initialized if they were nil after decoding
	if ds.Docs == nil {
		ds.Docs = make(map[uint32]model.Document)
	}
	if ds.ExternalIDtoInternalID == nil {
		ds.ExternalIDtoInternalID = make(map[string]uint32)
	}
	if ds.DocLengths == nil {
		ds.DocLengths = make(map[uint32]int)
	}
	return nil
}

// Put stores doc under a freshly assigned internal ID and returns it.
// The external ID must not already be present.
func (ds *DocumentStore) Put(doc model.Document, length int) uint32 {
	id := ds.NextID
	ds.NextID++

	ds.Docs[id] = doc
	ds.ExternalIDtoInternalID[doc.DocumentID] = id
	ds.DocLengths[id] = length
	ds.TotalLength += int64(length)
	ds.Live.Add(id)
	return id
}

// Remove deletes the document with the given internal ID.
func (ds *DocumentStore) Remove(id uint32) (model.Document, bool) {
	doc, ok := ds.Docs[id]
	if !ok {
		return model.Document{}, false
	}
	delete(ds.Docs, id)
	delete(ds.ExternalIDtoInternalID, doc.DocumentID)
	ds.TotalLength -= int64(ds.DocLengths[id])
	delete(ds.DocLengths, id)
	ds.Live.Remove(id)
	return doc, true
}

// Clear removes every document. Internal IDs are not reused.
func (ds *DocumentStore) Clear() {
	ds.Docs = make(map[uint32]model.Document)
	ds.ExternalIDtoInternalID = make(map[string]uint32)
	ds.DocLengths = make(map[uint32]int)
	ds.TotalLength = 0
	ds.Live.Clear()
}

// Lookup maps an external document ID to its internal ID.
func (ds *DocumentStore) Lookup(externalID string) (uint32, bool) {
	id, ok := ds.ExternalIDtoInternalID[externalID]
	return id, ok
}

// Count returns the number of stored documents.
func (ds *DocumentStore) Count() int {
	return int(ds.Live.GetCardinality())
}

// DocumentLength returns the token count of a document.
func (ds *DocumentStore) DocumentLength(id uint32) int {
	return ds.DocLengths[id]
}

// AverageLength returns the mean document length, or 0 for an empty store.
func (ds *DocumentStore) AverageLength() float64 {
	n := ds.Count()
	if n == 0 {
		return 0
	}
	return float64(ds.TotalLength) / float64(n)
}

// List returns up to limit documents in internal ID order, skipping the first offset.
func (ds *DocumentStore) List(offset, limit int) []model.Document {
	docs := make([]model.Document, 0)
	if limit <= 0 || offset < 0 || offset >= ds.Count() {
		return docs
	}

	it := ds.Live.Iterator()
	if offset > 0 {
		first, err := ds.Live.Select(uint32(offset))
		if err != nil {
			return docs
		}
		it.AdvanceIfNeeded(first)
	}
	for it.HasNext() && len(docs) < limit {
		docs = append(docs, ds.Docs[it.Next()])
	}
	return docs
}

// Filter returns the internal IDs of the given external IDs that are stored.
func (ds *DocumentStore) Filter(externalIDs []string) *roaring.Bitmap {
	bm := roaring.New()
	for _, externalID := range externalIDs {
		if id, ok := ds.ExternalIDtoInternalID[externalID]; ok {
			bm.Add(id)
		}
	}
	return bm
}
