package store

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-tuple-search/model"
)

func newStoreWith(ids ...string) *DocumentStore {
	ds := NewDocumentStore()
	for i, id := range ids {
		ds.Put(model.Document{DocumentID: id, Tuples: []model.Tuple{{"aaa"}}}, i+1)
	}
	return ds
}

func TestDocumentStore_PutRemove(t *testing.T) {
	ds := newStoreWith("d1", "d2", "d3")

	assert.Equal(t, 3, ds.Count())
	assert.Equal(t, int64(6), ds.TotalLength)
	assert.InDelta(t, 2.0, ds.AverageLength(), 1e-9)

	id, ok := ds.Lookup("d2")
	require.True(t, ok)
	assert.Equal(t, uint32(1), id)
	assert.Equal(t, 2, ds.DocumentLength(id))

	doc, ok := ds.Remove(id)
	require.True(t, ok)
	assert.Equal(t, "d2", doc.DocumentID)
	assert.Equal(t, 2, ds.Count())
	assert.Equal(t, int64(4), ds.TotalLength)
	_, ok = ds.Lookup("d2")
	assert.False(t, ok)

	_, ok = ds.Remove(id)
	assert.False(t, ok, "second removal is a no-op")

	next := ds.Put(model.Document{DocumentID: "d2"}, 1)
	assert.Equal(t, uint32(3), next, "internal IDs are never reused")
}

func TestDocumentStore_List(t *testing.T) {
	ds := newStoreWith("d0", "d1", "d2", "d3", "d4")
	ds.Remove(1)

	ids := func(docs []model.Document) []string {
		out := make([]string, len(docs))
		for i, d := range docs {
			out[i] = d.DocumentID
		}
		return out
	}

	assert.Equal(t, []string{"d0", "d2", "d3", "d4"}, ids(ds.List(0, 10)))
	assert.Equal(t, []string{"d2", "d3"}, ids(ds.List(1, 2)))
	assert.Equal(t, []string{"d4"}, ids(ds.List(3, 2)))
	assert.Empty(t, ds.List(4, 2))
	assert.Empty(t, ds.List(0, 0))
}

func TestDocumentStore_FilterAndClear(t *testing.T) {
	ds := newStoreWith("d0", "d1", "d2")

	bm := ds.Filter([]string{"d2", "missing", "d0"})
	assert.Equal(t, []uint32{0, 2}, bm.ToArray())

	ds.Clear()
	assert.Equal(t, 0, ds.Count())
	assert.Equal(t, 0.0, ds.AverageLength())
	assert.Equal(t, uint32(3), ds.NextID)
}

func TestDocumentStore_GobRoundTrip(t *testing.T) {
	ds := newStoreWith("d0", "d1", "d2")
	ds.Remove(0)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(ds))

	decoded := &DocumentStore{}
	require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))

	assert.Equal(t, 2, decoded.Count())
	assert.Equal(t, ds.Docs, decoded.Docs)
	assert.Equal(t, ds.TotalLength, decoded.TotalLength)
	assert.Equal(t, uint32(3), decoded.NextID)
	assert.Equal(t, []uint32{1, 2}, decoded.Live.ToArray())
}
