package search

import (
	"container/heap"
	"context"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/gcbaptista/go-tuple-search/index"
)

// scoredDoc is a matching document with its final score.
type scoredDoc struct {
	doc   uint32
	score float64
}

// ranksBefore orders hits by score descending, then internal ID ascending.
func (a scoredDoc) ranksBefore(b scoredDoc) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.doc < b.doc
}

// hitHeap keeps the worst retained hit at the root.
type hitHeap []scoredDoc

func (h hitHeap) Len() int           { return len(h) }
func (h hitHeap) Less(i, j int) bool { return h[j].ranksBefore(h[i]) }
func (h hitHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *hitHeap) Push(x any)        { *h = append(*h, x.(scoredDoc)) }
func (h *hitHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Cancellation is checked once per this many matched documents.
const cancelCheckInterval = 1024

// collector drains a document-scope matcher, counting every match and
// keeping the best k.
type collector struct {
	k     int
	top   hitHeap
	total int
}

func newCollector(k int) *collector {
	return &collector{k: k}
}

func (c *collector) collect(doc uint32, score float64) {
	c.total++
	if c.k <= 0 {
		return
	}
	hit := scoredDoc{doc: doc, score: score}
	if len(c.top) < c.k {
		heap.Push(&c.top, hit)
		return
	}
	if hit.ranksBefore(c.top[0]) {
		c.top[0] = hit
		heap.Fix(&c.top, 0)
	}
}

// run iterates root to exhaustion. A non-nil filter restricts matches to its
// internal IDs: the filter and the matcher skip ahead over each other.
func (c *collector) run(ctx context.Context, root matcher, filter *roaring.Bitmap) error {
	if filter == nil {
		for root.next() {
			c.collect(root.coord().Doc, root.score())
			if c.total%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
		}
		return nil
	}

	it := filter.Iterator()
	for it.HasNext() {
		target := it.PeekNext()
		if !root.advance(index.DocCoord(target)) {
			return nil
		}
		doc := root.coord().Doc
		if doc != target {
			it.AdvanceIfNeeded(doc)
			continue
		}
		c.collect(doc, root.score())
		it.Next()
		if c.total%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// ranked returns the retained hits, best first.
func (c *collector) ranked() []scoredDoc {
	out := make([]scoredDoc, len(c.top))
	copy(out, c.top)
	sort.Slice(out, func(i, j int) bool { return out[i].ranksBefore(out[j]) })
	return out
}
