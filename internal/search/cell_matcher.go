package search

import (
	"math"

	"github.com/gcbaptista/go-tuple-search/index"
	"github.com/gcbaptista/go-tuple-search/internal/query"
)

// cellMatcher matches the documents having at least one cell in which the
// cell-scope inner matcher holds. The document score is the sum of the scores
// of its satisfying cells. With a constraint k only cells with index k count.
type cellMatcher struct {
	inner      *child
	constraint int

	cur       index.Coord
	sum       float64
	started   bool
	exhausted bool
}

func newCellMatcher(inner matcher, constraint int) *cellMatcher {
	return &cellMatcher{inner: newChild(inner), constraint: constraint}
}

func (m *cellMatcher) next() bool {
	if m.exhausted {
		return false
	}
	if !m.started {
		m.started = true
		m.inner.nextMatch()
	}
	return m.gather()
}

func (m *cellMatcher) advance(target index.Coord) bool {
	if m.exhausted {
		return false
	}
	if m.started && !m.cur.Less(target) {
		return true
	}
	m.started = true
	m.inner.advanceTo(index.DocCoord(target.Doc))
	return m.gather()
}

// gather sums the satisfying cells of the document the inner matcher is in,
// leaving the inner matcher on the first satisfying cell of a later document.
func (m *cellMatcher) gather() bool {
	if !m.settleCell() {
		m.exhausted = true
		return false
	}
	doc := m.inner.m.coord().Doc
	m.cur = index.DocCoord(doc)
	m.sum = 0
	for m.inner.state == positioned && m.inner.m.coord().Doc == doc {
		m.sum += m.inner.m.score()
		m.inner.nextMatch()
		m.settleCell()
	}
	return true
}

// settleCell moves the inner matcher forward until it sits on a cell allowed
// by the constraint, and reports whether it found one.
func (m *cellMatcher) settleCell() bool {
	if m.constraint == query.NoConstraint {
		return m.inner.state == positioned
	}
	if m.constraint < 0 || m.constraint > math.MaxUint32 {
		// No cell can carry this index.
		return false
	}
	k := uint32(m.constraint)
	for m.inner.state == positioned {
		c := m.inner.m.coord()
		switch {
		case c.Cell == k:
			return true
		case c.Cell < k:
			m.inner.advanceTo(index.Coord{Doc: c.Doc, Tuple: c.Tuple, Cell: k})
		default:
			m.inner.advanceTo(index.Coord{Doc: c.Doc, Tuple: c.Tuple + 1, Cell: k})
		}
	}
	return false
}

func (m *cellMatcher) coord() index.Coord {
	return m.cur
}

func (m *cellMatcher) score() float64 {
	return m.sum
}
