package search

import "github.com/gcbaptista/go-tuple-search/index"

// termScorer turns a term frequency within a document into a score.
type termScorer func(doc uint32, tf int) float64

// termMatcher reports one match per scope coordinate holding the term, with
// the number of occurrences at that coordinate as term frequency.
type termMatcher struct {
	cursor *index.Cursor
	scope  scope
	scorer termScorer

	cur       index.Coord
	tf        int
	started   bool
	exhausted bool
}

func newTermMatcher(cursor *index.Cursor, sc scope, scorer termScorer) *termMatcher {
	return &termMatcher{cursor: cursor, scope: sc, scorer: scorer}
}

func (m *termMatcher) next() bool {
	if m.exhausted {
		return false
	}
	m.started = true
	return m.collect()
}

func (m *termMatcher) advance(target index.Coord) bool {
	if m.exhausted {
		return false
	}
	if m.started && !m.cur.Less(target) {
		return true
	}
	m.started = true
	// The cursor already sits past the current group, so it never needs to move back.
	m.cursor.AdvanceTo(target)
	return m.collect()
}

// collect consumes the group of occurrences sharing the cursor's scope
// coordinate, leaving the cursor on the first occurrence after it.
func (m *termMatcher) collect() bool {
	if !m.cursor.Valid() {
		m.exhausted = true
		return false
	}
	m.cur = m.scope.project(m.cursor.Coord())
	m.tf = 0
	for m.cursor.Valid() && m.scope.project(m.cursor.Coord()) == m.cur {
		m.tf += m.cursor.CellFrequency()
		m.cursor.NextCell()
	}
	return true
}

func (m *termMatcher) coord() index.Coord {
	return m.cur
}

func (m *termMatcher) score() float64 {
	return m.scorer(m.cur.Doc, m.tf)
}
