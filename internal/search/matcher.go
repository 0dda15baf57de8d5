package search

import "github.com/gcbaptista/go-tuple-search/index"

// scope is the granularity at which a matcher reports matches.
type scope int

const (
	// docScope matchers report one match per document; coordinates are index.DocCoord values.
	docScope scope = iota
	// cellScope matchers report one match per (document, tuple, cell).
	cellScope
)

// project maps an occurrence coordinate onto the scope's coordinate.
func (s scope) project(c index.Coord) index.Coord {
	if s == docScope {
		return index.DocCoord(c.Doc)
	}
	return c
}

// matcher enumerates matches in ascending coordinate order.
//
// A matcher starts unpositioned. next moves to the first or following match.
// advance moves to the first match at or after target; it does nothing when
// the matcher already sits at or after target. Both report false once the
// matcher is exhausted, which is final. coord and score are only meaningful
// after a call that returned true.
type matcher interface {
	next() bool
	advance(target index.Coord) bool
	coord() index.Coord
	score() float64
}

type childState int

const (
	unstarted childState = iota
	positioned
	exhausted
)

// child tracks the state of a sub-matcher on behalf of its parent.
type child struct {
	m     matcher
	state childState
}

func newChild(m matcher) *child {
	return &child{m: m}
}

func (c *child) update(ok bool) bool {
	if ok {
		c.state = positioned
	} else {
		c.state = exhausted
	}
	return ok
}

func (c *child) nextMatch() bool {
	if c.state == exhausted {
		return false
	}
	return c.update(c.m.next())
}

func (c *child) advanceTo(target index.Coord) bool {
	if c.state == exhausted {
		return false
	}
	return c.update(c.m.advance(target))
}

// at moves the child to target or past it and reports whether it matches exactly at target.
func (c *child) at(target index.Coord) bool {
	return c.advanceTo(target) && c.m.coord() == target
}

// sitsAt reports whether the child is positioned exactly on target, without moving it.
func (c *child) sitsAt(target index.Coord) bool {
	return c.state == positioned && c.m.coord() == target
}

// emptyMatcher never matches.
type emptyMatcher struct{}

func (emptyMatcher) next() bool               { return false }
func (emptyMatcher) advance(index.Coord) bool { return false }
func (emptyMatcher) coord() index.Coord       { return index.Coord{} }
func (emptyMatcher) score() float64           { return 0 }
