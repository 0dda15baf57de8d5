package search

import "github.com/gcbaptista/go-tuple-search/index"

// booleanMatcher combines child matchers of one scope.
//
// With required children the candidates come from leapfrogging them onto a
// common coordinate. Without, the candidates are the union of the optional
// children. Any prohibited child present at a candidate rejects it. A matcher
// with neither required nor optional children never matches.
type booleanMatcher struct {
	required   []*child
	optional   []*child
	prohibited []*child

	cur       index.Coord
	started   bool
	exhausted bool
}

func newBooleanMatcher(required, optional, prohibited []matcher) *booleanMatcher {
	m := &booleanMatcher{}
	for _, c := range required {
		m.required = append(m.required, newChild(c))
	}
	for _, c := range optional {
		m.optional = append(m.optional, newChild(c))
	}
	for _, c := range prohibited {
		m.prohibited = append(m.prohibited, newChild(c))
	}
	if len(m.required) == 0 && len(m.optional) == 0 {
		m.exhausted = true
	}
	return m
}

func (m *booleanMatcher) next() bool {
	if m.exhausted {
		return false
	}
	if len(m.required) == 0 {
		if !m.started {
			m.started = true
			for _, c := range m.optional {
				c.nextMatch()
			}
		} else {
			for _, c := range m.optional {
				if c.sitsAt(m.cur) {
					c.nextMatch()
				}
			}
		}
		return m.settleDisjunction()
	}

	target := index.Coord{}
	if m.started {
		lead := m.required[0]
		if !lead.nextMatch() {
			return m.exhaust()
		}
		target = lead.m.coord()
	}
	m.started = true
	return m.alignFrom(target)
}

func (m *booleanMatcher) advance(target index.Coord) bool {
	if m.exhausted {
		return false
	}
	if m.started && !m.cur.Less(target) {
		return true
	}
	m.started = true
	if len(m.required) == 0 {
		for _, c := range m.optional {
			c.advanceTo(target)
		}
		return m.settleDisjunction()
	}
	return m.alignFrom(target)
}

// alignFrom moves every required child onto the smallest common coordinate
// at or after target that no prohibited child rejects.
func (m *booleanMatcher) alignFrom(target index.Coord) bool {
	for {
		aligned := true
		for _, c := range m.required {
			if !c.advanceTo(target) {
				return m.exhaust()
			}
			if co := c.m.coord(); target.Less(co) {
				target = co
				aligned = false
				break
			}
		}
		if !aligned {
			continue
		}
		if m.excluded(target) {
			lead := m.required[0]
			if !lead.nextMatch() {
				return m.exhaust()
			}
			target = lead.m.coord()
			continue
		}
		m.cur = target
		return true
	}
}

// settleDisjunction picks the smallest coordinate among the optional
// children, skipping coordinates a prohibited child rejects.
func (m *booleanMatcher) settleDisjunction() bool {
	for {
		found := false
		var lowest index.Coord
		for _, c := range m.optional {
			if c.state != positioned {
				continue
			}
			if co := c.m.coord(); !found || co.Less(lowest) {
				lowest = co
				found = true
			}
		}
		if !found {
			return m.exhaust()
		}
		if m.excluded(lowest) {
			for _, c := range m.optional {
				if c.sitsAt(lowest) {
					c.nextMatch()
				}
			}
			continue
		}
		m.cur = lowest
		return true
	}
}

func (m *booleanMatcher) excluded(target index.Coord) bool {
	for _, c := range m.prohibited {
		if c.at(target) {
			return true
		}
	}
	return false
}

func (m *booleanMatcher) exhaust() bool {
	m.exhausted = true
	return false
}

func (m *booleanMatcher) coord() index.Coord {
	return m.cur
}

// score sums the required children and the optional children present at the
// current coordinate.
func (m *booleanMatcher) score() float64 {
	total := 0.0
	for _, c := range m.required {
		total += c.m.score()
	}
	for _, c := range m.optional {
		if c.at(m.cur) {
			total += c.m.score()
		}
	}
	return total
}
