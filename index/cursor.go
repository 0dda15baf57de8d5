package index

import "sort"

// Cursor is a forward-only iterator over the occurrences of one term,
// ordered by (document, tuple, cell, position). A Cursor is not safe for
// concurrent use and can be abandoned at any point.
type Cursor struct {
	term     string
	postings PostingList
	entry    int // index into postings
	pos      int // index into postings[entry].Positions
}

// NewCursor returns a cursor positioned on the first occurrence of the list.
// An empty list yields an exhausted cursor.
func NewCursor(term string, postings PostingList) *Cursor {
	c := &Cursor{term: term, postings: postings}
	c.skipEmpty()
	return c
}

// Term returns the literal term the cursor iterates.
func (c *Cursor) Term() string {
	return c.term
}

// Valid reports whether the cursor is positioned on an occurrence.
func (c *Cursor) Valid() bool {
	return c.entry < len(c.postings)
}

// Current returns the occurrence under the cursor. It must only be called while Valid.
func (c *Cursor) Current() Occurrence {
	e := c.postings[c.entry]
	return Occurrence{
		Coord:    e.Coord(),
		Position: e.Positions[c.pos],
		Term:     c.term,
	}
}

// Coord returns the cell coordinate under the cursor. It must only be called while Valid.
func (c *Cursor) Coord() Coord {
	return c.postings[c.entry].Coord()
}

// Next moves to the following occurrence and reports whether one exists.
func (c *Cursor) Next() bool {
	if !c.Valid() {
		return false
	}
	c.pos++
	if c.pos >= len(c.postings[c.entry].Positions) {
		c.entry++
		c.pos = 0
		c.skipEmpty()
	}
	return c.Valid()
}

// CellFrequency returns the number of occurrences left in the current cell,
// counting the one under the cursor. It is 0 once the cursor is exhausted.
func (c *Cursor) CellFrequency() int {
	if !c.Valid() {
		return 0
	}
	return len(c.postings[c.entry].Positions) - c.pos
}

// NextCell moves to the first occurrence of the following cell.
func (c *Cursor) NextCell() bool {
	if !c.Valid() {
		return false
	}
	c.entry++
	c.pos = 0
	c.skipEmpty()
	return c.Valid()
}

// AdvanceToDocument moves to the first occurrence in a document >= doc.
// The cursor never moves backwards.
func (c *Cursor) AdvanceToDocument(doc uint32) bool {
	return c.AdvanceTo(DocCoord(doc))
}

// AdvanceTo moves to the first occurrence whose cell coordinate is >= target.
// The cursor never moves backwards.
func (c *Cursor) AdvanceTo(target Coord) bool {
	if !c.Valid() {
		return false
	}
	if !c.Coord().Less(target) {
		return true
	}
	rest := c.postings[c.entry+1:]
	i := sort.Search(len(rest), func(i int) bool {
		return !rest[i].Coord().Less(target)
	})
	c.entry += 1 + i
	c.pos = 0
	c.skipEmpty()
	return c.Valid()
}

func (c *Cursor) skipEmpty() {
	for c.entry < len(c.postings) && len(c.postings[c.entry].Positions) == 0 {
		c.entry++
	}
}
