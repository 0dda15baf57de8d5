package index

// Coord addresses a cell: (document, tuple-index, cell-index).
// At document scope only Doc is meaningful and Tuple/Cell are zero.
type Coord struct {
	Doc   uint32
	Tuple uint32
	Cell  uint32
}

// DocCoord returns the document-scope coordinate for doc.
func DocCoord(doc uint32) Coord {
	return Coord{Doc: doc}
}

// Compare orders coordinates by (Doc, Tuple, Cell).
func (c Coord) Compare(o Coord) int {
	switch {
	case c.Doc != o.Doc:
		if c.Doc < o.Doc {
			return -1
		}
		return 1
	case c.Tuple != o.Tuple:
		if c.Tuple < o.Tuple {
			return -1
		}
		return 1
	case c.Cell != o.Cell:
		if c.Cell < o.Cell {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether c sorts before o.
func (c Coord) Less(o Coord) bool {
	return c.Compare(o) < 0
}

// Occurrence is a single term at an exact (document, tuple, cell, position) coordinate.
type Occurrence struct {
	Coord
	Position int
	Term     string
}

// PostingEntry records the positions of a term inside one cell.
type PostingEntry struct {
	DocID     uint32 // Internal numeric document ID
	Tuple     uint32 // 0-based tuple index within the document
	Cell      uint32 // 0-based cell index within the tuple
	Positions []int  // Ascending token positions within the cell
}

// Coord returns the cell coordinate of the entry.
func (e PostingEntry) Coord() Coord {
	return Coord{Doc: e.DocID, Tuple: e.Tuple, Cell: e.Cell}
}

// PostingList is a slice of PostingEntry sorted by (DocID, Tuple, Cell).
// Internal document IDs are assigned in increasing order, so appending the
// entries of a newly indexed document keeps the list sorted.
type PostingList []PostingEntry

// DocFreq returns the number of distinct documents in the list.
func (pl PostingList) DocFreq() int {
	n := 0
	for i := range pl {
		if i == 0 || pl[i].DocID != pl[i-1].DocID {
			n++
		}
	}
	return n
}

// TermFreq returns the total number of occurrences in the list.
func (pl PostingList) TermFreq() int {
	n := 0
	for _, e := range pl {
		n += len(e.Positions)
	}
	return n
}

// WithoutDocument returns the list minus the entries of doc. The receiver is not modified.
func (pl PostingList) WithoutDocument(doc uint32) PostingList {
	out := make(PostingList, 0, len(pl))
	for _, e := range pl {
		if e.DocID != doc {
			out = append(out, e)
		}
	}
	return out
}
