package model

import "strings"

// Tuple is an ordered list of cells. Each cell holds the raw text of one column
// (e.g. subject, predicate, object). A cell written as "<...>" is a URI cell.
type Tuple []string

// Document is a structured document: an ordered sequence of tuples.
// Documents are either supplied with explicit Tuples or with Text, an
// N-Triples-like serialization (`"literal" <uri> .` per tuple) parsed at ingest.
type Document struct {
	DocumentID string  `json:"documentID"`
	Tuples     []Tuple `json:"tuples,omitempty"`
	Text       string  `json:"text,omitempty"`
}

// GetDocumentID returns the documentID if it is set and not blank.
func (d Document) GetDocumentID() (string, bool) {
	if strings.TrimSpace(d.DocumentID) == "" {
		return "", false
	}
	return d.DocumentID, true
}

// IsURICell reports whether a cell value is a URI cell ("<...>").
func IsURICell(cell string) bool {
	return len(cell) >= 2 && cell[0] == '<' && cell[len(cell)-1] == '>'
}
