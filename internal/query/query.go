// Package query defines the immutable query tree evaluated by the search
// service: term and fuzzy leaves, boolean composition with MUST, SHOULD and
// MUST_NOT clauses, and cell queries that scope a boolean to a single cell.
//
// Query values are built once per request and never modified afterwards, so a
// tree may be shared by concurrent searches.
package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/gcbaptista/go-tuple-search/config"
	"github.com/gcbaptista/go-tuple-search/internal/errors"
)

// Query is one node of a query tree. The set of implementations is closed:
// *TermQuery, *FuzzyQuery, *BooleanQuery and *CellQuery.
type Query interface {
	String() string
	isQuery()
}

// Occur tells how a clause takes part in a boolean match.
type Occur int

const (
	// Must clauses have to match.
	Must Occur = iota
	// Should clauses add to the score; at least one must match when there is no Must clause.
	Should
	// MustNot clauses reject the candidate when they match.
	MustNot
)

func (o Occur) String() string {
	switch o {
	case Must:
		return "MUST"
	case Should:
		return "SHOULD"
	case MustNot:
		return "MUST_NOT"
	default:
		return "Occur(" + strconv.Itoa(int(o)) + ")"
	}
}

func (o Occur) prefix() string {
	switch o {
	case Must:
		return "+"
	case MustNot:
		return "-"
	default:
		return ""
	}
}

// TermQuery matches one literal term.
type TermQuery struct {
	Term  string
	Boost float64
}

// NewTermQuery returns a term query with boost 1.
func NewTermQuery(term string) *TermQuery {
	return &TermQuery{Term: term, Boost: 1}
}

func (*TermQuery) isQuery() {}

func (q *TermQuery) String() string {
	return q.Term + boostSuffix(q.Boost)
}

// RewriteMethod controls how the expansions of a fuzzy query are scored.
type RewriteMethod int

const (
	// RewriteScoring scores each expansion like a term query weighted by its boost.
	RewriteScoring RewriteMethod = iota
	// RewriteBoostOnly scores each expansion by its boost alone, ignoring term statistics.
	RewriteBoostOnly
)

func (r RewriteMethod) String() string {
	if r == RewriteBoostOnly {
		return "boost_only"
	}
	return "scoring"
}

// ParseRewriteMethod parses "scoring" or "boost_only"; empty means scoring.
func ParseRewriteMethod(s string) (RewriteMethod, error) {
	switch s {
	case "", "scoring":
		return RewriteScoring, nil
	case "boost_only":
		return RewriteBoostOnly, nil
	default:
		return RewriteScoring, errors.NewInvalidQueryError("unknown rewrite method %q", s)
	}
}

// FuzzyQuery matches the dictionary terms similar to Term.
type FuzzyQuery struct {
	Term          string
	MinSimilarity float64
	PrefixLength  int
	MaxExpansions int
	Rewrite       RewriteMethod
	Boost         float64
}

// FuzzyOption customizes a FuzzyQuery.
type FuzzyOption func(*FuzzyQuery)

// WithMinSimilarity sets the similarity threshold in [0, 1].
func WithMinSimilarity(minSimilarity float64) FuzzyOption {
	return func(q *FuzzyQuery) { q.MinSimilarity = minSimilarity }
}

// WithPrefixLength sets the number of leading characters that must match exactly.
func WithPrefixLength(prefixLength int) FuzzyOption {
	return func(q *FuzzyQuery) { q.PrefixLength = prefixLength }
}

// WithMaxExpansions bounds the number of dictionary terms the query expands to.
func WithMaxExpansions(maxExpansions int) FuzzyOption {
	return func(q *FuzzyQuery) { q.MaxExpansions = maxExpansions }
}

// WithRewrite selects how expansions are scored.
func WithRewrite(rewrite RewriteMethod) FuzzyOption {
	return func(q *FuzzyQuery) { q.Rewrite = rewrite }
}

// WithFuzzyBoost multiplies the score of every expansion.
func WithFuzzyBoost(boost float64) FuzzyOption {
	return func(q *FuzzyQuery) { q.Boost = boost }
}

// NewFuzzyQuery builds a fuzzy query, failing with an invalid query error
// when a parameter is out of range. Parameters are never clamped.
func NewFuzzyQuery(term string, opts ...FuzzyOption) (*FuzzyQuery, error) {
	q := &FuzzyQuery{
		Term:          term,
		MinSimilarity: config.DefaultFuzzyMinSimilarity,
		PrefixLength:  config.DefaultFuzzyPrefixLength,
		MaxExpansions: config.DefaultMaxFuzzyExpansions,
		Boost:         1,
	}
	for _, opt := range opts {
		opt(q)
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (*FuzzyQuery) isQuery() {}

func (q *FuzzyQuery) String() string {
	return q.Term + "~" + strconv.FormatFloat(q.MinSimilarity, 'g', -1, 64) + boostSuffix(q.Boost)
}

func (q *FuzzyQuery) validate() error {
	switch {
	case math.IsNaN(q.MinSimilarity) || q.MinSimilarity < 0 || q.MinSimilarity > 1:
		return errors.NewInvalidQueryError("min similarity %v must be in [0, 1]", q.MinSimilarity)
	case q.PrefixLength < 0:
		return errors.NewInvalidQueryError("prefix length %d cannot be negative", q.PrefixLength)
	case q.MaxExpansions <= 0:
		return errors.NewInvalidQueryError("max expansions %d must be positive", q.MaxExpansions)
	}
	return nil
}

// Clause is a sub-query with its occurrence flag.
type Clause struct {
	Query Query
	Occur Occur
}

// MustClause returns a Must clause.
func MustClause(q Query) Clause { return Clause{Query: q, Occur: Must} }

// ShouldClause returns a Should clause.
func ShouldClause(q Query) Clause { return Clause{Query: q, Occur: Should} }

// MustNotClause returns a MustNot clause.
func MustNotClause(q Query) Clause { return Clause{Query: q, Occur: MustNot} }

// BooleanQuery combines clauses. Its scope is the enclosing one: the document
// at the root, a single cell inside a CellQuery.
type BooleanQuery struct {
	Clauses []Clause
}

// NewBooleanQuery returns a boolean query over a copy of clauses.
func NewBooleanQuery(clauses ...Clause) *BooleanQuery {
	return &BooleanQuery{Clauses: append([]Clause(nil), clauses...)}
}

func (*BooleanQuery) isQuery() {}

func (q *BooleanQuery) String() string {
	parts := make([]string, 0, len(q.Clauses))
	for _, c := range q.Clauses {
		s := c.Query.String()
		if _, nested := c.Query.(*BooleanQuery); nested {
			s = "(" + s + ")"
		}
		parts = append(parts, c.Occur.prefix()+s)
	}
	return strings.Join(parts, " ")
}

// OnlyProhibited reports whether every clause is MustNot (false when empty).
func (q *BooleanQuery) OnlyProhibited() bool {
	if len(q.Clauses) == 0 {
		return false
	}
	for _, c := range q.Clauses {
		if c.Occur != MustNot {
			return false
		}
	}
	return true
}

// NoConstraint leaves the cell index of a CellQuery unrestricted.
const NoConstraint = -1

// CellQuery matches documents having at least one cell in which Query holds
// using only the occurrences of that cell. Constraint pins the cell index.
type CellQuery struct {
	Query      *BooleanQuery
	Constraint int
}

// NewCellQuery scopes bq to a single cell, with no cell index constraint.
func NewCellQuery(bq *BooleanQuery) *CellQuery {
	return &CellQuery{Query: bq, Constraint: NoConstraint}
}

// WithConstraint returns a copy of the query restricted to cell index k.
func (q *CellQuery) WithConstraint(k int) *CellQuery {
	c := *q
	c.Constraint = k
	return &c
}

// HasConstraint reports whether the cell index is pinned.
func (q *CellQuery) HasConstraint() bool {
	return q.Constraint != NoConstraint
}

func (*CellQuery) isQuery() {}

func (q *CellQuery) String() string {
	inner := ""
	if q.Query != nil {
		inner = q.Query.String()
	}
	if q.HasConstraint() {
		return "cell[" + strconv.Itoa(q.Constraint) + "](" + inner + ")"
	}
	return "cell(" + inner + ")"
}

func boostSuffix(boost float64) string {
	if boost == 1 || boost == 0 {
		return ""
	}
	return "^" + strconv.FormatFloat(boost, 'g', -1, 64)
}
