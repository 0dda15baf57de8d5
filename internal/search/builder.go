package search

import (
	"github.com/gcbaptista/go-tuple-search/config"
	"github.com/gcbaptista/go-tuple-search/index"
	"github.com/gcbaptista/go-tuple-search/internal/errors"
	"github.com/gcbaptista/go-tuple-search/internal/query"
	"github.com/gcbaptista/go-tuple-search/internal/typoutil"
)

// TermExpander maps a term to similar dictionary terms, each with a boost in (0, 1].
// Implementations must be safe for concurrent use.
type TermExpander interface {
	Expand(term string, minSimilarity float64, prefixLength, maxExpansions int) []typoutil.Expansion
}

// matcherContext holds what one query execution needs to build its matchers.
// It is created per execution and never shared, so matcher state cannot leak
// between concurrent searches of the same query tree.
type matcherContext struct {
	invertedIndex *index.InvertedIndex
	bm25          *BM25Calculator
	settings      *config.IndexSettings
	expander      TermExpander

	expansionCounts []int // one entry per expanded fuzzy query
}

// build turns a query node into a matcher reporting at scope sc.
func (mc *matcherContext) build(q query.Query, sc scope) (matcher, error) {
	switch q := q.(type) {
	case *query.TermQuery:
		return mc.termMatcher(q.Term, sc, queryBoost(q.Boost), query.RewriteScoring), nil
	case *query.FuzzyQuery:
		return mc.fuzzyMatcher(q, sc), nil
	case *query.BooleanQuery:
		return mc.booleanMatcher(q, sc)
	case *query.CellQuery:
		if sc == cellScope {
			return nil, errors.NewInvalidQueryError("cell query %s cannot be nested inside another cell query", q)
		}
		if q.Query == nil {
			return nil, errors.NewInvalidQueryError("cell query has no inner boolean query")
		}
		inner, err := mc.booleanMatcher(q.Query, cellScope)
		if err != nil {
			return nil, err
		}
		return newCellMatcher(inner, q.Constraint), nil
	case nil:
		return nil, errors.NewInvalidQueryError("missing query")
	default:
		return nil, errors.NewInvalidQueryError("unsupported query type %T", q)
	}
}

func (mc *matcherContext) booleanMatcher(q *query.BooleanQuery, sc scope) (matcher, error) {
	var required, optional, prohibited []matcher
	for _, clause := range q.Clauses {
		m, err := mc.build(clause.Query, sc)
		if err != nil {
			return nil, err
		}
		switch clause.Occur {
		case query.Must:
			required = append(required, m)
		case query.Should:
			optional = append(optional, m)
		case query.MustNot:
			prohibited = append(prohibited, m)
		default:
			return nil, errors.NewInvalidQueryError("unknown clause occur %s", clause.Occur)
		}
	}
	return newBooleanMatcher(required, optional, prohibited), nil
}

// termMatcher returns a matcher over the literal term, or an empty matcher
// when the term is not indexed.
func (mc *matcherContext) termMatcher(term string, sc scope, weight float64, rewrite query.RewriteMethod) matcher {
	postings := mc.invertedIndex.Postings(term)
	if len(postings) == 0 {
		return emptyMatcher{}
	}

	var scorer termScorer
	if rewrite == query.RewriteBoostOnly {
		scorer = func(uint32, int) float64 { return weight }
	} else {
		idf := mc.bm25.IDF(term)
		bm25 := mc.bm25
		scorer = func(doc uint32, tf int) float64 {
			return weight * idf * bm25.TermWeight(doc, float64(tf))
		}
	}
	return newTermMatcher(index.NewCursor(term, postings), sc, scorer)
}

// fuzzyMatcher expands the term and matches any expansion. Every match is
// scored with the boost of the expansion it came from.
func (mc *matcherContext) fuzzyMatcher(q *query.FuzzyQuery, sc scope) matcher {
	boost := queryBoost(q.Boost)
	if mc.expander == nil || mc.settings.IsNonFuzzyTerm(q.Term) {
		return mc.termMatcher(q.Term, sc, boost, q.Rewrite)
	}

	expansions := mc.expander.Expand(q.Term, q.MinSimilarity, q.PrefixLength, q.MaxExpansions)
	mc.expansionCounts = append(mc.expansionCounts, len(expansions))

	switch len(expansions) {
	case 0:
		return emptyMatcher{}
	case 1:
		return mc.termMatcher(expansions[0].Term, sc, boost*expansions[0].Boost, q.Rewrite)
	}
	optional := make([]matcher, 0, len(expansions))
	for _, e := range expansions {
		optional = append(optional, mc.termMatcher(e.Term, sc, boost*e.Boost, q.Rewrite))
	}
	return newBooleanMatcher(nil, optional, nil)
}

// queryBoost treats an unset boost as 1.
func queryBoost(boost float64) float64 {
	if boost == 0 {
		return 1
	}
	return boost
}
