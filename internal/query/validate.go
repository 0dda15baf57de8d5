package query

import (
	"github.com/gcbaptista/go-tuple-search/internal/errors"
)

// Validate checks q as the root of a search request.
//
// Besides the per-node checks, a root boolean made only of MustNot clauses is
// rejected: it could never match anything. The same shape nested below the
// root, or inside a cell query, is valid and simply never matches.
func Validate(q Query) error {
	if bq, ok := q.(*BooleanQuery); ok && bq != nil && bq.OnlyProhibited() {
		return errors.NewInvalidQueryError("query has only must_not clauses")
	}
	return validate(q, false)
}

func validate(q Query, inCell bool) error {
	switch n := q.(type) {
	case *TermQuery:
		if n == nil {
			return errors.NewInvalidQueryError("nil term query")
		}
		if n.Term == "" {
			return errors.NewInvalidQueryError("term query has an empty term")
		}
		if n.Boost < 0 {
			return errors.NewInvalidQueryError("term %q has a negative boost", n.Term)
		}
	case *FuzzyQuery:
		if n == nil {
			return errors.NewInvalidQueryError("nil fuzzy query")
		}
		if n.Term == "" {
			return errors.NewInvalidQueryError("fuzzy query has an empty term")
		}
		if n.Boost < 0 {
			return errors.NewInvalidQueryError("fuzzy term %q has a negative boost", n.Term)
		}
		return n.validate()
	case *BooleanQuery:
		if n == nil {
			return errors.NewInvalidQueryError("nil boolean query")
		}
		for _, c := range n.Clauses {
			if c.Occur != Must && c.Occur != Should && c.Occur != MustNot {
				return errors.NewInvalidQueryError("unknown occur %s", c.Occur)
			}
			if c.Query == nil {
				return errors.NewInvalidQueryError("clause without query")
			}
			if err := validate(c.Query, inCell); err != nil {
				return err
			}
		}
	case *CellQuery:
		if n == nil {
			return errors.NewInvalidQueryError("nil cell query")
		}
		if inCell {
			return errors.NewInvalidQueryError("cell query cannot be nested inside a cell query")
		}
		if n.Constraint < NoConstraint {
			return errors.NewInvalidQueryError("cell constraint %d cannot be negative", n.Constraint)
		}
		if n.Query == nil {
			return errors.NewInvalidQueryError("cell query without boolean query")
		}
		return validate(n.Query, true)
	default:
		return errors.NewInvalidQueryError("unsupported query type %T", q)
	}
	return nil
}

// Equal reports whether two query trees are structurally identical.
// Clause order is significant.
func Equal(a, b Query) bool {
	switch x := a.(type) {
	case *TermQuery:
		y, ok := b.(*TermQuery)
		return ok && (x == y || (x != nil && y != nil && *x == *y))
	case *FuzzyQuery:
		y, ok := b.(*FuzzyQuery)
		return ok && (x == y || (x != nil && y != nil && *x == *y))
	case *BooleanQuery:
		y, ok := b.(*BooleanQuery)
		if !ok {
			return false
		}
		if x == nil || y == nil {
			return x == y
		}
		if len(x.Clauses) != len(y.Clauses) {
			return false
		}
		for i := range x.Clauses {
			if x.Clauses[i].Occur != y.Clauses[i].Occur || !Equal(x.Clauses[i].Query, y.Clauses[i].Query) {
				return false
			}
		}
		return true
	case *CellQuery:
		y, ok := b.(*CellQuery)
		if !ok {
			return false
		}
		if x == nil || y == nil {
			return x == y
		}
		return x.Constraint == y.Constraint && Equal(x.Query, y.Query)
	default:
		return a == nil && b == nil
	}
}
