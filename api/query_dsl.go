package api

import (
	"github.com/gcbaptista/go-tuple-search/config"
	internalErrors "github.com/gcbaptista/go-tuple-search/internal/errors"
	"github.com/gcbaptista/go-tuple-search/internal/query"
)

// QueryNode is the JSON form of a query tree node. Exactly one field is set:
//
//	{"term":  {"value": "aaa", "boost": 2}}
//	{"fuzzy": {"value": "lucene", "min_similarity": 0.5, "rewrite": "boost_only"}}
//	{"bool":  {"must": [...], "should": [...], "must_not": [...]}}
//	{"cell":  {"query": {"bool": {...}}, "constraint": 2}}
type QueryNode struct {
	Term  *TermNode  `json:"term,omitempty"`
	Fuzzy *FuzzyNode `json:"fuzzy,omitempty"`
	Bool  *BoolNode  `json:"bool,omitempty"`
	Cell  *CellNode  `json:"cell,omitempty"`
}

// TermNode is a literal term.
type TermNode struct {
	Value string   `json:"value"`
	Boost *float64 `json:"boost,omitempty"`
}

// FuzzyNode is a fuzzy term. Unset parameters come from the index settings.
type FuzzyNode struct {
	Value         string   `json:"value"`
	MinSimilarity *float64 `json:"min_similarity,omitempty"`
	PrefixLength  *int     `json:"prefix_length,omitempty"`
	MaxExpansions *int     `json:"max_expansions,omitempty"`
	Rewrite       string   `json:"rewrite,omitempty"`
	Boost         *float64 `json:"boost,omitempty"`
}

// BoolNode combines clauses.
type BoolNode struct {
	Must    []QueryNode `json:"must,omitempty"`
	Should  []QueryNode `json:"should,omitempty"`
	MustNot []QueryNode `json:"must_not,omitempty"`
}

// CellNode scopes a boolean query to one cell. A non-boolean inner query is
// treated as a single MUST clause.
type CellNode struct {
	Query      *QueryNode `json:"query"`
	Constraint *int       `json:"constraint,omitempty"`
}

// BuildQuery converts a JSON query tree into a query.Query, filling fuzzy
// defaults from settings.
func BuildQuery(node *QueryNode, settings config.IndexSettings) (query.Query, error) {
	if node == nil {
		return nil, internalErrors.NewInvalidQueryError("query is required")
	}

	set := 0
	for _, present := range []bool{node.Term != nil, node.Fuzzy != nil, node.Bool != nil, node.Cell != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, internalErrors.NewInvalidQueryError("a query node needs exactly one of term, fuzzy, bool or cell (got %d)", set)
	}

	switch {
	case node.Term != nil:
		return buildTerm(node.Term)
	case node.Fuzzy != nil:
		return buildFuzzy(node.Fuzzy, settings)
	case node.Bool != nil:
		return buildBool(node.Bool, settings)
	default:
		return buildCell(node.Cell, settings)
	}
}

func buildTerm(n *TermNode) (query.Query, error) {
	if n.Value == "" {
		return nil, internalErrors.NewInvalidQueryError("term value cannot be empty")
	}
	q := query.NewTermQuery(n.Value)
	if n.Boost != nil {
		if *n.Boost <= 0 {
			return nil, internalErrors.NewInvalidQueryError("term boost %v must be positive", *n.Boost)
		}
		q.Boost = *n.Boost
	}
	return q, nil
}

func buildFuzzy(n *FuzzyNode, settings config.IndexSettings) (query.Query, error) {
	if n.Value == "" {
		return nil, internalErrors.NewInvalidQueryError("fuzzy value cannot be empty")
	}
	rewrite, err := query.ParseRewriteMethod(n.Rewrite)
	if err != nil {
		return nil, err
	}

	opts := []query.FuzzyOption{
		query.WithMinSimilarity(settings.FuzzyMinSimilarity),
		query.WithPrefixLength(settings.FuzzyPrefixLength),
		query.WithRewrite(rewrite),
	}
	if settings.MaxFuzzyExpansions > 0 {
		opts = append(opts, query.WithMaxExpansions(settings.MaxFuzzyExpansions))
	}
	if n.MinSimilarity != nil {
		opts = append(opts, query.WithMinSimilarity(*n.MinSimilarity))
	}
	if n.PrefixLength != nil {
		opts = append(opts, query.WithPrefixLength(*n.PrefixLength))
	}
	if n.MaxExpansions != nil {
		opts = append(opts, query.WithMaxExpansions(*n.MaxExpansions))
	}
	if n.Boost != nil {
		if *n.Boost <= 0 {
			return nil, internalErrors.NewInvalidQueryError("fuzzy boost %v must be positive", *n.Boost)
		}
		opts = append(opts, query.WithFuzzyBoost(*n.Boost))
	}
	return query.NewFuzzyQuery(n.Value, opts...)
}

func buildBool(n *BoolNode, settings config.IndexSettings) (*query.BooleanQuery, error) {
	clauses := make([]query.Clause, 0, len(n.Must)+len(n.Should)+len(n.MustNot))
	groups := []struct {
		nodes []QueryNode
		occur query.Occur
	}{
		{n.Must, query.Must},
		{n.Should, query.Should},
		{n.MustNot, query.MustNot},
	}
	for _, group := range groups {
		for i := range group.nodes {
			q, err := BuildQuery(&group.nodes[i], settings)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, query.Clause{Query: q, Occur: group.occur})
		}
	}
	return query.NewBooleanQuery(clauses...), nil
}

func buildCell(n *CellNode, settings config.IndexSettings) (query.Query, error) {
	if n.Query == nil {
		return nil, internalErrors.NewInvalidQueryError("cell query needs an inner query")
	}
	if n.Constraint != nil && *n.Constraint < 0 {
		return nil, internalErrors.NewInvalidQueryError("cell constraint cannot be negative, got %d", *n.Constraint)
	}

	var bq *query.BooleanQuery
	if n.Query.Bool != nil && n.Query.Term == nil && n.Query.Fuzzy == nil && n.Query.Cell == nil {
		inner, err := buildBool(n.Query.Bool, settings)
		if err != nil {
			return nil, err
		}
		bq = inner
	} else {
		inner, err := BuildQuery(n.Query, settings)
		if err != nil {
			return nil, err
		}
		bq = query.NewBooleanQuery(query.MustClause(inner))
	}

	cq := query.NewCellQuery(bq)
	if n.Constraint != nil {
		cq = cq.WithConstraint(*n.Constraint)
	}
	return cq, nil
}
