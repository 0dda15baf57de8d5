package api

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-tuple-search/config"
	internalErrors "github.com/gcbaptista/go-tuple-search/internal/errors"
	"github.com/gcbaptista/go-tuple-search/internal/query"
)

func dslSettings() config.IndexSettings {
	settings := config.IndexSettings{Name: "dsl", FuzzyPrefixLength: 1, MaxFuzzyExpansions: 7}
	settings.ApplyDefaults()
	return settings
}

func parseNode(t *testing.T, body string) *QueryNode {
	t.Helper()
	var node QueryNode
	require.NoError(t, json.Unmarshal([]byte(body), &node))
	return &node
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		body string
		want query.Query
	}{
		{
			name: "term",
			body: `{"term": {"value": "aaa"}}`,
			want: query.NewTermQuery("aaa"),
		},
		{
			name: "boosted term",
			body: `{"term": {"value": "aaa", "boost": 2.5}}`,
			want: &query.TermQuery{Term: "aaa", Boost: 2.5},
		},
		{
			name: "bool",
			body: `{"bool": {"must": [{"term": {"value": "aaa"}}], "should": [{"term": {"value": "bbb"}}], "must_not": [{"term": {"value": "ccc"}}]}}`,
			want: query.NewBooleanQuery(
				query.MustClause(query.NewTermQuery("aaa")),
				query.ShouldClause(query.NewTermQuery("bbb")),
				query.MustNotClause(query.NewTermQuery("ccc")),
			),
		},
		{
			name: "cell over bool",
			body: `{"cell": {"query": {"bool": {"must": [{"term": {"value": "ddd"}}, {"term": {"value": "eee"}}]}}}}`,
			want: query.NewCellQuery(query.NewBooleanQuery(
				query.MustClause(query.NewTermQuery("ddd")),
				query.MustClause(query.NewTermQuery("eee")),
			)),
		},
		{
			name: "cell with constraint wraps a single term",
			body: `{"cell": {"query": {"term": {"value": "ddd"}}, "constraint": 2}}`,
			want: query.NewCellQuery(query.NewBooleanQuery(
				query.MustClause(query.NewTermQuery("ddd")),
			)).WithConstraint(2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildQuery(parseNode(t, tt.body), dslSettings())
			require.NoError(t, err)
			assert.True(t, query.Equal(tt.want, got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestBuildQuery_FuzzyDefaults(t *testing.T) {
	got, err := BuildQuery(parseNode(t, `{"fuzzy": {"value": "lucene"}}`), dslSettings())
	require.NoError(t, err)

	fq, ok := got.(*query.FuzzyQuery)
	require.True(t, ok)
	assert.Equal(t, "lucene", fq.Term)
	assert.Equal(t, config.DefaultFuzzyMinSimilarity, fq.MinSimilarity)
	assert.Equal(t, 1, fq.PrefixLength, "prefix length comes from the index")
	assert.Equal(t, 7, fq.MaxExpansions, "max expansions come from the index")
	assert.Equal(t, query.RewriteScoring, fq.Rewrite)

	got, err = BuildQuery(parseNode(t,
		`{"fuzzy": {"value": "lucene", "min_similarity": 0.8, "prefix_length": 0, "max_expansions": 2, "rewrite": "boost_only", "boost": 3}}`,
	), dslSettings())
	require.NoError(t, err)
	fq = got.(*query.FuzzyQuery)
	assert.Equal(t, 0.8, fq.MinSimilarity)
	assert.Equal(t, 0, fq.PrefixLength)
	assert.Equal(t, 2, fq.MaxExpansions)
	assert.Equal(t, query.RewriteBoostOnly, fq.Rewrite)
	assert.Equal(t, 3.0, fq.Boost)
}

func TestBuildQuery_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty node", `{}`},
		{"two kinds", `{"term": {"value": "a"}, "fuzzy": {"value": "a"}}`},
		{"empty term", `{"term": {"value": ""}}`},
		{"negative boost", `{"term": {"value": "a", "boost": -1}}`},
		{"similarity above one", `{"fuzzy": {"value": "a", "min_similarity": 1.1}}`},
		{"negative similarity", `{"fuzzy": {"value": "a", "min_similarity": -0.1}}`},
		{"zero expansions", `{"fuzzy": {"value": "a", "max_expansions": 0}}`},
		{"unknown rewrite", `{"fuzzy": {"value": "a", "rewrite": "top_terms"}}`},
		{"cell without query", `{"cell": {}}`},
		{"negative cell constraint", `{"cell": {"query": {"term": {"value": "a"}}, "constraint": -1}}`},
		{"very negative cell constraint", `{"cell": {"query": {"term": {"value": "a"}}, "constraint": -7}}`},
		{"invalid nested clause", `{"bool": {"must": [{"term": {"value": ""}}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildQuery(parseNode(t, tt.body), dslSettings())
			require.Error(t, err)
			assert.True(t, errors.Is(err, internalErrors.ErrInvalidQuery), "got %v", err)
		})
	}

	_, err := BuildQuery(nil, dslSettings())
	assert.True(t, errors.Is(err, internalErrors.ErrInvalidQuery))
}

func TestBuildQuery_NestedCellIsRejectedAtSearch(t *testing.T) {
	got, err := BuildQuery(parseNode(t,
		`{"cell": {"query": {"bool": {"must": [{"cell": {"query": {"term": {"value": "a"}}}}]}}}}`,
	), dslSettings())
	require.NoError(t, err, "the tree is well formed")
	assert.True(t, errors.Is(query.Validate(got), internalErrors.ErrInvalidQuery))
}
