package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-tuple-search/internal/engine"
	"github.com/gcbaptista/go-tuple-search/internal/logger"
	"github.com/gcbaptista/go-tuple-search/internal/query"
	"github.com/gcbaptista/go-tuple-search/services"
)

func writeTupleFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCommand(t *testing.T) {
	dataDir := t.TempDir()
	inputDir := t.TempDir()
	first := writeTupleFile(t, inputDir, "doc0.nt", "\"aaa ccc\" \"bbb ccc\" .\n\"ddd eee\" \"ddd\" .\n")
	second := writeTupleFile(t, inputDir, "doc1.nt", "<mailto:john@example.org> \"ddd\" .\n")

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"load", "--data-dir", dataDir, "--index", "triples", "--strip-mailto", first, second})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `indexed 2 document(s) into "triples"`)

	eng := engine.NewEngine(dataDir, engine.WithLogger(logger.Discard()))
	idx, err := eng.GetIndex("triples")
	require.NoError(t, err)
	assert.True(t, idx.Settings().StripMailto)

	result, err := idx.Search(services.SearchQuery{
		Query: query.NewCellQuery(query.NewBooleanQuery(
			query.MustClause(query.NewTermQuery("ddd")),
			query.MustClause(query.NewTermQuery("eee")),
		)),
	})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "doc0", result.Hits[0].Document.DocumentID)

	result, err = idx.Search(services.SearchQuery{Query: query.NewTermQuery("john@example.org")})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "doc1", result.Hits[0].Document.DocumentID)
}

func TestLoadCommand_ExistingIndexAndErrors(t *testing.T) {
	dataDir := t.TempDir()
	inputDir := t.TempDir()
	good := writeTupleFile(t, inputDir, "good.nt", "\"aaa\" .\n")
	bad := writeTupleFile(t, inputDir, "bad.nt", "\"unterminated .\n")

	eng := engine.NewEngine(dataDir, engine.WithLogger(logger.Discard()))
	opts := &loadOptions{index: "triples"}

	n, err := runLoad(eng, opts, []string{good})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = runLoad(eng, opts, []string{good})
	require.NoError(t, err, "loading into an existing index replaces documents")
	assert.Equal(t, 1, n)

	_, err = runLoad(eng, opts, []string{bad})
	assert.Error(t, err)

	_, err = runLoad(eng, opts, []string{filepath.Join(inputDir, "missing.nt")})
	assert.Error(t, err)

	idx, err := eng.GetIndex("triples")
	require.NoError(t, err)
	_, total := idx.ListDocuments(0, 0)
	assert.Equal(t, 1, total)
}

func TestLoadCommand_RequiresIndexFlag(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"load", "--data-dir", t.TempDir(), "file.nt"})
	assert.Error(t, cmd.Execute())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "tuple_search dev\n", out.String())
}
