package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-tuple-search/config"
	"github.com/gcbaptista/go-tuple-search/internal/engine"
	internalErrors "github.com/gcbaptista/go-tuple-search/internal/errors"
	"github.com/gcbaptista/go-tuple-search/model"
)

type loadOptions struct {
	index       string
	stripMailto bool
}

func newLoadCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &loadOptions{}

	cmd := &cobra.Command{
		Use:   "load <file>...",
		Short: "Index tuple files into an index",
		Long: `Load reads N-Triples-like files ("literal" <uri> . per tuple) and indexes
each file as one document whose ID is the file name without its extension.
The index is created when it does not exist yet.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			eng, err := openEngine(cfg, nil)
			if err != nil {
				return err
			}
			n, err := runLoad(eng, opts, args)
			if err != nil {
				return err
			}
			cmd.Printf("indexed %d document(s) into %q\n", n, opts.index)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.index, "index", "i", "", "target index name")
	cmd.Flags().BoolVar(&opts.stripMailto, "strip-mailto", false, "strip mailto: from URI cells when creating the index")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

func runLoad(eng *engine.Engine, opts *loadOptions, files []string) (int, error) {
	if _, err := eng.GetIndex(opts.index); err != nil {
		if !errors.Is(err, internalErrors.ErrIndexNotFound) {
			return 0, err
		}
		if err := eng.CreateIndex(config.IndexSettings{Name: opts.index, StripMailto: opts.stripMailto}); err != nil {
			return 0, err
		}
	}
	idx, err := eng.GetIndex(opts.index)
	if err != nil {
		return 0, err
	}

	docs := make([]model.Document, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file) // #nosec G304 -- files are named by the operator
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", file, err)
		}
		base := filepath.Base(file)
		docs = append(docs, model.Document{
			DocumentID: strings.TrimSuffix(base, filepath.Ext(base)),
			Text:       string(data),
		})
	}

	if err := idx.AddDocuments(docs); err != nil {
		return 0, err
	}
	if err := eng.PersistIndexData(opts.index); err != nil {
		return 0, err
	}
	return len(docs), nil
}
