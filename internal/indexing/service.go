package indexing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-tuple-search/config"
	"github.com/gcbaptista/go-tuple-search/index"
	internalErrors "github.com/gcbaptista/go-tuple-search/internal/errors"
	"github.com/gcbaptista/go-tuple-search/internal/logger"
	"github.com/gcbaptista/go-tuple-search/internal/tokenizer"
	"github.com/gcbaptista/go-tuple-search/model"
	"github.com/gcbaptista/go-tuple-search/store"
)

// DictionaryListener is told about the full term dictionary after every change.
type DictionaryListener interface {
	UpdateIndexedTerms(terms []string)
}

// Service implements the indexing logic for a single index.
// It fulfills the services.Indexer interface.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	dictionary    DictionaryListener
	logger        *slog.Logger
	// settings is captured at construction; the engine replaces the
	// whole service when settings change.
	settings *config.IndexSettings
}

// Micro-batches keep write lock hold times short so searches can interleave.
const microBatchSize = 64

// Documents are parsed and tokenized concurrently above this batch size.
const parallelPrepareThreshold = 32

// NewService creates a new indexing Service.
// dictionary may be nil when no component tracks the term dictionary.
func NewService(invertedIndex *index.InvertedIndex, documentStore *store.DocumentStore, dictionary DictionaryListener) (*Service, error) {
	if invertedIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if documentStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	invertedIndex.Mu.RLock()
	settings := invertedIndex.Settings
	invertedIndex.Mu.RUnlock()
	if settings == nil {
		return nil, fmt.Errorf("inverted index settings cannot be nil")
	}
	if invertedIndex.Index == nil {
		// Initialize the map if it's nil to prevent panics later
		invertedIndex.Index = make(map[string]index.PostingList)
	}
	if documentStore.Docs == nil {
		fresh := store.NewDocumentStore()
		documentStore.Docs = fresh.Docs
		documentStore.ExternalIDtoInternalID = fresh.ExternalIDtoInternalID
		documentStore.DocLengths = fresh.DocLengths
		documentStore.Live = fresh.Live
	}
	return &Service{
		invertedIndex: invertedIndex,
		documentStore: documentStore,
		dictionary:    dictionary,
		logger:        logger.WithComponent("indexing").With("index", settings.Name),
		settings:      settings,
	}, nil
}

// preparedDocument is a document whose cells have been tokenized, ready to be
// written into the index under the locks.
type preparedDocument struct {
	doc    model.Document
	cells  []preparedCell
	length int
}

type preparedCell struct {
	tuple, cell uint32
	positions   map[string][]int // term -> ascending positions within the cell
}

// AddDocuments adds a batch of documents to the index.
// Every document is validated and tokenized before the index is touched, so an
// invalid document leaves the index unchanged. Re-adding an existing
// documentID replaces the stored document.
// This satisfies the services.Indexer interface.
func (s *Service) AddDocuments(docs []model.Document) error {
	prepared, err := s.prepareAll(docs)
	if err != nil {
		return err
	}

	for i := 0; i < len(prepared); i += microBatchSize {
		end := i + microBatchSize
		if end > len(prepared) {
			end = len(prepared)
		}
		s.addMicroBatch(prepared[i:end])
	}

	s.refreshDictionary()
	s.logger.Debug("documents indexed", "count", len(prepared))
	return nil
}

func (s *Service) prepareAll(docs []model.Document) ([]preparedDocument, error) {
	stripMailto := s.settings.StripMailto
	prepared := make([]preparedDocument, len(docs))

	if len(docs) < parallelPrepareThreshold {
		for i, doc := range docs {
			p, err := prepareDocument(doc, stripMailto)
			if err != nil {
				return nil, err
			}
			prepared[i] = p
		}
		return prepared, nil
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(8)
	for i := range docs {
		g.Go(func() error {
			p, err := prepareDocument(docs[i], stripMailto)
			if err != nil {
				return err
			}
			prepared[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return prepared, nil
}

// prepareDocument validates doc, parses its Text into tuples when no tuples
// are given, and tokenizes every cell.
func prepareDocument(doc model.Document, stripMailto bool) (preparedDocument, error) {
	docID, ok := doc.GetDocumentID()
	if !ok {
		return preparedDocument{}, internalErrors.NewValidationError("documentID", "cannot be empty or whitespace-only")
	}

	if len(doc.Tuples) == 0 && doc.Text != "" {
		tuples, err := tokenizer.ParseTuples(doc.Text)
		if err != nil {
			var docErr *internalErrors.InvalidDocumentError
			if errors.As(err, &docErr) {
				docErr.DocumentID = docID
			}
			return preparedDocument{}, fmt.Errorf("failed to parse document %s: %w", docID, err)
		}
		doc.Tuples = tuples
	}

	p := preparedDocument{doc: doc}
	for t, tuple := range doc.Tuples {
		for c, cell := range tuple {
			tokens := tokenizer.TokenizeCell(cell, stripMailto)
			if len(tokens) == 0 {
				continue
			}
			positions := make(map[string][]int, len(tokens))
			for pos, token := range tokens {
				positions[token] = append(positions[token], pos)
			}
			p.cells = append(p.cells, preparedCell{tuple: uint32(t), cell: uint32(c), positions: positions})
			p.length += len(tokens)
		}
	}
	return p, nil
}

// addMicroBatch writes prepared documents with both locks held.
func (s *Service) addMicroBatch(docs []preparedDocument) {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	for _, p := range docs {
		if existing, ok := s.documentStore.Lookup(p.doc.DocumentID); ok {
			s.removeDocumentUnsafe(existing)
		}

		// New internal IDs are the largest so far, which keeps every posting list sorted.
		docID := s.documentStore.Put(p.doc, p.length)
		for _, cell := range p.cells {
			for term, positions := range cell.positions {
				s.invertedIndex.Append(term, index.PostingEntry{
					DocID:     docID,
					Tuple:     cell.tuple,
					Cell:      cell.cell,
					Positions: positions,
				})
			}
		}
	}
}

// removeDocumentUnsafe purges a document from the store and its postings.
// It assumes that the caller already holds locks on documentStore and invertedIndex.
func (s *Service) removeDocumentUnsafe(docID uint32) {
	doc, ok := s.documentStore.Remove(docID)
	if !ok {
		return
	}
	s.invertedIndex.RemoveDocument(docID, documentTerms(doc, s.settings.StripMailto))
}

// documentTerms returns the distinct terms of a stored document, sorted.
func documentTerms(doc model.Document, stripMailto bool) []string {
	seen := make(map[string]struct{})
	for _, tuple := range doc.Tuples {
		for _, cell := range tuple {
			for _, token := range tokenizer.TokenizeCell(cell, stripMailto) {
				seen[token] = struct{}{}
			}
		}
	}
	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// DeleteAllDocuments removes all documents from the index.
func (s *Service) DeleteAllDocuments() error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	s.documentStore.Clear()
	s.invertedIndex.Index = make(map[string]index.PostingList)
	s.invertedIndex.Mu.Unlock()
	s.documentStore.Mu.Unlock()

	s.refreshDictionary()
	s.logger.Info("all documents deleted")
	return nil
}

// DeleteDocument removes a single document by its external ID.
func (s *Service) DeleteDocument(docID string) error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	internalID, ok := s.documentStore.Lookup(docID)
	if ok {
		s.removeDocumentUnsafe(internalID)
	}
	s.invertedIndex.Mu.Unlock()
	s.documentStore.Mu.Unlock()

	if !ok {
		return internalErrors.NewDocumentNotFoundError(docID, s.settings.Name)
	}
	s.refreshDictionary()
	return nil
}

func (s *Service) refreshDictionary() {
	if s.dictionary == nil {
		return
	}
	s.invertedIndex.Mu.RLock()
	terms := s.invertedIndex.Terms()
	s.invertedIndex.Mu.RUnlock()
	s.dictionary.UpdateIndexedTerms(terms)
}
