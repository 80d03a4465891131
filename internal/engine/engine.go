package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"docqa/internal/domain"
	"docqa/internal/vectormath"
)

// ErrDocumentLoadFailure reports that embedding failed during a document
// load. No partial index is retained; the engine behaves as if no document
// were loaded.
var ErrDocumentLoadFailure = errors.New("document load failure")

// ErrQueryFailure reports that embedding the question failed. The loaded
// index stays valid and can be queried again.
var ErrQueryFailure = errors.New("query failure")

// DefaultTopK is the number of results returned when topK is not positive.
const DefaultTopK = 5

// Engine builds a passage index for one document at a time and answers
// questions against it with a linear cosine-similarity scan.
type Engine struct {
	chunker  domain.Chunker
	embedder domain.Embedder

	mu         sync.Mutex
	generation uint64
	index      *domain.PassageIndex
}

// New creates an engine with no document loaded.
func New(chunker domain.Chunker, embedder domain.Embedder) *Engine {
	return &Engine{chunker: chunker, embedder: embedder}
}

// Index returns the currently committed passage index, or nil when no
// document is loaded. The returned index is immutable.
func (e *Engine) Index() *domain.PassageIndex {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// LoadDocument chunks and embeds pages in order and commits the resulting
// index. The previous index is discarded up front. Pages are embedded one at
// a time so peak memory is bounded by a single page's chunk batch; onProgress
// (optional) is called with (pagesDone, pagesTotal) after each page.
//
// A load that is superseded by a newer LoadDocument call is not committed:
// its result is returned to the caller but the engine keeps the newer
// document. Any embedding failure aborts the whole load with
// ErrDocumentLoadFailure and leaves the engine with no queryable index.
func (e *Engine) LoadDocument(ctx context.Context, pages []domain.Page, onProgress func(done, total int)) (*domain.PassageIndex, error) {
	e.mu.Lock()
	e.generation++
	token := e.generation
	e.index = nil
	e.mu.Unlock()

	built := &domain.PassageIndex{}
	for i, page := range pages {
		stubs := e.chunker.Split(page.Text, page.Number)
		if len(stubs) == 0 {
			if onProgress != nil {
				onProgress(i+1, len(pages))
			}
			continue
		}
		texts := make([]string, len(stubs))
		for j, stub := range stubs {
			texts[j] = stub.Text
		}
		vecs, err := e.embedder.EmbedMany(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrDocumentLoadFailure, page.Number, err)
		}
		for j, stub := range stubs {
			if built.Dimension == 0 {
				built.Dimension = len(vecs[j])
			}
			if len(vecs[j]) != built.Dimension {
				return nil, fmt.Errorf("%w: page %d: embedding dimension %d, index dimension %d",
					ErrDocumentLoadFailure, page.Number, len(vecs[j]), built.Dimension)
			}
			built.Passages = append(built.Passages, domain.Passage{
				ID:          stub.ID,
				PageNumber:  stub.PageNumber,
				Text:        stub.Text,
				StartOffset: stub.StartOffset,
				EndOffset:   stub.EndOffset,
				Embedding:   vecs[j],
			})
		}
		if onProgress != nil {
			onProgress(i+1, len(pages))
		}
	}

	e.mu.Lock()
	if token == e.generation {
		e.index = built
	}
	e.mu.Unlock()
	return built, nil
}

// Query embeds the question and ranks every passage in idx by cosine
// similarity, descending, ties broken by original index order. The result is
// truncated to topK (DefaultTopK when topK is not positive). A blank question
// or an empty index yields empty results with no error. idx is never mutated.
func (e *Engine) Query(ctx context.Context, question string, idx *domain.PassageIndex, topK int) ([]domain.QueryResult, error) {
	if idx.Len() == 0 || strings.TrimSpace(question) == "" {
		return nil, nil
	}
	qvec, err := e.embedder.EmbedOne(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailure, err)
	}
	results := make([]domain.QueryResult, 0, idx.Len())
	for _, passage := range idx.Passages {
		score, err := vectormath.Cosine(qvec, passage.Embedding)
		if err != nil {
			return nil, fmt.Errorf("passage %s: %w", passage.ID, err)
		}
		results = append(results, domain.QueryResult{Passage: passage, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}
