package domain

import "context"

// Page is one page of a loaded document: a 1-based page number and its
// cleaned (de-hyphenated, whitespace-normalized) text.
type Page struct {
	Number int
	Text   string
}

// PassageStub is a located chunk of page text before embedding.
// Offsets are 0-based into the page's cleaned text; Text is trimmed,
// so offsets bound the untrimmed window the text was cut from.
type PassageStub struct {
	ID          string
	PageNumber  int
	Text        string
	StartOffset int
	EndOffset   int
}

// Passage is a chunk with its embedding vector attached.
type Passage struct {
	ID          string
	PageNumber  int
	Text        string
	StartOffset int
	EndOffset   int
	Embedding   []float32
}

// PassageIndex is the ordered set of embedded passages for one document.
// It is append-only during a load and immutable afterwards; a new document
// replaces it wholesale.
type PassageIndex struct {
	Passages  []Passage
	Dimension int
}

// Len returns the number of passages in the index.
func (ix *PassageIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.Passages)
}

// QueryResult is a passage with its similarity score for one query.
// Results are recomputed per query and never stored back into the index.
type QueryResult struct {
	Passage Passage
	Score   float64
}

// Chunker splits a page's text into located passage stubs.
type Chunker interface {
	Split(pageText string, pageNumber int) []PassageStub
}

// Embedder converts text into fixed-length L2-normalized vectors.
// EmbedMany returns one vector per input, in input order.
type Embedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)
}

// Extractor supplies ordered (pageNumber, pageText) pairs for a document.
type Extractor interface {
	Pages(path string) ([]Page, error)
}
