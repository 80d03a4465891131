package chunker

import (
	"fmt"
	"strings"

	"docqa/internal/domain"
)

// SizeChunker splits page text into fixed-size windows with overlap.
type SizeChunker struct {
	chunkSize int
	overlap   int
}

// New creates a SizeChunker. Invalid geometry falls back to defaults;
// overlap is clamped below chunkSize so the cursor always moves forward.
func New(chunkSize, overlap int) *SizeChunker {
	if chunkSize <= 0 {
		chunkSize = 700
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}
	return &SizeChunker{chunkSize: chunkSize, overlap: overlap}
}

// Split cuts pageText into overlapping windows of at most chunkSize bytes.
// Each emitted stub keeps the window's original [start,end) offsets while its
// Text is whitespace-trimmed. Windows that trim to nothing are dropped, but
// the cursor still advances on the untrimmed end — on a page that is all
// whitespace past the first window this can skip content silently; that
// behavior is kept as is.
func (c *SizeChunker) Split(pageText string, pageNumber int) []domain.PassageStub {
	if pageText == "" {
		return nil
	}
	var stubs []domain.PassageStub
	start := 0
	for {
		end := start + c.chunkSize
		if end > len(pageText) {
			end = len(pageText)
		}
		text := strings.TrimSpace(pageText[start:end])
		if text != "" {
			stubs = append(stubs, domain.PassageStub{
				ID:          fmt.Sprintf("p%d:%d", pageNumber, start),
				PageNumber:  pageNumber,
				Text:        text,
				StartOffset: start,
				EndOffset:   end,
			})
		}
		if end == len(pageText) {
			break
		}
		start = end - c.overlap
		if start < 0 {
			start = 0
		}
	}
	return stubs
}
