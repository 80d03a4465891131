package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"docqa/internal/domain"
)

// PDFExtractor reads per-page text out of a PDF file.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

var (
	// word broken across a line: "simi-\nlarity" -> "similarity"
	hyphenBreakRe = regexp.MustCompile(`(\p{L})-\s*\n\s*(\p{L})`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// Pages extracts every page's text, de-hyphenated and whitespace-normalized,
// in page order with 1-based page numbers. Pages whose text cannot be decoded
// are emitted empty rather than failing the whole document.
func (e *PDFExtractor) Pages(path string) ([]domain.Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]domain.Page, 0, total)
	for num := 1; num <= total; num++ {
		page := reader.Page(num)
		text := ""
		if !page.V.IsNull() {
			if raw, err := page.GetPlainText(nil); err == nil {
				text = CleanText(raw)
			}
		}
		pages = append(pages, domain.Page{Number: num, Text: text})
	}
	return pages, nil
}

// CleanText joins words hyphenated across line breaks, collapses whitespace
// runs to single spaces and trims the result.
func CleanText(raw string) string {
	s := hyphenBreakRe.ReplaceAllString(raw, "$1$2")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
