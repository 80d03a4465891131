package chunker

import (
	"strings"
	"testing"
)

func TestSplit_Empty(t *testing.T) {
	c := New(700, 150)
	if got := c.Split("", 1); len(got) != 0 {
		t.Fatalf("expected no chunks for empty text, got %d", len(got))
	}
}

func TestSplit_ShortText(t *testing.T) {
	c := New(700, 150)
	got := c.Split("short text", 1)
	if len(got) != 1 {
		t.Fatalf("expected exactly one chunk, got %d", len(got))
	}
	s := got[0]
	if s.Text != "short text" || s.StartOffset != 0 || s.EndOffset != 10 {
		t.Errorf("unexpected chunk %+v", s)
	}
	if s.ID != "p1:0" {
		t.Errorf("unexpected id %q", s.ID)
	}
	if s.PageNumber != 1 {
		t.Errorf("unexpected page %d", s.PageNumber)
	}
}

func TestSplit_WhitespaceOnly(t *testing.T) {
	c := New(700, 150)
	if got := c.Split(strings.Repeat(" ", 1000), 1); len(got) != 0 {
		t.Fatalf("expected no chunks for whitespace-only text, got %d", len(got))
	}
}

func TestSplit_OverlapAndCoverage(t *testing.T) {
	const size, overlap = 700, 150
	text := strings.TrimSpace(strings.Repeat("lorem ipsum dolor sit amet ", 100)) // 2699 chars
	c := New(size, overlap)
	got := c.Split(text, 3)
	if len(got) == 0 {
		t.Fatal("expected chunks")
	}
	for i, s := range got {
		if strings.TrimSpace(s.Text) == "" {
			t.Errorf("chunk %d has blank text", i)
		}
		if s.StartOffset < 0 || s.EndOffset > len(text) || s.StartOffset >= s.EndOffset {
			t.Errorf("chunk %d has bad offsets [%d,%d)", i, s.StartOffset, s.EndOffset)
		}
		if s.PageNumber != 3 {
			t.Errorf("chunk %d has page %d", i, s.PageNumber)
		}
		if i > 0 {
			prev := got[i-1]
			if s.StartOffset <= prev.StartOffset {
				t.Errorf("chunk %d start %d does not increase past %d", i, s.StartOffset, prev.StartOffset)
			}
			if want := prev.EndOffset - overlap; s.StartOffset != want {
				t.Errorf("chunk %d start = %d, want %d (end-overlap)", i, s.StartOffset, want)
			}
		}
	}
	if last := got[len(got)-1]; last.EndOffset != len(text) {
		t.Errorf("last chunk ends at %d, want %d", last.EndOffset, len(text))
	}
	// ceil((L-O)/(S-O))
	want := (len(text) - overlap + size - overlap - 1) / (size - overlap)
	if len(got) != want {
		t.Errorf("got %d chunks, want %d", len(got), want)
	}
}

// Content past the first window that trims to nothing is skipped while the
// cursor still advances; the loop must terminate without emitting blanks.
func TestSplit_TrailingWhitespaceDropped(t *testing.T) {
	c := New(700, 150)
	text := "abc" + strings.Repeat(" ", 1000)
	got := c.Split(text, 1)
	if len(got) != 1 {
		t.Fatalf("expected one chunk, got %d", len(got))
	}
	if got[0].Text != "abc" {
		t.Errorf("unexpected text %q", got[0].Text)
	}
	if got[0].EndOffset != 700 {
		t.Errorf("end = %d, want untrimmed window end 700", got[0].EndOffset)
	}
}

func TestNew_ClampsGeometry(t *testing.T) {
	tests := []struct {
		name      string
		size, ov  int
		wantSize  int
		wantOverl int
	}{
		{"defaults on zero size", 0, 0, 700, 0},
		{"negative overlap", 500, -1, 500, 0},
		{"overlap at size", 100, 100, 100, 99},
		{"overlap above size", 100, 400, 100, 99},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := New(tc.size, tc.ov)
			if c.chunkSize != tc.wantSize || c.overlap != tc.wantOverl {
				t.Errorf("got (%d,%d), want (%d,%d)", c.chunkSize, c.overlap, tc.wantSize, tc.wantOverl)
			}
		})
	}
}
