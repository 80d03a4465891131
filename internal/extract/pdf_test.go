package extract

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello world", "hello world"},
		{"collapse whitespace", "a  b\t\tc\n\nd", "a b c d"},
		{"trim", "  padded  ", "padded"},
		{"hyphen line break", "cosine simi-\nlarity", "cosine similarity"},
		{"hyphen break with indent", "over-\n   lapping", "overlapping"},
		{"real hyphen kept", "top-k results", "top-k results"},
		{"hyphen before digit kept", "page-\n1", "page- 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanText(tc.in); got != tc.want {
				t.Errorf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
