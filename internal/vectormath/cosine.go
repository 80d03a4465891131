package vectormath

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch reports cosine similarity called on vectors of
// unequal length. This is a caller bug, not a runtime condition.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Cosine returns the cosine similarity of a and b in [-1, 1].
// A zero-norm input yields 0 ("no signal") rather than an error.
// Accumulation is done in float64.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
