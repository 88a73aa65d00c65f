// internal/engine/similarity/similarity.go
package similarity

import "math"

// Cosine computes cosine similarity between two embedding vectors.
// Result is in [-1, 1]. Vectors of unequal length carry no comparable
// signal, so the result is 0 rather than an error; the same applies to
// zero vectors, which have no direction.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
