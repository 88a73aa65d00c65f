// internal/engine/similarity/similarity_test.go
package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine_SelfSimilarityIsMaximal(t *testing.T) {
	vectors := [][]float64{
		{1, 0, 0},
		{0.3, -0.2, 0.9, 1.4},
		{-5, -5, -5},
	}

	for _, v := range vectors {
		assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
	}
}

func TestCosine_Symmetric(t *testing.T) {
	a := []float64{0.1, 0.5, -0.3, 0.8}
	b := []float64{-0.2, 0.4, 0.9, 0.1}

	assert.Equal(t, Cosine(a, b), Cosine(b, a))
}

func TestCosine_LengthMismatchReturnsZero(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 2}

	assert.Equal(t, 0.0, Cosine(a, b))
}

func TestCosine_ZeroVectorReturnsZero(t *testing.T) {
	zero := []float64{0, 0, 0}
	v := []float64{1, 2, 3}

	assert.Equal(t, 0.0, Cosine(zero, v))
	assert.Equal(t, 0.0, Cosine(v, zero))
	assert.Equal(t, 0.0, Cosine(zero, zero))
}

func TestCosine_OppositeVectors(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{-1, -2, -3}

	assert.InDelta(t, -1.0, Cosine(a, b), 1e-9)
}

func TestCosine_OrthogonalVectors(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}

	assert.InDelta(t, 0.0, Cosine(a, b), 1e-9)
}
