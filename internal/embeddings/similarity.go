// Package embeddings holds the vector math, the embedding cache and the
// nearest-neighbour index behind semantic lookup.
package embeddings

import (
	"errors"
	"fmt"
	"math"
)

var errEmpty = errors.New("vectors cannot be empty")

func sameShape(a, b []float64) error {
	if len(a) != len(b) {
		return fmt.Errorf("vectors must have same length: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return errEmpty
	}
	return nil
}

// DotProduct calculates the dot product of two vectors.
func DotProduct(a, b []float64) (float64, error) {
	if err := sameShape(a, b); err != nil {
		return 0, err
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// Magnitude returns the Euclidean norm of v.
func Magnitude(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// CosineSimilarity returns a value in [-1, 1]; 1 means identical direction.
func CosineSimilarity(a, b []float64) (float64, error) {
	dot, err := DotProduct(a, b)
	if err != nil {
		return 0, err
	}
	na, nb := Magnitude(a), Magnitude(b)
	if na == 0 || nb == 0 {
		return 0, fmt.Errorf("vector norm cannot be zero")
	}
	// floating point error can push the ratio slightly past ±1
	return math.Max(-1, math.Min(1, dot/(na*nb))), nil
}

// Relevance maps cosine similarity onto a [0, 1] relevance score.
// Opposed or unrelated vectors score 0.
func Relevance(a, b []float64) float64 {
	sim, err := CosineSimilarity(a, b)
	if err != nil || sim < 0 {
		return 0
	}
	return sim
}

// Normalize scales v to unit length.
func Normalize(v []float64) ([]float64, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("vector cannot be empty")
	}
	norm := Magnitude(v)
	if norm == 0 {
		return nil, fmt.Errorf("cannot normalize zero vector")
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out, nil
}

// ValidateEmbedding rejects empty vectors and NaN or infinite components.
func ValidateEmbedding(vec []float64) error {
	if len(vec) == 0 {
		return fmt.Errorf("embedding vector is empty")
	}
	for i, x := range vec {
		if math.IsNaN(x) {
			return fmt.Errorf("embedding contains NaN at index %d", i)
		}
		if math.IsInf(x, 0) {
			return fmt.Errorf("embedding contains invalid value at index %d: %v", i, x)
		}
	}
	return nil
}

// ToFloat32 converts a vector for the HNSW index.
func ToFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
