package embeddings

import (
	"fmt"
	"sort"

	"github.com/fogfish/hnsw"
	"github.com/fogfish/hnsw/vector"
	kvector "github.com/kshard/vector"
)

// Hit is a search result with its exact cosine relevance.
type Hit struct {
	ID    string
	Score float64
}

// Index is an in-memory HNSW graph over note embeddings.
type Index struct {
	graph *hnsw.HNSW[vector.VF32]
	ids   []string
	vecs  [][]float64
	dim   int
}

// NewIndex creates an empty cosine-distance index.
func NewIndex() *Index {
	return &Index{
		graph: hnsw.New[vector.VF32](vector.SurfaceVF32(kvector.Cosine())),
	}
}

// Len returns the number of indexed vectors.
func (x *Index) Len() int {
	return len(x.ids)
}

// Add inserts the embedding of note id.
func (x *Index) Add(id string, vec []float64) error {
	if err := ValidateEmbedding(vec); err != nil {
		return err
	}
	if x.dim == 0 {
		x.dim = len(vec)
	} else if len(vec) != x.dim {
		return fmt.Errorf("vector dimension mismatch: expected %d, got %d", x.dim, len(vec))
	}

	key := uint32(len(x.ids))
	x.ids = append(x.ids, id)
	x.vecs = append(x.vecs, vec)
	x.graph.Insert(vector.VF32{Key: key, Vec: ToFloat32(vec)})
	return nil
}

// Search returns up to k notes nearest to vec, highest relevance first.
// Candidates come from the graph; scores are exact cosine relevance.
func (x *Index) Search(vec []float64, k int) ([]Hit, error) {
	if x.Len() == 0 || k <= 0 {
		return nil, nil
	}
	if len(vec) != x.dim {
		return nil, fmt.Errorf("vector dimension mismatch: expected %d, got %d", x.dim, len(vec))
	}

	ef := k * 2
	if ef < 100 {
		ef = 100
	}

	seen := make(map[uint32]bool)
	var hits []Hit
	for _, r := range x.graph.Search(vector.VF32{Vec: ToFloat32(vec)}, k, ef) {
		if int(r.Key) >= len(x.ids) || seen[r.Key] {
			continue
		}
		seen[r.Key] = true
		hits = append(hits, Hit{ID: x.ids[r.Key], Score: Relevance(vec, x.vecs[r.Key])})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}
