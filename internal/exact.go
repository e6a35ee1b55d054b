package internal

import (
	"context"
	"fmt"
	"math"
	"sort"
)

var _ VectorSearcher = (*ExactSearcher)(nil)

// ExactSearcher ranks passages by brute-force cosine similarity. It is the
// default backend. Equal scores keep their insertion order.
type ExactSearcher struct {
	passages []Passage
	vectors  [][]float32
	dim      int
}

func NewExactSearcher(passages []Passage, vectors [][]float32) (*ExactSearcher, error) {
	if len(passages) != len(vectors) {
		return nil, fmt.Errorf("exact searcher: %d passages but %d vectors", len(passages), len(vectors))
	}

	dim := 0
	for i, vec := range vectors {
		if dim == 0 {
			dim = len(vec)
		}
		if len(vec) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d: %w", i, len(vec), dim, ErrDimensionMismatch)
		}
	}

	return &ExactSearcher{
		passages: passages,
		vectors:  vectors,
		dim:      dim,
	}, nil
}

func (s *ExactSearcher) Search(ctx context.Context, query Embedding, k int) ([]ScoredPassage, error) {
	if len(s.passages) == 0 {
		return nil, ErrEmptyIndex
	}
	if query.Dimension != s.dim {
		return nil, fmt.Errorf("query has dimension %d, index has %d: %w", query.Dimension, s.dim, ErrDimensionMismatch)
	}

	results := make([]ScoredPassage, len(s.passages))
	for i := range s.passages {
		results[i] = ScoredPassage{
			Passage: s.passages[i],
			Score:   cosineSimilarity(query.Vector, s.vectors[i]),
		}
	}

	// Stable sort: equal scores stay in passage insertion order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > 0 && k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (s *ExactSearcher) Len() int {
	return len(s.passages)
}

func (s *ExactSearcher) Dimension() int {
	return s.dim
}

// cosineSimilarity computes the cosine of the angle between two vectors of
// equal length. Returns 0 when either vector is zero.
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
