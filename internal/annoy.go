package internal

import (
	"context"
	"fmt"

	"github.com/mariotoffia/goannoy/builder"
	"github.com/mariotoffia/goannoy/interfaces"
)

var _ VectorSearcher = (*AnnoySearcher)(nil)

// AnnoySearcher is an approximate nearest-neighbor backend built on annoy
// trees. It trades the exact backend's guarantees (exhaustive ranking,
// insertion-order tie-breaks) for sublinear lookups on large corpora; the
// regression gate should stay on the exact backend.
type AnnoySearcher struct {
	idx      interfaces.AnnoyIndex[float32, uint32]
	passages []Passage
	dim      int
}

func NewAnnoySearcher(passages []Passage, vectors [][]float32, numTrees int) (*AnnoySearcher, error) {
	if len(passages) != len(vectors) {
		return nil, fmt.Errorf("annoy searcher: %d passages but %d vectors", len(passages), len(vectors))
	}
	if numTrees <= 0 {
		numTrees = 10
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

	idx := builder.Index[float32, uint32]().
		AngularDistance(dim).
		UseMultiWorkerPolicy().
		MmapIndexAllocator().
		Build()

	for i, vec := range vectors {
		idx.AddItem(uint32(i), vec)
	}
	idx.Build(numTrees, -1)

	return &AnnoySearcher{
		idx:      idx,
		passages: passages,
		dim:      dim,
	}, nil
}

func (s *AnnoySearcher) Search(ctx context.Context, query Embedding, k int) ([]ScoredPassage, error) {
	if len(s.passages) == 0 {
		return nil, ErrEmptyIndex
	}
	if query.Dimension != s.dim {
		return nil, fmt.Errorf("query has dimension %d, index has %d: %w", query.Dimension, s.dim, ErrDimensionMismatch)
	}

	if k > len(s.passages) {
		k = len(s.passages)
	}
	if k <= 0 {
		return nil, nil
	}

	searchCtx := s.idx.CreateContext()
	ids, distances := s.idx.GetNnsByVector(query.Vector, k, -1, searchCtx)

	results := make([]ScoredPassage, 0, len(ids))
	for i, id := range ids {
		if int(id) >= len(s.passages) {
			continue
		}

		// Angular distance lies in [0, 2]; fold it back into the cosine
		// scoring range so both backends report comparable numbers.
		var score float32
		if i < len(distances) {
			score = 1.0 - distances[i]/2.0
		}

		results = append(results, ScoredPassage{
			Passage: s.passages[id],
			Score:   score,
		})
	}

	return results, nil
}

func (s *AnnoySearcher) Len() int {
	return len(s.passages)
}

func (s *AnnoySearcher) Dimension() int {
	return s.dim
}
