package internal

import "context"

// Embedding is a query or passage vector tagged with the fingerprint of the
// embedder that produced it.
type Embedding struct {
	Vector      []float32
	Dimension   int
	Fingerprint string
}

func NewEmbedding(vec []float32, fingerprint string) Embedding {
	return Embedding{
		Vector:      vec,
		Dimension:   len(vec),
		Fingerprint: fingerprint,
	}
}

// ScoredPassage pairs a passage with its similarity to a query.
// Scores are cosine similarities in [-1, 1]; higher is closer.
type ScoredPassage struct {
	Passage Passage
	Score   float32
}

// VectorSearcher is a nearest-neighbor backend over one completed build.
// Implementations are immutable once constructed, so concurrent Search
// calls need no coordination.
type VectorSearcher interface {
	Search(ctx context.Context, query Embedding, k int) ([]ScoredPassage, error)
	Len() int
	Dimension() int
}
