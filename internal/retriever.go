package internal

import (
	"context"
	"errors"
	"fmt"
)

const DefaultTopK = 4

// Retriever embeds queries and ranks passages from the currently published
// index. Repeated retrieval against an unchanged index returns identical
// ordered results.
type Retriever struct {
	embedder Embedder
	handle   *Handle
	topK     int
	hybrid   bool
}

func NewRetriever(embedder Embedder, handle *Handle, topK int, hybrid bool) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		handle:   handle,
		topK:     topK,
		hybrid:   hybrid,
	}
}

// Retrieve returns the top-k passages for a query. An index holding no
// passages yields an empty result, not an error; comparing against an index
// built with a different embedder fails with ErrModelMismatch.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]ScoredPassage, error) {
	if k <= 0 {
		k = r.topK
	}

	ix, err := r.handle.Current()
	if err != nil {
		return nil, err
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := ix.Search(ctx, NewEmbedding(vec, r.embedder.Fingerprint()), k)
	if errors.Is(err, ErrEmptyIndex) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if r.hybrid {
		if kw := ix.Keyword(); kw != nil {
			keyword, err := kw.Search(query, k)
			if err != nil {
				return nil, fmt.Errorf("keyword search: %w", err)
			}
			results = fuseRRF(results, keyword, k)
		}
	}

	return results, nil
}
