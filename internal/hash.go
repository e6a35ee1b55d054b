package internal

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

const DefaultHashDimension = 256

var _ Embedder = (*HashEmbedder)(nil)

// HashEmbedder is a deterministic feature-hashing vectorizer. Tokens are
// hashed into a fixed number of buckets with a sign bit, so the produced
// vector depends only on the text and the dimension, never on the corpus.
// It exists so that retrieval and the regression gate can run byte-for-byte
// reproducibly without a model backend.
type HashEmbedder struct {
	dim          int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = DefaultHashDimension
	}
	return &HashEmbedder{
		dim:          dimension,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`),
		stopwords:    defaultStopwords(),
	}
}

func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)

	tokens := e.tokenize(text)
	for _, tok := range tokens {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()

		idx := int(sum % uint64(e.dim))
		// Top hash bit decides the sign of the bucket update.
		if sum&(1<<63) != 0 {
			vec[idx] -= 1
		} else {
			vec[idx] += 1
		}
	}

	l2Normalize(vec)
	return vec, nil
}

func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (e *HashEmbedder) Dimension() int {
	return e.dim
}

func (e *HashEmbedder) Fingerprint() string {
	return fmt.Sprintf("hash-v1/%d", e.dim)
}

func (e *HashEmbedder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// l2Normalize scales the vector to unit length in place.
func l2Normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "into",
		"about", "between", "through", "during", "before", "after",
		"above", "below", "out", "off", "own", "same", "too", "very",
		"can", "will", "just", "should", "now", "what", "which", "who",
		"how", "when", "where", "why", "does", "do", "did",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
