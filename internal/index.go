package internal

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	BackendExact = "exact"
	BackendAnnoy = "annoy"
)

// BuildInfo describes one completed index build.
type BuildInfo struct {
	ID             string    `json:"id"`
	BuiltAt        time.Time `json:"built_at"`
	Passages       int       `json:"passages"`
	Dimension      int       `json:"dimension"`
	Fingerprint    string    `json:"fingerprint"`
	Backend        string    `json:"backend"`
	CorpusRevision string    `json:"corpus_revision,omitempty"`
}

// Index is one immutable build: a vector backend, an optional keyword
// sidecar, and the passages both were built from. It is never modified
// after construction; rebuilds produce a new Index and swap it in through
// a Handle.
type Index struct {
	info     BuildInfo
	searcher VectorSearcher
	keyword  *KeywordIndex
	passages []Passage
}

// BuildOptions selects the backend and sidecars for one build.
type BuildOptions struct {
	Backend        string
	NumTrees       int // annoy only
	Keyword        bool
	CorpusRevision string
}

// BuildIndex embeds every passage and assembles a fresh Index. Nothing in
// here touches shared state; the caller decides when the result becomes
// visible.
func BuildIndex(ctx context.Context, embedder Embedder, passages []Passage, opts BuildOptions) (*Index, error) {
	if len(passages) == 0 {
		return nil, ErrEmptyCorpus
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}

	backend := opts.Backend
	if backend == "" {
		backend = BackendExact
	}

	var searcher VectorSearcher
	switch backend {
	case BackendExact:
		searcher, err = NewExactSearcher(passages, vectors)
	case BackendAnnoy:
		searcher, err = NewAnnoySearcher(passages, vectors, opts.NumTrees)
	default:
		return nil, fmt.Errorf("unknown index backend %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s backend: %w", backend, err)
	}

	var keyword *KeywordIndex
	if opts.Keyword {
		keyword, err = NewKeywordIndex(passages)
		if err != nil {
			return nil, fmt.Errorf("build keyword sidecar: %w", err)
		}
	}

	return &Index{
		info: BuildInfo{
			ID:             uuid.NewString(),
			BuiltAt:        time.Now().UTC(),
			Passages:       len(passages),
			Dimension:      embedder.Dimension(),
			Fingerprint:    embedder.Fingerprint(),
			Backend:        backend,
			CorpusRevision: opts.CorpusRevision,
		},
		searcher: searcher,
		keyword:  keyword,
		passages: passages,
	}, nil
}

// Search ranks passages against the query embedding. The query must carry
// the fingerprint of the embedder this index was built with; a mismatch is
// a hard error, never silently tolerated.
func (ix *Index) Search(ctx context.Context, query Embedding, k int) ([]ScoredPassage, error) {
	if query.Fingerprint != ix.info.Fingerprint {
		return nil, fmt.Errorf("query embedded with %q, index built with %q: %w",
			query.Fingerprint, ix.info.Fingerprint, ErrModelMismatch)
	}
	return ix.searcher.Search(ctx, query, k)
}

func (ix *Index) Info() BuildInfo {
	return ix.info
}

func (ix *Index) Len() int {
	return ix.searcher.Len()
}

// Keyword returns the BM25 sidecar, or nil when hybrid retrieval is off.
func (ix *Index) Keyword() *KeywordIndex {
	return ix.keyword
}

// Passages returns the build's passages in insertion order. Callers must
// treat the slice as read-only.
func (ix *Index) Passages() []Passage {
	return ix.passages
}

// Handle publishes the current index. A rebuild constructs a new Index and
// swaps the pointer; in-flight readers keep the snapshot they started with,
// so a partially built index is never observable.
type Handle struct {
	cur atomic.Pointer[Index]
}

func NewHandle() *Handle {
	return &Handle{}
}

func (h *Handle) Swap(ix *Index) {
	h.cur.Store(ix)
}

// Current returns the latest published index, or ErrNoIndex when no build
// has completed yet.
func (h *Handle) Current() (*Index, error) {
	ix := h.cur.Load()
	if ix == nil {
		return nil, ErrNoIndex
	}
	return ix, nil
}
