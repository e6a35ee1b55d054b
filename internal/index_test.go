package internal

import (
	"context"
	"errors"
	"testing"
)

func buildTestIndex(t *testing.T, texts ...string) (*Index, *HashEmbedder) {
	t.Helper()

	passages := make([]Passage, len(texts))
	for i, text := range texts {
		passages[i] = Passage{
			ID:     PassageID("doc.txt", i),
			Text:   text,
			Source: "doc.txt",
			Seq:    i,
		}
	}

	embedder := NewHashEmbedder(64)
	ix, err := BuildIndex(context.Background(), embedder, passages, BuildOptions{})
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	return ix, embedder
}

func TestBuildIndexInfo(t *testing.T) {
	ix, embedder := buildTestIndex(t, "first passage text", "second passage text")

	info := ix.Info()
	if info.ID == "" {
		t.Error("build ID is empty")
	}
	if info.Passages != 2 {
		t.Errorf("passages = %d, want 2", info.Passages)
	}
	if info.Dimension != embedder.Dimension() {
		t.Errorf("dimension = %d, want %d", info.Dimension, embedder.Dimension())
	}
	if info.Fingerprint != embedder.Fingerprint() {
		t.Errorf("fingerprint = %q, want %q", info.Fingerprint, embedder.Fingerprint())
	}
	if info.Backend != BackendExact {
		t.Errorf("backend = %q, want exact", info.Backend)
	}
	if info.BuiltAt.IsZero() {
		t.Error("built-at not stamped")
	}
}

func TestBuildIndexEmptyCorpus(t *testing.T) {
	_, err := BuildIndex(context.Background(), NewHashEmbedder(64), nil, BuildOptions{})
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("error = %v, want ErrEmptyCorpus", err)
	}
}

func TestBuildIndexUnknownBackend(t *testing.T) {
	passages := []Passage{{ID: "d#0", Text: "text", Source: "d", Seq: 0}}
	_, err := BuildIndex(context.Background(), NewHashEmbedder(64), passages, BuildOptions{Backend: "faiss"})
	if err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestIndexSearchFingerprintMismatch(t *testing.T) {
	ix, _ := buildTestIndex(t, "some passage text to index")

	other := NewHashEmbedder(32)
	vec, _ := other.Embed(context.Background(), "query")

	_, err := ix.Search(context.Background(), NewEmbedding(vec, other.Fingerprint()), 1)
	if !errors.Is(err, ErrModelMismatch) {
		t.Errorf("error = %v, want ErrModelMismatch", err)
	}
}

func TestIndexSearchMatchingFingerprint(t *testing.T) {
	ix, embedder := buildTestIndex(t, "kubernetes orchestrates containers", "databases store rows")

	vec, _ := embedder.Embed(context.Background(), "kubernetes orchestrates containers")
	results, err := ix.Search(context.Background(), NewEmbedding(vec, embedder.Fingerprint()), 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Passage.Seq != 0 {
		t.Errorf("results = %+v, want the first passage on top", results)
	}
}

func TestBuildIndexKeywordSidecar(t *testing.T) {
	passages := []Passage{
		{ID: "d#0", Text: "alpha beta gamma content here", Source: "d", Seq: 0},
	}

	plain, err := BuildIndex(context.Background(), NewHashEmbedder(64), passages, BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if plain.Keyword() != nil {
		t.Error("keyword sidecar built without being requested")
	}

	hybrid, err := BuildIndex(context.Background(), NewHashEmbedder(64), passages, BuildOptions{Keyword: true})
	if err != nil {
		t.Fatalf("build hybrid: %v", err)
	}
	if hybrid.Keyword() == nil {
		t.Error("keyword sidecar missing")
	}
}

func TestHandlePublication(t *testing.T) {
	h := NewHandle()

	if _, err := h.Current(); !errors.Is(err, ErrNoIndex) {
		t.Errorf("error = %v, want ErrNoIndex before first build", err)
	}

	first, _ := buildTestIndex(t, "the first build of the corpus index")
	h.Swap(first)

	got, err := h.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if got.Info().ID != first.Info().ID {
		t.Error("current index is not the swapped one")
	}

	// A reader holding the old snapshot keeps it across a swap.
	snapshot := got
	second, _ := buildTestIndex(t, "a rebuilt corpus with different content entirely")
	h.Swap(second)

	if snapshot.Info().ID != first.Info().ID {
		t.Error("snapshot mutated by swap")
	}
	cur, _ := h.Current()
	if cur.Info().ID != second.Info().ID {
		t.Error("swap did not publish the new index")
	}
}
