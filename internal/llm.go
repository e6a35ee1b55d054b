package internal

import "context"

// Embedder converts text into fixed-dimension vectors. Implementations must
// be deterministic for a fixed model: the same text always yields the same
// vector, and every vector has length Dimension().
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	// Fingerprint identifies the model and version behind this embedder.
	// An index built under one fingerprint rejects queries embedded under
	// another.
	Fingerprint() string
}

// Provider generates free-form text from a prompt. Backend failures,
// including timeouts, surface as errors wrapping ErrGenerationUnavailable.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
