package internal

import (
	"errors"
	"fmt"
)

var (
	ErrSourceNotFound        = errors.New("corpus source not found")
	ErrEmptyCorpus           = errors.New("corpus produced no passages")
	ErrEmptyIndex            = errors.New("index contains no passages")
	ErrDimensionMismatch     = errors.New("embedding dimension mismatch")
	ErrModelMismatch         = errors.New("embedding model mismatch")
	ErrGenerationUnavailable = errors.New("generation backend unavailable")
	ErrNoIndex               = errors.New("no index built")
	ErrNotInitialized        = errors.New("workspace not initialized")
)

// Document is one raw corpus file before splitting.
type Document struct {
	Path    string // relative to the corpus root
	Content string
}

// Passage is the retrievable unit of corpus text. Passages are created
// during a corpus load and never mutated; a rebuild replaces them wholesale.
type Passage struct {
	ID     string
	Text   string
	Source string // originating document path
	Seq    int    // insertion order within one build
}

// PassageID derives the stable within-build identifier for the n-th
// passage of a source document.
func PassageID(source string, n int) string {
	return fmt.Sprintf("%s#%d", source, n)
}

func (p Passage) String() string {
	return p.ID
}
