package internal

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Assertion is one gated expectation: asking Query must yield an answer
// covering every concept in Require.
type Assertion struct {
	Query   string   `yaml:"query" json:"query"`
	Require []string `yaml:"require" json:"require"`
}

// AssertionSet is the persisted, diffable list of assertions the gate runs.
// Adding or removing required knowledge is a reviewable change to this file.
type AssertionSet struct {
	Assertions []Assertion `yaml:"assertions"`
}

func LoadAssertions(path string) (*AssertionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read assertions: %w", err)
	}

	var set AssertionSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse assertions: %w", err)
	}

	if len(set.Assertions) == 0 {
		return nil, fmt.Errorf("%s: no assertions defined", path)
	}
	for i, a := range set.Assertions {
		if strings.TrimSpace(a.Query) == "" {
			return nil, fmt.Errorf("assertion %d: empty query", i)
		}
		if len(a.Require) == 0 {
			return nil, fmt.Errorf("assertion %d (%q): no required concepts", i, a.Query)
		}
	}

	return &set, nil
}

func SaveAssertions(path string, set *AssertionSet) error {
	data, err := yaml.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal assertions: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write assertions: %w", err)
	}
	return nil
}

// Predicate decides whether an answer covers one required concept. Swapping
// implementations never changes the gate's control flow.
type Predicate interface {
	Name() string
	Holds(ctx context.Context, answer, concept string) (bool, error)
}

// NewPredicate builds the configured predicate. The similarity predicate
// needs an embedder; substring matching needs nothing.
func NewPredicate(name string, embedder Embedder, threshold float32) (Predicate, error) {
	switch name {
	case "", "substring":
		return SubstringPredicate{}, nil
	case "similarity":
		if embedder == nil {
			return nil, fmt.Errorf("similarity predicate needs an embedder")
		}
		return NewSimilarityPredicate(embedder, threshold), nil
	default:
		return nil, fmt.Errorf("unknown predicate %q", name)
	}
}

var _ Predicate = SubstringPredicate{}

// SubstringPredicate holds when the concept appears in the answer,
// case-insensitively. The default.
type SubstringPredicate struct{}

func (SubstringPredicate) Name() string { return "substring" }

func (SubstringPredicate) Holds(_ context.Context, answer, concept string) (bool, error) {
	return strings.Contains(strings.ToLower(answer), strings.ToLower(concept)), nil
}

var _ Predicate = (*SimilarityPredicate)(nil)

// SimilarityPredicate holds when the concept's embedding is close enough to
// the answer's. Stricter than substring matching for paraphrased answers.
type SimilarityPredicate struct {
	embedder  Embedder
	threshold float32
}

const DefaultSimilarityThreshold = 0.5

func NewSimilarityPredicate(embedder Embedder, threshold float32) *SimilarityPredicate {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &SimilarityPredicate{
		embedder:  embedder,
		threshold: threshold,
	}
}

func (p *SimilarityPredicate) Name() string { return "similarity" }

func (p *SimilarityPredicate) Holds(ctx context.Context, answer, concept string) (bool, error) {
	av, err := p.embedder.Embed(ctx, answer)
	if err != nil {
		return false, fmt.Errorf("embed answer: %w", err)
	}
	cv, err := p.embedder.Embed(ctx, concept)
	if err != nil {
		return false, fmt.Errorf("embed concept: %w", err)
	}
	return cosineSimilarity(av, cv) >= p.threshold, nil
}
