package internal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mode selects how answers are composed. The two variants are exhaustive:
// mock composes deterministically from retrieved text, live asks a
// generation backend.
type Mode string

const (
	ModeMock Mode = "mock"
	ModeLive Mode = "live"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMock, ModeLive:
		return Mode(s), nil
	case "":
		return ModeMock, nil
	default:
		return "", fmt.Errorf("unknown composer mode %q", s)
	}
}

// NoInformationAnswer is returned whenever retrieval comes back empty. It
// is an answer, not an error, so the gate can tell "no knowledge" apart
// from a crash.
const NoInformationAnswer = "No relevant information found in the corpus."

type Answer struct {
	ID       string
	Query    string
	Text     string
	Mode     Mode
	Passages []ScoredPassage
}

// Composer turns a retrieval result into an answer.
type Composer struct {
	mode     Mode
	provider Provider
	timeout  time.Duration
}

func NewMockComposer() *Composer {
	return &Composer{mode: ModeMock}
}

func NewLiveComposer(provider Provider, timeout time.Duration) *Composer {
	return &Composer{
		mode:     ModeLive,
		provider: provider,
		timeout:  timeout,
	}
}

func (c *Composer) Mode() Mode {
	return c.mode
}

// Compose never fails on an empty retrieval result; it answers "no relevant
// information" instead. Live-mode backend failures surface as
// ErrGenerationUnavailable.
func (c *Composer) Compose(ctx context.Context, query string, retrieved []ScoredPassage) (*Answer, error) {
	answer := &Answer{
		ID:       uuid.NewString(),
		Query:    query,
		Mode:     c.mode,
		Passages: retrieved,
	}

	if len(retrieved) == 0 {
		answer.Text = NoInformationAnswer
		return answer, nil
	}

	switch c.mode {
	case ModeLive:
		text, err := c.generate(ctx, query, retrieved)
		if err != nil {
			return nil, err
		}
		answer.Text = text
	default:
		answer.Text = MockAnswer(query, retrieved)
	}

	return answer, nil
}

func (c *Composer) generate(ctx context.Context, query string, retrieved []ScoredPassage) (string, error) {
	if c.provider == nil {
		return "", fmt.Errorf("no provider configured: %w", ErrGenerationUnavailable)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.provider.Complete(ctx, BuildPrompt(query, retrieved))
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrGenerationUnavailable)
	}
	return text, nil
}

// MockAnswer is a pure function of its arguments: equal input produces
// byte-identical output. It concatenates the retrieved passage text in rank
// order and cites the sources.
func MockAnswer(query string, passages []ScoredPassage) string {
	if len(passages) == 0 {
		return NoInformationAnswer
	}

	var b strings.Builder
	for i, sp := range passages {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(sp.Passage.Text)
	}

	b.WriteString("\n\nSources: ")
	seen := make(map[string]bool)
	first := true
	for _, sp := range passages {
		if seen[sp.Passage.Source] {
			continue
		}
		seen[sp.Passage.Source] = true
		if !first {
			b.WriteString(", ")
		}
		b.WriteString(sp.Passage.Source)
		first = false
	}

	return b.String()
}

// BuildPrompt assembles the live-mode prompt: the retrieved passages as
// context, then the question.
func BuildPrompt(query string, passages []ScoredPassage) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the context passages below. ")
	b.WriteString("If the context does not contain the answer, say so plainly.\n\nContext:\n")
	for i, sp := range passages {
		fmt.Fprintf(&b, "[%d] (%s) %s\n", i+1, sp.Passage.Source, sp.Passage.Text)
	}
	fmt.Fprintf(&b, "\nQuestion: %s\nAnswer:", query)
	return b.String()
}
