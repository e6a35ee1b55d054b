package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

type GateState string

const (
	GateNotRun  GateState = "not_run"
	GateRunning GateState = "running"
	GatePassed  GateState = "passed"
	GateFailed  GateState = "failed"
)

type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictFail Verdict = "FAIL"
)

// AssertionResult is one assertion's outcome. A generation failure is
// recorded here as a failing result, never as a crash of the whole run.
type AssertionResult struct {
	Assertion Assertion `json:"assertion"`
	Answer    string    `json:"answer,omitempty"`
	Missing   []string  `json:"missing,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func (r AssertionResult) Passed() bool {
	return r.Error == "" && len(r.Missing) == 0
}

// GateReport is the product of one gate run: the verdict plus enough
// detail per failing assertion to act on.
type GateReport struct {
	ID        string            `json:"id"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
	Revision  string            `json:"revision,omitempty"`
	Verdict   Verdict           `json:"verdict"`
	Results   []AssertionResult `json:"results"`
	Drift     []BaselineDrift   `json:"drift,omitempty"`
}

func (r *GateReport) Failing() []AssertionResult {
	var failing []AssertionResult
	for _, res := range r.Results {
		if !res.Passed() {
			failing = append(failing, res)
		}
	}
	return failing
}

// Write renders the human-readable report.
func (r *GateReport) Write(w io.Writer) {
	fmt.Fprintf(w, "gate %s: %s (%d assertions, %s)\n",
		r.ID, r.Verdict, len(r.Results), r.Duration.Round(time.Millisecond))
	if r.Revision != "" {
		fmt.Fprintf(w, "corpus revision: %s\n", r.Revision)
	}
	for _, res := range r.Failing() {
		fmt.Fprintf(w, "\nFAIL %q\n", res.Assertion.Query)
		if res.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", res.Error)
			continue
		}
		for _, concept := range res.Missing {
			fmt.Fprintf(w, "  missing concept: %q\n", concept)
		}
	}
	for _, d := range r.Drift {
		fmt.Fprintf(w, "\nanswer drift for %q:\n%s\n", d.Query, d.Diff)
	}
}

// Gate runs the assertion set through the retrieve-compose pipeline and
// aggregates a verdict. Assertions are independent; nothing carries over
// between them, and a run can be repeated at any time.
type Gate struct {
	retriever *Retriever
	composer  *Composer
	predicate Predicate

	mu    sync.Mutex
	state GateState
}

func NewGate(retriever *Retriever, composer *Composer, predicate Predicate) *Gate {
	return &Gate{
		retriever: retriever,
		composer:  composer,
		predicate: predicate,
		state:     GateNotRun,
	}
}

func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) setState(s GateState) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

// Run evaluates every assertion and returns the report. The verdict is
// PASS only when every assertion holds. Pipeline errors other than
// generation unavailability abort the run.
func (g *Gate) Run(ctx context.Context, set *AssertionSet) (*GateReport, error) {
	g.setState(GateRunning)

	report := &GateReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Verdict:   VerdictPass,
	}

	for _, a := range set.Assertions {
		res, err := g.check(ctx, a)
		if err != nil {
			g.setState(GateFailed)
			return nil, err
		}
		report.Results = append(report.Results, res)
		if !res.Passed() {
			report.Verdict = VerdictFail
		}
	}

	report.Duration = time.Since(report.StartedAt)

	if report.Verdict == VerdictPass {
		g.setState(GatePassed)
	} else {
		g.setState(GateFailed)
	}
	return report, nil
}

func (g *Gate) check(ctx context.Context, a Assertion) (AssertionResult, error) {
	res := AssertionResult{Assertion: a}

	passages, err := g.retriever.Retrieve(ctx, a.Query, 0)
	if err != nil {
		return res, fmt.Errorf("retrieve %q: %w", a.Query, err)
	}

	answer, err := g.composer.Compose(ctx, a.Query, passages)
	if err != nil {
		// One unavailable backend call must not hide regressions the
		// remaining assertions can still detect.
		if errors.Is(err, ErrGenerationUnavailable) {
			res.Error = err.Error()
			return res, nil
		}
		return res, fmt.Errorf("compose %q: %w", a.Query, err)
	}
	res.Answer = answer.Text

	for _, concept := range a.Require {
		ok, err := g.predicate.Holds(ctx, answer.Text, concept)
		if err != nil {
			return res, fmt.Errorf("evaluate concept %q: %w", concept, err)
		}
		if !ok {
			res.Missing = append(res.Missing, concept)
		}
	}

	return res, nil
}
