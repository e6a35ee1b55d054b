package v1

import (
	"context"
	"fmt"

	"github.com/halvard/askgate/internal"
)

// Client provides programmatic access to the question answering pipeline.
type Client struct {
	svc *internal.Service
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var ws internal.Workspace
	if cfg.root != "" {
		ws = internal.NewWorkspace(cfg.root)
	} else {
		found, err := internal.CurrentWorkspace()
		if err != nil {
			return nil, err
		}
		ws = found
	}

	conf, err := internal.LoadConfig(ws)
	if err != nil {
		return nil, err
	}
	if cfg.corpus != "" {
		conf.Corpus = cfg.corpus
	}
	if cfg.mode != "" {
		conf.Composer.Mode = cfg.mode
	}
	if cfg.topK > 0 {
		conf.Retrieval.TopK = cfg.topK
	}

	svc, err := internal.NewService(context.Background(), ws, conf)
	if err != nil {
		return nil, fmt.Errorf("assemble pipeline: %w", err)
	}

	return &Client{svc: svc}, nil
}

// Rebuild indexes the corpus and publishes the result. Queries started
// before the swap finish against the index they began with.
func (c *Client) Rebuild(ctx context.Context) (BuildInfo, error) {
	info, err := c.svc.Rebuild(ctx)
	if err != nil {
		return BuildInfo{}, fmt.Errorf("rebuild: %w", err)
	}

	return BuildInfo{
		ID:        info.ID,
		BuiltAt:   info.BuiltAt,
		Passages:  info.Passages,
		Dimension: info.Dimension,
		Backend:   info.Backend,
		Revision:  info.CorpusRevision,
	}, nil
}

// Ask answers a question from the indexed corpus. Call Rebuild first.
func (c *Client) Ask(ctx context.Context, query string) (*Answer, error) {
	answer, err := c.svc.Ask(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ask: %w", err)
	}

	passages := make([]Passage, 0, len(answer.Passages))
	for _, p := range answer.Passages {
		passages = append(passages, Passage{
			ID:     p.Passage.ID,
			Source: p.Passage.Source,
			Text:   p.Passage.Text,
			Score:  p.Score,
		})
	}

	return &Answer{
		ID:       answer.ID,
		Query:    answer.Query,
		Text:     answer.Text,
		Mode:     string(answer.Mode),
		Passages: passages,
	}, nil
}

// RunGate judges the current index against the workspace's assertions.
func (c *Client) RunGate(ctx context.Context) (*GateResult, error) {
	report, err := c.svc.RunGate(ctx)
	if err != nil {
		return nil, fmt.Errorf("gate: %w", err)
	}

	var failing []string
	for _, res := range report.Failing() {
		failing = append(failing, res.Assertion.Query)
	}

	return &GateResult{
		Verdict: string(report.Verdict),
		Total:   len(report.Results),
		Failing: failing,
	}, nil
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return nil
}
