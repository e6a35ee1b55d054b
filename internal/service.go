package internal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// Service wires the whole pipeline for one workspace: loader, embedder,
// index handle, retriever, composer, gate. Commands and the HTTP server
// both sit on top of it.
type Service struct {
	ws        Workspace
	cfg       *Config
	loader    *Loader
	embedder  Embedder
	handle    *Handle
	retriever *Retriever
	composer  *Composer
	history   *CorpusHistory
}

func NewService(ctx context.Context, ws Workspace, cfg *Config) (*Service, error) {
	embedder, err := NewEmbedderFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	composer, err := NewComposerFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	handle := NewHandle()
	svc := &Service{
		ws:        ws,
		cfg:       cfg,
		loader:    NewLoader(cfg.Index.MinLength),
		embedder:  embedder,
		handle:    handle,
		retriever: NewRetriever(embedder, handle, cfg.Retrieval.TopK, cfg.Retrieval.Hybrid),
		composer:  composer,
	}

	if cfg.Index.History {
		history, err := OpenHistory(ws, ws.CorpusPath(cfg.Corpus))
		if err != nil {
			return nil, fmt.Errorf("open corpus history: %w", err)
		}
		svc.history = history
	}

	return svc, nil
}

// NewEmbedderFromConfig builds the configured embedding backend. The hash
// backend needs no credentials and is the default.
func NewEmbedderFromConfig(cfg *Config) (Embedder, error) {
	switch cfg.Embedding.Backend {
	case "", "hash":
		return NewHashEmbedder(cfg.Embedding.Dimension), nil
	case "openai":
		pc := cfg.Providers["openai"]
		apiKey := pc.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("openai embedding backend: no API key configured")
		}
		model := cfg.Embedding.Model
		if model == "" {
			model = pc.Model
		}
		return NewOpenAIEmbedder(apiKey, pc.BaseURL, model)
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", cfg.Embedding.Backend)
	}
}

// NewComposerFromConfig builds the configured composer. Mock mode needs no
// provider; live mode resolves one from the providers section, with an
// environment fallback for the API key.
func NewComposerFromConfig(ctx context.Context, cfg *Config) (*Composer, error) {
	mode, err := ParseMode(cfg.Composer.Mode)
	if err != nil {
		return nil, err
	}
	if mode == ModeMock {
		return NewMockComposer(), nil
	}

	name := cfg.Composer.Provider
	if name == "" {
		return nil, fmt.Errorf("live composer: no provider configured")
	}
	pc, ok := cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("live composer: provider %q not configured", name)
	}

	apiKey := pc.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(strings.ToUpper(name) + "_API_KEY")
	}

	provider, err := NewFantasyProvider(ctx, FantasyConfig{
		Provider: name,
		APIKey:   apiKey,
		BaseURL:  pc.BaseURL,
		Model:    pc.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", name, err)
	}

	return NewLiveComposer(provider, time.Duration(cfg.Composer.TimeoutSec)*time.Second), nil
}

// Rebuild loads the corpus, builds a fresh index, and publishes it with a
// single pointer swap. Queries in flight keep the snapshot they started
// with; nothing is served from a partial build.
func (s *Service) Rebuild(ctx context.Context) (BuildInfo, error) {
	passages, err := s.loader.Load(s.ws.CorpusPath(s.cfg.Corpus))
	if err != nil {
		return BuildInfo{}, err
	}

	opts := BuildOptions{
		Backend:  s.cfg.Index.Backend,
		NumTrees: s.cfg.Index.NumTrees,
		Keyword:  s.cfg.Retrieval.Hybrid,
	}
	if s.history != nil {
		if rev, err := s.history.Head(ctx); err == nil {
			opts.CorpusRevision = rev
		}
	}

	ix, err := BuildIndex(ctx, s.embedder, passages, opts)
	if err != nil {
		return BuildInfo{}, err
	}

	s.handle.Swap(ix)
	countRebuild()
	return ix.Info(), nil
}

// Ask runs the retrieve-compose pipeline for one query.
func (s *Service) Ask(ctx context.Context, query string) (*Answer, error) {
	start := time.Now()

	passages, err := s.retriever.Retrieve(ctx, query, 0)
	if err != nil {
		return nil, err
	}

	answer, err := s.composer.Compose(ctx, query, passages)
	if err != nil {
		return nil, err
	}

	observeQuery(time.Since(start))
	return answer, nil
}

// RunGate loads the assertion set and judges the current index against it.
func (s *Service) RunGate(ctx context.Context) (*GateReport, error) {
	set, err := LoadAssertions(s.ws.AssertionsPath(s.cfg.Gate.Assertions))
	if err != nil {
		return nil, err
	}

	predicate, err := NewPredicate(s.cfg.Gate.Predicate, s.embedder, s.cfg.Gate.Threshold)
	if err != nil {
		return nil, err
	}

	gate := NewGate(s.retriever, s.composer, predicate)
	report, err := gate.Run(ctx, set)
	if err != nil {
		return nil, err
	}

	if ix, err := s.handle.Current(); err == nil {
		report.Revision = ix.Info().CorpusRevision
	}
	countGateRun(report.Verdict)

	if s.cfg.Gate.Baselines {
		if err := s.applyBaselines(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// applyBaselines records answers on PASS and annotates drift on FAIL.
func (s *Service) applyBaselines(report *GateReport) error {
	path := s.ws.BaselinePath()

	if report.Verdict == VerdictPass {
		if err := SaveBaselines(path, RecordBaselines(report)); err != nil {
			return fmt.Errorf("record baselines: %w", err)
		}
		return nil
	}

	set, err := LoadBaselines(path)
	if err != nil {
		return fmt.Errorf("load baselines: %w", err)
	}
	report.Drift = DiffAgainstBaselines(set, report)
	return nil
}

// CommitCorpus records corpus changes in history and returns the new
// revision; it returns "" when history is off or nothing changed.
func (s *Service) CommitCorpus(ctx context.Context, message string) (string, error) {
	if s.history == nil {
		return "", nil
	}

	clean, err := s.history.Clean(ctx)
	if err != nil {
		return "", err
	}
	if clean {
		return "", nil
	}

	commit, err := s.history.CommitAll(ctx, message)
	if err != nil {
		return "", err
	}
	return commit.Hash, nil
}

// Status returns the current build, or ErrNoIndex before the first one.
func (s *Service) Status() (BuildInfo, error) {
	ix, err := s.handle.Current()
	if err != nil {
		return BuildInfo{}, err
	}
	return ix.Info(), nil
}

// LoadCorpus splits the corpus without embedding it, for inspection.
func (s *Service) LoadCorpus() ([]Passage, error) {
	return s.loader.Load(s.ws.CorpusPath(s.cfg.Corpus))
}

func (s *Service) Embedder() Embedder {
	return s.embedder
}

func (s *Service) Workspace() Workspace {
	return s.ws
}

func (s *Service) Config() *Config {
	return s.cfg
}

func (s *Service) History() *CorpusHistory {
	return s.history
}
