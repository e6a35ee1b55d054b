package internal

import (
	"os"
	"testing"
)

func setupConfigWorkspace(t *testing.T) Workspace {
	t.Helper()
	ws := NewWorkspace(t.TempDir())
	if err := os.MkdirAll(ws.StatePath, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return ws
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Corpus != "corpus" {
		t.Errorf("corpus = %q, want %q", cfg.Corpus, "corpus")
	}
	if cfg.Embedding.Backend != "hash" {
		t.Errorf("embedding backend = %q, want %q", cfg.Embedding.Backend, "hash")
	}
	if cfg.Embedding.Dimension != DefaultHashDimension {
		t.Errorf("dimension = %d, want %d", cfg.Embedding.Dimension, DefaultHashDimension)
	}
	if cfg.Index.Backend != BackendExact {
		t.Errorf("index backend = %q, want %q", cfg.Index.Backend, BackendExact)
	}
	if cfg.Retrieval.TopK != 4 {
		t.Errorf("top-k = %d, want 4", cfg.Retrieval.TopK)
	}
	if cfg.Composer.Mode != "mock" {
		t.Errorf("composer mode = %q, want %q", cfg.Composer.Mode, "mock")
	}
	if cfg.Gate.Assertions != "assertions.yaml" {
		t.Errorf("assertions = %q", cfg.Gate.Assertions)
	}
	if cfg.Gate.Predicate != "substring" {
		t.Errorf("predicate = %q", cfg.Gate.Predicate)
	}
	if cfg.Server.Addr != ":8786" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
	if cfg.Providers == nil {
		t.Error("expected providers map to be initialized")
	}
	if len(cfg.Providers) != 0 {
		t.Errorf("expected 0 providers, got %d", len(cfg.Providers))
	}
}

func TestConfigSaveAndLoad(t *testing.T) {
	ws := setupConfigWorkspace(t)

	cfg := DefaultConfig()
	cfg.Composer.Mode = "live"
	cfg.Composer.Provider = "openai"
	cfg.Providers["openai"] = ProviderConfig{
		APIKey: "sk-test",
		Model:  "gpt-4o-mini",
	}

	if err := SaveConfig(ws, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadConfig(ws)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Composer.Mode != "live" {
		t.Errorf("mode = %q, want %q", loaded.Composer.Mode, "live")
	}
	if loaded.Composer.Provider != "openai" {
		t.Errorf("provider = %q, want %q", loaded.Composer.Provider, "openai")
	}
	if p, ok := loaded.Providers["openai"]; !ok {
		t.Error("expected provider 'openai' to exist")
	} else {
		if p.APIKey != "sk-test" {
			t.Errorf("api key = %q, want %q", p.APIKey, "sk-test")
		}
		if p.Model != "gpt-4o-mini" {
			t.Errorf("model = %q, want %q", p.Model, "gpt-4o-mini")
		}
	}
}

func TestLoadConfigMissing(t *testing.T) {
	ws := setupConfigWorkspace(t)

	cfg, err := LoadConfig(ws)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Should return default config when file doesn't exist
	if cfg.Embedding.Backend != "hash" {
		t.Errorf("expected default backend, got %q", cfg.Embedding.Backend)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	ws := setupConfigWorkspace(t)

	if err := os.WriteFile(ws.ConfigPath(), []byte("{{invalid yaml:::"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadConfig(ws); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadConfigPartialOverDefaults(t *testing.T) {
	ws := setupConfigWorkspace(t)

	// A minimal config only overrides what it names.
	if err := os.WriteFile(ws.ConfigPath(), []byte("retrieval:\n  top_k: 8\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(ws)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Retrieval.TopK != 8 {
		t.Errorf("top-k = %d, want 8", cfg.Retrieval.TopK)
	}
	if cfg.Embedding.Backend != "hash" {
		t.Errorf("backend = %q, want the default", cfg.Embedding.Backend)
	}
	// Providers should be initialized to empty map even if not in YAML
	if cfg.Providers == nil {
		t.Error("expected providers to be initialized")
	}
}

func TestConfigGateRoundTrip(t *testing.T) {
	ws := setupConfigWorkspace(t)

	cfg := DefaultConfig()
	cfg.Gate = GateConfig{
		Assertions: "gates/release.yaml",
		Predicate:  "similarity",
		Threshold:  0.65,
		Baselines:  true,
	}

	if err := SaveConfig(ws, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadConfig(ws)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	gate := loaded.Gate
	if gate.Assertions != "gates/release.yaml" {
		t.Errorf("Assertions = %q", gate.Assertions)
	}
	if gate.Predicate != "similarity" {
		t.Errorf("Predicate = %q", gate.Predicate)
	}
	if gate.Threshold != 0.65 {
		t.Errorf("Threshold = %v", gate.Threshold)
	}
	if !gate.Baselines {
		t.Error("Baselines = false, want true")
	}
}
