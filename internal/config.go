package internal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type EmbeddingConfig struct {
	Backend   string `yaml:"backend"`
	Model     string `yaml:"model,omitempty"`
	Dimension int    `yaml:"dimension"`
}

type IndexConfig struct {
	Backend   string `yaml:"backend"`
	NumTrees  int    `yaml:"num_trees,omitempty"`
	MinLength int    `yaml:"min_passage_length,omitempty"`
	History   bool   `yaml:"history,omitempty"`
}

type RetrievalConfig struct {
	TopK   int  `yaml:"top_k"`
	Hybrid bool `yaml:"hybrid,omitempty"`
}

type ComposerConfig struct {
	Mode       string `yaml:"mode"`
	Provider   string `yaml:"provider,omitempty"`
	TimeoutSec int    `yaml:"timeout_seconds,omitempty"`
}

type GateConfig struct {
	Assertions string  `yaml:"assertions"`
	Predicate  string  `yaml:"predicate,omitempty"`
	Threshold  float32 `yaml:"threshold,omitempty"`
	Baselines  bool    `yaml:"baselines,omitempty"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
}

type Config struct {
	Corpus    string                    `yaml:"corpus"`
	Embedding EmbeddingConfig           `yaml:"embedding"`
	Index     IndexConfig               `yaml:"index"`
	Retrieval RetrievalConfig           `yaml:"retrieval"`
	Composer  ComposerConfig            `yaml:"composer"`
	Gate      GateConfig                `yaml:"gate"`
	Server    ServerConfig              `yaml:"server"`
	Providers map[string]ProviderConfig `yaml:"providers,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Corpus: "corpus",
		Embedding: EmbeddingConfig{
			Backend:   "hash",
			Dimension: DefaultHashDimension,
		},
		Index: IndexConfig{
			Backend: BackendExact,
		},
		Retrieval: RetrievalConfig{
			TopK: 4,
		},
		Composer: ComposerConfig{
			Mode:       "mock",
			TimeoutSec: 30,
		},
		Gate: GateConfig{
			Assertions: "assertions.yaml",
			Predicate:  "substring",
		},
		Server: ServerConfig{
			Addr: ":8786",
		},
		Providers: make(map[string]ProviderConfig),
	}
}

// LoadConfig reads the workspace config; a missing file yields defaults so
// commands work before anything is customized.
func LoadConfig(ws Workspace) (*Config, error) {
	data, err := os.ReadFile(ws.ConfigPath())
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	return cfg, nil
}

func SaveConfig(ws Workspace, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(ws.ConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
