// Package config loads the YAML configuration shared by the server and the indexer.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Debug       bool              `yaml:"debug"`
	Server      ServerConfig      `yaml:"server"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Indexer     IndexerConfig     `yaml:"indexer"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// VectorStoreConfig - Type is "qdrant" or "memory".
type VectorStoreConfig struct {
	Type       string `yaml:"type"`
	QdrantAddr string `yaml:"qdrant_addr"`
	Collection string `yaml:"collection"`
	Dimensions int    `yaml:"dimensions"`
}

// EmbeddingConfig - Ollama embedding endpoint.
type EmbeddingConfig struct {
	URL         string `yaml:"url"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// LLMConfig - Provider is "ollama", "gemini" or "groq". APIKey is only read by the hosted providers.
type LLMConfig struct {
	Provider    string `yaml:"provider"`
	URL         string `yaml:"url"`
	Model       string `yaml:"model"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

type SearchConfig struct {
	DefaultLimit int   `yaml:"default_limit"`
	AnswerLimit  int   `yaml:"answer_limit"`
	MaxLimit     int   `yaml:"max_limit"`
	ExpandQuery  *bool `yaml:"expand_query"`
	// ExpansionPromptFile overrides the built-in expansion system prompt.
	ExpansionPromptFile string `yaml:"expansion_prompt_file"`
}

// ExpandQueryOrDefault - Expansion is on unless explicitly disabled.
func (s *SearchConfig) ExpandQueryOrDefault() bool {
	if s.ExpandQuery != nil {
		return *s.ExpandQuery
	}
	return true
}

type IndexerConfig struct {
	BatchSize int `yaml:"batch_size"`
}

// Load reads path (a missing file yields defaults), then applies .env and environment overrides.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(&cfg)
	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.VectorStore.Type {
	case "qdrant", "memory":
	default:
		return fmt.Errorf("unknown vector store type %q", c.VectorStore.Type)
	}
	switch c.LLM.Provider {
	case "ollama", "gemini", "groq":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("search.max_limit (%d) is lower than search.default_limit (%d)", c.Search.MaxLimit, c.Search.DefaultLimit)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("QDRANT_ADDR"); v != "" {
		cfg.VectorStore.QdrantAddr = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.Embedding.URL = v
		if cfg.LLM.Provider == "" || cfg.LLM.Provider == "ollama" {
			cfg.LLM.URL = v
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "gemini":
			cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		case "groq":
			cfg.LLM.APIKey = os.Getenv("GROQ_API_KEY")
		}
	}
}
