package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hadees/internal/utils"
)

// Embedder - Turns texts into vectors. CheckModel is called before anything is written with it.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	CheckModel(ctx context.Context) error
}

// ConfigurationError - The embedding service is unreachable or doesn't have the model.
type ConfigurationError struct {
	URL   string
	Model string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("embedding model %q unavailable at %s: %v", e.Model, e.URL, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Ollama - Embeds through a local Ollama's /api/embed.
type Ollama struct {
	URL    string
	Model  string
	Client *http.Client
}

func NewOllama(url string, model string, timeout time.Duration) *Ollama {
	return &Ollama{
		URL:    strings.TrimRight(url, "/"),
		Model:  model,
		Client: &http.Client{Timeout: timeout},
	}
}

func (o *Ollama) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var resp embeddingResponse
	err := utils.DoJSON(ctx, o.Client, http.MethodPost, o.URL+"/api/embed", embeddingRequest{
		Model: o.Model,
		Input: texts,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}
	for i, vec := range resp.Embeddings {
		if len(vec) == 0 {
			return nil, fmt.Errorf("embed: empty embedding at %d", i)
		}
	}
	return resp.Embeddings, nil
}

// CheckModel - Lists the local models; the configured one has to be pulled already.
func (o *Ollama) CheckModel(ctx context.Context) error {
	var tags tagsResponse
	if err := utils.DoJSON(ctx, o.Client, http.MethodGet, o.URL+"/api/tags", nil, &tags); err != nil {
		return &ConfigurationError{URL: o.URL, Model: o.Model, Err: err}
	}
	for _, m := range tags.Models {
		if m.Name == o.Model {
			return nil
		}
	}
	return &ConfigurationError{
		URL:   o.URL,
		Model: o.Model,
		Err:   fmt.Errorf("model not found, run 'ollama pull %s'", o.Model),
	}
}
