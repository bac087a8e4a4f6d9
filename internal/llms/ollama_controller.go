package llms

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hadees/internal/utils"
)

// OllamaLLM - Local Ollama through /api/generate, non-streaming.
type OllamaLLM struct {
	LLM
	URL    string
	Client *http.Client
}

// ollamaRequest Request format for the API
type ollamaRequest struct {
	Model  Model  `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func NewOllamaHandler(url string, model Model, timeout time.Duration) *OllamaLLM {
	return &OllamaLLM{
		LLM:    LLM{Model: model},
		URL:    strings.TrimRight(url, "/"),
		Client: &http.Client{Timeout: timeout},
	}
}

func (ollama *OllamaLLM) Name() string { return "ollama" }

func (ollama *OllamaLLM) Generate(ctx context.Context, system string, prompt string) (string, error) {
	var resp ollamaResponse
	err := utils.DoJSON(ctx, ollama.Client, http.MethodPost, ollama.URL+"/api/generate", ollamaRequest{
		Model:  ollama.Model,
		System: system,
		Prompt: prompt,
		Stream: false,
	}, &resp)
	if err != nil {
		return "", &GenerationError{Provider: ollama.Name(), Err: err}
	}
	if strings.TrimSpace(resp.Response) == "" {
		return "", &GenerationError{Provider: ollama.Name(), Err: fmt.Errorf("empty response")}
	}
	return resp.Response, nil
}
