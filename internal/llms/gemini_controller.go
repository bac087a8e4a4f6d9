package llms

import (
	"context"

	"google.golang.org/genai"
)

type GeminiLLM struct {
	LLM
	Client *genai.Client
	Parser *GeminiParser
}

// NewGeminiHandler - An empty apiKey makes genai read GEMINI_API_KEY / GOOGLE_API_KEY itself.
func NewGeminiHandler(ctx context.Context, model Model, apiKey string) (*GeminiLLM, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &GeminiLLM{
		LLM: LLM{
			ApiKey: apiKey,
			Model:  model,
		},
		Client: client,
		Parser: &GeminiParser{},
	}, nil
}

func (gemini *GeminiLLM) Name() string { return "gemini" }

// Generate - Send a prompt to the Gemini model. Does NOT support streaming.
func (gemini *GeminiLLM) Generate(ctx context.Context, system string, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Parts: []*genai.Part{{Text: prompt}},
			Role:  string(UserRole),
		},
	}

	var generateConfig *genai.GenerateContentConfig
	if system != "" {
		generateConfig = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		}
	}

	resp, err := gemini.Parser.ParseResponse(gemini.Client.Models.GenerateContent(ctx, string(gemini.Model), contents, generateConfig))
	if err != nil {
		return "", &GenerationError{Provider: gemini.Name(), Err: err}
	}
	if resp.Truncated() {
		gemini.warnTruncated(gemini.Name(), string(resp.FinishReason))
	}
	return resp.Content, nil
}
