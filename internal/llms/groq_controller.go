package llms

// All about SENDING api requests to Groq's OpenAI-compatible endpoint

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"hadees/internal/utils"
)

type GroqLLM struct {
	LLM
	URL    string
	Client *http.Client
	Parser *GroqParser
}

// AIMessage - Message API format for a message (`messages` for request, `message` for response)
type AIMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// promptRequest Request format for the API
type promptRequest struct {
	Messages []AIMessage `json:"messages"`
	Model    Model       `json:"model"`
	Stream   bool        `json:"stream"`
}

func NewGroqHandler(url string, model Model, apiKey string, timeout time.Duration) (*GroqLLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY env var not set")
	}
	return &GroqLLM{
		LLM: LLM{
			ApiKey: apiKey,
			Model:  model,
		},
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		Parser: &GroqParser{},
	}, nil
}

func (groq *GroqLLM) Name() string { return "groq" }

func (groq *GroqLLM) Generate(ctx context.Context, system string, prompt string) (string, error) {
	messages := make([]AIMessage, 0, 2)
	if system != "" {
		messages = append(messages, AIMessage{Role: SystemRole, Content: system})
	}
	messages = append(messages, AIMessage{Role: UserRole, Content: prompt})

	var response GroqCompleteAIResponse
	err := utils.DoJSON(ctx, groq.Client, http.MethodPost, groq.URL, promptRequest{
		Messages: messages,
		Model:    groq.Model,
		Stream:   false,
	}, &response, utils.Header{
		Key:   "Authorization",
		Value: "Bearer " + groq.ApiKey,
	})
	if err != nil {
		return "", &GenerationError{Provider: groq.Name(), Err: err}
	}

	content, err := groq.Parser.Content(&response)
	if err != nil {
		return "", &GenerationError{Provider: groq.Name(), Err: err}
	}
	if choice := response.Choices[0]; choice.Truncated() {
		groq.warnTruncated(groq.Name(), string(choice.FinishReason))
	}
	return content, nil
}
