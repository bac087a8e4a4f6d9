package llms

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type GeminiParser struct{}

// GeminiCompleteAIResponse - Text of the first candidate plus why it stopped.
type GeminiCompleteAIResponse struct {
	Content      string
	FinishReason genai.FinishReason
}

// Truncated - Gemini stopped at the output token limit.
func (r *GeminiCompleteAIResponse) Truncated() bool {
	return r.FinishReason == genai.FinishReasonMaxTokens
}

// ParseResponse - Parse an unstreamed response from the API request made to Gemini's LLM.
func (GeminiParser) ParseResponse(resp *genai.GenerateContentResponse, err error) (*GeminiCompleteAIResponse, error) {
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Candidates) < 1 {
		return nil, fmt.Errorf("no candidates found")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) < 1 {
		return nil, fmt.Errorf("no content found")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, fmt.Errorf("empty response")
	}

	return &GeminiCompleteAIResponse{
		Content:      text.String(),
		FinishReason: candidate.FinishReason,
	}, nil
}
