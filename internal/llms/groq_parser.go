package llms

// Parse responses returned from groq_controller.go

import (
	"fmt"
	"strings"
)

const (
	LengthFinishReason FinishReasonType = "length"
	FilterFinishReason FinishReasonType = "content_filter"
)

type FinishReasonType string

// groqCompleteAIChoice - Returned in choices{} JSON object by Groq, when stream is false
type groqCompleteAIChoice struct {
	Index        int              `json:"index"`
	FinishReason FinishReasonType `json:"finish_reason"`
	Message      AIMessage        `json:"message"`
}

// GroqCompleteAIResponse - API Response by Groq, when stream is false
type GroqCompleteAIResponse struct {
	Choices []groqCompleteAIChoice `json:"choices"`
}

// Truncated - The model hit max_tokens before finishing.
func (c groqCompleteAIChoice) Truncated() bool {
	return c.FinishReason == LengthFinishReason
}

type GroqParser struct{}

// Content - Text of the first choice. A content-filtered or blank choice is an error.
func (GroqParser) Content(response *GroqCompleteAIResponse) (string, error) {
	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices found")
	}
	choice := response.Choices[0]
	if choice.FinishReason == FilterFinishReason {
		return "", fmt.Errorf("response blocked by content filter")
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", fmt.Errorf("empty response")
	}
	return choice.Message.Content, nil
}
