package llms

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"hadees/internal/config"
)

const (
	UserRole   Role = "user"
	SystemRole Role = "system"

	ExpansionSystemPrompt = "you are a query expansion engine, expand this query for Islamic hadith search. only and only return the expanded query, nothing else:"
)

type Role string
type Model string

// Provider - Anything that turns a prompt (plus an optional system instruction) into text.
type Provider interface {
	Generate(ctx context.Context, system string, prompt string) (string, error)
	Name() string
}

type LLM struct {
	ApiKey string
	Model  Model
	Logger *zap.Logger
}

// warnTruncated - The provider stopped at its token limit; the text is still used.
func (l LLM) warnTruncated(provider string, reason string) {
	if l.Logger == nil {
		return
	}
	l.Logger.Warn("llm response truncated", zap.String("provider", provider), zap.String("model", string(l.Model)), zap.String("finish_reason", reason))
}

// GenerationError - The provider call failed or gave back nothing usable.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// New - Build the provider selected in cfg.
func New(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (Provider, error) {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	switch cfg.Provider {
	case "ollama":
		ollama := NewOllamaHandler(cfg.URL, Model(cfg.Model), timeout)
		ollama.Logger = logger
		return ollama, nil
	case "gemini":
		gemini, err := NewGeminiHandler(ctx, Model(cfg.Model), cfg.APIKey)
		if err != nil {
			return nil, err
		}
		gemini.Logger = logger
		return gemini, nil
	case "groq":
		groq, err := NewGroqHandler(cfg.URL, Model(cfg.Model), cfg.APIKey, timeout)
		if err != nil {
			return nil, err
		}
		groq.Logger = logger
		return groq, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

var reasoningPattern = regexp.MustCompile(`(?s)<think>.*?</think>\s*`)

// StripReasoning - Drop every <think>...</think> span (and the whitespace after it).
func StripReasoning(text string) string {
	return reasoningPattern.ReplaceAllString(text, "")
}

// BuildContext - "Hadith N: text" blocks in retrieval order.
func BuildContext(texts []string) string {
	var contextBuilder strings.Builder
	for i, text := range texts {
		contextBuilder.WriteString("Hadith " + strconv.Itoa(i+1) + ": " + text + "\n\n")
	}
	return contextBuilder.String()
}

func BuildAnswerPrompt(question string, hadithContext string) string {
	var promptBuilder strings.Builder
	promptBuilder.WriteString("Based on the following hadith texts, please answer the question: \"" + question + "\"\n\n")
	promptBuilder.WriteString("Context:\n")
	promptBuilder.WriteString(hadithContext)
	promptBuilder.WriteString("\nAnswer only based on the provided hadith texts. ")
	promptBuilder.WriteString("If the answer cannot be found in the provided texts, say so clearly. ")
	promptBuilder.WriteString("Answer with no formatting and as humanly as possible.\n")
	return promptBuilder.String()
}
