package llms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"

	"hadees/internal/config"
)

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no markers", "Be kind to parents.", "Be kind to parents."},
		{"leading span", "<think>the user asks\nabout parents</think>\n\nBe kind to parents.", "Be kind to parents."},
		{"two spans non-greedy", "<think>a</think>One. <think>b</think>Two.", "One. Two."},
		{"unclosed marker kept", "<think>never closed", "<think>never closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripReasoning(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.name != "unclosed marker kept" {
				assert.NotContains(t, got, "<think>")
				assert.NotContains(t, got, "</think>")
			}
		})
	}
}

func TestBuildContextAndPrompt(t *testing.T) {
	ctxText := BuildContext([]string{"first text", "second text"})
	assert.Equal(t, "Hadith 1: first text\n\nHadith 2: second text\n\n", ctxText)

	prompt := BuildAnswerPrompt("What about charity?", ctxText)
	assert.Contains(t, prompt, `answer the question: "What about charity?"`)
	assert.Contains(t, prompt, "Context:\nHadith 1: first text")
	assert.Contains(t, prompt, "say so clearly")
	assert.Contains(t, prompt, "no formatting")
}

func TestOllamaLLM_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		var req ollamaRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, Model("gemma3:1b"), req.Model)
		assert.Equal(t, "sys", req.System)
		assert.False(t, req.Stream)
		_ = json.NewEncoder(w).Encode(ollamaResponse{Response: "expanded " + req.Prompt, Done: true})
	}))
	defer srv.Close()

	ollama := NewOllamaHandler(srv.URL, "gemma3:1b", time.Second)
	out, err := ollama.Generate(context.Background(), "sys", "fasting")
	require.NoError(t, err)
	assert.Equal(t, "expanded fasting", out)
}

func TestOllamaLLM_GenerateFailures(t *testing.T) {
	blank := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaResponse{Response: "  "})
	}))
	defer blank.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	for _, url := range []string{blank.URL, broken.URL} {
		_, err := NewOllamaHandler(url, "m", time.Second).Generate(context.Background(), "", "q")
		var genErr *GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, "ollama", genErr.Provider)
	}
}

func TestGroqLLM_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		var req promptRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Messages, 2)
		assert.Equal(t, SystemRole, req.Messages[0].Role)
		_ = json.NewEncoder(w).Encode(GroqCompleteAIResponse{Choices: []groqCompleteAIChoice{{
			FinishReason: "stop",
			Message:      AIMessage{Role: "assistant", Content: "an answer"},
		}}})
	}))
	defer srv.Close()

	groq, err := NewGroqHandler(srv.URL, "llama", "key", time.Second)
	require.NoError(t, err)
	out, err := groq.Generate(context.Background(), "sys", "q")
	require.NoError(t, err)
	assert.Equal(t, "an answer", out)
}

func TestGroqParser_Content(t *testing.T) {
	p := GroqParser{}
	_, err := p.Content(&GroqCompleteAIResponse{})
	assert.Error(t, err)
	_, err = p.Content(&GroqCompleteAIResponse{Choices: []groqCompleteAIChoice{{FinishReason: FilterFinishReason, Message: AIMessage{Content: "x"}}}})
	assert.Error(t, err)
}

func TestGeminiParser_ParseResponse(t *testing.T) {
	p := GeminiParser{}

	_, err := p.ParseResponse(nil, errors.New("quota"))
	assert.EqualError(t, err, "quota")

	_, err = p.ParseResponse(&genai.GenerateContentResponse{}, nil)
	assert.Error(t, err)

	resp, err := p.ParseResponse(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content:      &genai.Content{Parts: []*genai.Part{{Text: "Be "}, {Text: "patient."}}},
		FinishReason: genai.FinishReasonStop,
	}}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Be patient.", resp.Content)
	assert.Equal(t, genai.FinishReasonStop, resp.FinishReason)
	assert.False(t, resp.Truncated())

	resp, err = p.ParseResponse(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content:      &genai.Content{Parts: []*genai.Part{{Text: "Be pat"}}},
		FinishReason: genai.FinishReasonMaxTokens,
	}}}, nil)
	require.NoError(t, err)
	assert.True(t, resp.Truncated())
}

func TestGroqLLM_GenerateTruncatedIsLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(GroqCompleteAIResponse{Choices: []groqCompleteAIChoice{{
			FinishReason: LengthFinishReason,
			Message:      AIMessage{Content: "a partial ans"},
		}}})
	}))
	defer srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	groq, err := NewGroqHandler(srv.URL, "llama", "key", time.Second)
	require.NoError(t, err)
	groq.Logger = zap.New(core)

	out, err := groq.Generate(context.Background(), "", "q")
	require.NoError(t, err)
	assert.Equal(t, "a partial ans", out)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "llm response truncated", entry.Message)
	assert.Equal(t, "length", entry.ContextMap()["finish_reason"])
}

func TestNew(t *testing.T) {
	p, err := New(context.Background(), config.LLMConfig{Provider: "ollama", URL: "http://localhost:11434", Model: "gemma3:1b", TimeoutSecs: 5}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	_, err = New(context.Background(), config.LLMConfig{Provider: "groq"}, zap.NewNop())
	assert.Error(t, err)

	_, err = New(context.Background(), config.LLMConfig{Provider: "mystery"}, zap.NewNop())
	assert.Error(t, err)
}
