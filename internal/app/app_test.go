package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hadees/internal/vector"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	for _, key := range []string{"QDRANT_ADDR", "OLLAMA_URL", "LLM_PROVIDER", "PORT", "GEMINI_API_KEY", "GROQ_API_KEY"} {
		t.Setenv(key, "")
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestNew_MemoryStore(t *testing.T) {
	path := writeConfig(t, "vector_store:\n  type: memory\n")

	a, err := New(context.Background(), path)
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &vector.Memory{}, a.Store)
	assert.NotNil(t, a.Embedder)

	svc, err := a.Service(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestService_ExpansionPromptFile(t *testing.T) {
	prompt := filepath.Join(t.TempDir(), "expand.txt")
	require.NoError(t, os.WriteFile(prompt, []byte("expand this hadith query\n"), 0600))
	path := writeConfig(t, "vector_store:\n  type: memory\nsearch:\n  expansion_prompt_file: "+prompt+"\n")

	a, err := New(context.Background(), path)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Service(context.Background())
	assert.NoError(t, err)

	a.Config.Search.ExpansionPromptFile = filepath.Join(t.TempDir(), "missing.txt")
	_, err = a.Service(context.Background())
	assert.ErrorContains(t, err, "expansion prompt")
}

func TestService_GroqWithoutKey(t *testing.T) {
	path := writeConfig(t, "vector_store:\n  type: memory\nllm:\n  provider: groq\n")

	a, err := New(context.Background(), path)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Service(context.Background())
	assert.Error(t, err)
}

func TestNew_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "vector_store:\n  type: chroma\n")

	_, err := New(context.Background(), path)
	assert.Error(t, err)
}
