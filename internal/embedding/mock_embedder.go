package embedding

import (
	"context"
	"hash/fnv"
	"math"
)

// MockEmbedder - Deterministic embedder for tests: the same text always gets the same unit vector.
type MockEmbedder struct {
	Dimensions int
	// ModelErr is returned by CheckModel when set.
	ModelErr error
}

func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 16
	}
	return &MockEmbedder{Dimensions: dimensions}
}

func (e *MockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *MockEmbedder) CheckModel(ctx context.Context) error {
	return e.ModelErr
}

func (e *MockEmbedder) vector(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := float64(h.Sum64()%10007) + 1

	vec := make([]float32, e.Dimensions)
	var sum float64
	for i := range vec {
		v := math.Sin(seed*float64(i+1))*0.5 + 0.01
		vec[i] = float32(v)
		sum += v * v
	}
	norm := 1 / math.Sqrt(sum)
	for i := range vec {
		vec[i] *= float32(norm)
	}
	return vec
}
