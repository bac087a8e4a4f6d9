package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hadees/internal/config"
	"hadees/internal/constants"
	"hadees/internal/embedding"
)

func seededMemory(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory(embedding.NewMockEmbedder(16))
	docs := []constants.Document{
		constants.Record{HadithID: "1", Text: "Actions are judged by intentions", Source: "Bukhari", Chapter: "Revelation"}.Document(),
		constants.Record{HadithID: "2", Text: "The best of you are those who learn the Quran", Source: "Bukhari", Chapter: "Virtues"}.Document(),
		constants.Record{HadithID: "3", Text: "Cleanliness is half of faith", Source: "Muslim", Chapter: "Purification"}.Document(),
	}
	require.NoError(t, m.Add(context.Background(), docs))
	return m
}

func TestMemory_QueryOrdersByDistance(t *testing.T) {
	m := seededMemory(t)
	hits, err := m.Query(context.Background(), "Cleanliness is half of faith", 3, constants.Filter{})
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "3", hits[0].ID)
	assert.InDelta(t, 0, hits[0].Distance, 1e-6)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
	}
	assert.Equal(t, "Muslim", hits[0].Metadata[constants.MetaSource])
	assert.Equal(t, "", hits[0].Metadata[constants.MetaHadithNo])
}

func TestMemory_QueryLimitAndFilter(t *testing.T) {
	m := seededMemory(t)
	ctx := context.Background()

	hits, err := m.Query(ctx, "faith", 1, constants.Filter{})
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = m.Query(ctx, "faith", 10, constants.Filter{Source: "Bukhari"})
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = m.Query(ctx, "faith", 10, constants.Filter{Source: "Bukhari", Chapter: "Virtues"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "2", hits[0].ID)

	hits, err = m.Query(ctx, "faith", 10, constants.Filter{Source: "Muslim", Chapter: "Virtues"})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemory_CountResetUpsertGet(t *testing.T) {
	m := seededMemory(t)
	ctx := context.Background()

	count, err := m.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	require.NoError(t, m.Add(ctx, []constants.Document{{ID: "1", Text: "updated", Metadata: map[string]string{}}}))
	count, _ = m.Count(ctx)
	assert.EqualValues(t, 3, count)

	hit, err := m.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "updated", hit.Text)

	_, err = m.Get(ctx, "404")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Reset(ctx))
	count, _ = m.Count(ctx)
	assert.Zero(t, count)
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0, CosineDistance([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 1, CosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 2, CosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 1.0, CosineDistance([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 1.0, CosineDistance([]float32{1}, []float32{1, 0}))
}

func TestOpen_Memory(t *testing.T) {
	store, err := Open(context.Background(), config.VectorStoreConfig{Type: "memory"}, embedding.NewMockEmbedder(8), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)
	assert.NoError(t, store.Close())
}

func TestOpen_UnknownType(t *testing.T) {
	_, err := Open(context.Background(), config.VectorStoreConfig{Type: "chroma"}, embedding.NewMockEmbedder(8), zap.NewNop())
	assert.ErrorContains(t, err, "chroma")
}
