package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"hadees/internal/constants"
	"hadees/internal/embedding"
)

type memoryEntry struct {
	doc    constants.Document
	vector []float32
}

// Memory - In-process brute-force cosine store. Nothing survives a restart.
type Memory struct {
	embedder embedding.Embedder
	mu       sync.RWMutex
	order    []string
	entries  map[string]memoryEntry
}

func NewMemory(embedder embedding.Embedder) *Memory {
	return &Memory{
		embedder: embedder,
		entries:  make(map[string]memoryEntry),
	}
}

func (m *Memory) Count(ctx context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.entries)), nil
}

func (m *Memory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = nil
	m.entries = make(map[string]memoryEntry)
	return nil
}

// Add - Upserts: a known id keeps its position and gets the new text and vector.
func (m *Memory) Add(ctx context.Context, docs []constants.Document) error {
	if len(docs) == 0 {
		return nil
	}
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	vectors, err := m.embedder.Embed(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("got %d vectors for %d documents", len(vectors), len(docs))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, doc := range docs {
		if _, ok := m.entries[doc.ID]; !ok {
			m.order = append(m.order, doc.ID)
		}
		m.entries[doc.ID] = memoryEntry{doc: doc, vector: vectors[i]}
	}
	return nil
}

func (m *Memory) Query(ctx context.Context, text string, limit int, filter constants.Filter) ([]Hit, error) {
	vectors, err := m.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("got %d vectors for one query", len(vectors))
	}
	query := vectors[0]
	conditions := filter.Conditions()

	m.mu.RLock()
	hits := make([]Hit, 0, len(m.entries))
	for _, id := range m.order {
		entry := m.entries[id]
		if !matches(entry.doc.Metadata, conditions) {
			continue
		}
		hit := hitFromDocument(entry.doc)
		hit.Distance = CosineDistance(query, entry.vector)
		hits = append(hits, hit)
	}
	m.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if limit >= 0 && limit < len(hits) {
		hits = hits[:limit]
	}
	return hits, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*Hit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	hit := hitFromDocument(entry.doc)
	return &hit, nil
}

func (m *Memory) Close() error {
	return nil
}

// CosineDistance - 1 - cos(a, b). Mismatched or zero-length vectors are treated as orthogonal.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	d := 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
	// rounding can push identical vectors slightly outside [0, 2]
	return math.Min(2, math.Max(0, d))
}

func matches(metadata map[string]string, conditions map[string]string) bool {
	for key, want := range conditions {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

func hitFromDocument(doc constants.Document) Hit {
	metadata := make(map[string]string, len(constants.MetadataKeys))
	for _, key := range constants.MetadataKeys {
		metadata[key] = doc.Metadata[key]
	}
	return Hit{ID: doc.ID, Text: doc.Text, Metadata: metadata}
}
