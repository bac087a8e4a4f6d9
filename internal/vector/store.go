// Package vector persists embedded hadiths and answers nearest-neighbour queries over them.
package vector

import (
	"context"
	"errors"

	"hadees/internal/constants"
)

var ErrNotFound = errors.New("hadith not found")

// Hit - One neighbour. Distance is cosine distance, 0 (same direction) to 2 (opposite).
type Hit struct {
	ID       string
	Text     string
	Metadata map[string]string
	Distance float64
}

// Store - A named collection that embeds what it stores and what it is queried with.
type Store interface {
	Count(ctx context.Context) (uint64, error)
	// Reset drops every document and recreates the empty collection.
	Reset(ctx context.Context) error
	Add(ctx context.Context, docs []constants.Document) error
	// Query returns up to limit hits by ascending distance.
	Query(ctx context.Context, text string, limit int, filter constants.Filter) ([]Hit, error)
	Get(ctx context.Context, id string) (*Hit, error)
	Close() error
}
