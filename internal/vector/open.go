package vector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hadees/internal/config"
	"hadees/internal/embedding"
)

// Open - Builds the backend named by cfg.Type.
func Open(ctx context.Context, cfg config.VectorStoreConfig, embedder embedding.Embedder, logger *zap.Logger) (Store, error) {
	switch cfg.Type {
	case "memory":
		logger.Warn("using in-memory vector store, nothing survives a restart")
		return NewMemory(embedder), nil
	case "qdrant", "":
		return Connect(ctx, cfg.QdrantAddr, cfg.Collection, cfg.Dimensions, embedder, logger)
	default:
		return nil, fmt.Errorf("unknown vector store type %q", cfg.Type)
	}
}
