// Package app wires config into the clients every entrypoint needs.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hadees/internal/config"
	"hadees/internal/embedding"
	"hadees/internal/llms"
	"hadees/internal/service"
	"hadees/internal/utils"
	"hadees/internal/vector"
)

type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Embedder embedding.Embedder
	Store    vector.Store
}

// New - Logger, embedder and vector store. The llm is built separately since the indexer never needs it.
func New(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	embedder := embedding.NewOllama(cfg.Embedding.URL, cfg.Embedding.Model, time.Duration(cfg.Embedding.TimeoutSecs)*time.Second)
	store, err := vector.Open(ctx, cfg.VectorStore, embedder, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return &App{Config: cfg, Logger: logger, Embedder: embedder, Store: store}, nil
}

// Service - Query service with the configured llm provider.
func (a *App) Service(ctx context.Context) (*service.Service, error) {
	llm, err := llms.New(ctx, a.Config.LLM, a.Logger)
	if err != nil {
		return nil, err
	}

	opts := service.Options{
		DefaultLimit: a.Config.Search.DefaultLimit,
		AnswerLimit:  a.Config.Search.AnswerLimit,
		MaxLimit:     a.Config.Search.MaxLimit,
		ExpandQuery:  a.Config.Search.ExpandQueryOrDefault(),
	}
	if path := a.Config.Search.ExpansionPromptFile; path != "" {
		prompt, err := utils.ReadTextFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read expansion prompt: %w", err)
		}
		opts.ExpansionPrompt = strings.TrimSpace(prompt)
	}

	a.Logger.Info("query service ready",
		zap.String("llm", llm.Name()),
		zap.Bool("expand_query", opts.ExpandQuery),
	)
	return service.New(a.Store, llm, opts, a.Logger), nil
}

func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn("failed to close vector store", zap.Error(err))
	}
	_ = a.Logger.Sync()
}
