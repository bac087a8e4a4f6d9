// Package service answers search and question requests against the indexed hadiths.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hadees/internal/constants"
	"hadees/internal/llms"
	"hadees/internal/vector"
)

var (
	ErrEmptyQuery = errors.New("query cannot be empty")
	ErrNotFound   = vector.ErrNotFound
)

// RetrievalError - The vector store query itself failed.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string { return "retrieval failed: " + e.Err.Error() }

func (e *RetrievalError) Unwrap() error { return e.Err }

// ExpansionError - Query expansion failed; search carried on with the raw query.
type ExpansionError struct {
	Err error
}

func (e *ExpansionError) Error() string { return "query expansion failed: " + e.Err.Error() }

func (e *ExpansionError) Unwrap() error { return e.Err }

type Options struct {
	DefaultLimit int
	AnswerLimit  int
	MaxLimit     int
	ExpandQuery  bool
	// ExpansionPrompt replaces llms.ExpansionSystemPrompt when set.
	ExpansionPrompt string
}

type Service struct {
	store  vector.Store
	llm    llms.Provider
	opts   Options
	logger *zap.Logger
}

func New(store vector.Store, llm llms.Provider, opts Options, logger *zap.Logger) *Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}
	if opts.AnswerLimit <= 0 {
		opts.AnswerLimit = 5
	}
	if opts.MaxLimit < opts.DefaultLimit || opts.MaxLimit < opts.AnswerLimit {
		opts.MaxLimit = max(opts.DefaultLimit, opts.AnswerLimit, 100)
	}
	if opts.ExpansionPrompt == "" {
		opts.ExpansionPrompt = llms.ExpansionSystemPrompt
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, llm: llm, opts: opts, logger: logger}
}

// SearchScore - Cosine distance d in [0, 2] mapped onto [0, 1]: (2 - d) / 2.
func SearchScore(distance float64) float64 {
	return (2 - distance) / 2
}

// AnswerScore - 2 - d. Not halved like SearchScore; /answer has always reported it this way.
func AnswerScore(distance float64) float64 {
	return 2 - distance
}

// Search - Nearest hadiths for query, optionally expanded by the llm first, narrowed by filter.
func (s *Service) Search(ctx context.Context, query string, filter constants.Filter, limit int) ([]constants.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	limit = s.clamp(limit, s.opts.DefaultLimit)

	searchText := query
	if s.opts.ExpandQuery && s.llm != nil {
		expanded, err := s.expand(ctx, query)
		if err != nil {
			s.logger.Warn("using original query", zap.String("query", query), zap.Error(err))
		} else {
			searchText = expanded
		}
	}

	hits, err := s.store.Query(ctx, searchText, limit, filter)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}
	return toResults(hits, SearchScore), nil
}

// Answer - Retrieve the closest hadiths for question and have the llm answer from them only.
// A failed generation becomes the answer text; the hadiths are returned regardless.
func (s *Service) Answer(ctx context.Context, question string, limit int) (*constants.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuery
	}
	limit = s.clamp(limit, s.opts.AnswerLimit)

	hits, err := s.store.Query(ctx, question, limit, constants.Filter{})
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}
	results := toResults(hits, AnswerScore)

	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = hit.Text
	}
	prompt := llms.BuildAnswerPrompt(question, llms.BuildContext(texts))

	answer, err := s.generate(ctx, prompt)
	if err != nil {
		s.logger.Error("answer generation failed", zap.String("question", question), zap.Error(err))
		answer = "Error generating answer: " + err.Error()
	} else {
		answer = llms.StripReasoning(answer)
	}

	return &constants.Answer{Answer: answer, Hadiths: results}, nil
}

// Get - One indexed hadith by id.
func (s *Service) Get(ctx context.Context, id string) (*constants.SearchResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyQuery
	}
	hit, err := s.store.Get(ctx, id)
	if errors.Is(err, vector.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}
	result := toResult(*hit, SearchScore)
	return &result, nil
}

func (s *Service) expand(ctx context.Context, query string) (string, error) {
	expanded, err := s.llm.Generate(ctx, s.opts.ExpansionPrompt, query)
	if err != nil {
		return "", &ExpansionError{Err: err}
	}
	expanded = strings.TrimSpace(llms.StripReasoning(expanded))
	if expanded == "" {
		return "", &ExpansionError{Err: fmt.Errorf("empty expansion")}
	}
	s.logger.Debug("query expanded", zap.String("query", query), zap.String("expanded", expanded))
	return expanded, nil
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.llm == nil {
		return "", &llms.GenerationError{Provider: "none", Err: fmt.Errorf("no language model configured")}
	}
	return s.llm.Generate(ctx, "", prompt)
}

func (s *Service) clamp(limit int, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return min(limit, s.opts.MaxLimit)
}

func toResults(hits []vector.Hit, score func(float64) float64) []constants.SearchResult {
	results := make([]constants.SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = toResult(hit, score)
	}
	return results
}

func toResult(hit vector.Hit, score func(float64) float64) constants.SearchResult {
	return constants.SearchResult{
		HadithID: hit.ID,
		Text:     hit.Text,
		Score:    score(hit.Distance),
		Metadata: hit.Metadata,
	}
}
