// Package indexer loads the hadith table into the vector store in fixed-size batches.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hadees/internal/constants"
	"hadees/internal/embedding"
	"hadees/internal/vector"
)

const DefaultBatchSize = 100

// ErrCollectionNotEmpty - The collection already holds documents and a reindex was not asked for.
var ErrCollectionNotEmpty = errors.New("collection already holds documents; rerun with force reindex to replace them")

// BatchWriteError - One batch could not be stored. Its rows are missing from the index.
type BatchWriteError struct {
	Start int
	Size  int
	Err   error
}

func (e BatchWriteError) Error() string {
	return fmt.Sprintf("batch starting at %d (%d rows): %v", e.Start, e.Size, e.Err)
}

func (e BatchWriteError) Unwrap() error { return e.Err }

type Options struct {
	BatchSize    int
	ForceReindex bool
}

// Report - Outcome of a run. Processed < Total means some batches failed; see Failed.
type Report struct {
	Total      int
	Processed  int
	EmptyIDs   int
	Duplicates int
	Existing   uint64
	Reindexed  bool
	Failed     []BatchWriteError
	Elapsed    time.Duration
}

// Rate - Documents stored per second.
func (r *Report) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Processed) / r.Elapsed.Seconds()
}

type Indexer struct {
	store    vector.Store
	embedder embedding.Embedder
	logger   *zap.Logger
}

func NewIndexer(store vector.Store, embedder embedding.Embedder, logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{store: store, embedder: embedder, logger: logger}
}

// Run - Validate the table at path, make sure the embedding model is there, then store the
// records batch by batch. A failing batch is logged, recorded and skipped.
func (idx *Indexer) Run(ctx context.Context, path string, opts Options) (*Report, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	table, err := LoadRecords(path)
	if err != nil {
		return nil, err
	}
	idx.logger.Info("loaded hadiths", zap.String("path", path), zap.Int("rows", table.Rows))
	if table.EmptyIDs > 0 {
		idx.logger.Warn("skipping rows with empty hadith_id", zap.Int("rows", table.EmptyIDs))
	}
	if table.Duplicates > 0 {
		idx.logger.Warn("skipping rows with duplicate hadith_id", zap.Int("rows", table.Duplicates))
	}

	if err := idx.embedder.CheckModel(ctx); err != nil {
		return nil, err
	}

	report := &Report{
		Total:      len(table.Records),
		EmptyIDs:   table.EmptyIDs,
		Duplicates: table.Duplicates,
	}

	existing, err := idx.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count existing documents: %w", err)
	}
	report.Existing = existing
	if existing > 0 {
		if !opts.ForceReindex {
			idx.logger.Info("collection not empty, aborting", zap.Uint64("documents", existing))
			return report, ErrCollectionNotEmpty
		}
		idx.logger.Info("deleting existing collection", zap.Uint64("documents", existing))
		if err := idx.store.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset collection: %w", err)
		}
		report.Reindexed = true
	}

	idx.logger.Info("indexing hadiths", zap.Int("total", report.Total), zap.Int("batch_size", opts.BatchSize))
	start := time.Now()
	for i := 0; i < len(table.Records); i += opts.BatchSize {
		if err := ctx.Err(); err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}
		end := min(i+opts.BatchSize, len(table.Records))
		batch := table.Records[i:end]

		if err := idx.store.Add(ctx, documents(batch)); err != nil {
			batchErr := BatchWriteError{Start: i, Size: len(batch), Err: err}
			report.Failed = append(report.Failed, batchErr)
			idx.logger.Error("batch failed, continuing with next batch", zap.Int("start", i), zap.Int("size", len(batch)), zap.Error(err))
			continue
		}
		report.Processed += len(batch)
		idx.logger.Debug("batch indexed", zap.Int("processed", report.Processed), zap.Int("total", report.Total))
	}
	report.Elapsed = time.Since(start)

	idx.logger.Info("indexing complete",
		zap.Int("processed", report.Processed),
		zap.Int("total", report.Total),
		zap.Int("failed_batches", len(report.Failed)),
		zap.Duration("elapsed", report.Elapsed),
		zap.Float64("hadiths_per_second", report.Rate()),
	)
	return report, nil
}

func documents(records []constants.Record) []constants.Document {
	docs := make([]constants.Document, len(records))
	for i, record := range records {
		docs[i] = record.Document()
	}
	return docs
}
