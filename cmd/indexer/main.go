package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"hadees/internal/app"
	"hadees/internal/indexer"
)

const defaultDataPath = "data/all_hadiths_clean.csv"

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	force := flag.Bool("force", false, "delete and rebuild the collection when it already has documents")
	batch := flag.Int("batch", 0, "documents per batch (defaults to indexer.batch_size)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [file.csv|file.xlsx]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	path := defaultDataPath
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	os.Exit(run(*configPath, path, *force, *batch))
}

func run(configPath string, path string, force bool, batch int) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, configPath)
	if err != nil {
		color.Red("startup failed: %v", err)
		return 1
	}
	defer a.Close()

	if batch <= 0 {
		batch = a.Config.Indexer.BatchSize
	}

	idx := indexer.NewIndexer(a.Store, a.Embedder, a.Logger)
	report, err := idx.Run(ctx, path, indexer.Options{BatchSize: batch, ForceReindex: force})
	if errors.Is(err, indexer.ErrCollectionNotEmpty) {
		color.Yellow("Collection already holds %d documents. Re-run with -force to rebuild it.", report.Existing)
		return 0
	}
	if err != nil {
		a.Logger.Error("indexing failed", zap.Error(err))
		color.Red("Indexing failed: %v", err)
		return 1
	}

	printReport(report)
	if len(report.Failed) > 0 {
		return 2
	}
	return 0
}

func printReport(report *indexer.Report) {
	color.Green("Indexed %d/%d hadiths in %s (%.1f docs/s)", report.Processed, report.Total, report.Elapsed.Round(time.Millisecond), report.Rate())
	if report.EmptyIDs > 0 {
		color.Yellow("Skipped %d rows with an empty hadith_id", report.EmptyIDs)
	}
	if report.Duplicates > 0 {
		color.Yellow("Skipped %d duplicate hadith_ids", report.Duplicates)
	}
	for _, failed := range report.Failed {
		color.Red("Batch at row %d (%d docs) failed: %v", failed.Start, failed.Size, failed.Err)
	}
}
