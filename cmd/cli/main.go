package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"

	"hadees/internal/app"
	"hadees/internal/constants"
)

// Bismillah
func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	limit := flag.Int("limit", 0, "hadiths to retrieve per question (defaults to search.answer_limit)")
	search := flag.Bool("search", false, "only search, don't ask the llm")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, *configPath)
	if err != nil {
		panic(err)
	}
	defer a.Close()
	svc, err := a.Service(ctx)
	if err != nil {
		panic(err)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter your prompt: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("Error reading input: %v\n", err)
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if *search {
			results, err := svc.Search(ctx, input, constants.Filter{}, *limit)
			if err != nil {
				color.Red("Search error: %v", err)
				continue
			}
			printHadiths(results)
			continue
		}

		answer, err := svc.Answer(ctx, input, *limit)
		if err != nil {
			color.Red("Error: %v", err)
			continue
		}
		color.Cyan("Model: %s", answer.Answer)
		printHadiths(answer.Hadiths)
	}
}

func printHadiths(results []constants.SearchResult) {
	for i, r := range results {
		color.New(color.FgYellow, color.Bold).Printf("%d. %s, %s #%s (%.3f)\n", i+1, r.Metadata[constants.MetaSource], r.Metadata[constants.MetaChapter], r.Metadata[constants.MetaHadithNo], r.Score)
		fmt.Println("   " + r.Text)
	}
}
