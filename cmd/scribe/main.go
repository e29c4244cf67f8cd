package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/querydeck/scribe/internal/app"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		query      string
		configPath string
		provider   string
		tavilyKey  string
		searxURL   string
		searxKey   string
		llmBaseURL string
		llmModel   string
		llmKey     string
		maxSources int
		dbPath     string
		verbose    bool
	)

	flag.StringVar(&query, "query", "", "Research question (falls back to the first positional argument)")
	flag.StringVar(&configPath, "config", "", "Optional YAML config file")
	flag.StringVar(&provider, "search.provider", "", "Search provider: tavily or searxng")
	flag.StringVar(&tavilyKey, "tavily.key", "", "Tavily API key")
	flag.StringVar(&searxURL, "searx.url", "", "SearxNG base URL")
	flag.StringVar(&searxKey, "searx.key", "", "SearxNG API key (optional)")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", "", "Model name")
	flag.StringVar(&llmKey, "llm.key", "", "API key for OpenAI-compatible server")
	flag.IntVar(&maxSources, "max.sources", 0, "Maximum number of sources (default 3)")
	flag.StringVar(&dbPath, "db", "", "Path to the report database")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if query == "" && flag.NArg() > 0 {
		query = strings.Join(flag.Args(), " ")
	}
	if strings.TrimSpace(query) == "" {
		fmt.Fprintln(os.Stderr, "usage: scribe -query \"your research question\"")
		os.Exit(1)
	}

	cfg := app.Config{
		SearchProvider: provider,
		TavilyAPIKey:   tavilyKey,
		SearxURL:       searxURL,
		SearxKey:       searxKey,
		LLMBaseURL:     llmBaseURL,
		LLMModel:       llmModel,
		LLMAPIKey:      llmKey,
		MaxSources:     maxSources,
		DBPath:         dbPath,
		Verbose:        verbose,
	}
	if configPath != "" {
		fc, err := app.LoadFileConfig(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file")
			os.Exit(1)
		}
		app.MergeFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)

	if err := run(cfg, query); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config, query string) error {
	ctx := context.Background()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	res, err := a.Run(ctx, query)
	if err != nil {
		return err
	}

	switch res.Outcome {
	case app.OutcomeNoSources:
		fmt.Println("Could not find any relevant URLs. Nothing to report.")
	case app.OutcomeNoContent:
		fmt.Println("Failed to extract content from any of the URLs. Nothing to report.")
	case app.OutcomeSummarizeFailed:
		fmt.Printf("Summarization failed: %v\n", res.Err)
	case app.OutcomeSaveFailed:
		fmt.Println("\n--- FINAL REPORT (not saved) ---")
		fmt.Println(res.Report.ReportContent)
		fmt.Println("\n--- SOURCES ---")
		for _, u := range res.Sources {
			fmt.Printf("- %s\n", u)
		}
		fmt.Printf("\nWarning: report could not be saved: %v\n", res.Err)
	case app.OutcomeReportCreated:
		fmt.Println("\n--- FINAL REPORT ---")
		fmt.Println(res.Report.ReportContent)
		fmt.Println("\n--- SOURCES ---")
		for _, u := range res.Sources {
			fmt.Printf("- %s\n", u)
		}
	}
	return nil
}
