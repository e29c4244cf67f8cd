package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/querydeck/scribe/internal/extract"
	"github.com/querydeck/scribe/internal/fetch"
	"github.com/querydeck/scribe/internal/llm"
	"github.com/querydeck/scribe/internal/search"
	"github.com/querydeck/scribe/internal/store"
	"github.com/querydeck/scribe/internal/summarize"
)

// textSeparator joins per-source extracts with a separating blank line.
const textSeparator = "\n\n"

// Outcome classifies how a run ended. Every value below ReportCreated is a
// normal early exit, not a failure.
type Outcome int

const (
	OutcomeReportCreated Outcome = iota
	// OutcomeNoSources means the search returned nothing usable.
	OutcomeNoSources
	// OutcomeNoContent means no URL yielded extractable text.
	OutcomeNoContent
	// OutcomeSummarizeFailed means the model call failed; nothing persisted.
	OutcomeSummarizeFailed
	// OutcomeSaveFailed means persisting the report failed; the generated
	// report is still carried in Result for display.
	OutcomeSaveFailed
)

// Result is the explicit outcome of one run. Callers branch on Outcome
// instead of parsing printed output.
type Result struct {
	Outcome Outcome
	// Report is the persisted row for OutcomeReportCreated; for
	// OutcomeSaveFailed it carries the generated but unpersisted report.
	Report store.Report
	// Sources lists every URL the run consulted, in search order, including
	// ones whose extraction failed.
	Sources []string
	// Err carries the failure reason for OutcomeSummarizeFailed and
	// OutcomeSaveFailed.
	Err error
}

// App owns one instance of each external dependency: the search provider,
// the fetch client, the LLM client, and the report store. All are injected
// explicitly so the pipeline is testable with fakes.
type App struct {
	cfg        Config
	provider   search.Provider
	fetcher    sourceGetter
	extractDoc extractFunc
	summarizer *summarize.Summarizer
	reports    *store.ReportStore
}

// New validates credentials (the only fatal error class) and wires the
// pipeline's collaborators.
func New(cfg Config) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var provider search.Provider
	switch cfg.SearchProvider {
	case "searxng":
		provider = &search.SearxNG{BaseURL: cfg.SearxURL, APIKey: cfg.SearxKey}
	default:
		provider = &search.Tavily{APIKey: cfg.TavilyAPIKey, BaseURL: cfg.TavilyBaseURL}
	}

	reports, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open report store: %w", err)
	}

	return &App{
		cfg:        cfg,
		provider:   provider,
		fetcher:    &fetchClient{client: &fetch.Client{Timeout: cfg.FetchTimeout}},
		extractDoc: extract.FromBytes,
		summarizer: &summarize.Summarizer{
			Client: llm.New(cfg.LLMAPIKey, cfg.LLMBaseURL),
			Model:  cfg.LLMModel,
		},
		reports: reports,
	}, nil
}

func (a *App) Close() error {
	return a.reports.Close()
}

// Store exposes the report store for the history view.
func (a *App) Store() *store.ReportStore {
	return a.reports
}

// Run executes one research pass: search, per-URL fetch and extract,
// summarize, persist. Collaborator failures below the credential level are
// absorbed here and reported through Result, never as a panic or a fatal
// error crossing the boundary.
func (a *App) Run(ctx context.Context, query string) (Result, error) {
	// Searching
	log.Info().Str("query", query).Msg("searching online")
	results, err := a.provider.Search(ctx, query, a.cfg.MaxSources)
	if err != nil {
		log.Warn().Err(err).Str("provider", a.provider.Name()).Msg("search failed; treating as no results")
		results = nil
	}
	if len(results) == 0 {
		return Result{Outcome: OutcomeNoSources}, nil
	}
	urls := search.URLs(results)

	// Extracting
	all := a.collectContent(ctx, urls)
	if all == "" {
		return Result{Outcome: OutcomeNoContent, Sources: urls}, nil
	}

	// Summarizing
	log.Info().Str("model", a.cfg.LLMModel).Msg("summarizing content")
	report, err := a.summarizer.Summarize(ctx, all, query)
	if err != nil {
		log.Warn().Err(err).Msg("summarization failed; nothing persisted")
		return Result{Outcome: OutcomeSummarizeFailed, Sources: urls, Err: err}, nil
	}

	// Persisting: sources are recorded as consulted, not successfully read.
	// A save failure is soft: the only fatal condition is missing
	// credentials at startup, so the generated report is surfaced unsaved.
	saved, err := a.reports.Save(ctx, query, report, urls)
	if err != nil {
		log.Warn().Err(err).Msg("saving report failed; run output not persisted")
		return Result{
			Outcome: OutcomeSaveFailed,
			Report:  store.Report{Query: query, ReportContent: report, Sources: urls},
			Sources: urls,
			Err:     err,
		}, nil
	}
	log.Info().Int64("id", saved.ID).Str("query", query).Msg("report saved")

	return Result{Outcome: OutcomeReportCreated, Report: saved, Sources: urls}, nil
}

// collectContent fetches and extracts each URL in order, skipping failures,
// and concatenates the surviving texts with a separating blank line. One bad
// source never stops progress; partial success is the expected common case.
func (a *App) collectContent(ctx context.Context, urls []string) string {
	var all strings.Builder
	for _, u := range urls {
		log.Info().Str("url", u).Msg("scraping content")
		body, contentType, err := a.fetcher.get(ctx, u)
		if err != nil {
			log.Warn().Err(err).Str("url", u).Msg("fetch failed; skipping source")
			continue
		}
		text, err := a.extractDoc(body, contentType)
		if err != nil {
			log.Warn().Err(err).Str("url", u).Msg("extraction failed; skipping source")
			continue
		}
		all.WriteString(text)
		all.WriteString(textSeparator)
	}
	return all.String()
}

// sourceGetter abstracts the minimal fetch method used for tests.
type sourceGetter interface {
	get(ctx context.Context, url string) ([]byte, string, error)
}

// extractFunc abstracts content extraction so tests can stub PDF handling.
type extractFunc func(body []byte, contentType string) (string, error)

type fetchClient struct {
	client *fetch.Client
}

func (f *fetchClient) get(ctx context.Context, url string) ([]byte, string, error) {
	if f == nil || f.client == nil {
		return nil, "", fmt.Errorf("fetch client not configured")
	}
	return f.client.Get(ctx, url)
}
