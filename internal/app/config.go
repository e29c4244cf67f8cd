package app

import (
	"errors"
	"time"
)

// Config holds runtime configuration for a research run.
type Config struct {
	// Search
	SearchProvider string // "tavily" (default) or "searxng"
	TavilyAPIKey   string
	TavilyBaseURL  string
	SearxURL       string
	SearxKey       string

	// LLM
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Pipeline
	MaxSources   int           // search result bound, default 3
	FetchTimeout time.Duration // per-URL bound, default 10s

	// Persistence
	DBPath string // default "research_reports.db"

	Verbose bool
}

// ApplyDefaults fills zero values with the fixed defaults.
func (c *Config) ApplyDefaults() {
	if c.SearchProvider == "" {
		c.SearchProvider = "tavily"
	}
	if c.MaxSources <= 0 {
		c.MaxSources = 3
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.DBPath == "" {
		c.DBPath = "research_reports.db"
	}
}

// Validate checks the only fatal startup condition: missing required
// credentials for the configured backends. Everything past this point
// degrades softly.
func (c *Config) Validate() error {
	switch c.SearchProvider {
	case "tavily":
		if c.TavilyAPIKey == "" {
			return errors.New("missing tavily api key (TAVILY_API_KEY)")
		}
	case "searxng":
		if c.SearxURL == "" {
			return errors.New("missing searxng base url (SEARX_URL)")
		}
	default:
		return errors.New("unknown search provider: " + c.SearchProvider)
	}
	if c.LLMModel == "" {
		return errors.New("missing llm model (LLM_MODEL)")
	}
	if c.LLMAPIKey == "" && c.LLMBaseURL == "" {
		return errors.New("missing llm api key (LLM_API_KEY)")
	}
	return nil
}
