package app

import (
	"os"
	"strconv"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.SearchProvider == "" {
		cfg.SearchProvider = os.Getenv("SEARCH_PROVIDER")
	}
	if cfg.TavilyAPIKey == "" {
		cfg.TavilyAPIKey = os.Getenv("TAVILY_API_KEY")
	}
	if cfg.TavilyBaseURL == "" {
		cfg.TavilyBaseURL = os.Getenv("TAVILY_BASE_URL")
	}
	if cfg.SearxURL == "" {
		// Support both SEARX_URL and SEARXNG_URL; prefer SEARX_URL if set
		v := os.Getenv("SEARX_URL")
		if v == "" {
			v = os.Getenv("SEARXNG_URL")
		}
		cfg.SearxURL = v
	}
	if cfg.SearxKey == "" {
		v := os.Getenv("SEARX_KEY")
		if v == "" {
			v = os.Getenv("SEARXNG_KEY")
		}
		cfg.SearxKey = v
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		// GEMINI_API_KEY accepted for parity with OpenAI-compatible gateways
		// fronting Gemini models.
		v := os.Getenv("LLM_API_KEY")
		if v == "" {
			v = os.Getenv("GEMINI_API_KEY")
		}
		cfg.LLMAPIKey = v
	}

	if cfg.DBPath == "" {
		cfg.DBPath = os.Getenv("DB_PATH")
	}

	if cfg.MaxSources == 0 {
		if v, err := strconv.Atoi(os.Getenv("MAX_SOURCES")); err == nil && v > 0 {
			cfg.MaxSources = v
		}
	}
	if cfg.FetchTimeout == 0 {
		if d, err := time.ParseDuration(os.Getenv("FETCH_TIMEOUT")); err == nil && d > 0 {
			cfg.FetchTimeout = d
		}
	}
}
