package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTavilyBaseURL = "https://api.tavily.com/search"

// Tavily implements Provider against the Tavily Search API.
type Tavily struct {
	APIKey     string
	BaseURL    string // optional override, defaults to the hosted API
	HTTPClient *http.Client
}

func (t *Tavily) Name() string { return "tavily" }

func (t *Tavily) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if t.APIKey == "" {
		return nil, fmt.Errorf("missing tavily api key")
	}
	if limit <= 0 {
		limit = 3
	}
	base := t.BaseURL
	if base == "" {
		base = defaultTavilyBaseURL
	}

	payload, err := json.Marshal(tavilyRequest{
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  limit,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.APIKey)

	hc := t.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("tavily status: %d", resp.StatusCode)
	}
	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(tr.Results))
	for _, r := range tr.Results {
		if r.URL == "" {
			continue
		}
		out = append(out, Result{
			Title:   strings.TrimSpace(r.Title),
			URL:     strings.TrimSpace(r.URL),
			Snippet: strings.TrimSpace(r.Content),
			Source:  t.Name(),
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type tavilyRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}
