package search

import (
	"context"
)

// Result represents a single search hit from any provider.
type Result struct {
	Title   string
	URL     string
	Snippet string
	Source  string // provider name for observability
}

// Provider is a minimal interface for search providers.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}

// URLs projects the URL field out of results, preserving order.
func URLs(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.URL)
	}
	return out
}
