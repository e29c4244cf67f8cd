package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTavily_Search_ParsesResults(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "First", "url": "https://example.com/a", "content": "snippet a"},
				{"title": "No URL", "url": "", "content": "dropped"},
				{"title": "Second", "url": "https://example.com/b", "content": "snippet b"},
			},
		})
	}))
	defer srv.Close()

	tv := &Tavily{APIKey: "test-key", BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := tv.Search(context.Background(), "mediterranean diet", 3)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 valid results, got %d", len(got))
	}
	if got[0].URL != "https://example.com/a" || got[1].URL != "https://example.com/b" {
		t.Fatalf("unexpected urls: %q, %q", got[0].URL, got[1].URL)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotBody["query"] != "mediterranean diet" || gotBody["search_depth"] != "basic" {
		t.Fatalf("unexpected request body: %v", gotBody)
	}
}

func TestTavily_Search_LimitTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "A", "url": "https://a.example"},
				{"title": "B", "url": "https://b.example"},
				{"title": "C", "url": "https://c.example"},
			},
		})
	}))
	defer srv.Close()

	tv := &Tavily{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := tv.Search(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit to cap results at 2, got %d", len(got))
	}
}

func TestTavily_Search_MissingKey(t *testing.T) {
	tv := &Tavily{}
	if _, err := tv.Search(context.Background(), "q", 3); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestTavily_Search_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tv := &Tavily{APIKey: "bad", BaseURL: srv.URL, HTTPClient: srv.Client()}
	if _, err := tv.Search(context.Background(), "q", 3); err == nil {
		t.Fatalf("expected error on 401")
	}
}

func TestURLs_PreservesOrder(t *testing.T) {
	results := []Result{
		{URL: "https://one.example"},
		{URL: "https://two.example"},
		{URL: "https://three.example"},
	}
	urls := URLs(results)
	if len(urls) != 3 || urls[0] != "https://one.example" || urls[2] != "https://three.example" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}
