package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/querydeck/scribe/internal/app"
	"github.com/querydeck/scribe/internal/store"
)

type fakeRunner struct {
	gotQuery string
	result   app.Result
}

func (f *fakeRunner) Run(ctx context.Context, query string) (app.Result, error) {
	f.gotQuery = query
	return f.result, nil
}

func newTestServer(t *testing.T) (*Server, *store.ReportStore, *fakeRunner) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	runner := &fakeRunner{}
	return &Server{Store: s, Runner: runner}, s, runner
}

func TestIndex_ListsReportsNewestFirst(t *testing.T) {
	srv, st, _ := newTestServer(t)
	ctx := context.Background()
	if _, err := st.Save(ctx, "older query", "r1", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := st.Save(ctx, "newer query", "r2", nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := rec.Body.String()
	newer := strings.Index(body, "newer query")
	older := strings.Index(body, "older query")
	if newer == -1 || older == -1 {
		t.Fatalf("expected both queries listed")
	}
	if newer > older {
		t.Fatalf("expected newest report first")
	}
}

func TestReport_RendersContentAndSources(t *testing.T) {
	srv, st, _ := newTestServer(t)
	saved, err := st.Save(context.Background(), "diet query", "Report body text",
		[]string{"https://a.example", "https://b.example"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/report/"+itoa(saved.ID), nil)
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Report body text", "https://a.example", "https://b.example"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
}

func TestReport_UnknownIDIs404(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/999", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/not-a-number", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", rec.Code)
	}
}

func TestRun_TriggersRunnerAndRedirects(t *testing.T) {
	srv, _, runner := newTestServer(t)

	form := url.Values{"query": {"new question"}}
	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if runner.gotQuery != "new question" {
		t.Fatalf("expected runner invoked with query, got %q", runner.gotQuery)
	}
}

func TestRun_EmptyQuerySkipsRunner(t *testing.T) {
	srv, _, runner := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if runner.gotQuery != "" {
		t.Fatalf("expected runner not invoked for empty query")
	}
}

func TestReportPDF_ProducesPDFBytes(t *testing.T) {
	srv, st, _ := newTestServer(t)
	saved, err := st.Save(context.Background(), "q", "# Title\n\nBody", []string{"https://a.example"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/report/"+itoa(saved.ID)+"/pdf", nil)
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type: %q", ct)
	}
	head, _ := io.ReadAll(io.LimitReader(rec.Body, 5))
	if string(head) != "%PDF-" {
		t.Fatalf("expected pdf magic bytes, got %q", string(head))
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
