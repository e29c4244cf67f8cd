package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/querydeck/scribe/internal/app"
	"github.com/querydeck/scribe/internal/store"
)

// Runner triggers one research pass; satisfied by *app.App.
type Runner interface {
	Run(ctx context.Context, query string) (app.Result, error)
}

// Server renders the report history: a recency-ordered list, individual
// reports, a form to start a new run, and a PDF download per report.
type Server struct {
	Store  *store.ReportStore
	Runner Runner
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /report/{id}", s.handleReport)
	mux.HandleFunc("GET /report/{id}/pdf", s.handleReportPDF)
	mux.HandleFunc("POST /run", s.handleRun)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	reports, err := s.Store.ListRecent(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list reports")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, indexTemplate, reports)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.lookupReport(w, r)
	if !ok {
		return
	}
	render(w, reportTemplate, rep)
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.lookupReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("report-%d.pdf", rep.ID)))
	if err := writeReportPDF(w, rep); err != nil {
		log.Error().Err(err).Int64("id", rep.ID).Msg("render pdf")
	}
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	query := r.FormValue("query")
	if query != "" {
		// Synchronous by design: the run completes before the redirect, so
		// the refreshed index already shows the new report.
		if _, err := s.Runner.Run(r.Context(), query); err != nil {
			log.Error().Err(err).Str("query", query).Msg("run failed")
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) lookupReport(w http.ResponseWriter, r *http.Request) (store.Report, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return store.Report{}, false
	}
	rep, err := s.Store.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return store.Report{}, false
	}
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("get report")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return store.Report{}, false
	}
	return rep, true
}

func render(w http.ResponseWriter, t *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, data); err != nil {
		log.Error().Err(err).Str("template", t.Name()).Msg("render template")
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><title>Research Reports</title></head>
<body>
<h1>Research Reports</h1>
<form method="post" action="/run">
  <input type="text" name="query" placeholder="Research question" size="60">
  <button type="submit">Run</button>
</form>
{{if .}}
<ul>
{{range .}}
  <li>
    <a href="/report/{{.ID}}">{{.Query}}</a>
    <small>{{.Timestamp.Format "2006-01-02 15:04"}}</small>
  </li>
{{end}}
</ul>
{{else}}
<p>No reports yet.</p>
{{end}}
</body>
</html>
`))

var reportTemplate = template.Must(template.New("report").Parse(`<!doctype html>
<html>
<head><title>{{.Query}}</title></head>
<body>
<p><a href="/">&larr; All reports</a> &middot; <a href="/report/{{.ID}}/pdf">Download PDF</a></p>
<h1>{{.Query}}</h1>
<p><small>{{.Timestamp.Format "2006-01-02 15:04"}}</small></p>
<pre>{{.ReportContent}}</pre>
<h2>Sources</h2>
<ul>
{{range .Sources}}
  <li><a href="{{.}}">{{.}}</a></li>
{{end}}
</ul>
</body>
</html>
`))
