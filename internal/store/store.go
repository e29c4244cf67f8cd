package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// sourceSeparator joins the consulted URL list into a single column. The
// round-trip breaks for a URL that itself contains the separator; this
// matches the persisted format the history view consumes and is a known
// defect rather than a contract.
const sourceSeparator = ", "

// timeFormat is fixed-width so that lexical comparison in SQL matches
// chronological order; RFC3339Nano trims trailing fractional zeros, which
// makes "…00Z" sort after "…00.5Z" under ORDER BY.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when no report exists for the requested id.
var ErrNotFound = errors.New("report not found")

// Report is the only persisted entity: one research run that produced a
// non-empty summary. Reports are immutable once saved and never deleted.
type Report struct {
	ID            int64
	Query         string
	ReportContent string
	Sources       []string
	Timestamp     time.Time
}

// ReportStore is append-only SQLite persistence for reports.
//
// SQLite only supports one writer, so the pool is pinned to a single
// connection; multi-process writers are left to SQLite's own locking.
type ReportStore struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS reports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    query TEXT NOT NULL,
    report_content TEXT NOT NULL,
    sources TEXT NOT NULL,
    timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON reports(timestamp);
`

// Open opens or creates the report database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*ReportStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &ReportStore{db: db, path: path}, nil
}

func (s *ReportStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *ReportStore) Path() string {
	return s.path
}

// Save appends a new report. The timestamp is assigned here, once, and the
// source list is recorded in the order given regardless of whether each URL
// was successfully read.
func (s *ReportStore) Save(ctx context.Context, query, reportContent string, sources []string) (Report, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO reports (query, report_content, sources, timestamp) VALUES (?, ?, ?, ?)",
		query, reportContent, strings.Join(sources, sourceSeparator), now.Format(timeFormat),
	)
	if err != nil {
		return Report{}, fmt.Errorf("insert report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Report{}, fmt.Errorf("report id: %w", err)
	}
	return Report{
		ID:            id,
		Query:         query,
		ReportContent: reportContent,
		Sources:       append([]string(nil), sources...),
		Timestamp:     now,
	}, nil
}

// GetByID retrieves a single report, or ErrNotFound.
func (s *ReportStore) GetByID(ctx context.Context, id int64) (Report, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, query, report_content, sources, timestamp FROM reports WHERE id = ?", id)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	if err != nil {
		return Report{}, fmt.Errorf("get report %d: %w", id, err)
	}
	return r, nil
}

// ListRecent returns all reports in descending timestamp order.
func (s *ReportStore) ListRecent(ctx context.Context) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, query, report_content, sources, timestamp FROM reports ORDER BY timestamp DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (Report, error) {
	var r Report
	var sources, ts string
	if err := row.Scan(&r.ID, &r.Query, &r.ReportContent, &sources, &ts); err != nil {
		return Report{}, err
	}
	r.Sources = SplitSources(sources)
	parsed, err := time.Parse(timeFormat, ts)
	if err != nil {
		return Report{}, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	r.Timestamp = parsed
	return r, nil
}

// SplitSources reverses the join applied at save time.
func SplitSources(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sourceSeparator)
}
