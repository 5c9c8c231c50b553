package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"golang.org/x/time/rate"
)

func testFetcher(hc *http.Client) *Fetcher {
	return NewFetcher(WithHTTPClient(hc), WithRateLimit(rate.Inf, 1), WithMaxAttempts(3))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		location string
		explicit string
		want     string
		wantErr  bool
	}{
		{location: "papers.csv", want: FormatCSV},
		{location: "papers.JSONL", want: FormatJSONL},
		{location: "papers.ndjson", want: FormatJSONL},
		{location: "/data/papers.sqlite3", want: FormatSQLite},
		{location: "papers.db", want: FormatSQLite},
		{location: "papers", want: FormatCSV},
		{location: "https://example.org/data/papers.jsonl?raw=1", want: FormatJSONL},
		{location: "papers.csv", explicit: "jsonl", want: FormatJSONL},
		{location: "papers.csv", explicit: "xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.location+"/"+tt.explicit, func(t *testing.T) {
			got, err := DetectFormat(tt.location, tt.explicit)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("DetectFormat() error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("DetectFormat(%q, %q) = %q, %v; want %q", tt.location, tt.explicit, got, err, tt.want)
			}
		})
	}
}

func TestLoader_LocalFiles(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "papers.csv")
	if err := os.WriteFile(csvPath, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("writing csv: %v", err)
	}

	l := NewLoader(nil, nil)
	rows, err := l.Load(context.Background(), Source{Location: csvPath})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rows) != 4 {
		t.Errorf("got %d rows, want 4", len(rows))
	}

	dbPath := filepath.Join(dir, "papers.db")
	if err := WriteSQLite(context.Background(), dbPath, "", DefaultColumns(), rows); err != nil {
		t.Fatalf("WriteSQLite() error = %v", err)
	}
	fromDB, err := l.Load(context.Background(), Source{Location: dbPath})
	if err != nil {
		t.Fatalf("Load(sqlite) error = %v", err)
	}
	if len(fromDB) != len(rows) {
		t.Errorf("sqlite rows = %d, want %d", len(fromDB), len(rows))
	}
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	headerOnly := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(headerOnly, []byte("Title,Year,Full Authors\n"), 0644); err != nil {
		t.Fatalf("writing csv: %v", err)
	}

	l := NewLoader(nil, nil)
	tests := []struct {
		name    string
		src     Source
		wantErr error
	}{
		{name: "no location", src: Source{}, wantErr: ErrUnavailable},
		{name: "missing file", src: Source{Location: filepath.Join(dir, "nope.csv")}, wantErr: ErrUnavailable},
		{name: "header only", src: Source{Location: headerOnly}, wantErr: ErrEmpty},
		{name: "remote sqlite", src: Source{Location: "https://example.org/papers.db"}, wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Load(context.Background(), tt.src)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoader_Remote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/papers.csv" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	l := NewLoader(testFetcher(server.Client()), nil)

	rows, err := l.Load(context.Background(), Source{Location: server.URL + "/papers.csv"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rows) != 4 {
		t.Errorf("got %d rows, want 4", len(rows))
	}

	_, err = l.Load(context.Background(), Source{Location: server.URL + "/missing.csv"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Load(404) error = %v, want ErrUnavailable", err)
	}
}

func TestFetcher_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	body, err := testFetcher(server.Client()).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}
	if calls.Load() != 3 {
		t.Errorf("server called %d times, want 3", calls.Load())
	}
}

func TestFetcher_GivesUp(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
	}{
		{name: "not found is not retried", status: http.StatusNotFound, wantCalls: 1},
		{name: "rate limited is retried", status: http.StatusTooManyRequests, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := testFetcher(server.Client()).Fetch(context.Background(), server.URL)

			var httpErr *HTTPError
			if !errors.As(err, &httpErr) || httpErr.StatusCode != tt.status {
				t.Errorf("Fetch() error = %v, want HTTPError %d", err, tt.status)
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("server called %d times, want %d", calls.Load(), tt.wantCalls)
			}
		})
	}
}

func TestFetcher_RejectsOversizedBody(t *testing.T) {
	body := sampleCSV + strings.Repeat("9,Padding,2020,\"{'P': '1', 'Q': '2'}\"\n", 50)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	tests := []struct {
		name     string
		maxBytes int64
		wantErr  bool
	}{
		{name: "body under limit", maxBytes: int64(len(body)) + 1, wantErr: false},
		{name: "body exactly at limit", maxBytes: int64(len(body)), wantErr: false},
		{name: "body over limit", maxBytes: int64(len(sampleCSV)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFetcher(WithHTTPClient(server.Client()), WithRateLimit(rate.Inf, 1), WithMaxBytes(tt.maxBytes))
			rows, err := NewLoader(f, nil).Load(context.Background(), Source{Location: server.URL + "/papers.csv"})
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Load() error = %v", err)
				}
				if len(rows) != 54 {
					t.Errorf("got %d rows, want 54", len(rows))
				}
				return
			}

			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("Load() error = %v, want ErrUnavailable", err)
			}
			var sizeErr *SizeError
			if !errors.As(err, &sizeErr) || sizeErr.Limit != tt.maxBytes {
				t.Errorf("Load() error = %v, want SizeError with limit %d", err, tt.maxBytes)
			}
		})
	}
}

func TestFetcher_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(WithRateLimit(rate.Limit(0.001), 0))
	if _, err := f.Fetch(ctx, "http://127.0.0.1:1/"); err == nil {
		t.Error("Fetch() with canceled context should fail")
	}
}
