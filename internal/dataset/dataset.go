// Package dataset loads paper rows from CSV, JSONL, SQLite, or HTTP sources.
package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/matsen/coauth/internal/logging"
	"github.com/matsen/coauth/internal/paper"
)

// Supported formats.
const (
	FormatCSV    = "csv"
	FormatJSONL  = "jsonl"
	FormatSQLite = "sqlite"
)

// Common errors returned by loaders.
var (
	// ErrUnavailable indicates the source could not be opened, fetched, or read.
	ErrUnavailable = errors.New("dataset unavailable")

	// ErrEmpty indicates the source holds no data rows.
	ErrEmpty = errors.New("dataset has no rows")

	// ErrUnsupportedFormat indicates the format is unknown or cannot be used for this location.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")

	// ErrMissingColumn indicates a configured column is not present in the source.
	ErrMissingColumn = errors.New("column not found")
)

// Columns names the source columns (or JSON keys) for each paper field.
type Columns struct {
	Title   string
	Year    string
	Authors string
}

// DefaultColumns returns the column names of the original co-authorship CSV.
func DefaultColumns() Columns {
	return Columns{Title: "Title", Year: "Year", Authors: "Full Authors"}
}

// Source describes where and how to load a dataset.
type Source struct {
	Location string  // File path or http(s) URL
	Format   string  // csv, jsonl, sqlite; empty = detect from extension
	Columns  Columns // Zero value means DefaultColumns
	Table    string  // SQLite table; empty means "papers"
}

// Loader reads datasets. The zero value is not usable; call NewLoader.
type Loader struct {
	fetcher *Fetcher
	log     *logrus.Logger
}

// NewLoader creates a loader that fetches remote sources through f.
// A nil fetcher uses NewFetcher defaults; a nil logger discards output.
func NewLoader(f *Fetcher, log *logrus.Logger) *Loader {
	if log == nil {
		log = logging.Discard()
	}
	if f == nil {
		f = NewFetcher(WithLogger(log))
	}
	return &Loader{fetcher: f, log: log}
}

// Load reads every row from the source in source order.
// Returns an error wrapping ErrUnavailable, ErrUnsupportedFormat, or ErrEmpty.
func (l *Loader) Load(ctx context.Context, src Source) ([]paper.Row, error) {
	if src.Columns == (Columns{}) {
		src.Columns = DefaultColumns()
	}
	if src.Location == "" {
		return nil, fmt.Errorf("%w: no location given", ErrUnavailable)
	}

	format, err := DetectFormat(src.Location, src.Format)
	if err != nil {
		return nil, err
	}

	var rows []paper.Row
	if IsRemote(src.Location) {
		rows, err = l.loadRemote(ctx, src, format)
	} else {
		rows, err = l.loadFile(ctx, src, format)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, src.Location)
	}

	l.log.WithFields(logrus.Fields{
		"source": src.Location,
		"format": format,
		"rows":   len(rows),
	}).Debug("loaded dataset")
	return rows, nil
}

func (l *Loader) loadRemote(ctx context.Context, src Source, format string) ([]paper.Row, error) {
	if format == FormatSQLite {
		return nil, fmt.Errorf("%w: sqlite sources must be local files", ErrUnsupportedFormat)
	}

	body, err := l.fetcher.Fetch(ctx, src.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if format == FormatJSONL {
		return ReadJSONL(bytes.NewReader(body), src.Columns)
	}
	return ReadCSV(bytes.NewReader(body), src.Columns)
}

func (l *Loader) loadFile(ctx context.Context, src Source, format string) ([]paper.Row, error) {
	if format == FormatSQLite {
		return ReadSQLite(ctx, src.Location, src.Table, src.Columns)
	}

	f, err := os.Open(src.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer f.Close()

	if format == FormatJSONL {
		return ReadJSONL(f, src.Columns)
	}
	return ReadCSV(f, src.Columns)
}

// IsRemote reports whether location is an http or https URL.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// DetectFormat returns the explicit format if set, otherwise infers it from
// the location's extension. Unknown extensions default to CSV.
func DetectFormat(location, explicit string) (string, error) {
	switch explicit {
	case FormatCSV, FormatJSONL, FormatSQLite:
		return explicit, nil
	case "":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, explicit)
	}

	p := location
	if IsRemote(location) {
		if u, err := url.Parse(location); err == nil {
			p = path.Clean(u.Path)
		}
	}

	switch strings.ToLower(filepath.Ext(p)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return FormatCSV, nil
	}
}

// parseYear reads a year cell such as "2020", " 2020 ", or "2020.0".
// Returns nil for anything that is not a finite integer.
func parseYear(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if y, err := strconv.Atoi(s); err == nil {
		if y > math.MaxInt32 || y < math.MinInt32 {
			return nil
		}
		return &y
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	y := int(f)
	return &y
}

// authorCell returns nil for an empty cell, otherwise the raw text.
func authorCell(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
