package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matsen/coauth/internal/paper"
)

// ReadCSV reads rows from a CSV stream with a header line.
// Columns are matched by header name; rows with too few cells get empty values.
func ReadCSV(r io.Reader, cols Columns) ([]paper.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading CSV header: %v", ErrUnavailable, err)
	}

	titleIdx, yearIdx, authorsIdx, err := headerIndexes(header, cols)
	if err != nil {
		return nil, err
	}

	var rows []paper.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading CSV row %d: %v", ErrUnavailable, len(rows)+1, err)
		}

		rows = append(rows, paper.Row{
			Num:     len(rows) + 1,
			Title:   cell(rec, titleIdx),
			Year:    parseYear(cell(rec, yearIdx)),
			Authors: authorCell(cell(rec, authorsIdx)),
		})
	}

	return rows, nil
}

// headerIndexes locates the configured columns in a CSV header.
func headerIndexes(header []string, cols Columns) (title, year, authors int, err error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	find := func(name string) (int, error) {
		i, ok := pos[name]
		if !ok {
			return -1, fmt.Errorf("%w: %q (header: %s)", ErrMissingColumn, name, strings.Join(header, ", "))
		}
		return i, nil
	}

	if title, err = find(cols.Title); err != nil {
		return
	}
	if year, err = find(cols.Year); err != nil {
		return
	}
	authors, err = find(cols.Authors)
	return
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
