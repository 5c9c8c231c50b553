package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matsen/coauth/internal/paper"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadJSONL reads one paper object per line, keyed by the configured column names.
//
// The year may be a number or a numeric string. The author field may be a
// JSON object, kept verbatim so its key order survives, or a string holding
// an encoded mapping. A line that is not a JSON object is a dataset error.
func ReadJSONL(r io.Reader, cols Columns) ([]paper.Row, error) {
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	var rows []paper.Row
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal(line, &obj); err != nil {
			return nil, fmt.Errorf("%w: parsing line %d: %v", ErrUnavailable, lineNum, err)
		}

		rows = append(rows, paper.Row{
			Num:     len(rows) + 1,
			Title:   jsonString(obj[cols.Title]),
			Year:    jsonYear(obj[cols.Year]),
			Authors: jsonAuthors(obj[cols.Authors]),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading JSONL: %v", ErrUnavailable, err)
	}

	return rows, nil
}

// jsonString returns a string value, or the raw text for non-string values.
func jsonString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func jsonYear(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return parseYear(jsonString(raw))
}

func jsonAuthors(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '"' {
		s := jsonString(raw)
		return authorCell(s)
	}
	s := string(raw)
	return &s
}
