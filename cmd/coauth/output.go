package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/coauth/internal/coauthor"
)

// Constants for output formatting.
const (
	TitleMaxLen        = 70 // Titles in edge and author listings
	DefaultListLimit   = 20 // Default number of edges or collaborators printed in human mode
	SkippedPreviewRows = 10 // Skipped rows listed by summary --human
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SummaryResponse is the response for the summary command.
type SummaryResponse struct {
	Dataset string `json:"dataset"`
	*coauthor.BuildReport
}

// AuthorResponse is the response for an exact author lookup.
type AuthorResponse struct {
	coauthor.AuthorRecord
	Collaborators []coauthor.Collaborator `json:"collaborators"`
}

// AuthorMatchesResponse is returned when a lookup falls back to name search.
type AuthorMatchesResponse struct {
	Query   string   `json:"query"`
	Matches []string `json:"matches"`
}

// YearStats counts what a single threshold year shows.
type YearStats struct {
	Year    int `json:"year"`
	Edges   int `json:"edges"`
	Authors int `json:"authors"`
	Weight  int `json:"weight"`
}

// YearsResponse is the response for the years command.
type YearsResponse struct {
	MinYear int         `json:"min_year"`
	MaxYear int         `json:"max_year"`
	Years   []YearStats `json:"years"`
}

// VizResponse reports where a visualization was written.
type VizResponse struct {
	Output string `json:"output"`
	Frames int    `json:"frames"`
}

// SnapshotResponse reports a written SQLite snapshot.
type SnapshotResponse struct {
	Output string `json:"output"`
	Table  string `json:"table"`
	Rows   int    `json:"rows"`
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Path   string      `json:"path"`
	Exists bool        `json:"exists"`
	Config interface{} `json:"config"`
}

// truncateString truncates a string to maxLen characters, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
