// Package author provides author name parsing and matching for lookups.
package author

import (
	"sort"
	"strings"
)

// Name is a display name split into first and last parts.
type Name struct {
	First string // Given name(s), may be empty
	Last  string // Family name
}

// Query represents a parsed author search query.
type Query struct {
	First string // First name (may be empty for last-name-only queries)
	Last  string // Last name (required)
}

// SplitName splits a display name the same way a query is parsed:
// "Last, First" when a comma is present, otherwise the last word is the
// family name.
func SplitName(display string) Name {
	q := ParseQuery(display)
	return Name{First: q.First, Last: q.Last}
}

// ParseQuery parses an author search string into a structured Query.
//
// Supported formats:
//   - "Yu"           → last="Yu" (single word = last name only)
//   - "Timothy Yu"   → first="Timothy", last="Yu" (space-separated = First Last)
//   - "Yu, Timothy"  → first="Timothy", last="Yu" (comma = Last, First)
//
// Names are trimmed but case is preserved (matching is case-insensitive).
func ParseQuery(input string) Query {
	input = strings.TrimSpace(input)
	if input == "" {
		return Query{}
	}

	if idx := strings.Index(input, ","); idx > 0 {
		last := strings.TrimSpace(input[:idx])
		first := strings.TrimSpace(input[idx+1:])
		return Query{First: first, Last: last}
	}

	parts := strings.Fields(input)
	if len(parts) == 1 {
		return Query{Last: parts[0]}
	}

	// "Timothy C Yu" → first="Timothy C", last="Yu"
	last := parts[len(parts)-1]
	first := strings.Join(parts[:len(parts)-1], " ")
	return Query{First: first, Last: last}
}

// IsEmpty reports whether the query has nothing to match on.
func (q Query) IsEmpty() bool {
	return q.Last == ""
}

// Matches checks if the query matches a split name.
//
// Matching rules:
//   - Last name: case-insensitive exact match (required)
//   - First name: case-insensitive prefix match (if query has first name)
//
// This lets "Tim Yu" match "Timothy C Yu" while "Yu" does not match "Yujia Chan".
func (q Query) Matches(n Name) bool {
	if q.IsEmpty() || !strings.EqualFold(q.Last, n.Last) {
		return false
	}
	if q.First == "" {
		return true
	}
	return strings.HasPrefix(
		strings.ToLower(n.First),
		strings.ToLower(q.First),
	)
}

// MatchesName checks the query against an unsplit display name.
func (q Query) MatchesName(display string) bool {
	return q.Matches(SplitName(display))
}

// MatchesAny checks if the query matches any of the display names.
func (q Query) MatchesAny(names []string) bool {
	for _, n := range names {
		if q.MatchesName(n) {
			return true
		}
	}
	return false
}

// AllMatch checks if all queries match at least one name each.
// This implements AND logic for multiple author filters.
func AllMatch(queries []Query, names []string) bool {
	for _, q := range queries {
		if !q.MatchesAny(names) {
			return false
		}
	}
	return true
}

// Search returns the display names matching q, sorted.
func Search(names []string, q Query) []string {
	var out []string
	for _, n := range names {
		if q.MatchesName(n) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
