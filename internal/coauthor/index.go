// Package coauthor aggregates paper author lists into a co-authorship graph
// and projects it onto year windows.
package coauthor

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/matsen/coauth/internal/extract"
	"github.com/matsen/coauth/internal/logging"
	"github.com/matsen/coauth/internal/paper"
)

// TitleYear is one collaboration occurrence on an edge.
type TitleYear struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// EdgeRecord is the full-history collaboration record for one author pair.
// Titles and Years are parallel and in dataset row order.
type EdgeRecord struct {
	Pair         extract.Pair `json:"pair"`
	Count        int          `json:"count"`
	Titles       []TitleYear  `json:"titles"`
	Years        []int        `json:"years"`
	Participants []string     `json:"participants"`

	sortedYears []int
}

// AuthorRecord holds every title and external id seen for one display name.
// Titles and ExternalIDs are positional: entry i came from the same paper.
type AuthorRecord struct {
	Name        string   `json:"name"`
	Titles      []string `json:"titles"`
	ExternalIDs []string `json:"external_ids"`
}

// Collaborator is a co-author of some author with their full-history edge count.
type Collaborator struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SkippedRow records a row that contributed nothing to the index.
type SkippedRow struct {
	Row    int    `json:"row"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// BuildReport summarizes a full-history fold.
type BuildReport struct {
	Rows    int          `json:"rows"`
	Papers  int          `json:"papers"`
	Authors int          `json:"authors"`
	Edges   int          `json:"edges"`
	MinYear int          `json:"min_year"`
	MaxYear int          `json:"max_year"`
	Skipped []SkippedRow `json:"skipped"`
}

// Index is the immutable full-history edge and author index.
// It is safe for concurrent reads; accessors return copies.
type Index struct {
	edges       map[extract.Pair]*EdgeRecord
	pairs       []extract.Pair
	authors     map[string]*AuthorRecord
	authorNames []string
	minYear     int
	maxYear     int
}

// BuildIndex folds all rows into a new Index in a single pass.
//
// Rows with an invalid year or unusable author field are skipped, logged, and
// listed in the report. The year range spans every row with a valid year.
// Returns ErrDatasetEmpty if rows is empty or no row carries a valid year.
// A nil logger discards output.
func BuildIndex(rows []paper.Row, log *logrus.Logger) (*Index, *BuildReport, error) {
	if len(rows) == 0 {
		return nil, nil, ErrDatasetEmpty
	}
	if log == nil {
		log = logging.Discard()
	}

	idx := &Index{
		edges:   make(map[extract.Pair]*EdgeRecord),
		authors: make(map[string]*AuthorRecord),
	}
	report := &BuildReport{Rows: len(rows), Skipped: []SkippedRow{}}
	haveYear := false

	for _, row := range rows {
		if row.Year != nil {
			idx.observeYear(*row.Year, !haveYear)
			haveYear = true
		}

		rec, pairs, err := extract.FromRow(row)
		if err != nil {
			skip := SkippedRow{
				Row:    row.Num,
				Title:  row.Title,
				Reason: extract.Reason(err),
				Detail: err.Error(),
			}
			report.Skipped = append(report.Skipped, skip)
			log.WithFields(logrus.Fields{
				"row":    skip.Row,
				"title":  skip.Title,
				"reason": skip.Reason,
			}).Warn("skipping row")
			continue
		}

		report.Papers++
		idx.addRecord(rec, pairs)
	}

	if !haveYear {
		return nil, nil, fmt.Errorf("%w: no row has a valid year", ErrDatasetEmpty)
	}

	idx.freeze()

	report.Authors = len(idx.authorNames)
	report.Edges = len(idx.pairs)
	report.MinYear = idx.minYear
	report.MaxYear = idx.maxYear

	log.WithFields(logrus.Fields{
		"rows":    report.Rows,
		"papers":  report.Papers,
		"skipped": len(report.Skipped),
		"edges":   report.Edges,
		"authors": report.Authors,
	}).Debug("built collaboration index")

	return idx, report, nil
}

// observeYear widens the index year range.
func (idx *Index) observeYear(year int, first bool) {
	if first || year < idx.minYear {
		idx.minYear = year
	}
	if first || year > idx.maxYear {
		idx.maxYear = year
	}
}

// addRecord folds one validated paper into the edge and author maps.
func (idx *Index) addRecord(rec paper.Record, pairs []extract.Pair) {
	for _, p := range pairs {
		e := idx.upsertEdge(p)
		e.Count++
		e.Titles = append(e.Titles, TitleYear{Title: rec.Title, Year: rec.Year})
		e.Years = append(e.Years, rec.Year)
	}

	for _, a := range rec.Authors {
		ar := idx.upsertAuthor(a.Name)
		ar.Titles = append(ar.Titles, rec.Title)
		ar.ExternalIDs = append(ar.ExternalIDs, a.ID)
	}
}

// upsertEdge returns the edge for p, inserting a zero record if absent.
func (idx *Index) upsertEdge(p extract.Pair) *EdgeRecord {
	if e, ok := idx.edges[p]; ok {
		return e
	}
	e := &EdgeRecord{Pair: p, Participants: []string{p.A, p.B}}
	idx.edges[p] = e
	return e
}

// upsertAuthor returns the author record for name, inserting an empty one if absent.
func (idx *Index) upsertAuthor(name string) *AuthorRecord {
	if a, ok := idx.authors[name]; ok {
		return a
	}
	a := &AuthorRecord{Name: name}
	idx.authors[name] = a
	return a
}

// freeze computes sorted key lists and per-edge sorted years.
// Nothing mutates the index afterwards.
func (idx *Index) freeze() {
	idx.pairs = make([]extract.Pair, 0, len(idx.edges))
	for p, e := range idx.edges {
		idx.pairs = append(idx.pairs, p)
		e.sortedYears = append([]int(nil), e.Years...)
		sort.Ints(e.sortedYears)
	}
	sort.Slice(idx.pairs, func(i, j int) bool { return idx.pairs[i].Less(idx.pairs[j]) })

	idx.authorNames = make([]string, 0, len(idx.authors))
	for name := range idx.authors {
		idx.authorNames = append(idx.authorNames, name)
	}
	sort.Strings(idx.authorNames)
}

// MinYear returns the earliest valid publication year in the dataset.
func (idx *Index) MinYear() int { return idx.minYear }

// MaxYear returns the latest valid publication year in the dataset.
func (idx *Index) MaxYear() int { return idx.maxYear }

// EdgeCount returns the number of distinct co-authorship pairs.
func (idx *Index) EdgeCount() int { return len(idx.pairs) }

// Edge returns the full-history record for the pair (a, b) in either order.
func (idx *Index) Edge(a, b string) (EdgeRecord, bool) {
	e, ok := idx.edges[extract.NewPair(a, b)]
	if !ok {
		return EdgeRecord{}, false
	}
	return e.clone(), true
}

// Edges returns all full-history edge records ordered by pair.
func (idx *Index) Edges() []EdgeRecord {
	out := make([]EdgeRecord, 0, len(idx.pairs))
	for _, p := range idx.pairs {
		out = append(out, idx.edges[p].clone())
	}
	return out
}

// Author returns the record for an exact display name.
func (idx *Index) Author(name string) (AuthorRecord, bool) {
	a, ok := idx.authors[name]
	if !ok {
		return AuthorRecord{}, false
	}
	return AuthorRecord{
		Name:        a.Name,
		Titles:      append([]string(nil), a.Titles...),
		ExternalIDs: append([]string(nil), a.ExternalIDs...),
	}, true
}

// AuthorNames returns all author display names, sorted.
func (idx *Index) AuthorNames() []string {
	return append([]string(nil), idx.authorNames...)
}

// Collaborators returns the co-authors of name over the full history,
// ordered by descending count, then name.
func (idx *Index) Collaborators(name string) []Collaborator {
	out := []Collaborator{}
	for _, p := range idx.pairs {
		if p.Has(name) {
			out = append(out, Collaborator{Name: p.Other(name), Count: idx.edges[p].Count})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (e *EdgeRecord) clone() EdgeRecord {
	return EdgeRecord{
		Pair:         e.Pair,
		Count:        e.Count,
		Titles:       append([]TitleYear(nil), e.Titles...),
		Years:        append([]int(nil), e.Years...),
		Participants: append([]string(nil), e.Participants...),
		sortedYears:  e.sortedYears,
	}
}
