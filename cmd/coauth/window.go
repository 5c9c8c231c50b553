package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/coauth/internal/author"
	"github.com/matsen/coauth/internal/coauthor"
)

var (
	windowYear    int
	windowAuthors []string
	windowLimit   int
)

func init() {
	windowCmd.Flags().IntVar(&windowYear, "year", 0, "Threshold year: include collaborations in or before this year")
	windowCmd.Flags().StringArrayVarP(&windowAuthors, "author", "a", nil, "Keep only edges whose pair matches every author query (repeatable)")
	windowCmd.Flags().IntVarP(&windowLimit, "limit", "n", DefaultListLimit, "Maximum edges to print with --human (0 for all)")
	windowCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(windowCmd)
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Show the co-authorship graph as of a year",
	Long: `Show the co-authorship graph restricted to collaborations in or before --year.

Each edge reports how many papers the pair shared up to the year, the titles
and years of those papers, and an opacity that fades with the time since
their most recent shared paper. Each author's tally is the sum of the counts
on their edges.

Author queries use "Last", "First Last", or "Last, First" and match
case-insensitively; first names match by prefix.

Examples:
  coauth window --year 2015
  coauth window --year 2015 --author "Yu" --human
  coauth window --year 2015 -a "Timothy Yu" -a "Chan"`,
	Args: cobra.NoArgs,
	RunE: runWindow,
}

func runWindow(cmd *cobra.Command, args []string) error {
	s := mustBuildSession(context.Background())

	view, err := s.agg.Window(windowYear, s.windowOptions())
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if len(windowAuthors) > 0 {
		queries := make([]author.Query, 0, len(windowAuthors))
		for _, a := range windowAuthors {
			q := author.ParseQuery(a)
			if q.IsEmpty() {
				exitWithError(ExitError, "empty author query")
			}
			queries = append(queries, q)
		}
		view = filterView(view, queries)
	}

	if !humanOutput {
		return outputJSON(view)
	}

	printWindowHuman(view, windowLimit)
	return nil
}

// filterView keeps the edges whose two authors satisfy every query, and the
// nodes on those edges. Node tallies keep their unfiltered values.
func filterView(view *coauthor.WindowedView, queries []author.Query) *coauthor.WindowedView {
	out := *view
	out.Edges = []coauthor.WindowedEdge{}
	out.Nodes = []coauthor.WindowedNode{}
	out.AuthorTally = map[string]int{}

	keep := map[string]bool{}
	for _, e := range view.Edges {
		if author.AllMatch(queries, []string{e.Pair.A, e.Pair.B}) {
			out.Edges = append(out.Edges, e)
			keep[e.Pair.A] = true
			keep[e.Pair.B] = true
		}
	}
	for _, n := range view.Nodes {
		if keep[n.Name] {
			out.Nodes = append(out.Nodes, n)
			out.AuthorTally[n.Name] = n.Tally
		}
	}
	return &out
}

func printWindowHuman(view *coauthor.WindowedView, limit int) {
	if view.IsEmpty() {
		outputHuman("No collaborations in or before %d (data spans %d-%d)\n", view.Year, view.MinYear, view.MaxYear)
		return
	}

	outputHuman("As of %d: %d authors, %d edges\n\n", view.Year, len(view.Nodes), len(view.Edges))
	for i, e := range view.Edges {
		if limit > 0 && i == limit {
			outputHuman("... and %d more edges\n", len(view.Edges)-limit)
			break
		}
		outputHuman("%s -- %s  [%d papers, latest %d, opacity %.2f]\n", e.Pair.A, e.Pair.B, e.Count, e.LatestYear, e.Opacity)
		for _, t := range e.Titles {
			outputHuman("    %s\n", fmt.Sprintf("%s (%d)", truncateString(t.Title, TitleMaxLen), t.Year))
		}
	}
}
