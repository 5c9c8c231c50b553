package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/coauth/internal/author"
	"github.com/matsen/coauth/internal/coauthor"
)

var authorLimit int

func init() {
	authorCmd.Flags().IntVarP(&authorLimit, "limit", "n", DefaultListLimit, "Maximum collaborators to print with --human (0 for all)")
	rootCmd.AddCommand(authorCmd)
}

var authorCmd = &cobra.Command{
	Use:   "author NAME",
	Short: "Show an author's papers, external ids, and collaborators",
	Long: `Show the full-history record for an author: every paper title they appear
on, the external id listed with each, and their co-authors ranked by the
number of shared papers.

NAME is first matched exactly against display names. If nothing matches,
it is parsed as an author query ("Last", "First Last", or "Last, First")
and the matching display names are listed instead.

Examples:
  coauth author "Timothy C Yu"
  coauth author "Yu, Tim" --human`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthor,
}

func runAuthor(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	s := mustBuildSession(context.Background())
	idx := s.mustIndex()

	if rec, ok := idx.Author(name); ok {
		resp := AuthorResponse{AuthorRecord: rec, Collaborators: idx.Collaborators(name)}
		if !humanOutput {
			return outputJSON(resp)
		}
		printAuthorHuman(resp, authorLimit)
		return nil
	}

	matches := author.Search(idx.AuthorNames(), author.ParseQuery(name))
	if len(matches) == 0 {
		exitWithError(ExitNotFound, "author not found: %s", name)
	}

	if !humanOutput {
		return outputJSON(AuthorMatchesResponse{Query: name, Matches: matches})
	}
	outputHuman("No exact match for %q. Did you mean:\n", name)
	for _, m := range matches {
		outputHuman("  %s\n", m)
	}
	return nil
}

func printAuthorHuman(resp AuthorResponse, limit int) {
	outputHuman("%s\n", resp.Name)
	outputHuman("Papers (%d):\n", len(resp.Titles))
	for i, t := range resp.Titles {
		id := resp.ExternalIDs[i]
		if id == "" {
			id = "-"
		}
		outputHuman("  %s  [%s]\n", truncateString(t, TitleMaxLen), id)
	}

	outputHuman("Collaborators (%d):\n", len(resp.Collaborators))
	printCollaborators(resp.Collaborators, limit)
}

func printCollaborators(collabs []coauthor.Collaborator, limit int) {
	for i, c := range collabs {
		if limit > 0 && i == limit {
			outputHuman("  ... and %d more\n", len(collabs)-limit)
			return
		}
		outputHuman("  %3d  %s\n", c.Count, c.Name)
	}
}
