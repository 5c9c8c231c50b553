package main

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Build the co-authorship graph and report what went into it",
	Long: `Build the full-history co-authorship graph and report row, paper, author,
and edge counts, the year range, and every row that was skipped.

Rows are skipped when the year is missing or not an integer, or when the
author field is missing or cannot be parsed as a name-to-id mapping.

Examples:
  coauth summary
  coauth summary --dataset papers.jsonl --human`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	s := mustBuildSession(context.Background())

	if !humanOutput {
		return outputJSON(SummaryResponse{Dataset: s.cfg.Dataset, BuildReport: s.report})
	}

	r := s.report
	outputHuman("Dataset:  %s\n", s.cfg.Dataset)
	outputHuman("Rows:     %d\n", r.Rows)
	outputHuman("Papers:   %d\n", r.Papers)
	outputHuman("Authors:  %d\n", r.Authors)
	outputHuman("Edges:    %d\n", r.Edges)
	outputHuman("Years:    %d-%d\n", r.MinYear, r.MaxYear)
	outputHuman("Skipped:  %d\n", len(r.Skipped))

	for i, sk := range r.Skipped {
		if i == SkippedPreviewRows {
			outputHuman("  ... and %d more\n", len(r.Skipped)-SkippedPreviewRows)
			break
		}
		outputHuman("  row %d [%s] %s\n", sk.Row, sk.Reason, truncateString(sk.Title, TitleMaxLen))
	}
	return nil
}
