package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matsen/coauth/internal/viz"
)

func init() {
	rootCmd.AddCommand(yearsCmd)
}

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Show how the graph grows year by year",
	Long: `For every threshold year in the dataset's range, report how many edges and
authors the graph has and the total collaboration weight on its edges.

Examples:
  coauth years
  coauth years --human`,
	Args: cobra.NoArgs,
	RunE: runYears,
}

func runYears(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	s := mustBuildSession(ctx)

	resp := yearStats(s.mustBuildTimeline(ctx, 0))
	if !humanOutput {
		return outputJSON(resp)
	}

	outputHuman("%6s %8s %8s %8s\n", "year", "edges", "authors", "weight")
	for _, y := range resp.Years {
		outputHuman("%6d %8d %8d %8d\n", y.Year, y.Edges, y.Authors, y.Weight)
	}
	return nil
}

// yearStats summarizes each frame of the timeline.
func yearStats(tl *viz.Timeline) YearsResponse {
	resp := YearsResponse{
		MinYear: tl.MinYear,
		MaxYear: tl.MaxYear,
		Years:   make([]YearStats, 0, len(tl.Frames)),
	}
	for _, f := range tl.Frames {
		st := YearStats{Year: f.Year, Edges: len(f.Edges), Authors: len(f.Nodes)}
		for _, e := range f.Edges {
			st.Weight += e.Weight
		}
		resp.Years = append(resp.Years, st)
	}
	return resp
}
