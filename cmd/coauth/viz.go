package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/coauth/internal/viz"
)

var (
	vizOutput  string
	vizLayout  string
	vizYear    int
	vizWorkers int
)

func init() {
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().StringVar(&vizLayout, "layout", "", "Layout algorithm: force, circle, or grid (default: from config)")
	vizCmd.Flags().IntVar(&vizYear, "year", 0, "Render only this threshold year instead of the full timeline")
	vizCmd.Flags().IntVar(&vizWorkers, "workers", 0, "Years computed in parallel (default: number of CPUs)")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Generate an interactive co-authorship network visualization",
	Long: `Generate an interactive HTML visualization of the co-authorship network.

By default the page holds one graph per year with a slider to move between
them. Node size grows with an author's collaboration tally; nodes and edges
fade with the time since their most recent collaboration. Hover an edge to
list the shared papers; click an author to highlight their neighborhood.

Examples:
  # Full timeline to a file
  coauth viz --output network.html

  # Only the graph as of 2012, circular layout
  coauth viz --year 2012 --layout circle > network-2012.html`,
	Args: cobra.NoArgs,
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	s := mustBuildSession(ctx)
	idx := s.mustIndex()

	layout := vizLayout
	if layout == "" {
		layout = s.cfg.Layout
	}

	var tl *viz.Timeline
	if cmd.Flags().Changed("year") {
		frame := viz.FromWindow(idx.Window(vizYear, s.windowOptions()))
		tl = &viz.Timeline{MinYear: vizYear, MaxYear: vizYear, Frames: []viz.GraphData{*frame}}
	} else {
		tl = s.mustBuildTimeline(ctx, vizWorkers)
	}

	// Generate HTML (validates options internally)
	opts := viz.DefaultOptions()
	opts.Layout = layout
	html, err := viz.GenerateHTML(tl, opts)
	if err != nil {
		exitWithError(ExitError, "generating HTML: %v", err)
	}

	if vizOutput == "" {
		fmt.Print(html)
		return nil
	}

	if err := os.WriteFile(vizOutput, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		outputHuman("Visualization written to %s (%d years)\n", vizOutput, len(tl.Frames))
		return nil
	}
	return outputJSON(VizResponse{Output: vizOutput, Frames: len(tl.Frames)})
}
