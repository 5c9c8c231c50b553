package viz

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matsen/coauth/internal/coauthor"
)

// FromWindow converts a windowed view into renderable graph data.
func FromWindow(view *coauthor.WindowedView) *GraphData {
	g := &GraphData{
		Year:  view.Year,
		Nodes: make([]Node, 0, len(view.Nodes)),
		Edges: make([]Edge, 0, len(view.Edges)),
	}

	for _, n := range view.Nodes {
		g.Nodes = append(g.Nodes, Node{
			ID:         n.Name,
			Label:      n.Name,
			Size:       n.Size,
			Tally:      n.Tally,
			LatestYear: n.LatestYear,
			Opacity:    n.Opacity,
		})
	}

	for _, e := range view.Edges {
		g.Edges = append(g.Edges, Edge{
			Source:     e.Pair.A,
			Target:     e.Pair.B,
			Weight:     e.Count,
			LatestYear: e.LatestYear,
			Opacity:    e.Opacity,
			Display:    displayTitles(e.Titles),
		})
	}

	return g
}

// MaxTimelineYears bounds how many frames a timeline may hold.
const MaxTimelineYears = 1000

// ErrYearSpan indicates the dataset's year range is too wide for a timeline.
var ErrYearSpan = errors.New("year range too wide for a timeline")

// BuildTimeline computes one frame per year of the index's range.
// Frames are computed concurrently; the index is only read.
// workers <= 0 uses GOMAXPROCS.
// Returns ErrYearSpan if the range covers more than MaxTimelineYears years.
func BuildTimeline(ctx context.Context, idx *coauthor.Index, opts coauthor.WindowOptions, workers int) (*Timeline, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Compared in float64 so extreme years cannot overflow.
	span := float64(idx.MaxYear()) - float64(idx.MinYear()) + 1
	if span > MaxTimelineYears {
		return nil, fmt.Errorf("%w: %d-%d spans more than %d years",
			ErrYearSpan, idx.MinYear(), idx.MaxYear(), MaxTimelineYears)
	}

	tl := &Timeline{
		MinYear: idx.MinYear(),
		MaxYear: idx.MaxYear(),
		Frames:  make([]GraphData, int(span)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range tl.Frames {
		year := tl.MinYear + i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tl.Frames[i] = *FromWindow(idx.Window(year, opts))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building timeline: %w", err)
	}
	return tl, nil
}

// displayTitles formats shared papers one per line.
func displayTitles(titles []coauthor.TitleYear) string {
	lines := make([]string, len(titles))
	for i, t := range titles {
		lines[i] = fmt.Sprintf("%s (%d)", t.Title, t.Year)
	}
	return strings.Join(lines, "\n")
}
