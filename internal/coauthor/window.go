package coauthor

import (
	"sort"

	"github.com/matsen/coauth/internal/extract"
)

// DefaultBaseNodeSize is the node size of an author with no windowed collaborations.
const DefaultBaseNodeSize = 10.0

// WindowOptions configures the visual weights computed for a windowed view.
type WindowOptions struct {
	BaseNodeSize float64
}

// DefaultWindowOptions returns the default window options.
func DefaultWindowOptions() WindowOptions {
	return WindowOptions{BaseNodeSize: DefaultBaseNodeSize}
}

// WindowedEdge is an edge restricted to collaborations at or before the threshold.
type WindowedEdge struct {
	Pair         extract.Pair `json:"pair"`
	Count        int          `json:"count"`
	Titles       []TitleYear  `json:"titles"`
	Years        []int        `json:"years"`
	Participants []string     `json:"participants"`
	LatestYear   int          `json:"latest_year"`
	Opacity      float64      `json:"opacity"`
}

// WindowedNode is an author present in a windowed view.
type WindowedNode struct {
	Name       string  `json:"name"`
	Tally      int     `json:"tally"`
	Size       float64 `json:"size"`
	LatestYear int     `json:"latest_year"`
	Opacity    float64 `json:"opacity"`
}

// WindowedView is the subgraph induced by a threshold year.
// It is derived data: recomputed per query and never written back.
type WindowedView struct {
	Year        int            `json:"year"`
	MinYear     int            `json:"min_year"`
	MaxYear     int            `json:"max_year"`
	Edges       []WindowedEdge `json:"edges"`
	Nodes       []WindowedNode `json:"nodes"`
	AuthorTally map[string]int `json:"author_tally"`
}

// IsEmpty returns true if no edge qualifies for the threshold.
func (v *WindowedView) IsEmpty() bool {
	return len(v.Edges) == 0
}

// Edge returns the windowed edge for (a, b) in either order.
func (v *WindowedView) Edge(a, b string) (WindowedEdge, bool) {
	p := extract.NewPair(a, b)
	i := sort.Search(len(v.Edges), func(i int) bool { return !v.Edges[i].Pair.Less(p) })
	if i < len(v.Edges) && v.Edges[i].Pair == p {
		return v.Edges[i], true
	}
	return WindowedEdge{}, false
}

// Window projects the index onto the threshold year.
//
// An edge is included only if at least one of its collaborations happened in
// or before year; its count, titles, and years are then restricted to those.
// The author tally sums windowed counts over each author's incident edges.
// Opacity falls linearly with the distance between year and the most recent
// qualifying collaboration, in steps of 1/(year-min+1), clamped to [0, 1].
func (idx *Index) Window(year int, opts WindowOptions) *WindowedView {
	view := &WindowedView{
		Year:        year,
		MinYear:     idx.minYear,
		MaxYear:     idx.maxYear,
		Edges:       []WindowedEdge{},
		Nodes:       []WindowedNode{},
		AuthorTally: map[string]int{},
	}
	if year < idx.minYear {
		return view
	}

	// float64 keeps year-min+1 from overflowing for extreme thresholds.
	step := 1.0 / (float64(year) - float64(idx.minYear) + 1)
	latest := make(map[string]int)

	for _, p := range idx.pairs {
		e := idx.edges[p]

		ys := e.sortedYears
		n := sort.Search(len(ys), func(i int) bool { return ys[i] > year })
		if n == 0 {
			continue
		}
		recent := e.sortedYears[n-1]

		we := WindowedEdge{
			Pair:         p,
			Count:        n,
			Titles:       make([]TitleYear, 0, n),
			Years:        make([]int, 0, n),
			Participants: append([]string(nil), e.Participants...),
			LatestYear:   recent,
			Opacity:      opacity(year, recent, step),
		}
		for _, ty := range e.Titles {
			if ty.Year <= year {
				we.Titles = append(we.Titles, ty)
				we.Years = append(we.Years, ty.Year)
			}
		}
		view.Edges = append(view.Edges, we)

		for _, name := range [2]string{p.A, p.B} {
			view.AuthorTally[name] += n
			if prev, seen := latest[name]; !seen || recent > prev {
				latest[name] = recent
			}
		}
	}

	names := make([]string, 0, len(view.AuthorTally))
	for name := range view.AuthorTally {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tally := view.AuthorTally[name]
		view.Nodes = append(view.Nodes, WindowedNode{
			Name:       name,
			Tally:      tally,
			Size:       opts.BaseNodeSize + float64(tally),
			LatestYear: latest[name],
			Opacity:    opacity(year, latest[name], step),
		})
	}

	return view
}

// opacity maps the gap between the threshold and the most recent year to [0, 1].
func opacity(year, recent int, step float64) float64 {
	return clamp01(1 - (float64(year)-float64(recent))*step)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
