// Package viz turns windowed co-authorship views into renderable graphs.
package viz

// GraphData contains all data needed to render one threshold year.
type GraphData struct {
	Year  int    `json:"year"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents an author in the graph.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Sizing and recency
	Size       float64 `json:"size"`
	Tally      int     `json:"tally"`
	LatestYear int     `json:"latestYear"`
	Opacity    float64 `json:"opacity"`
}

// Edge represents a co-authorship between two authors.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`

	// Weight is the number of shared papers in the window.
	Weight     int     `json:"weight"`
	LatestYear int     `json:"latestYear"`
	Opacity    float64 `json:"opacity"`

	// Display lists the shared papers, one "Title (Year)" per line.
	Display string `json:"display"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// Timeline holds one graph per threshold year from MinYear to MaxYear.
type Timeline struct {
	MinYear int         `json:"minYear"`
	MaxYear int         `json:"maxYear"`
	Frames  []GraphData `json:"frames"`
}

// IsEmpty returns true if every frame is empty.
func (t *Timeline) IsEmpty() bool {
	for i := range t.Frames {
		if !t.Frames[i].IsEmpty() {
			return false
		}
	}
	return true
}

// Frame returns the graph for year, if it is in range.
func (t *Timeline) Frame(year int) (*GraphData, bool) {
	i := year - t.MinYear
	if i < 0 || i >= len(t.Frames) {
		return nil, false
	}
	return &t.Frames[i], true
}
