package viz

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// CytoscapeElements represents the Cytoscape.js data format.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode represents a node in Cytoscape.js format.
type CytoscapeNode struct {
	Data Node `json:"data"`
}

// CytoscapeEdge represents an edge in Cytoscape.js format.
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains the edge data fields.
type CytoscapeEdgeData struct {
	ID string `json:"id"`
	Edge
}

// ToCytoscape converts GraphData to Cytoscape.js elements.
func (g *GraphData) ToCytoscape() CytoscapeElements {
	elements := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, len(g.Nodes)),
		Edges: make([]CytoscapeEdge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		elements.Nodes = append(elements.Nodes, CytoscapeNode{Data: n})
	}
	for _, e := range g.Edges {
		elements.Edges = append(elements.Edges, CytoscapeEdge{
			Data: CytoscapeEdgeData{ID: edgeID(e.Source, e.Target), Edge: e},
		})
	}

	return elements
}

// ToCytoscapeJSON converts GraphData to Cytoscape.js JSON format.
func (g *GraphData) ToCytoscapeJSON() (string, error) {
	jsonBytes, err := json.Marshal(g.ToCytoscape())
	if err != nil {
		return "", fmt.Errorf("marshaling Cytoscape elements to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// ToCytoscapeJSON converts every frame to Cytoscape.js elements keyed by year.
func (t *Timeline) ToCytoscapeJSON() (string, error) {
	frames := make(map[string]CytoscapeElements, len(t.Frames))
	for i := range t.Frames {
		frames[strconv.Itoa(t.Frames[i].Year)] = t.Frames[i].ToCytoscape()
	}

	jsonBytes, err := json.Marshal(frames)
	if err != nil {
		return "", fmt.Errorf("marshaling timeline to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// edgeID is stable across frames because each author pair has one edge.
func edgeID(source, target string) string {
	return source + "\x1f" + target
}
