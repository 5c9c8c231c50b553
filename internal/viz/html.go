package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout string // "force", "circle", or "grid"
	Title  string

	// InitialYear selects the frame shown on load. Zero means the last frame.
	InitialYear int
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Layout: "force",
		Title:  "Co-authorship network",
	}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid"}

// GenerateHTML generates a self-contained HTML page with a year slider over
// the timeline's frames.
func GenerateHTML(tl *Timeline, opts HTMLOptions) (string, error) {
	if tl == nil {
		return "", fmt.Errorf("timeline cannot be nil")
	}
	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}

	if tl.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	initial := opts.InitialYear
	if initial == 0 {
		initial = tl.MaxYear
	}
	if initial < tl.MinYear || initial > tl.MaxYear {
		return "", fmt.Errorf("initial year %d outside %d-%d", initial, tl.MinYear, tl.MaxYear)
	}

	framesJSON, err := tl.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	title := opts.Title
	if title == "" {
		title = DefaultOptions().Title
	}

	data := templateData{
		Title:       title,
		FramesJSON:  template.JS(framesJSON),
		Layout:      layoutToCytoscape(opts.Layout),
		MinYear:     tl.MinYear,
		MaxYear:     tl.MaxYear,
		InitialYear: initial,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering template: %w", err)
	}

	return buf.String(), nil
}

func validateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, or grid", layout)
	}
}

type templateData struct {
	Title       string
	FramesJSON  template.JS
	Layout      string
	MinYear     int
	MaxYear     int
	InitialYear int
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	default:
		return "cose"
	}
}

// generateEmptyHTML returns HTML for a dataset with no co-authorships.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Co-authorship network - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h1 {
      font-size: 24px;
      margin-bottom: 8px;
    }
    .empty-state p {
      font-size: 14px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h1>No co-authorships to display</h1>
    <p>No paper in the dataset lists more than one author.</p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      overflow: hidden;
    }
    #cy {
      width: 100vw;
      height: calc(100vh - 56px);
      position: absolute;
      top: 56px;
      left: 0;
    }
    #controls {
      position: absolute;
      top: 0;
      left: 0;
      right: 0;
      height: 56px;
      display: flex;
      align-items: center;
      gap: 12px;
      padding: 0 16px;
      background: #fafafa;
      border-bottom: 1px solid #ddd;
      font-size: 14px;
    }
    #year-slider {
      flex: 1;
    }
    #year-label {
      font-weight: 600;
      min-width: 48px;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      max-width: 420px;
      font-size: 13px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      z-index: 1000;
      pointer-events: none;
      white-space: pre-wrap;
    }
    #tooltip .name {
      font-weight: 600;
      margin-bottom: 4px;
    }
    #tooltip .meta {
      color: #666;
      font-size: 12px;
    }
  </style>
</head>
<body>
  <div id="controls">
    <span>{{.MinYear}}</span>
    <input id="year-slider" type="range" min="{{.MinYear}}" max="{{.MaxYear}}" step="1" value="{{.InitialYear}}">
    <span>{{.MaxYear}}</span>
    <span id="year-label">{{.InitialYear}}</span>
  </div>
  <div id="cy"></div>
  <div id="tooltip"></div>
  <script>
    var frames = {{.FramesJSON}};
    var layoutName = {{.Layout}};
    var selectedId = null;

    var cy = cytoscape({
      container: document.getElementById('cy'),
      elements: [],
      style: [
        {
          selector: 'node',
          style: {
            'label': 'data(label)',
            'width': 'data(size)',
            'height': 'data(size)',
            'opacity': 'data(opacity)',
            'background-color': '#4A90D9',
            'font-size': '8px',
            'text-valign': 'bottom',
            'text-margin-y': 4
          }
        },
        {
          selector: 'edge',
          style: {
            'width': 'mapData(weight, 1, 10, 1, 6)',
            'opacity': 'data(opacity)',
            'line-color': '#888',
            'curve-style': 'bezier'
          }
        },
        {
          selector: '.faded',
          style: {
            'opacity': 0.08
          }
        },
        {
          selector: 'node.selected',
          style: {
            'border-width': 3,
            'border-color': '#D94A4A'
          }
        }
      ]
    });

    function escapeHtml(text) {
      var div = document.createElement('div');
      div.textContent = text;
      return div.innerHTML;
    }

    function applySelection() {
      cy.elements().removeClass('faded selected');
      if (selectedId === null) {
        return;
      }
      var node = cy.getElementById(selectedId);
      if (node.empty()) {
        selectedId = null;
        return;
      }
      var hood = node.closedNeighborhood();
      cy.elements().not(hood).addClass('faded');
      node.addClass('selected');
    }

    function showYear(year) {
      var frame = frames[String(year)];
      document.getElementById('year-label').textContent = year;
      cy.batch(function() {
        cy.elements().remove();
        if (frame) {
          cy.add(frame.nodes.map(function(n) { return { group: 'nodes', data: n.data }; }));
          cy.add(frame.edges.map(function(e) { return { group: 'edges', data: e.data }; }));
        }
      });
      cy.layout({ name: layoutName, animate: false }).run();
      applySelection();
    }

    var tooltip = document.getElementById('tooltip');

    cy.on('mouseover', 'node', function(evt) {
      var d = evt.target.data();
      tooltip.innerHTML = '<div class="name">' + escapeHtml(d.label) + '</div>' +
        '<div class="meta">' + d.tally + ' co-authorships, latest ' + d.latestYear + '</div>';
      tooltip.style.display = 'block';
    });

    cy.on('mouseover', 'edge', function(evt) {
      var d = evt.target.data();
      tooltip.innerHTML = '<div class="name">' + escapeHtml(d.source) + ' &ndash; ' + escapeHtml(d.target) + '</div>' +
        '<div class="meta">' + d.weight + ' shared papers</div>' +
        '<div>' + escapeHtml(d.display) + '</div>';
      tooltip.style.display = 'block';
    });

    cy.on('mouseout', 'node, edge', function() {
      tooltip.style.display = 'none';
    });

    cy.on('mousemove', function(evt) {
      var pos = evt.renderedPosition || { x: 0, y: 0 };
      tooltip.style.left = (pos.x + 15) + 'px';
      tooltip.style.top = (pos.y + 71) + 'px';
    });

    cy.on('tap', 'node', function(evt) {
      var id = evt.target.id();
      selectedId = (selectedId === id) ? null : id;
      applySelection();
    });

    cy.on('tap', function(evt) {
      if (evt.target === cy) {
        selectedId = null;
        applySelection();
      }
    });

    document.getElementById('year-slider').addEventListener('input', function(evt) {
      showYear(parseInt(evt.target.value, 10));
    });

    showYear({{.InitialYear}});
  </script>
</body>
</html>`
