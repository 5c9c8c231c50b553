// Package extract turns one paper row into the author pairs it contributes.
package extract

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matsen/coauth/internal/paper"
)

// Pair is an unordered pair of distinct author names, stored with A < B.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewPair returns the canonical pair for two names regardless of argument order.
func NewPair(x, y string) Pair {
	if y < x {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// Has reports whether name is one of the pair's endpoints.
func (p Pair) Has(name string) bool {
	return p.A == name || p.B == name
}

// Other returns the endpoint that is not name.
func (p Pair) Other(name string) string {
	if p.A == name {
		return p.B
	}
	return p.A
}

// String formats the pair as "A -- B".
func (p Pair) String() string {
	return p.A + " -- " + p.B
}

// Less orders pairs by A, then B.
func (p Pair) Less(o Pair) bool {
	if p.A != o.A {
		return p.A < o.A
	}
	return p.B < o.B
}

// nullLiterals are author cell values treated as an absent field.
var nullLiterals = map[string]bool{
	"":     true,
	"null": true,
	"none": true,
	"nan":  true,
	"~":    true,
}

// DecodeAuthors decodes an author field into an ordered name->id list.
//
// Supported encodings are JSON objects and Python-literal dicts such as
// {'Jane Doe': '5001', "O'Brien": 7}. Both are YAML flow mappings, so the
// field is parsed as a YAML node to keep the source key order.
// A name listed twice keeps its first position and its last id.
func DecodeAuthors(raw string) ([]paper.Author, error) {
	trimmed := strings.TrimSpace(raw)
	if nullLiterals[strings.ToLower(trimmed)] {
		return nil, ErrMissingAuthors
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(singleQuotedToYAML(trimmed)), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAuthors, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedAuthors)
	}

	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping, got %s", ErrMalformedAuthors, kindName(m.Kind))
	}

	authors := make([]paper.Author, 0, len(m.Content)/2)
	position := make(map[string]int, len(m.Content)/2)

	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: author name at line %d is not a string", ErrMalformedAuthors, k.Line)
		}
		name := strings.TrimSpace(k.Value)
		if name == "" {
			return nil, fmt.Errorf("%w: empty author name", ErrMalformedAuthors)
		}
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: id for %q is not a scalar", ErrMalformedAuthors, name)
		}

		id := v.Value
		if v.Tag == "!!null" || v.Value == "None" {
			id = ""
		}

		if idx, seen := position[name]; seen {
			authors[idx].ID = id
			continue
		}
		position[name] = len(authors)
		authors = append(authors, paper.Author{Name: name, ID: id})
	}

	return authors, nil
}

// singleQuotedToYAML rewrites backslash escapes inside single-quoted strings,
// as Python's repr writes them ('O\'Brien "Jr"'), into YAML single-quoted
// form ('O''Brien "Jr"'). Double-quoted strings already share YAML's escapes
// and are copied unchanged.
func singleQuotedToYAML(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote == 0:
			if c == '\'' || c == '"' {
				quote = c
			}
			b.WriteByte(c)
		case c == '\\' && i+1 < len(s):
			next := s[i+1]
			i++
			switch {
			case quote == '"':
				b.WriteByte(c)
				b.WriteByte(next)
			case next == '\'':
				b.WriteString("''")
			case next == '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(c)
				b.WriteByte(next)
			}
		case c == quote:
			quote = 0
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Pairs returns every 2-combination of the author list in (i, j), i < j order.
// A list with fewer than two authors yields no pairs.
func Pairs(authors []paper.Author) []Pair {
	k := len(authors)
	if k < 2 {
		return nil
	}

	pairs := make([]Pair, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			pairs = append(pairs, NewPair(authors[i].Name, authors[j].Name))
		}
	}
	return pairs
}

// FromRow validates a raw row and returns its record and author pairs.
// Errors wrap ErrInvalidYear, ErrMissingAuthors, or ErrMalformedAuthors;
// the row then contributes nothing.
func FromRow(row paper.Row) (paper.Record, []Pair, error) {
	if row.Year == nil {
		return paper.Record{}, nil, fmt.Errorf("row %d: %w", row.Num, ErrInvalidYear)
	}
	if row.Authors == nil {
		return paper.Record{}, nil, fmt.Errorf("row %d: %w", row.Num, ErrMissingAuthors)
	}

	authors, err := DecodeAuthors(*row.Authors)
	if err != nil {
		return paper.Record{}, nil, fmt.Errorf("row %d: %w", row.Num, err)
	}

	rec := paper.Record{
		Row:     row.Num,
		Title:   row.Title,
		Year:    *row.Year,
		Authors: authors,
	}
	return rec, Pairs(authors), nil
}

// kindName returns a readable name for a YAML node kind.
func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "document"
	}
}
