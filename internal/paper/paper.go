// Package paper defines the core domain types for paper rows and records.
package paper

// Row is one raw dataset row as loaded from a source, before any validation.
type Row struct {
	Num     int     // 1-based data row number (header excluded)
	Title   string  // Paper title
	Year    *int    // Publication year, nil if missing or not an integer
	Authors *string // Encoded name->id mapping, nil if null or missing
}

// Record is a validated paper: title, year, and its ordered author list.
type Record struct {
	Row     int      `json:"row"`
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Authors []Author `json:"authors"`
}

// NewRow builds a Row with a known year and author field.
func NewRow(num int, title string, year int, authors string) Row {
	return Row{Num: num, Title: title, Year: &year, Authors: &authors}
}

// AuthorNames returns the record's author display names in source order.
func (r Record) AuthorNames() []string {
	names := make([]string, len(r.Authors))
	for i, a := range r.Authors {
		names[i] = a.Name
	}
	return names
}
