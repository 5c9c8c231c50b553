package author

import (
	"reflect"
	"testing"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Query
	}{
		{
			name:  "single word is last name",
			input: "Yu",
			want:  Query{Last: "Yu"},
		},
		{
			name:  "two words is First Last",
			input: "Timothy Yu",
			want:  Query{First: "Timothy", Last: "Yu"},
		},
		{
			name:  "three words: first two are first name",
			input: "Timothy C Yu",
			want:  Query{First: "Timothy C", Last: "Yu"},
		},
		{
			name:  "comma format: Last, First",
			input: "Yu, Timothy",
			want:  Query{First: "Timothy", Last: "Yu"},
		},
		{
			name:  "leading/trailing whitespace",
			input: "  Bloom  ",
			want:  Query{Last: "Bloom"},
		},
		{
			name:  "empty string",
			input: "",
			want:  Query{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuery(tt.input)
			if got != tt.want {
				t.Errorf("ParseQuery(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		display string
		want    Name
	}{
		{"Jesse D Bloom", Name{First: "Jesse D", Last: "Bloom"}},
		{"Bloom, Jesse", Name{First: "Jesse", Last: "Bloom"}},
		{"Plato", Name{Last: "Plato"}},
	}

	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			if got := SplitName(tt.display); got != tt.want {
				t.Errorf("SplitName(%q) = %+v, want %+v", tt.display, got, tt.want)
			}
		})
	}
}

func TestQueryMatchesName(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		display string
		want    bool
	}{
		{
			name:    "exact last name match",
			query:   Query{Last: "Yu"},
			display: "Timothy C Yu",
			want:    true,
		},
		{
			name:    "last name case insensitive",
			query:   Query{Last: "yu"},
			display: "Timothy Yu",
			want:    true,
		},
		{
			name:    "last name no partial match",
			query:   Query{Last: "Yu"},
			display: "Yujia Alina Chan",
			want:    false,
		},
		{
			name:    "first name prefix match",
			query:   Query{First: "Tim", Last: "Yu"},
			display: "Timothy C Yu",
			want:    true,
		},
		{
			name:    "first name mismatch",
			query:   Query{First: "John", Last: "Yu"},
			display: "Timothy Yu",
			want:    false,
		},
		{
			name:    "comma display name",
			query:   Query{First: "Tim", Last: "Yu"},
			display: "Yu, Timothy",
			want:    true,
		},
		{
			name:    "empty query matches nothing",
			query:   Query{},
			display: "Timothy Yu",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.query.MatchesName(tt.display)
			if got != tt.want {
				t.Errorf("Query%+v.MatchesName(%q) = %v, want %v", tt.query, tt.display, got, tt.want)
			}
		})
	}
}

func TestAllMatch(t *testing.T) {
	names := []string{"Jesse D Bloom", "Timothy C Yu"}

	tests := []struct {
		name    string
		queries []Query
		want    bool
	}{
		{
			name:    "both authors match",
			queries: []Query{{Last: "Bloom"}, {Last: "Yu"}},
			want:    true,
		},
		{
			name:    "one author missing",
			queries: []Query{{Last: "Bloom"}, {Last: "Chan"}},
			want:    false,
		},
		{
			name:    "empty queries matches all",
			queries: []Query{},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllMatch(tt.queries, names)
			if got != tt.want {
				t.Errorf("AllMatch(%+v, names) = %v, want %v", tt.queries, got, tt.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	names := []string{"Timothy G Vaughan", "Timothy C Yu", "Yujia Alina Chan", "Tom Yu"}

	got := Search(names, ParseQuery("Yu"))
	want := []string{"Timothy C Yu", "Tom Yu"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search(Yu) = %v, want %v", got, want)
	}

	got = Search(names, ParseQuery("Timothy Yu"))
	if !reflect.DeepEqual(got, []string{"Timothy C Yu"}) {
		t.Errorf("Search(Timothy Yu) = %v", got)
	}

	if got := Search(names, ParseQuery("Smith")); got != nil {
		t.Errorf("Search(Smith) = %v, want nil", got)
	}
}
