package extract

import (
	"errors"
	"reflect"
	"testing"

	"github.com/matsen/coauth/internal/paper"
)

func TestDecodeAuthors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []paper.Author
		wantErr error
	}{
		{
			name: "python literal keeps insertion order",
			raw:  "{'Zed Zhou': '9', 'Ann Abel': '1', 'Mo Ma': '5'}",
			want: []paper.Author{
				{Name: "Zed Zhou", ID: "9"},
				{Name: "Ann Abel", ID: "1"},
				{Name: "Mo Ma", ID: "5"},
			},
		},
		{
			name: "json object",
			raw:  `{"X": "1", "Y": "2"}`,
			want: []paper.Author{{Name: "X", ID: "1"}, {Name: "Y", ID: "2"}},
		},
		{
			name: "double-quoted name with apostrophe and numeric id",
			raw:  `{"Sean O'Brien": 42}`,
			want: []paper.Author{{Name: "Sean O'Brien", ID: "42"}},
		},
		{
			name: "python repr escapes a quote when both kinds appear",
			raw:  `{'Sean O\'Brien "Jr"': '7', 'Ann Abel': '1'}`,
			want: []paper.Author{{Name: `Sean O'Brien "Jr"`, ID: "7"}, {Name: "Ann Abel", ID: "1"}},
		},
		{
			name: "python repr escaped backslash",
			raw:  `{'Lab C:\\X': '1', 'Y': '2'}`,
			want: []paper.Author{{Name: `Lab C:\X`, ID: "1"}, {Name: "Y", ID: "2"}},
		},
		{
			name: "json escapes are left to the decoder",
			raw:  `{"A \"Q\" B": "1", "it's": "2"}`,
			want: []paper.Author{{Name: `A "Q" B`, ID: "1"}, {Name: "it's", ID: "2"}},
		},
		{
			name: "None id becomes empty",
			raw:  "{'X': None}",
			want: []paper.Author{{Name: "X", ID: ""}},
		},
		{
			name: "duplicate name keeps first position and last id",
			raw:  "{'X': '1', 'Y': '2', 'X': '3'}",
			want: []paper.Author{{Name: "X", ID: "3"}, {Name: "Y", ID: "2"}},
		},
		{
			name: "empty mapping is valid with no authors",
			raw:  "{}",
			want: []paper.Author{},
		},
		{name: "blank", raw: "   ", wantErr: ErrMissingAuthors},
		{name: "pandas nan", raw: "NaN", wantErr: ErrMissingAuthors},
		{name: "python None", raw: "None", wantErr: ErrMissingAuthors},
		{name: "list is not a mapping", raw: "['X', 'Y']", wantErr: ErrMalformedAuthors},
		{name: "plain string", raw: "X and Y", wantErr: ErrMalformedAuthors},
		{name: "unbalanced braces", raw: "{'X': '1'", wantErr: ErrMalformedAuthors},
		{name: "nested value", raw: "{'X': {'id': 1}}", wantErr: ErrMalformedAuthors},
		{name: "empty name", raw: "{'': '1'}", wantErr: ErrMalformedAuthors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAuthors(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeAuthors(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeAuthors(%q) unexpected error: %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeAuthors(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPairs_Count(t *testing.T) {
	for k := 0; k <= 7; k++ {
		authors := make([]paper.Author, k)
		for i := range authors {
			authors[i] = paper.Author{Name: string(rune('A' + i)), ID: "id"}
		}

		got := len(Pairs(authors))
		want := k * (k - 1) / 2
		if got != want {
			t.Errorf("k=%d: got %d pairs, want %d", k, got, want)
		}
	}
}

func TestPairs_OrderAndCanonicalKeys(t *testing.T) {
	authors := []paper.Author{{Name: "Z"}, {Name: "A"}, {Name: "M"}}

	got := Pairs(authors)
	want := []Pair{
		{A: "A", B: "Z"}, // (0,1)
		{A: "M", B: "Z"}, // (0,2)
		{A: "A", B: "M"}, // (1,2)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Pairs() = %v, want %v", got, want)
	}
}

func TestNewPair_Canonical(t *testing.T) {
	if NewPair("X", "Y") != NewPair("Y", "X") {
		t.Error("NewPair should not depend on argument order")
	}
	p := NewPair("Y", "X")
	if p.A != "X" || p.B != "Y" {
		t.Errorf("NewPair(Y, X) = %+v, want A=X B=Y", p)
	}
	if p.Other("X") != "Y" || p.Other("Y") != "X" {
		t.Errorf("Other() returned wrong endpoint for %v", p)
	}
	if !p.Has("X") || p.Has("Z") {
		t.Errorf("Has() wrong for %v", p)
	}
}

func TestFromRow(t *testing.T) {
	t.Run("valid row", func(t *testing.T) {
		rec, pairs, err := FromRow(paper.NewRow(3, "A", 2020, "{'X': '1', 'Y': '2'}"))
		if err != nil {
			t.Fatalf("FromRow() error = %v", err)
		}
		if rec.Row != 3 || rec.Title != "A" || rec.Year != 2020 {
			t.Errorf("FromRow() record = %+v", rec)
		}
		if len(pairs) != 1 || pairs[0] != (Pair{A: "X", B: "Y"}) {
			t.Errorf("FromRow() pairs = %v", pairs)
		}
	})

	t.Run("single author yields no pairs and no error", func(t *testing.T) {
		rec, pairs, err := FromRow(paper.NewRow(1, "Solo", 2021, "{'X': '1'}"))
		if err != nil {
			t.Fatalf("FromRow() error = %v", err)
		}
		if len(rec.Authors) != 1 || len(pairs) != 0 {
			t.Errorf("got %d authors and %d pairs, want 1 and 0", len(rec.Authors), len(pairs))
		}
	})

	t.Run("null authors", func(t *testing.T) {
		year := 2020
		_, pairs, err := FromRow(paper.Row{Num: 2, Title: "B", Year: &year})
		if !errors.Is(err, ErrMissingAuthors) || !IsMalformed(err) {
			t.Errorf("FromRow() error = %v, want ErrMissingAuthors", err)
		}
		if pairs != nil {
			t.Errorf("FromRow() pairs = %v, want nil", pairs)
		}
	})

	t.Run("malformed authors", func(t *testing.T) {
		_, _, err := FromRow(paper.NewRow(4, "C", 2020, "not a dict"))
		if !IsMalformed(err) {
			t.Errorf("FromRow() error = %v, want malformed", err)
		}
		if Reason(err) != "malformed_authors" {
			t.Errorf("Reason() = %q", Reason(err))
		}
	})

	t.Run("missing year", func(t *testing.T) {
		authors := "{'X': '1', 'Y': '2'}"
		_, _, err := FromRow(paper.Row{Num: 5, Title: "D", Authors: &authors})
		if !errors.Is(err, ErrInvalidYear) {
			t.Errorf("FromRow() error = %v, want ErrInvalidYear", err)
		}
		if IsMalformed(err) {
			t.Error("invalid year should not be classified as malformed authors")
		}
	})
}
