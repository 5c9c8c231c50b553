package dataset

import (
	"errors"
	"strings"
	"testing"
)

func TestReadJSONL(t *testing.T) {
	data := strings.Join([]string{
		`{"Title": "A", "Year": 2020, "Full Authors": {"X": "1", "Y": "2"}}`,
		``,
		`{"Title": "B", "Year": "2021", "Full Authors": "{'X': '1', 'Z': '3'}"}`,
		`{"Title": "C", "Year": null, "Full Authors": null}`,
		`{"Title": "D", "Year": 2019.0}`,
	}, "\n")

	rows, err := ReadJSONL(strings.NewReader(data), DefaultColumns())
	if err != nil {
		t.Fatalf("ReadJSONL() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	if rows[0].Num != 1 || rows[0].Title != "A" || *rows[0].Year != 2020 {
		t.Errorf("row 1 = %+v", rows[0])
	}
	if rows[0].Authors == nil || *rows[0].Authors != `{"X": "1", "Y": "2"}` {
		t.Errorf("row 1 authors should be the verbatim object, got %v", rows[0].Authors)
	}
	if rows[1].Num != 2 || *rows[1].Year != 2021 || *rows[1].Authors != "{'X': '1', 'Z': '3'}" {
		t.Errorf("row 2 = %+v", rows[1])
	}
	if rows[2].Year != nil || rows[2].Authors != nil {
		t.Errorf("row 3 should have nil year and authors: %+v", rows[2])
	}
	if rows[3].Year == nil || *rows[3].Year != 2019 || rows[3].Authors != nil {
		t.Errorf("row 4 = %+v", rows[3])
	}
}

func TestReadJSONL_InvalidLine(t *testing.T) {
	data := "{\"Title\": \"A\", \"Year\": 2020}\nnot json\n"

	_, err := ReadJSONL(strings.NewReader(data), DefaultColumns())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ReadJSONL() error = %v, want ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name line 2: %v", err)
	}
}
