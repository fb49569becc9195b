package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jobradar/jobradar/internal/job"
)

func sample() []job.Record {
	records := []job.Record{
		{ID: "1", Title: "go dev", Company: "acme", Location: "berlin"},
		{ID: "2", Title: "data engineer", Company: "globex"},
	}
	records[0].SetSimilarity(0.87654)
	return records
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	if err := Write(sample(), FormatJSON, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got []job.Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" || !got[0].HasSimilarity() {
		t.Fatalf("unexpected roundtrip: %+v", got)
	}
	if got[1].HasSimilarity() {
		t.Fatal("unscored record must stay unscored")
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := Write(sample(), FormatCSV, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "id" || rows[0][4] != "similarity" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][4] != "0.8765" {
		t.Fatalf("similarity column = %q", rows[1][4])
	}
	if rows[2][4] != "" {
		t.Fatal("unscored record must have an empty similarity column")
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	if err := Write(nil, "xml", filepath.Join(t.TempDir(), "out.xml")); err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}
