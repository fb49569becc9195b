package job

import "testing"

func TestCleanDropsNoiseFields(t *testing.T) {
	items := []map[string]any{
		{"id": "1", "title": "Go Dev", "job_url": "https://x", "company_rating": 4.2},
	}

	cleaned := Clean(items)

	if len(cleaned) != 1 {
		t.Fatalf("expected 1 row, got %d", len(cleaned))
	}
	if _, ok := cleaned[0]["job_url"]; ok {
		t.Fatal("job_url not dropped")
	}
	if _, ok := cleaned[0]["company_rating"]; ok {
		t.Fatal("company_rating not dropped")
	}
	if cleaned[0]["id"] != "1" {
		t.Fatal("id must survive cleaning")
	}
}

func TestCleanLowercasesAndStrips(t *testing.T) {
	items := []map[string]any{
		{"id": "1", "title": "Señor Gö-Developer (Remote!)"},
	}

	cleaned := Clean(items)

	if got := cleaned[0]["title"]; got != "seor gdeveloper remote" {
		t.Fatalf("unexpected normalized title: %q", got)
	}
}

func TestCleanRemovesExactDuplicates(t *testing.T) {
	items := []map[string]any{
		{"id": "1", "title": "a"},
		{"id": "1", "title": "a"},
		{"id": "1", "title": "b"},
	}

	cleaned := Clean(items)

	if len(cleaned) != 2 {
		t.Fatalf("expected 2 rows after dedupe, got %d", len(cleaned))
	}
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	items := []map[string]any{
		{"id": "1", "title": "Go Dev", "job_url": "https://x"},
	}

	Clean(items)

	if items[0]["title"] != "Go Dev" {
		t.Fatal("input row mutated")
	}
	if _, ok := items[0]["job_url"]; !ok {
		t.Fatal("input row lost a field")
	}
}

func TestDecodeBuildsTypedRecords(t *testing.T) {
	items := []map[string]any{
		{"id": "1", "title": "go dev", "company": "acme", "location": "berlin", "unknown_field": "x"},
	}

	records, err := Decode(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.ID != "1" || r.Title != "go dev" || r.Company != "acme" || r.Location != "berlin" {
		t.Fatalf("unexpected record: %+v", r)
	}
	if r.HasEmbedding() || r.HasSimilarity() {
		t.Fatalf("fresh record must not carry enrichment: %+v", r)
	}
}
